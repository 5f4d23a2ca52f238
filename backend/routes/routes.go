package routes

import (
	"mitra/backend/config"
	"mitra/backend/controllers"
	"mitra/backend/middleware"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// NewApp builds the fiber app with middleware and every route.
func NewApp(svc *services.Registry, cfg *config.Config, logger *zap.SugaredLogger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "mitra",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if ferr, ok := err.(*fiber.Error); ok {
				code = ferr.Code
			}
			return utils.Error(c, code, err)
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: middleware.RequestIDHeader + ", " + middleware.DegradedHeader,
	}))
	app.Use(middleware.LoggingMiddleware(logger))
	app.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	app.Use(middleware.DegradedStorage(svc.Degraded))

	SetupRoutes(app, svc, cfg)
	return app
}

func SetupRoutes(app *fiber.App, svc *services.Registry, cfg *config.Config) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return utils.OK(c, fiber.Map{"status": "ok", "storageDegraded": svc.Degraded()})
	})

	api := app.Group("/api")

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg, svc.Identity())

	// Auth routes
	authController := controllers.NewAuthController(svc, cfg)
	api.Post("/auth/signin", authController.SignIn)
	api.Post("/auth/signup", authController.SignUp)
	api.Post("/auth/signout", authMiddleware, authController.SignOut)
	api.Get("/auth/me", authMiddleware, authController.Me)

	// Mood routes
	moodController := controllers.NewMoodController(svc, cfg)
	mood := api.Group("/mood", authMiddleware)
	mood.Get("/today", moodController.Today)
	mood.Delete("/today", moodController.Reset)
	mood.Get("/history", moodController.History)
	mood.Post("/", moodController.Record)

	// Journal routes
	journalController := controllers.NewJournalController(svc, cfg)
	journal := api.Group("/journal", authMiddleware)
	journal.Get("/", journalController.List)
	journal.Post("/", journalController.Create)

	// Task routes
	tasksController := controllers.NewTasksController(svc, cfg)
	tasks := api.Group("/tasks", authMiddleware)
	tasks.Get("/", tasksController.List)
	tasks.Post("/", tasksController.Create)
	tasks.Post("/:id/toggle", tasksController.Toggle)
	tasks.Delete("/:id", tasksController.Delete)

	// Community routes
	communityController := controllers.NewCommunityController(svc, cfg)
	api.Get("/community/categories", communityController.Categories)
	community := api.Group("/community/posts", authMiddleware)
	community.Get("/", communityController.Posts)
	community.Post("/", communityController.CreatePost)
	community.Post("/:id/vote", communityController.Vote)

	// Progress routes
	progressController := controllers.NewProgressController(svc, cfg)
	api.Get("/progress", authMiddleware, progressController.GetProgress)

	// Overview routes
	overviewController := controllers.NewOverviewController(svc, cfg)
	api.Get("/overview", authMiddleware, overviewController.GetUserOverview)

	// Chat routes
	chatController := controllers.NewChatController(svc, cfg)
	chat := api.Group("/chat", authMiddleware)
	chat.Get("/:persona", chatController.Transcript)
	chat.Post("/:persona", chatController.Send)
	chat.Delete("/:persona", chatController.Clear)
	chat.Post("/:persona/actions/:action", chatController.Action)

	// Institution routes
	institutionController := controllers.NewInstitutionController(svc, cfg)
	api.Get("/institutions", institutionController.List)
	institution := api.Group("/institution", authMiddleware)
	institution.Get("/", institutionController.Access)
	institution.Post("/", institutionController.Grant)
	institution.Delete("/", institutionController.Revoke)
	institution.Post("/verify", institutionController.Verify)

	// Volunteer routes
	volunteerController := controllers.NewVolunteerController(svc, cfg)
	volunteers := api.Group("/volunteers/applications", authMiddleware)
	volunteers.Get("/", volunteerController.List)
	volunteers.Post("/", volunteerController.Apply)

	// Preference routes
	preferencesController := controllers.NewPreferencesController(svc, cfg)
	preferences := api.Group("/preferences", authMiddleware)
	preferences.Get("/", preferencesController.Get)
	preferences.Put("/", preferencesController.Update)
}
