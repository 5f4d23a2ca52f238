package controllers

import (
	"mitra/backend/config"
	"mitra/backend/middleware"
	"mitra/backend/models"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Svc *services.Registry
	Cfg *config.Config
}

func NewAuthController(svc *services.Registry, cfg *config.Config) *AuthController {
	return &AuthController{Svc: svc, Cfg: cfg}
}

type signInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// SignIn godoc
// @Summary Sign in
// @Description Starts a demo session. The password is not checked.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body signInInput true "Credentials"
// @Success 200 {object} sessionResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/signin [post]
func (ac *AuthController) SignIn(c *fiber.Ctx) error {
	var input signInInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	user, err := ac.Svc.Identity().SignIn(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return respondError(c, err)
	}
	return ac.session(c, fiber.StatusOK, user)
}

// SignUp godoc
// @Summary Sign up
// @Description Creates a demo account and starts a session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body signUpInput true "Account data"
// @Success 201 {object} sessionResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /auth/signup [post]
func (ac *AuthController) SignUp(c *fiber.Ctx) error {
	var input signUpInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	user, err := ac.Svc.Identity().SignUp(c.UserContext(), input.Name, input.Email, input.Password)
	if err != nil {
		return respondError(c, err)
	}
	return ac.session(c, fiber.StatusCreated, user)
}

// SignOut godoc
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/signout [post]
func (ac *AuthController) SignOut(c *fiber.Ctx) error {
	if err := ac.Svc.Identity().SignOut(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return utils.Message(c, fiber.StatusOK, "Signed out")
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (ac *AuthController) Me(c *fiber.Ctx) error {
	user, err := ac.Svc.Identity().CurrentUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return utils.Unauthorized(c, "Signed out")
	}
	return utils.OK(c, user)
}

func (ac *AuthController) session(c *fiber.Ctx, status int, user models.User) error {
	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	return utils.Success(c, status, sessionResponse{Token: token, User: user})
}
