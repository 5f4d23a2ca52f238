package controllers

import (
	"context"
	"sort"

	"mitra/backend/config"
	"mitra/backend/models"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	overviewActiveTasks     = 3
	overviewRecentEntries   = 3
	overviewRecommendations = 2
)

type OverviewController struct {
	Svc *services.Registry
	Cfg *config.Config
}

func NewOverviewController(svc *services.Registry, cfg *config.Config) *OverviewController {
	return &OverviewController{Svc: svc, Cfg: cfg}
}

type userOverview struct {
	Stats           models.ProgressStats  `json:"stats"`
	TodaysMood      *models.MoodEntry     `json:"todaysMood"`
	ActiveTasks     []models.TaskView     `json:"activeTasks"`
	RecentEntries   []models.JournalEntry `json:"recentEntries"`
	Recommendations []models.PostView     `json:"recommendations"`
}

// GetUserOverview godoc
// @Summary Home dashboard
// @Description Progress, today's mood, the next pending tasks, recent journal entries and top community posts
// @Tags overview
// @Produce json
// @Success 200 {object} userOverview
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /overview [get]
func (oc *OverviewController) GetUserOverview(c *fiber.Ctx) error {
	var out userOverview
	err := withProfile(c, oc.Svc, func(ctx context.Context, p *services.Profile) error {
		overview, err := p.Ledger.Overview(ctx)
		if err != nil {
			return err
		}
		out.Stats = overview.Stats

		if out.TodaysMood, err = p.Mood.TodaysMood(ctx); err != nil {
			return err
		}
		if out.ActiveTasks, err = activeTasks(ctx, p); err != nil {
			return err
		}

		entries, err := p.Journal.ListEntries(ctx, "")
		if err != nil {
			return err
		}
		out.RecentEntries = entries[:min(len(entries), overviewRecentEntries)]

		posts, err := p.Community.Posts("all")
		if err != nil {
			return err
		}
		out.Recommendations = recommendedPosts(posts)
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, out)
}

// activeTasks returns pending planner tasks, overdue first, then by due date.
func activeTasks(ctx context.Context, p *services.Profile) ([]models.TaskView, error) {
	store, err := p.Tasks(ctx, services.PlannerTasks.Variant)
	if err != nil {
		return nil, err
	}
	views, err := store.Views(ctx, services.FilterPending)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Overdue != views[j].Overdue {
			return views[i].Overdue
		}
		if (views[i].DueDate == "") != (views[j].DueDate == "") {
			return views[j].DueDate == ""
		}
		return views[i].DueDate < views[j].DueDate
	})
	return views[:min(len(views), overviewActiveTasks)], nil
}

// recommendedPosts picks the highest scored posts marked helpful.
func recommendedPosts(posts []models.PostView) []models.PostView {
	helpful := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		if p.Helpful {
			helpful = append(helpful, p)
		}
	}
	sort.SliceStable(helpful, func(i, j int) bool { return helpful[i].Score > helpful[j].Score })
	return helpful[:min(len(helpful), overviewRecommendations)]
}
