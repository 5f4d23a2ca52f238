package controllers

import (
	"context"

	"mitra/backend/config"
	"mitra/backend/models"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type MoodController struct {
	Svc *services.Registry
	Cfg *config.Config
}

func NewMoodController(svc *services.Registry, cfg *config.Config) *MoodController {
	return &MoodController{Svc: svc, Cfg: cfg}
}

type moodInput struct {
	Value *int `json:"value"`
}

type moodResponse struct {
	Mood   models.MoodEntry `json:"mood"`
	Reward *models.Reward   `json:"reward,omitempty"`
}

// Today godoc
// @Summary Today's mood
// @Tags mood
// @Produce json
// @Success 200 {object} models.TodaysMood
// @Security ApiKeyAuth
// @Router /mood/today [get]
func (mc *MoodController) Today(c *fiber.Ctx) error {
	var today models.TodaysMood
	err := withProfile(c, mc.Svc, func(ctx context.Context, p *services.Profile) error {
		entry, err := p.Mood.TodaysMood(ctx)
		today = models.TodaysMood{Submitted: entry != nil, Entry: entry}
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, today)
}

// Record godoc
// @Summary Record today's mood
// @Description Stores a 0-100 mood value. The first check-in of a day earns xp.
// @Tags mood
// @Accept json
// @Produce json
// @Param request body moodInput true "Mood value"
// @Success 201 {object} moodResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /mood [post]
func (mc *MoodController) Record(c *fiber.Ctx) error {
	var input moodInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}
	if input.Value == nil {
		return utils.ValidationError(c, map[string]string{"value": "value is required"})
	}

	var resp moodResponse
	err := withProfile(c, mc.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		resp.Mood, resp.Reward, err = p.Mood.RecordMood(ctx, *input.Value)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, resp)
}

// Reset godoc
// @Summary Reset today's mood
// @Tags mood
// @Success 204
// @Security ApiKeyAuth
// @Router /mood/today [delete]
func (mc *MoodController) Reset(c *fiber.Ctx) error {
	err := withProfile(c, mc.Svc, func(ctx context.Context, p *services.Profile) error {
		return p.Mood.ResetTodaysMood(ctx)
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.NoContent(c)
}

// History godoc
// @Summary Mood history
// @Description Check-ins of the last days, oldest first
// @Tags mood
// @Produce json
// @Param days query int false "Number of days" default(7)
// @Success 200 {array} models.MoodEntry
// @Security ApiKeyAuth
// @Router /mood/history [get]
func (mc *MoodController) History(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)

	var history []models.MoodEntry
	err := withProfile(c, mc.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		history, err = p.Mood.History(ctx, days)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, history)
}
