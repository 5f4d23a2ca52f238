package controllers

import (
	"context"

	"mitra/backend/config"
	"mitra/backend/models"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type PreferencesController struct {
	Svc *services.Registry
	Cfg *config.Config
}

func NewPreferencesController(svc *services.Registry, cfg *config.Config) *PreferencesController {
	return &PreferencesController{Svc: svc, Cfg: cfg}
}

type preferencesInput struct {
	Theme             *models.Theme `json:"theme"`
	AccessibilityMode *bool         `json:"accessibilityMode"`
}

// Get godoc
// @Summary Get preferences
// @Tags preferences
// @Produce json
// @Success 200 {object} models.Preferences
// @Security ApiKeyAuth
// @Router /preferences [get]
func (pc *PreferencesController) Get(c *fiber.Ctx) error {
	var prefs models.Preferences
	err := withProfile(c, pc.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		prefs, err = p.Preferences.Get(ctx)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, prefs)
}

// Update godoc
// @Summary Update preferences
// @Description Only the fields present are changed.
// @Tags preferences
// @Accept json
// @Produce json
// @Param request body preferencesInput true "Preferences"
// @Success 200 {object} models.Preferences
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /preferences [put]
func (pc *PreferencesController) Update(c *fiber.Ctx) error {
	var input preferencesInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	var prefs models.Preferences
	err := withProfile(c, pc.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		prefs, err = p.Preferences.Update(ctx, input.Theme, input.AccessibilityMode)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, prefs)
}
