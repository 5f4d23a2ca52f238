package controllers

import (
	"context"

	"mitra/backend/config"
	"mitra/backend/models"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	Svc *services.Registry
	Cfg *config.Config
}

func NewProgressController(svc *services.Registry, cfg *config.Config) *ProgressController {
	return &ProgressController{Svc: svc, Cfg: cfg}
}

// GetProgress godoc
// @Summary Get progress
// @Description Returns xp, level, streak, counters and badges
// @Tags progress
// @Produce json
// @Success 200 {object} models.ProgressOverview
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /progress [get]
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	var overview models.ProgressOverview
	err := withProfile(c, pc.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		overview, err = p.Ledger.Overview(ctx)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, overview)
}
