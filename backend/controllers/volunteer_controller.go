package controllers

import (
	"context"

	"mitra/backend/config"
	"mitra/backend/models"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type VolunteerController struct {
	Svc *services.Registry
	Cfg *config.Config
}

func NewVolunteerController(svc *services.Registry, cfg *config.Config) *VolunteerController {
	return &VolunteerController{Svc: svc, Cfg: cfg}
}

// List godoc
// @Summary List volunteer applications
// @Tags volunteers
// @Produce json
// @Success 200 {array} models.VolunteerApplication
// @Security ApiKeyAuth
// @Router /volunteers/applications [get]
func (vc *VolunteerController) List(c *fiber.Ctx) error {
	var apps []models.VolunteerApplication
	err := withProfile(c, vc.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		apps, err = p.Volunteers.List(ctx)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, apps)
}

// Apply godoc
// @Summary Apply as a peer volunteer
// @Tags volunteers
// @Accept json
// @Produce json
// @Param request body models.VolunteerApplication true "Application"
// @Success 201 {object} models.VolunteerApplication
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /volunteers/applications [post]
func (vc *VolunteerController) Apply(c *fiber.Ctx) error {
	var input models.VolunteerApplication
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	var app models.VolunteerApplication
	err := withProfile(c, vc.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		app, err = p.Volunteers.Apply(ctx, input)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, app)
}
