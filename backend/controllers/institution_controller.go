package controllers

import (
	"context"

	"mitra/backend/config"
	"mitra/backend/models"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type InstitutionController struct {
	Svc *services.Registry
	Cfg *config.Config
}

func NewInstitutionController(svc *services.Registry, cfg *config.Config) *InstitutionController {
	return &InstitutionController{Svc: svc, Cfg: cfg}
}

type institutionInput struct {
	Institution string `json:"institution"`
	Passkey     string `json:"passkey"`
}

type verifyInput struct {
	Passkey string `json:"passkey"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

// List godoc
// @Summary Selectable institutions
// @Tags institution
// @Produce json
// @Success 200 {array} models.Institution
// @Router /institutions [get]
func (ic *InstitutionController) List(c *fiber.Ctx) error {
	return utils.OK(c, ic.Svc.Catalog().Institutions)
}

// Access godoc
// @Summary Institution access state
// @Tags institution
// @Produce json
// @Success 200 {object} models.InstitutionAccess
// @Security ApiKeyAuth
// @Router /institution [get]
func (ic *InstitutionController) Access(c *fiber.Ctx) error {
	var access models.InstitutionAccess
	err := withProfile(c, ic.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		access, err = p.Institution.Access(ctx)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, access)
}

// Grant godoc
// @Summary Unlock the institution dashboard
// @Description Any numeric passkey is accepted.
// @Tags institution
// @Accept json
// @Produce json
// @Param request body institutionInput true "Institution and passkey"
// @Success 200 {object} models.InstitutionAccess
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /institution [post]
func (ic *InstitutionController) Grant(c *fiber.Ctx) error {
	var input institutionInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}
	if input.Institution != "" && !ic.known(input.Institution) {
		return utils.ValidationError(c, map[string]string{"institution": "please select your institution"})
	}

	var access models.InstitutionAccess
	err := withProfile(c, ic.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		access, err = p.Institution.Grant(ctx, input.Institution, input.Passkey)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, access)
}

// Verify godoc
// @Summary Check a passkey
// @Description Compares the passkey with the one given when access was granted.
// @Tags institution
// @Accept json
// @Produce json
// @Param request body verifyInput true "Passkey"
// @Success 200 {object} verifyResponse
// @Security ApiKeyAuth
// @Router /institution/verify [post]
func (ic *InstitutionController) Verify(c *fiber.Ctx) error {
	var input verifyInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	var resp verifyResponse
	err := withProfile(c, ic.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		resp.Valid, err = p.Institution.Verify(ctx, input.Passkey)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, resp)
}

// Revoke godoc
// @Summary Leave the institution dashboard
// @Tags institution
// @Success 204
// @Security ApiKeyAuth
// @Router /institution [delete]
func (ic *InstitutionController) Revoke(c *fiber.Ctx) error {
	err := withProfile(c, ic.Svc, func(ctx context.Context, p *services.Profile) error {
		return p.Institution.Revoke(ctx)
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.NoContent(c)
}

func (ic *InstitutionController) known(id string) bool {
	for _, inst := range ic.Svc.Catalog().Institutions {
		if inst.ID == id {
			return true
		}
	}
	return false
}
