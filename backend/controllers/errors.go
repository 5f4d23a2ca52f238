package controllers

import (
	"context"
	"errors"

	"mitra/backend/middleware"
	"mitra/backend/services"
	"mitra/backend/storage"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto the response envelope.
func respondError(c *fiber.Ctx, err error) error {
	if verr, ok := services.AsValidation(err); ok {
		return utils.ValidationError(c, map[string]string{verr.Field: verr.Message})
	}

	switch {
	case services.IsNotFound(err):
		return utils.Error(c, fiber.StatusNotFound, err)
	case errors.Is(err, services.ErrInstitutionRequired):
		return utils.Error(c, fiber.StatusForbidden, err)
	case errors.Is(err, services.ErrUnknownTaskVariant):
		return utils.Error(c, fiber.StatusBadRequest, err)
	case errors.Is(err, storage.ErrUnsupportedSchema):
		return utils.Error(c, fiber.StatusConflict, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return utils.Error(c, fiber.StatusServiceUnavailable, err)
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return utils.Error(c, ferr.Code, ferr)
	}
	return utils.InternalServerError(c, "Something went wrong")
}

// withProfile runs fn on the profile of the authenticated user.
func withProfile(c *fiber.Ctx, reg *services.Registry, fn func(ctx context.Context, p *services.Profile) error) error {
	ctx := c.UserContext()
	return reg.With(ctx, middleware.UserID(c), func(p *services.Profile) error {
		return fn(ctx, p)
	})
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	return nil
}
