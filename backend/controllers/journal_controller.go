package controllers

import (
	"context"

	"mitra/backend/config"
	"mitra/backend/models"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type JournalController struct {
	Svc *services.Registry
	Cfg *config.Config
}

func NewJournalController(svc *services.Registry, cfg *config.Config) *JournalController {
	return &JournalController{Svc: svc, Cfg: cfg}
}

type journalInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	// Tags is comma separated.
	Tags string `json:"tags"`
}

type journalResponse struct {
	Entry  *models.JournalEntry `json:"entry"`
	Reward *models.Reward       `json:"reward,omitempty"`
}

// List godoc
// @Summary List journal entries
// @Description Newest first, optionally filtered by tag
// @Tags journal
// @Produce json
// @Param tag query string false "Tag filter"
// @Success 200 {array} models.JournalEntry
// @Security ApiKeyAuth
// @Router /journal [get]
func (jc *JournalController) List(c *fiber.Ctx) error {
	var entries []models.JournalEntry
	err := withProfile(c, jc.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		entries, err = p.Journal.ListEntries(ctx, c.Query("tag"))
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, entries)
}

// Create godoc
// @Summary Write a journal entry
// @Description Blank content is ignored and answered with 200 and no entry.
// @Tags journal
// @Accept json
// @Produce json
// @Param request body journalInput true "Entry"
// @Success 201 {object} journalResponse
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /journal [post]
func (jc *JournalController) Create(c *fiber.Ctx) error {
	var input journalInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	var resp journalResponse
	err := withProfile(c, jc.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		resp.Entry, resp.Reward, err = p.Journal.AddEntry(ctx, input.Title, input.Content, input.Tags)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	if resp.Entry == nil {
		return utils.Message(c, fiber.StatusOK, "Nothing to save")
	}
	return utils.Created(c, resp)
}
