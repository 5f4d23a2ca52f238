package controllers

import (
	"context"

	"mitra/backend/config"
	"mitra/backend/middleware"
	"mitra/backend/models"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ChatController struct {
	Svc *services.Registry
	Cfg *config.Config
}

func NewChatController(svc *services.Registry, cfg *config.Config) *ChatController {
	return &ChatController{Svc: svc, Cfg: cfg}
}

type chatInput struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Message models.ChatMessage `json:"message"`
	Reply   models.ChatMessage `json:"reply"`
}

type actionResponse struct {
	Tasks   []models.AcademicTask `json:"tasks"`
	Message models.ChatMessage    `json:"message"`
}

// Transcript godoc
// @Summary Chat transcript
// @Tags chat
// @Produce json
// @Param persona path string true "personality or mentor"
// @Success 200 {array} models.ChatMessage
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat/{persona} [get]
func (cc *ChatController) Transcript(c *fiber.Ctx) error {
	var messages []models.ChatMessage
	err := cc.withChat(c, func(ctx context.Context, chat *services.ChatStore) error {
		var err error
		messages, err = chat.Transcript(ctx)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, messages)
}

// Send godoc
// @Summary Send a chat message
// @Description Stores the message, waits the typing delay, then stores the reply.
// @Description No reply is stored when the request times out while typing.
// @Tags chat
// @Accept json
// @Produce json
// @Param persona path string true "personality or mentor"
// @Param request body chatInput true "Message"
// @Success 201 {object} chatResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat/{persona} [post]
func (cc *ChatController) Send(c *fiber.Ctx) error {
	var input chatInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	var resp chatResponse
	var err error
	resp.Message, resp.Reply, err = cc.Svc.Converse(c.UserContext(), middleware.UserID(c), models.Persona(c.Params("persona")), input.Text)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, resp)
}

// Action godoc
// @Summary Run an assistant action
// @Description Creates the tasks offered by a mentor reply.
// @Tags chat
// @Produce json
// @Param persona path string true "personality or mentor"
// @Param action path string true "Action ID"
// @Success 201 {object} actionResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /chat/{persona}/actions/{action} [post]
func (cc *ChatController) Action(c *fiber.Ctx) error {
	var resp actionResponse
	err := cc.withChat(c, func(ctx context.Context, chat *services.ChatStore) error {
		var err error
		resp.Tasks, resp.Message, err = chat.ApplyAction(ctx, c.Params("action"))
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, resp)
}

// Clear godoc
// @Summary Clear a chat transcript
// @Tags chat
// @Param persona path string true "personality or mentor"
// @Success 204
// @Security ApiKeyAuth
// @Router /chat/{persona} [delete]
func (cc *ChatController) Clear(c *fiber.Ctx) error {
	err := cc.withChat(c, func(ctx context.Context, chat *services.ChatStore) error {
		return chat.Clear(ctx)
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.NoContent(c)
}

func (cc *ChatController) withChat(c *fiber.Ctx, fn func(ctx context.Context, chat *services.ChatStore) error) error {
	persona := models.Persona(c.Params("persona"))
	return withProfile(c, cc.Svc, func(ctx context.Context, p *services.Profile) error {
		chat, err := p.Chat(persona)
		if err != nil {
			return err
		}
		return fn(ctx, chat)
	})
}
