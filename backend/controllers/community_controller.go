package controllers

import (
	"context"

	"mitra/backend/config"
	"mitra/backend/models"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CommunityController struct {
	Svc *services.Registry
	Cfg *config.Config
}

func NewCommunityController(svc *services.Registry, cfg *config.Config) *CommunityController {
	return &CommunityController{Svc: svc, Cfg: cfg}
}

type voteInput struct {
	Direction models.VoteDirection `json:"direction"`
}

type postResponse struct {
	Post   models.PostView `json:"post"`
	Reward *models.Reward  `json:"reward,omitempty"`
}

// Categories godoc
// @Summary Community categories
// @Tags community
// @Produce json
// @Success 200 {array} models.Category
// @Router /community/categories [get]
func (cc *CommunityController) Categories(c *fiber.Ctx) error {
	return utils.OK(c, cc.Svc.Catalog().Categories)
}

// Posts godoc
// @Summary List community posts
// @Description Newest first. Scores include the caller's own vote.
// @Tags community
// @Produce json
// @Param category query string false "Category id or all"
// @Success 200 {array} models.PostView
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /community/posts [get]
func (cc *CommunityController) Posts(c *fiber.Ctx) error {
	var posts []models.PostView
	err := withProfile(c, cc.Svc, func(_ context.Context, p *services.Profile) error {
		var err error
		posts, err = p.Community.Posts(c.Query("category"))
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, posts)
}

// CreatePost godoc
// @Summary Create a community post
// @Tags community
// @Accept json
// @Produce json
// @Param request body models.PostInput true "Post"
// @Success 201 {object} postResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /community/posts [post]
func (cc *CommunityController) CreatePost(c *fiber.Ctx) error {
	var input models.PostInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	var resp postResponse
	err := withProfile(c, cc.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		resp.Post, resp.Reward, err = p.Community.CreatePost(ctx, input)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, resp)
}

// Vote godoc
// @Summary Vote on a post
// @Description Voting the current direction again removes the vote.
// @Tags community
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body voteInput true "up or down"
// @Success 200 {object} postResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /community/posts/{id}/vote [post]
func (cc *CommunityController) Vote(c *fiber.Ctx) error {
	var input voteInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	var resp postResponse
	err := withProfile(c, cc.Svc, func(ctx context.Context, p *services.Profile) error {
		var err error
		resp.Post, resp.Reward, err = p.Community.Vote(ctx, c.Params("id"), input.Direction)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, resp)
}
