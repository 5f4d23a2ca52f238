package controllers

import (
	"context"

	"mitra/backend/config"
	"mitra/backend/models"
	"mitra/backend/services"
	"mitra/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type TasksController struct {
	Svc *services.Registry
	Cfg *config.Config
}

func NewTasksController(svc *services.Registry, cfg *config.Config) *TasksController {
	return &TasksController{Svc: svc, Cfg: cfg}
}

type taskResponse struct {
	Task   models.TaskView `json:"task"`
	Reward *models.Reward  `json:"reward,omitempty"`
}

// List godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param view query string false "all, pending or completed"
// @Param variant query string false "planner or dashboard"
// @Success 200 {array} models.TaskView
// @Failure 403 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks [get]
func (tc *TasksController) List(c *fiber.Ctx) error {
	var views []models.TaskView
	err := tc.withTasks(c, func(ctx context.Context, tasks *services.TaskStore) error {
		var err error
		views, err = tasks.Views(ctx, services.TaskFilter(c.Query("view")))
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, views)
}

// Create godoc
// @Summary Create a task
// @Description The dashboard variant requires a due date and awards xp on create.
// @Tags tasks
// @Accept json
// @Produce json
// @Param variant query string false "planner or dashboard"
// @Param request body models.TaskInput true "Task"
// @Success 201 {object} taskResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks [post]
func (tc *TasksController) Create(c *fiber.Ctx) error {
	var input models.TaskInput
	if err := parseBody(c, &input); err != nil {
		return respondError(c, err)
	}

	var resp taskResponse
	err := tc.withTasks(c, func(ctx context.Context, tasks *services.TaskStore) error {
		var err error
		resp.Task, resp.Reward, err = tasks.AddTask(ctx, input)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, resp)
}

// Toggle godoc
// @Summary Toggle task completion
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Param variant query string false "planner or dashboard"
// @Success 200 {object} taskResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks/{id}/toggle [post]
func (tc *TasksController) Toggle(c *fiber.Ctx) error {
	var resp taskResponse
	err := tc.withTasks(c, func(ctx context.Context, tasks *services.TaskStore) error {
		var err error
		resp.Task, resp.Reward, err = tasks.ToggleCompletion(ctx, c.Params("id"))
		return err
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.OK(c, resp)
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /tasks/{id} [delete]
func (tc *TasksController) Delete(c *fiber.Ctx) error {
	err := tc.withTasks(c, func(ctx context.Context, tasks *services.TaskStore) error {
		return tasks.DeleteTask(ctx, c.Params("id"))
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.NoContent(c)
}

func (tc *TasksController) withTasks(c *fiber.Ctx, fn func(ctx context.Context, tasks *services.TaskStore) error) error {
	return withProfile(c, tc.Svc, func(ctx context.Context, p *services.Profile) error {
		tasks, err := p.Tasks(ctx, c.Query("variant"))
		if err != nil {
			return err
		}
		return fn(ctx, tasks)
	})
}
