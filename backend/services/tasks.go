package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mitra/backend/models"
	"mitra/backend/storage"
	"mitra/backend/utils"
)

// TaskConfig describes one task screen. Both screens share one task list.
type TaskConfig struct {
	Variant         string
	XPOnCreate      int
	XPOnComplete    int
	DueDateRequired bool
	// DefaultSubject fills an empty subject.
	DefaultSubject string
	// RequiresInstitution gates the screen behind institution access.
	RequiresInstitution bool
}

var (
	DashboardTasks = TaskConfig{
		Variant:             "dashboard",
		XPOnCreate:          10,
		XPOnComplete:        25,
		DueDateRequired:     true,
		DefaultSubject:      "General",
		RequiresInstitution: true,
	}
	PlannerTasks = TaskConfig{
		Variant:      "planner",
		XPOnComplete: 20,
	}
)

// TaskVariant resolves a variant name, "" meaning the planner.
func TaskVariant(name string) (TaskConfig, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PlannerTasks.Variant:
		return PlannerTasks, nil
	case DashboardTasks.Variant:
		return DashboardTasks, nil
	}
	return TaskConfig{}, fmt.Errorf("%w: %q", ErrUnknownTaskVariant, name)
}

// TaskFilter selects tasks by completion.
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterPending   TaskFilter = "pending"
	FilterCompleted TaskFilter = "completed"
)

// FilterTasks is a pure filter, "" meaning all.
func FilterTasks(tasks []models.AcademicTask, view TaskFilter) ([]models.AcademicTask, error) {
	out := make([]models.AcademicTask, 0, len(tasks))
	for _, t := range tasks {
		switch view {
		case FilterAll, "":
		case FilterPending:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		default:
			return nil, invalid("view", "view must be one of all, pending, completed")
		}
		out = append(out, t)
	}
	return out, nil
}

// Overdue is derived on read and never stored.
func Overdue(task models.AcademicTask, today time.Time, clock Clock) bool {
	if task.Completed {
		return false
	}
	due, ok := clock.ParseDay(task.DueDate)
	if !ok {
		return false
	}
	return due.Before(startOfDay(today))
}

var (
	taskTypes      = []models.TaskType{models.TaskAssignment, models.TaskProject, models.TaskExam, models.TaskStudy}
	taskPriorities = []models.TaskPriority{models.PriorityLow, models.PriorityNormal, models.PriorityHigh, models.PriorityUrgent}
)

type TaskStore struct {
	kv     storage.KV
	clock  Clock
	ids    *utils.IDGenerator
	ledger *ProgressLedger
	cfg    TaskConfig
}

func NewTaskStore(kv storage.KV, clock Clock, ids *utils.IDGenerator, ledger *ProgressLedger, cfg TaskConfig) *TaskStore {
	return &TaskStore{kv: kv, clock: clock, ids: ids, ledger: ledger, cfg: cfg}
}

// Config is the variant this store was built for.
func (s *TaskStore) Config() TaskConfig { return s.cfg }

// List returns all tasks in insertion order. Completed tasks stored without
// a completion time get the current time, and the list is written back.
func (s *TaskStore) List(ctx context.Context) ([]models.AcademicTask, error) {
	tasks := []models.AcademicTask{}
	if _, err := storage.LoadJSON(ctx, s.kv, storage.KeyAcademicTasks, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.AcademicTask{}
	}

	now := s.completionTime()
	backfilled := false
	for i := range tasks {
		if normalizeTask(&tasks[i], now) {
			backfilled = true
		}
	}
	if backfilled {
		if err := s.save(ctx, tasks); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (s *TaskStore) completionTime() string {
	return s.clock.Now().UTC().Format(time.RFC3339)
}

// Views filters the list and adds the overdue flag.
func (s *TaskStore) Views(ctx context.Context, view TaskFilter) ([]models.TaskView, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err = FilterTasks(tasks, view)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()
	views := make([]models.TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = s.view(t, today)
	}
	return views, nil
}

func (s *TaskStore) view(t models.AcademicTask, today time.Time) models.TaskView {
	return models.TaskView{AcademicTask: t, Overdue: Overdue(t, today, s.clock)}
}

// AddTask validates input against the variant and appends the task.
func (s *TaskStore) AddTask(ctx context.Context, in models.TaskInput) (models.TaskView, *models.Reward, error) {
	task, err := s.newTask(in)
	if err != nil {
		return models.TaskView{}, nil, err
	}

	tasks, err := s.List(ctx)
	if err != nil {
		return models.TaskView{}, nil, err
	}
	tasks = append(tasks, task)
	if err := s.save(ctx, tasks); err != nil {
		return models.TaskView{}, nil, err
	}

	view := s.view(task, s.clock.Today())
	if s.cfg.XPOnCreate <= 0 {
		return view, nil, nil
	}
	reward, err := s.ledger.AddXP(ctx, s.cfg.XPOnCreate, models.ActivityAcademicTask)
	if err != nil {
		return view, nil, err
	}
	return view, &reward, nil
}

func (s *TaskStore) newTask(in models.TaskInput) (models.AcademicTask, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.AcademicTask{}, invalid("title", "title is required")
	}

	dueDate := strings.TrimSpace(in.DueDate)
	if dueDate == "" && s.cfg.DueDateRequired {
		return models.AcademicTask{}, invalid("dueDate", "due date is required")
	}
	if dueDate != "" {
		if _, ok := s.clock.ParseDay(dueDate); !ok {
			return models.AcademicTask{}, invalid("dueDate", "due date must be YYYY-MM-DD")
		}
	}

	taskType := models.TaskType(strings.ToLower(strings.TrimSpace(string(in.Type))))
	if taskType == "" {
		taskType = models.TaskAssignment
	}
	if !contains(taskTypes, taskType) {
		return models.AcademicTask{}, invalid("type", "type must be one of assignment, project, exam, study")
	}

	priority := in.Priority
	if priority == "" {
		priority = in.Importance
	}
	priority = models.TaskPriority(strings.ToLower(strings.TrimSpace(string(priority))))
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !contains(taskPriorities, priority) {
		return models.AcademicTask{}, invalid("priority", "priority must be one of low, normal, high, urgent")
	}

	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = s.cfg.DefaultSubject
	}

	return models.AcademicTask{
		ID:          s.ids.NextString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Type:        taskType,
		Subject:     subject,
		DueDate:     dueDate,
		Priority:    priority,
	}, nil
}

// ToggleCompletion flips completed. Only the false to true transition sets
// completedAt and earns xp.
func (s *TaskStore) ToggleCompletion(ctx context.Context, id string) (models.TaskView, *models.Reward, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return models.TaskView{}, nil, err
	}

	idx := indexOfTask(tasks, id)
	if idx < 0 {
		return models.TaskView{}, nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	task := &tasks[idx]
	task.Completed = !task.Completed
	if task.Completed {
		at := s.completionTime()
		task.CompletedAt = &at
	} else {
		task.CompletedAt = nil
	}

	if err := s.save(ctx, tasks); err != nil {
		return models.TaskView{}, nil, err
	}

	view := s.view(*task, s.clock.Today())
	if !task.Completed || s.cfg.XPOnComplete <= 0 {
		return view, nil, nil
	}
	reward, err := s.ledger.AddXP(ctx, s.cfg.XPOnComplete, models.ActivityAcademicTask)
	if err != nil {
		return view, nil, err
	}
	return view, &reward, nil
}

func (s *TaskStore) DeleteTask(ctx context.Context, id string) error {
	tasks, err := s.List(ctx)
	if err != nil {
		return err
	}
	idx := indexOfTask(tasks, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	tasks = append(tasks[:idx], tasks[idx+1:]...)
	return s.save(ctx, tasks)
}

// AddGenerated appends assistant-created study tasks. No xp is awarded.
func (s *TaskStore) AddGenerated(ctx context.Context, titles []string) ([]models.AcademicTask, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	created := make([]models.AcademicTask, 0, len(titles))
	for _, title := range titles {
		task := models.AcademicTask{
			ID:          s.ids.NextString(),
			Title:       title,
			Description: "Created by Mentor AI",
			Type:        models.TaskStudy,
			Subject:     "AI Generated",
			Priority:    models.PriorityNormal,
		}
		created = append(created, task)
		tasks = append(tasks, task)
	}

	if err := s.save(ctx, tasks); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TaskStore) save(ctx context.Context, tasks []models.AcademicTask) error {
	return storage.SaveJSON(ctx, s.kv, storage.KeyAcademicTasks, tasks)
}

// normalizeTask repairs records written by older clients. It reports whether
// a missing completion time was filled with now.
func normalizeTask(t *models.AcademicTask, now string) bool {
	if t.Priority == "" {
		t.Priority = t.Importance
	}
	if t.Priority == "" {
		t.Priority = models.PriorityNormal
	}
	t.Importance = ""
	if t.Type == "" {
		t.Type = models.TaskAssignment
	}
	if !t.Completed {
		t.CompletedAt = nil
		return false
	}
	if t.CompletedAt == nil {
		t.CompletedAt = &now
		return true
	}
	return false
}

func indexOfTask(tasks []models.AcademicTask, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
