package models

type TaskType string

const (
	TaskAssignment TaskType = "assignment"
	TaskProject    TaskType = "project"
	TaskExam       TaskType = "exam"
	TaskStudy      TaskType = "study"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityNormal TaskPriority = "normal"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// AcademicTask keeps CompletedAt set exactly when Completed is true.
type AcademicTask struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        TaskType     `json:"type"`
	Subject     string       `json:"subject"`
	DueDate     string       `json:"dueDate"`
	Priority    TaskPriority `json:"priority"`
	Completed   bool         `json:"completed"`
	CompletedAt *string      `json:"completedAt,omitempty"`

	// Importance is the older name of Priority, read from stored data only.
	Importance TaskPriority `json:"importance,omitempty"`
}

// TaskInput is the create request.
type TaskInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        TaskType     `json:"type"`
	Subject     string       `json:"subject"`
	DueDate     string       `json:"dueDate"`
	Priority    TaskPriority `json:"priority"`
	Importance  TaskPriority `json:"importance"`
}

// TaskView adds the derived overdue flag.
type TaskView struct {
	AcademicTask
	Overdue bool `json:"overdue"`
}
