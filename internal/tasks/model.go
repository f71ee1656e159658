package tasks

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a task does not exist or the caller is not
// a participant. The two cases are deliberately indistinguishable so task
// existence leaks nothing to non-participants.
var ErrNotFound = errors.New("task not found")

// ErrValidation is returned when input validation fails.
var ErrValidation = errors.New("validation error")

// ValidationError wraps a validation message so callers can distinguish
// client errors from internal failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Status tracks where a task sits on the board.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusDone       Status = "done"
)

// Priority ranks a task's urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// FieldChange records one field's before/after values in a history entry.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// HistoryEntry is one audit record appended on every update.
type HistoryEntry struct {
	ChangedBy string                 `json:"changedBy"`
	ChangedAt time.Time              `json:"changedAt"`
	Changes   map[string]FieldChange `json:"changes"`
}

// Task represents one item on a user's task list. AssignedTo and CreatedBy
// hold user emails; a user participates in a task when either matches.
type Task struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      Status         `json:"status"`
	Priority    Priority       `json:"priority"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	AssignedTo  string         `json:"assignedTo"`
	CreatedBy   string         `json:"createdBy"`
	Labels      []string       `json:"labels,omitempty"`
	Project     string         `json:"project,omitempty"`
	History     []HistoryEntry `json:"history,omitempty"`
	IsDeleted   bool           `json:"-"`
	DeletedAt   *time.Time     `json:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CreateTaskInput captures the data needed to create a new Task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	AssignedTo  string
	Labels      []string
	Project     string
}

// UpdateTaskInput carries a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
	AssignedTo  *string
	Labels      []string
	Project     *string
}

// ValidStatus reports whether s is one of the known board statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
