package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service provides task list business logic. All operations are scoped to
// the acting user's email; a task is visible only to its assignee and its
// creator.
type Service struct {
	repo Repository
}

// NewService creates a new task Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the user's tasks, newest first.
func (s *Service) List(ctx context.Context, userEmail string) ([]Task, error) {
	return s.repo.ListForUser(ctx, userEmail)
}

// Get returns a single task the user participates in.
func (s *Service) Get(ctx context.Context, userEmail string, id uuid.UUID) (Task, error) {
	return s.repo.GetForUser(ctx, userEmail, id)
}

// Create validates the input and stores a new task created by the user.
// An empty assignee defaults to the creator.
func (s *Service) Create(ctx context.Context, userEmail string, input CreateTaskInput) (Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return Task{}, &ValidationError{Message: "title is required"}
	}

	priority := input.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !ValidPriority(priority) {
		return Task{}, &ValidationError{Message: fmt.Sprintf("invalid priority %q", priority)}
	}

	assignedTo := strings.TrimSpace(input.AssignedTo)
	if assignedTo == "" {
		assignedTo = userEmail
	}

	now := time.Now()
	task := Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      StatusTodo,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssignedTo:  assignedTo,
		CreatedBy:   userEmail,
		Labels:      input.Labels,
		Project:     input.Project,
		History:     []HistoryEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.Create(ctx, task)
}

// Update applies a partial update to a task the user participates in and
// appends a history entry recording what changed.
func (s *Service) Update(ctx context.Context, userEmail string, id uuid.UUID, input UpdateTaskInput) (Task, error) {
	if input.Status != nil && !ValidStatus(*input.Status) {
		return Task{}, &ValidationError{Message: fmt.Sprintf("invalid status %q", *input.Status)}
	}
	if input.Priority != nil && !ValidPriority(*input.Priority) {
		return Task{}, &ValidationError{Message: fmt.Sprintf("invalid priority %q", *input.Priority)}
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return Task{}, &ValidationError{Message: "title must not be empty"}
	}

	task, err := s.repo.GetForUser(ctx, userEmail, id)
	if err != nil {
		return Task{}, err
	}

	changes := make(map[string]FieldChange)
	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != task.Title {
			changes["title"] = FieldChange{From: task.Title, To: title}
			task.Title = title
		}
	}
	if input.Description != nil && *input.Description != task.Description {
		changes["description"] = FieldChange{From: task.Description, To: *input.Description}
		task.Description = *input.Description
	}
	if input.Status != nil && *input.Status != task.Status {
		changes["status"] = FieldChange{From: task.Status, To: *input.Status}
		task.Status = *input.Status
	}
	if input.Priority != nil && *input.Priority != task.Priority {
		changes["priority"] = FieldChange{From: task.Priority, To: *input.Priority}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil && !equalTime(input.DueDate, task.DueDate) {
		changes["dueDate"] = FieldChange{From: task.DueDate, To: *input.DueDate}
		task.DueDate = input.DueDate
	}
	if input.AssignedTo != nil && *input.AssignedTo != task.AssignedTo {
		changes["assignedTo"] = FieldChange{From: task.AssignedTo, To: *input.AssignedTo}
		task.AssignedTo = *input.AssignedTo
	}
	if input.Labels != nil && !equalLabels(input.Labels, task.Labels) {
		changes["labels"] = FieldChange{From: task.Labels, To: input.Labels}
		task.Labels = input.Labels
	}
	if input.Project != nil && *input.Project != task.Project {
		changes["project"] = FieldChange{From: task.Project, To: *input.Project}
		task.Project = *input.Project
	}

	if len(changes) == 0 {
		return task, nil
	}

	now := time.Now()
	task.History = append(task.History, HistoryEntry{
		ChangedBy: userEmail,
		ChangedAt: now,
		Changes:   changes,
	})
	task.UpdatedAt = now

	return s.repo.Update(ctx, task)
}

// Delete soft-deletes a task the user participates in. A non-participant
// gets ErrNotFound, same as a missing task.
func (s *Service) Delete(ctx context.Context, userEmail string, id uuid.UUID) error {
	return s.repo.SoftDeleteForUser(ctx, userEmail, id)
}

// StatusCounts returns the user's live task counts per status.
func (s *Service) StatusCounts(ctx context.Context, userEmail string) (map[Status]int, error) {
	return s.repo.CountByStatusForUser(ctx, userEmail)
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
