package tasks

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for task persistence. Every read filters
// out soft-deleted rows; the scoped lookups additionally restrict to tasks
// the given user participates in (assignee or creator) and return
// ErrNotFound otherwise.
type Repository interface {
	ListForUser(ctx context.Context, email string) ([]Task, error)
	GetForUser(ctx context.Context, email string, id uuid.UUID) (Task, error)
	Create(ctx context.Context, task Task) (Task, error)
	Update(ctx context.Context, task Task) (Task, error)
	SoftDeleteForUser(ctx context.Context, email string, id uuid.UUID) error
	CountByStatusForUser(ctx context.Context, email string) (map[Status]int, error)
}
