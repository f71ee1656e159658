package tasks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository stores tasks in an in-process map, ideal for local
// development or tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]Task
}

// NewInMemoryRepository constructs a repository seeded with optional tasks.
func NewInMemoryRepository(initial []Task) *InMemoryRepository {
	data := make(map[uuid.UUID]Task, len(initial))
	for _, task := range initial {
		data[task.ID] = task
	}
	return &InMemoryRepository{data: data}
}

func participates(task Task, email string) bool {
	return task.AssignedTo == email || task.CreatedBy == email
}

// ListForUser returns the user's live tasks, newest first.
func (r *InMemoryRepository) ListForUser(_ context.Context, email string) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]Task, 0)
	for _, task := range r.data {
		if !task.IsDeleted && participates(task, email) {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// GetForUser returns one live task the user participates in.
func (r *InMemoryRepository) GetForUser(_ context.Context, email string, id uuid.UUID) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.data[id]
	if !ok || task.IsDeleted || !participates(task, email) {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// Create stores a new task.
func (r *InMemoryRepository) Create(_ context.Context, task Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[task.ID] = task
	return task, nil
}

// Update replaces an existing task.
func (r *InMemoryRepository) Update(_ context.Context, task Task) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data[task.ID]
	if !ok || existing.IsDeleted {
		return Task{}, ErrNotFound
	}
	r.data[task.ID] = task
	return task, nil
}

// SoftDeleteForUser marks a task deleted if the user participates in it.
func (r *InMemoryRepository) SoftDeleteForUser(_ context.Context, email string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.data[id]
	if !ok || task.IsDeleted || !participates(task, email) {
		return ErrNotFound
	}

	now := time.Now()
	task.IsDeleted = true
	task.DeletedAt = &now
	task.UpdatedAt = now
	r.data[id] = task
	return nil
}

// CountByStatusForUser tallies the user's live tasks per status.
func (r *InMemoryRepository) CountByStatusForUser(_ context.Context, email string) (map[Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[Status]int)
	for _, task := range r.data {
		if !task.IsDeleted && participates(task, email) {
			counts[task.Status]++
		}
	}
	return counts, nil
}
