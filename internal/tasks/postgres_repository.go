package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const taskColumns = `
	id, title, description, status, priority, due_date,
	assigned_to, created_by, labels, project, history,
	is_deleted, deleted_at, created_at, updated_at
`

// ListForUser returns the user's live tasks, newest first.
func (r *PostgresRepository) ListForUser(ctx context.Context, email string) ([]Task, error) {
	const query = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE NOT is_deleted AND (assigned_to = $1 OR created_by = $1)
		ORDER BY created_at DESC
	`

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, email); err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(rows))
	for i := range rows {
		task, err := rows[i].toTask()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// GetForUser returns one live task the user participates in.
func (r *PostgresRepository) GetForUser(ctx context.Context, email string, id uuid.UUID) (Task, error) {
	const query = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND NOT is_deleted AND (assigned_to = $2 OR created_by = $2)
	`

	var row taskRow
	if err := r.db.GetContext(ctx, &row, query, id, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return row.toTask()
}

// Create inserts a new task.
func (r *PostgresRepository) Create(ctx context.Context, task Task) (Task, error) {
	const query = `
		INSERT INTO tasks (id, title, description, status, priority, due_date,
			assigned_to, created_by, labels, project, history,
			is_deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	history, err := json.Marshal(task.History)
	if err != nil {
		return Task{}, fmt.Errorf("marshal history: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.AssignedTo,
		task.CreatedBy,
		pq.StringArray(task.Labels),
		task.Project,
		history,
		task.IsDeleted,
		task.DeletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

// Update replaces a live task's mutable fields and appended history.
func (r *PostgresRepository) Update(ctx context.Context, task Task) (Task, error) {
	const query = `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5,
			due_date = $6, assigned_to = $7, labels = $8, project = $9,
			history = $10, updated_at = $11
		WHERE id = $1 AND NOT is_deleted
	`

	history, err := json.Marshal(task.History)
	if err != nil {
		return Task{}, fmt.Errorf("marshal history: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.AssignedTo,
		pq.StringArray(task.Labels),
		task.Project,
		history,
		task.UpdatedAt,
	)
	if err != nil {
		return Task{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Task{}, err
	}
	if affected == 0 {
		return Task{}, ErrNotFound
	}
	return task, nil
}

// SoftDeleteForUser marks a task deleted if the user participates in it.
func (r *PostgresRepository) SoftDeleteForUser(ctx context.Context, email string, id uuid.UUID) error {
	const query = `
		UPDATE tasks
		SET is_deleted = TRUE, deleted_at = $3, updated_at = $3
		WHERE id = $1 AND NOT is_deleted AND (assigned_to = $2 OR created_by = $2)
	`

	result, err := r.db.ExecContext(ctx, query, id, email, time.Now())
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatusForUser tallies the user's live tasks per status.
func (r *PostgresRepository) CountByStatusForUser(ctx context.Context, email string) (map[Status]int, error) {
	const query = `
		SELECT status, COUNT(*) AS count
		FROM tasks
		WHERE NOT is_deleted AND (assigned_to = $1 OR created_by = $1)
		GROUP BY status
	`

	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, email); err != nil {
		return nil, err
	}

	counts := make(map[Status]int, len(rows))
	for _, row := range rows {
		counts[Status(row.Status)] = row.Count
	}
	return counts, nil
}

// taskRow is a database row representation of Task.
type taskRow struct {
	ID          uuid.UUID       `db:"id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Status      string          `db:"status"`
	Priority    string          `db:"priority"`
	DueDate     *time.Time      `db:"due_date"`
	AssignedTo  string          `db:"assigned_to"`
	CreatedBy   string          `db:"created_by"`
	Labels      pq.StringArray  `db:"labels"`
	Project     string          `db:"project"`
	History     json.RawMessage `db:"history"`
	IsDeleted   bool            `db:"is_deleted"`
	DeletedAt   *time.Time      `db:"deleted_at"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r *taskRow) toTask() (Task, error) {
	var history []HistoryEntry
	if len(r.History) > 0 {
		if err := json.Unmarshal(r.History, &history); err != nil {
			return Task{}, fmt.Errorf("unmarshal history: %w", err)
		}
	}

	return Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      Status(r.Status),
		Priority:    Priority(r.Priority),
		DueDate:     r.DueDate,
		AssignedTo:  r.AssignedTo,
		CreatedBy:   r.CreatedBy,
		Labels:      r.Labels,
		Project:     r.Project,
		History:     history,
		IsDeleted:   r.IsDeleted,
		DeletedAt:   r.DeletedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
