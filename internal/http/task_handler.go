package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pulseboard/internal/tasks"
)

// TaskHandler exposes task CRUD endpoints. Every operation runs as the
// authenticated user from the request context.
type TaskHandler struct {
	service *tasks.Service
	logger  *slog.Logger
}

// NewTaskHandler creates a handler.
func NewTaskHandler(service *tasks.Service, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

// List returns the caller's tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	listed, err := h.service.List(r.Context(), user.Email)
	if err != nil {
		h.logger.Error("list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch tasks")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": listed})
}

// Create stores a new task created by the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var payload struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"dueDate"`
		AssignedTo  string     `json:"assignedTo"`
		Labels      []string   `json:"labels"`
		Project     string     `json:"project"`
	}

	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}

	task, err := h.service.Create(r.Context(), user.Email, tasks.CreateTaskInput{
		Title:       payload.Title,
		Description: payload.Description,
		Priority:    tasks.Priority(payload.Priority),
		DueDate:     payload.DueDate,
		AssignedTo:  payload.AssignedTo,
		Labels:      payload.Labels,
		Project:     payload.Project,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// Get returns one of the caller's tasks.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), user.Email, id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update applies a partial update to one of the caller's tasks.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	var payload struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Status      *string    `json:"status"`
		Priority    *string    `json:"priority"`
		DueDate     *time.Time `json:"dueDate"`
		AssignedTo  *string    `json:"assignedTo"`
		Labels      []string   `json:"labels"`
		Project     *string    `json:"project"`
	}

	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}

	input := tasks.UpdateTaskInput{
		Title:       payload.Title,
		Description: payload.Description,
		DueDate:     payload.DueDate,
		AssignedTo:  payload.AssignedTo,
		Labels:      payload.Labels,
		Project:     payload.Project,
	}
	if payload.Status != nil {
		status := tasks.Status(*payload.Status)
		input.Status = &status
	}
	if payload.Priority != nil {
		priority := tasks.Priority(*payload.Priority)
		input.Priority = &priority
	}

	task, err := h.service.Update(r.Context(), user.Email, id, input)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete soft-deletes one of the caller's tasks.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	id, ok := parseUUIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), user.Email, id); err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

func (h *TaskHandler) handleServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, tasks.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if errors.Is(err, tasks.ErrValidation) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("task service error", "error", err)
	writeError(w, http.StatusInternalServerError, "unexpected error")
}

func parseUUIDParam(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	value := chi.URLParam(r, key)
	id, err := uuid.Parse(value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
