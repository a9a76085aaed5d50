package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tasktrack/internal/auth"
	"tasktrack/internal/models"
	"tasktrack/internal/services"
)

// TaskHandler handles HTTP requests for task management.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// TaskPayload defines the structure for task create/edit requests. The due
// date travels as a YYYY-MM-DD string.
type TaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	IsCompleted bool   `json:"isCompleted"`
}

// taskResponse decorates a task with its overdue status, derived at read time.
type taskResponse struct {
	models.Task
	Overdue bool `json:"overdue"`
}

func toResponse(task models.Task, now time.Time) taskResponse {
	return taskResponse{Task: task, Overdue: task.IsOverdue(now)}
}

// List returns all of the caller's tasks in insertion order.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, services.ErrUnauthenticated)
		return
	}

	tasks, err := h.service.List(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list tasks")
		respondError(w, err)
		return
	}

	now := time.Now()
	out := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toResponse(task, now))
	}
	respondJSON(w, http.StatusOK, out)
}

// Create adds a new task for the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, services.ErrUnauthenticated)
		return
	}

	var payload TaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	task, err := h.service.Create(user, payload.Title, payload.Description, payload.DueDate)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to create task")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toResponse(task, time.Now()))
}

// Get returns a single task by ID.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, services.ErrUnauthenticated)
		return
	}

	task, err := h.service.Get(user, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toResponse(task, time.Now()))
}

// Update replaces a task's mutable fields.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, services.ErrUnauthenticated)
		return
	}

	var payload TaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	task, err := h.service.Edit(user, chi.URLParam(r, "id"), payload.Title, payload.Description, payload.DueDate, payload.IsCompleted)
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to update task")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toResponse(task, time.Now()))
}

// Toggle flips a task's completion flag.
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, services.ErrUnauthenticated)
		return
	}

	task, err := h.service.Toggle(user, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toResponse(task, time.Now()))
}

// Delete permanently removes a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, services.ErrUnauthenticated)
		return
	}

	if err := h.service.Delete(user, chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
