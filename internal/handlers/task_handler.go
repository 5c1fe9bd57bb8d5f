package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nsaetang/taskcal/internal/logger"
	"github.com/nsaetang/taskcal/internal/middleware"
	"github.com/nsaetang/taskcal/internal/models"
	"github.com/nsaetang/taskcal/internal/service"
	"github.com/nsaetang/taskcal/internal/storage"
)

type TaskHandler struct {
	taskService *service.TaskService
	log         *logger.Logger
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         logger.New("task-handler"),
	}
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type updateStatusRequest struct {
	IsDone *bool `json:"isDone"`
}

type updateContentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	task, err := h.taskService.Add(r.Context(), userID, &models.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		h.respondTaskError(w, "add task", err)
		return
	}

	h.log.Info("created task %s for user %s", task.ID, userID)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "task created",
		"data":    task,
	})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	tasks, err := h.taskService.List(r.Context(), userID)
	if err != nil {
		h.respondTaskError(w, "list tasks", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
	})
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	taskID := r.PathValue("id")

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IsDone == nil {
		respondError(w, http.StatusBadRequest, "isDone is required")
		return
	}

	task, err := h.taskService.SetStatus(r.Context(), taskID, userID, *req.IsDone)
	if err != nil {
		h.respondTaskError(w, "update task status", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "task status updated",
		"data":    task,
	})
}

func (h *TaskHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	taskID := r.PathValue("id")

	var req updateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.taskService.UpdateContent(r.Context(), taskID, userID, &models.UpdateTaskContentRequest{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.respondTaskError(w, "update task content", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "task updated",
		"data":    task,
	})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	taskID := r.PathValue("id")

	task, err := h.taskService.Remove(r.Context(), taskID, userID)
	if err != nil {
		h.respondTaskError(w, "delete task", err)
		return
	}

	h.log.Info("deleted task %s for user %s", task.ID, userID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "task deleted",
		"data":    task,
	})
}

func (h *TaskHandler) respondTaskError(w http.ResponseWriter, operation string, err error) {
	h.log.Error("%s: %v", operation, err)

	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, storage.ErrTaskNotFound):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "something went wrong")
	}
}

// parseDate accepts a plain calendar date or a full RFC3339 timestamp, since
// both appear in the wild from different client versions.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if date, err := time.Parse("2006-01-02", value); err == nil {
		return date, nil
	}
	return time.Parse(time.RFC3339, value)
}
