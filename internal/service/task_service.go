package service

import (
	"context"

	"github.com/nsaetang/taskcal/internal/models"
	"github.com/nsaetang/taskcal/internal/storage"
)

// TaskService owns per-user task CRUD. Ownership is enforced by the store's
// compound-key operations, not by a separate authorization check here.
type TaskService struct {
	tasks storage.TaskStore
}

func NewTaskService(tasks storage.TaskStore) *TaskService {
	return &TaskService{tasks: tasks}
}

func (s *TaskService) Add(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.Task, error) {
	if req.Title == "" || req.Description == "" || req.Date.IsZero() {
		return nil, ErrMissingFields
	}

	return s.tasks.Create(ctx, userID, req)
}

func (s *TaskService) List(ctx context.Context, userID string) ([]*models.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

func (s *TaskService) SetStatus(ctx context.Context, taskID, userID string, isDone bool) (*models.Task, error) {
	return s.tasks.UpdateStatus(ctx, taskID, userID, isDone)
}

func (s *TaskService) UpdateContent(ctx context.Context, taskID, userID string, req *models.UpdateTaskContentRequest) (*models.Task, error) {
	if req.Title == "" || req.Description == "" {
		return nil, ErrMissingFields
	}

	return s.tasks.UpdateContent(ctx, taskID, userID, req.Title, req.Description)
}

func (s *TaskService) Remove(ctx context.Context, taskID, userID string) (*models.Task, error) {
	return s.tasks.Delete(ctx, taskID, userID)
}
