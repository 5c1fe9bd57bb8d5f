package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nsaetang/taskcal/internal/database"
	"github.com/nsaetang/taskcal/internal/models"
)

type TaskStorage struct {
	db *database.DBManager
}

func NewTaskStorage(db *database.DBManager) *TaskStorage {
	return &TaskStorage{db: db}
}

const taskColumns = `id, title, description, date, is_done, user_id, created_at, updated_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Date,
		&t.IsDone,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskStorage) Create(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.Task, error) {
	taskID := uuid.New().String()
	now := time.Now()

	query := `
		INSERT INTO tasks (id, title, description, date, is_done, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $6, $7)
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.Write().QueryRow(ctx, query,
		taskID,
		req.Title,
		req.Description,
		req.Date,
		userID,
		now,
		now,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func (s *TaskStorage) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE user_id = $1
		ORDER BY date ASC
	`

	rows, err := s.db.Read().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// The three mutations below filter on (id, user_id) in a single statement.
// That compound filter is the ownership check: a non-owner's request matches
// zero rows and surfaces as ErrTaskNotFound.

func (s *TaskStorage) UpdateStatus(ctx context.Context, taskID, userID string, isDone bool) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET is_done = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.Write().QueryRow(ctx, query, isDone, taskID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return task, nil
}

func (s *TaskStorage) UpdateContent(ctx context.Context, taskID, userID, title, description string) (*models.Task, error) {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.Write().QueryRow(ctx, query, title, description, taskID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task content: %w", err)
	}

	return task, nil
}

func (s *TaskStorage) Delete(ctx context.Context, taskID, userID string) (*models.Task, error) {
	query := `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.Write().QueryRow(ctx, query, taskID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}
