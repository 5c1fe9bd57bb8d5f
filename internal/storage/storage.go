package storage

import (
	"context"
	"errors"

	"github.com/nsaetang/taskcal/internal/models"
	usermodel "github.com/nsaetang/taskcal/internal/models/user"
)

// ErrTaskNotFound is returned by task mutations whose compound (id, userID)
// filter matched zero rows. The caller cannot tell whether the task does not
// exist or belongs to someone else, and must not be able to.
var ErrTaskNotFound = errors.New("task not found")

type UserStore interface {
	// CreateUser persists a new user. Email is stored as given; callers
	// canonicalize before reaching the store.
	CreateUser(ctx context.Context, req *usermodel.RegisterRequest, passwordHash string) (*usermodel.User, error)
	// GetUserByEmail returns (nil, nil) when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error)
	// GetUserByID returns (nil, nil) when the id is unknown.
	GetUserByID(ctx context.Context, userID string) (*usermodel.User, error)
	// SetRefreshToken overwrites the user's single refresh-token slot.
	SetRefreshToken(ctx context.Context, userID, token string) error
}

type TaskStore interface {
	Create(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.Task, error)
	// ListByUser returns the user's tasks ordered by date ascending.
	ListByUser(ctx context.Context, userID string) ([]*models.Task, error)
	UpdateStatus(ctx context.Context, taskID, userID string, isDone bool) (*models.Task, error)
	UpdateContent(ctx context.Context, taskID, userID, title, description string) (*models.Task, error)
	Delete(ctx context.Context, taskID, userID string) (*models.Task, error)
}
