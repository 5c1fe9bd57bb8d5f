package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nsaetang/taskcal/internal/models"
	usermodel "github.com/nsaetang/taskcal/internal/models/user"
)

// MemoryUserStorage and MemoryTaskStorage back the service tests and local
// development without a database. They implement the same contracts as the
// Postgres stores, including the compound-key semantics on task mutations.

type MemoryUserStorage struct {
	mu    sync.RWMutex
	users map[string]*usermodel.User
}

func NewMemoryUserStorage() *MemoryUserStorage {
	return &MemoryUserStorage{
		users: make(map[string]*usermodel.User),
	}
}

func (s *MemoryUserStorage) CreateUser(ctx context.Context, req *usermodel.RegisterRequest, passwordHash string) (*usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	u := &usermodel.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u

	copied := *u
	return &copied, nil
}

func (s *MemoryUserStorage) GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStorage) GetUserByID(ctx context.Context, userID string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[userID]
	if !exists {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryUserStorage) SetRefreshToken(ctx context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[userID]
	if !exists {
		return fmt.Errorf("no user with id %s", userID)
	}
	u.RefreshToken = token
	u.UpdatedAt = time.Now()
	return nil
}

type MemoryTaskStorage struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
}

func NewMemoryTaskStorage() *MemoryTaskStorage {
	return &MemoryTaskStorage{
		tasks: make(map[string]*models.Task),
	}
}

func (s *MemoryTaskStorage) Create(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	t := &models.Task{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		IsDone:      false,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t

	copied := *t
	return &copied, nil
}

func (s *MemoryTaskStorage) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*models.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == userID {
			copied := *t
			tasks = append(tasks, &copied)
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Date.Before(tasks[j].Date)
	})

	return tasks, nil
}

func (s *MemoryTaskStorage) UpdateStatus(ctx context.Context, taskID, userID string, isDone bool) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.tasks[taskID]
	if !exists || t.UserID != userID {
		return nil, ErrTaskNotFound
	}

	t.IsDone = isDone
	t.UpdatedAt = time.Now()

	copied := *t
	return &copied, nil
}

func (s *MemoryTaskStorage) UpdateContent(ctx context.Context, taskID, userID, title, description string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.tasks[taskID]
	if !exists || t.UserID != userID {
		return nil, ErrTaskNotFound
	}

	t.Title = title
	t.Description = description
	t.UpdatedAt = time.Now()

	copied := *t
	return &copied, nil
}

func (s *MemoryTaskStorage) Delete(ctx context.Context, taskID, userID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.tasks[taskID]
	if !exists || t.UserID != userID {
		return nil, ErrTaskNotFound
	}

	delete(s.tasks, taskID)

	copied := *t
	return &copied, nil
}
