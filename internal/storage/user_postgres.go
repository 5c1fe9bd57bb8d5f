package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nsaetang/taskcal/internal/database"
	usermodel "github.com/nsaetang/taskcal/internal/models/user"
)

type UserStorage struct {
	db *database.DBManager
}

func NewUserStorage(db *database.DBManager) *UserStorage {
	return &UserStorage{db: db}
}

func (s *UserStorage) CreateUser(ctx context.Context, req *usermodel.RegisterRequest, passwordHash string) (*usermodel.User, error) {
	userID := uuid.New().String()
	now := time.Now()

	query := `
		INSERT INTO users (id, email, first_name, last_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, email, first_name, last_name, created_at, updated_at
	`

	var u usermodel.User
	err := s.db.Write().QueryRow(ctx, query,
		userID,
		req.Email,
		req.FirstName,
		req.LastName,
		passwordHash,
		now,
		now,
	).Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &u, nil
}

func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, COALESCE(refresh_token, ''), created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var u usermodel.User
	err := s.db.Read().QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.RefreshToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID string) (*usermodel.User, error) {
	query := `
		SELECT id, email, first_name, last_name, password_hash, COALESCE(refresh_token, ''), created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u usermodel.User
	err := s.db.Read().QueryRow(ctx, query, userID).Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.RefreshToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// SetRefreshToken is a last-write-wins single-slot update: every login and
// rotation replaces whatever token was stored before.
func (s *UserStorage) SetRefreshToken(ctx context.Context, userID, token string) error {
	query := `
		UPDATE users
		SET refresh_token = $1, updated_at = NOW()
		WHERE id = $2
	`

	tag, err := s.db.Write().Exec(ctx, query, token, userID)
	if err != nil {
		return fmt.Errorf("failed to set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to set refresh token: no user with id %s", userID)
	}

	return nil
}
