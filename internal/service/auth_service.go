package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nsaetang/taskcal/internal/auth"
	usermodel "github.com/nsaetang/taskcal/internal/models/user"
	"github.com/nsaetang/taskcal/internal/storage"
	"github.com/nsaetang/taskcal/internal/validation"
)

// AuthService drives the identity lifecycle: register, login, refresh.
// All input validation happens here before any store access.
type AuthService struct {
	users         storage.UserStore
	accessTokens  *auth.JWTManager
	refreshTokens *auth.JWTManager
}

func NewAuthService(users storage.UserStore, accessTokens, refreshTokens *auth.JWTManager) *AuthService {
	return &AuthService{
		users:         users,
		accessTokens:  accessTokens,
		refreshTokens: refreshTokens,
	}
}

func (s *AuthService) Register(ctx context.Context, req *usermodel.RegisterRequest) (*usermodel.User, error) {
	if req.Email == "" || req.Password == "" || req.PasswordCon == "" ||
		req.FirstName == "" || req.LastName == "" {
		return nil, ErrMissingFields
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if req.Password != req.PasswordCon {
		return nil, ErrPasswordMismatch
	}

	// Emails are canonicalized to lower case so uniqueness is
	// case-insensitive.
	email := strings.ToLower(req.Email)

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.CreateUser(ctx, &usermodel.RegisterRequest{
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return sanitize(created), nil
}

func (s *AuthService) Login(ctx context.Context, req *usermodel.LoginRequest) (*usermodel.LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, err
	}

	email := strings.ToLower(req.Email)

	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, accessExpiresAt, err := s.accessTokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.refreshTokens.GenerateToken(u.ID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// The single store write of this operation. Overwriting the slot
	// invalidates every refresh token issued before this login.
	if err := s.users.SetRefreshToken(ctx, u.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &usermodel.LoginResult{
		User:             sanitize(u),
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExpiresAt,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The token
// must verify cryptographically AND match the user's stored slot, so a token
// superseded by a newer login is rejected even before its expiry.
// The refresh token itself is not rotated here.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.refreshTokens.ValidateToken(refreshToken)
	if err != nil {
		return "", time.Time{}, ErrInvalidRefreshToken
	}

	u, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to get user: %w", err)
	}
	if u == nil || u.RefreshToken != refreshToken {
		return "", time.Time{}, ErrInvalidRefreshToken
	}

	accessToken, expiresAt, err := s.accessTokens.GenerateToken(u.ID, u.Email)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, expiresAt, nil
}

// sanitize strips credential material before a user record leaves the
// service layer.
func sanitize(u *usermodel.User) *usermodel.User {
	copied := *u
	copied.PasswordHash = ""
	copied.RefreshToken = ""
	return &copied
}
