package user

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email       string
	Password    string
	PasswordCon string
	FirstName   string
	LastName    string
}

type LoginRequest struct {
	Email    string
	Password string
}

// LoginResult carries everything a successful login produces. Tokens travel
// to the client in cookies, never in the response body.
type LoginResult struct {
	User             *User
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
