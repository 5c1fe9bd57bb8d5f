package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nsaetang/taskcal/internal/events"
	"github.com/nsaetang/taskcal/internal/logger"
	"github.com/nsaetang/taskcal/internal/middleware"
	usermodel "github.com/nsaetang/taskcal/internal/models/user"
	"github.com/nsaetang/taskcal/internal/service"
	"github.com/nsaetang/taskcal/internal/validation"
)

const refreshTokenCookie = "refreshToken"

type AuthHandler struct {
	authService  *service.AuthService
	audit        *events.AuditProducer
	cookieSecure bool
	log          *logger.Logger
}

// NewAuthHandler wires the auth endpoints. audit may be nil when no Redis is
// configured; events are then dropped silently.
func NewAuthHandler(authService *service.AuthService, audit *events.AuditProducer, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		audit:        audit,
		cookieSecure: cookieSecure,
		log:          logger.New("auth-handler"),
	}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PasswordCon string `json:"passwordCon"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("register: failed to decode request: %v", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.authService.Register(r.Context(), &usermodel.RegisterRequest{
		Email:       req.Email,
		Password:    req.Password,
		PasswordCon: req.PasswordCon,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		h.log.Error("register: %v", err)
		h.publishAudit("register", "", req.Email, events.OutcomeFailure, err.Error())
		if isClientError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.log.Info("register: created user %s", u.ID)
	h.publishAudit("register", u.ID, u.Email, events.OutcomeSuccess, "")

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "registration complete",
		"data":    u,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error("login: failed to decode request: %v", err)
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), &usermodel.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.log.Error("login: %v", err)
		h.publishAudit("login", "", req.Email, events.OutcomeFailure, err.Error())
		if isClientError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.setCookie(w, middleware.AccessTokenCookie, result.AccessToken, result.AccessExpiresAt)
	h.setCookie(w, refreshTokenCookie, result.RefreshToken, result.RefreshExpiresAt)

	h.log.Info("login: user %s", result.User.ID)
	h.publishAudit("login", result.User.ID, result.User.Email, events.OutcomeSuccess, "")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "login successful",
		"user":    result.User,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, middleware.AccessTokenCookie)
	h.clearCookie(w, refreshTokenCookie)

	if claims := middleware.GetClaims(r.Context()); claims != nil {
		h.publishAudit("logout", claims.UserID, claims.Email, events.OutcomeSuccess, "")
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		respondError(w, http.StatusUnauthorized, "refresh token missing")
		return
	}

	accessToken, expiresAt, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.log.Error("refresh: %v", err)
		h.publishAudit("refresh", "", "", events.OutcomeFailure, err.Error())
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			respondError(w, http.StatusForbidden, "invalid refresh token")
			return
		}
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.setCookie(w, middleware.AccessTokenCookie, accessToken, expiresAt)
	h.publishAudit("refresh", "", "", events.OutcomeSuccess, "")

	respondJSON(w, http.StatusOK, map[string]string{"message": "token refreshed"})
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) publishAudit(operation, userID, email, outcome, detail string) {
	if h.audit == nil {
		return
	}

	// Fire-and-forget: the request never waits on the audit stream.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		event := &events.AuditEvent{
			Operation: operation,
			UserID:    userID,
			Email:     email,
			Outcome:   outcome,
			Detail:    detail,
		}
		if err := h.audit.Publish(ctx, event); err != nil {
			h.log.Warn("failed to publish audit event: %v", err)
		}
	}()
}

// isClientError reports whether err is the caller's fault and safe to echo
// back verbatim.
func isClientError(err error) bool {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrEmailExists),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, validation.ErrEmailRequired),
		errors.Is(err, validation.ErrEmailInvalid),
		errors.Is(err, validation.ErrPasswordRequired),
		errors.Is(err, validation.ErrPasswordTooShort):
		return true
	}
	return false
}
