package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nsaetang/taskcal/internal/auth"
	"github.com/nsaetang/taskcal/internal/middleware"
	"github.com/nsaetang/taskcal/internal/service"
	"github.com/nsaetang/taskcal/internal/storage"
)

// newTestApp wires the full HTTP surface over in-memory stores, mirroring the
// route table in cmd/server.
func newTestApp() *http.ServeMux {
	users := storage.NewMemoryUserStorage()
	tasks := storage.NewMemoryTaskStorage()

	accessTokens := auth.NewJWTManager("test-access-secret", 24*time.Hour)
	refreshTokens := auth.NewJWTManager("test-refresh-secret", 7*24*time.Hour)

	authService := service.NewAuthService(users, accessTokens, refreshTokens)
	taskService := service.NewTaskService(tasks)

	authHandler := NewAuthHandler(authService, nil, false)
	taskHandler := NewTaskHandler(taskService)
	authGuard := middleware.NewAuthMiddleware(accessTokens)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /auth/refresh", authHandler.Refresh)
	mux.HandleFunc("GET /tasks", authGuard.RequireAuth(taskHandler.List))
	mux.HandleFunc("POST /tasks", authGuard.RequireAuth(taskHandler.Create))
	mux.HandleFunc("PATCH /tasks/{id}", authGuard.RequireAuth(taskHandler.UpdateStatus))
	mux.HandleFunc("PATCH /tasks/{id}/content", authGuard.RequireAuth(taskHandler.UpdateContent))
	mux.HandleFunc("DELETE /tasks/{id}", authGuard.RequireAuth(taskHandler.Delete))

	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, mux *http.ServeMux, email, password string) {
	t.Helper()

	rec := doJSON(t, mux, http.MethodPost, "/auth/register", map[string]string{
		"email":       email,
		"password":    password,
		"passwordCon": password,
		"first_name":  "Test",
		"last_name":   "User",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("registration failed with status %d: %s", rec.Code, rec.Body.String())
	}
}

func loginUser(t *testing.T, mux *http.ServeMux, email, password string) []*http.Cookie {
	t.Helper()

	rec := doJSON(t, mux, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with status %d: %s", rec.Code, rec.Body.String())
	}
	return rec.Result().Cookies()
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}
