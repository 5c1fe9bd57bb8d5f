package handlers

import (
	"net/http"
	"testing"
)

func setupUser(t *testing.T, mux *http.ServeMux, email string) []*http.Cookie {
	t.Helper()
	registerUser(t, mux, email, "secret1")
	return loginUser(t, mux, email, "secret1")
}

func createTask(t *testing.T, mux *http.ServeMux, cookies []*http.Cookie, title, description, date string) string {
	t.Helper()

	rec := doJSON(t, mux, http.MethodPost, "/tasks", map[string]string{
		"title":       title,
		"description": description,
		"date":        date,
	}, cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task failed with status %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	return data["id"].(string)
}

func TestTasks_Unauthenticated(t *testing.T) {
	mux := newTestApp()

	rec := doJSON(t, mux, http.MethodGet, "/tasks", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without credential, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/tasks", nil, []*http.Cookie{
		{Name: "accessToken", Value: "garbage"},
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 with bad credential, got %d", rec.Code)
	}
}

func TestCreateTask(t *testing.T) {
	mux := newTestApp()
	cookies := setupUser(t, mux, "a@x.com")

	rec := doJSON(t, mux, http.MethodPost, "/tasks", map[string]string{
		"title":       "Buy milk",
		"description": "desc",
		"date":        "2024-03-01",
	}, cookies)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	if data["title"] != "Buy milk" || data["isDone"] != false {
		t.Errorf("unexpected task in response: %v", data)
	}
}

func TestCreateTask_MissingFields(t *testing.T) {
	mux := newTestApp()
	cookies := setupUser(t, mux, "a@x.com")

	rec := doJSON(t, mux, http.MethodPost, "/tasks", map[string]string{
		"title": "no description or date",
	}, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateTask_BadDate(t *testing.T) {
	mux := newTestApp()
	cookies := setupUser(t, mux, "a@x.com")

	rec := doJSON(t, mux, http.MethodPost, "/tasks", map[string]string{
		"title":       "T",
		"description": "D",
		"date":        "March 1st",
	}, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unparseable date, got %d", rec.Code)
	}
}

func TestTaskFlow(t *testing.T) {
	mux := newTestApp()
	cookies := setupUser(t, mux, "a@x.com")

	taskID := createTask(t, mux, cookies, "Buy milk", "desc", "2024-03-01")

	rec := doJSON(t, mux, http.MethodGet, "/tasks", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed: %d", rec.Code)
	}
	tasks := decodeBody(t, rec)["tasks"].([]interface{})
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	rec = doJSON(t, mux, http.MethodPatch, "/tasks/"+taskID, map[string]bool{
		"isDone": true,
	}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("status update failed: %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	if data["isDone"] != true {
		t.Error("expected isDone=true after patch")
	}

	rec = doJSON(t, mux, http.MethodPatch, "/tasks/"+taskID+"/content", map[string]string{
		"title":       "Buy oat milk",
		"description": "from the corner shop",
	}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("content update failed: %d: %s", rec.Code, rec.Body.String())
	}
	data = decodeBody(t, rec)["data"].(map[string]interface{})
	if data["title"] != "Buy oat milk" {
		t.Errorf("expected updated title, got %v", data["title"])
	}

	rec = doJSON(t, mux, http.MethodDelete, "/tasks/"+taskID, nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed: %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, mux, http.MethodGet, "/tasks", nil, cookies)
	tasks = decodeBody(t, rec)["tasks"].([]interface{})
	if len(tasks) != 0 {
		t.Errorf("expected empty list after delete, got %d tasks", len(tasks))
	}
}

func TestUpdateStatus_MissingIsDone(t *testing.T) {
	mux := newTestApp()
	cookies := setupUser(t, mux, "a@x.com")
	taskID := createTask(t, mux, cookies, "T", "D", "2024-03-01")

	rec := doJSON(t, mux, http.MethodPatch, "/tasks/"+taskID, map[string]string{}, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when isDone is absent, got %d", rec.Code)
	}
}

func TestTaskMutation_NonOwner(t *testing.T) {
	mux := newTestApp()

	ownerCookies := setupUser(t, mux, "owner@x.com")
	intruderCookies := setupUser(t, mux, "intruder@x.com")

	taskID := createTask(t, mux, ownerCookies, "T", "D", "2024-03-01")

	rec := doJSON(t, mux, http.MethodPatch, "/tasks/"+taskID, map[string]bool{
		"isDone": true,
	}, intruderCookies)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-owner status update, got %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodDelete, "/tasks/"+taskID, nil, intruderCookies)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-owner delete, got %d", rec.Code)
	}

	// The owner still sees the untouched task.
	rec = doJSON(t, mux, http.MethodGet, "/tasks", nil, ownerCookies)
	tasks := decodeBody(t, rec)["tasks"].([]interface{})
	if len(tasks) != 1 {
		t.Fatalf("expected owner's task to survive, got %d tasks", len(tasks))
	}
	task := tasks[0].(map[string]interface{})
	if task["isDone"] != false {
		t.Error("non-owner mutation must not change the task")
	}
}
