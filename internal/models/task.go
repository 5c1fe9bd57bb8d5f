package models

import "time"

// Task is a calendar-pinned todo item. Date is the day the task belongs to,
// not when it was created.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	IsDone      bool      `json:"isDone"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title       string
	Description string
	Date        time.Time
}

type UpdateTaskContentRequest struct {
	Title       string
	Description string
}
