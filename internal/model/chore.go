package model

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Chore struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssignedTo  *int64   `json:"assigned_to"`
	// AssignedToName is a read-time join over the user table. It is never
	// written back; renaming a user changes it on the next read.
	AssignedToName string    `json:"assigned_to_name,omitempty"`
	DueDate        Date      `json:"due_date"`
	Status         Status    `json:"status"`
	Priority       Priority  `json:"priority"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
