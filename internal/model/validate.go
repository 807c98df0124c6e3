package model

import (
	"fmt"
	"strings"
)

// ValidationError reports a payload that must not be sent to the server.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CreateChore is the payload for creating a chore.
type CreateChore struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssignedTo  *int64   `json:"assigned_to"`
	DueDate     Date     `json:"due_date"`
	Priority    Priority `json:"priority"`
}

// UpdateChore is the full-replacement payload for updating a chore.
// Every mutable field must be supplied; omitted optional fields are
// treated as cleared, not unchanged.
type UpdateChore struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssignedTo  *int64   `json:"assigned_to"`
	DueDate     Date     `json:"due_date"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
}

// CreateUser is the payload for creating a user.
type CreateUser struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

// ValidateCreate checks required fields and fills defaults.
func ValidateCreate(in CreateChore) (CreateChore, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if in.DueDate.IsZero() {
		return in, &ValidationError{Field: "due_date", Reason: "is required"}
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	return in, nil
}

// ValidateUpdate checks required fields and fills defaults, including the
// pending status when none is supplied.
func ValidateUpdate(in UpdateChore) (UpdateChore, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if in.DueDate.IsZero() {
		return in, &ValidationError{Field: "due_date", Reason: "is required"}
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	return in, nil
}

// ValidateUser checks the user creation payload.
func ValidateUser(in CreateUser) (CreateUser, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return in, nil
}
