package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/service"
)

// Time is a timestamp accepted as an RFC 3339 string, a plain date or
// milliseconds since the epoch.
type Time struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := query.ParseTime(v)
		if err != nil {
			return err
		}
		t.Time = parsed
	case json.Number:
		ms, err := v.Int64()
		if err != nil {
			return fmt.Errorf("invalid timestamp %s", v)
		}
		t.Time = time.UnixMilli(ms).UTC()
	default:
		return fmt.Errorf("invalid timestamp %s", b)
	}
	return nil
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Name         string `json:"name"         validate:"required"`
	Description  string `json:"description"`
	Deadline     *Time  `json:"deadline"     validate:"required"`
	Completed    bool   `json:"completed"`
	AssignedUser string `json:"assignedUser"`
}

func (req CreateTaskRequest) params() service.CreateTaskParams {
	return service.CreateTaskParams{
		Name:         req.Name,
		Description:  req.Description,
		Deadline:     req.Deadline.Time,
		Completed:    req.Completed,
		AssignedUser: req.AssignedUser,
	}
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}. Absent fields are
// left unchanged; "assignedUser": "" unassigns the task.
type UpdateTaskRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Deadline     *Time   `json:"deadline"`
	Completed    *bool   `json:"completed"`
	AssignedUser *string `json:"assignedUser"`
}

func (req UpdateTaskRequest) patch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Name:         req.Name,
		Description:  req.Description,
		Completed:    req.Completed,
		AssignedUser: req.AssignedUser,
	}
	if req.Deadline != nil {
		patch.Deadline = &req.Deadline.Time
	}
	return patch
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Name         string   `json:"name"         validate:"required"`
	Email        string   `json:"email"        validate:"required,email"`
	PendingTasks []string `json:"pendingTasks" validate:"dive,uuid"`
}

func (req CreateUserRequest) params() service.CreateUserParams {
	return service.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		PendingTasks: req.PendingTasks,
	}
}

// UpdateUserRequest is the body of PUT /api/users/{id}. A present
// pendingTasks replaces the whole list.
type UpdateUserRequest struct {
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	PendingTasks *[]string `json:"pendingTasks"`
}

func (req UpdateUserRequest) patch() domain.UserPatch {
	return domain.UserPatch{
		Name:         req.Name,
		Email:        req.Email,
		PendingTasks: req.PendingTasks,
	}
}

// taskDocument renders a task under its JSON field names so a projection
// can be applied to it.
func taskDocument(t *domain.Task) map[string]any {
	return map[string]any{
		"id":               t.ID.String(),
		"name":             t.Name,
		"description":      t.Description,
		"deadline":         t.Deadline,
		"completed":        t.Completed,
		"assignedUser":     t.AssignedUser,
		"assignedUserName": t.AssignedUserName,
		"dateCreated":      t.DateCreated,
	}
}

func userDocument(u *domain.User) map[string]any {
	pending := u.PendingTasks
	if pending == nil {
		pending = []string{}
	}
	return map[string]any{
		"id":           u.ID.String(),
		"name":         u.Name,
		"email":        u.Email,
		"pendingTasks": pending,
		"dateCreated":  u.DateCreated,
	}
}
