package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Unassigned is the assignedUserName of a task with no assignee.
	Unassigned = "unassigned"

	// DefaultDescription is stored when a task is created without one.
	DefaultDescription = "None"
)

// Timestamp normalises t to UTC at millisecond precision, the resolution
// every supported store keeps.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Task is a unit of work that may be assigned to a single user.
//
// AssignedUser holds the referenced user's id as text, or "" when the task is
// unassigned. AssignedUserName is a cached copy of that user's name.
type Task struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Deadline         time.Time `json:"deadline"`
	Completed        bool      `json:"completed"`
	AssignedUser     string    `json:"assignedUser"`
	AssignedUserName string    `json:"assignedUserName"`
	DateCreated      time.Time `json:"dateCreated"`
}

// NewTask creates an unassigned task with a fresh id and creation time.
// An empty description is replaced with DefaultDescription.
func NewTask(name, description string, deadline time.Time, completed bool) (*Task, error) {
	if description == "" {
		description = DefaultDescription
	}

	task := &Task{
		ID:               uuid.New(),
		Name:             name,
		Description:      description,
		Deadline:         Timestamp(deadline),
		Completed:        completed,
		AssignedUserName: Unassigned,
		DateCreated:      Timestamp(time.Now()),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the task's required fields.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(t.Name) == "" {
		return NewValidationError("name", "is required", ErrValidation)
	}
	if t.Deadline.IsZero() {
		return NewValidationError("deadline", "is required", ErrValidation)
	}
	return nil
}

// IsAssigned reports whether the task references a user.
func (t *Task) IsAssigned() bool {
	return t.AssignedUser != ""
}

// AssignTo points the task at user and refreshes the cached name.
func (t *Task) AssignTo(user *User) {
	t.AssignedUser = user.ID.String()
	t.AssignedUserName = user.Name
}

// Unassign clears the task's reference.
func (t *Task) Unassign() {
	t.AssignedUser = ""
	t.AssignedUserName = Unassigned
}

// TaskPatch is a partial update of a task. A nil field is left untouched.
//
// AssignedUser is kept apart from the other fields because changing it
// requires reconciling both users involved; Apply never touches it.
type TaskPatch struct {
	Name         *string
	Description  *string
	Deadline     *time.Time
	Completed    *bool
	AssignedUser *string
}

// HasAssignment reports whether the patch carries an assignedUser value.
func (p TaskPatch) HasAssignment() bool {
	return p.AssignedUser != nil
}

// Apply copies the present non-assignment fields onto t and revalidates it.
func (p TaskPatch) Apply(t *Task) error {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
		if t.Description == "" {
			t.Description = DefaultDescription
		}
	}
	if p.Deadline != nil {
		t.Deadline = Timestamp(*p.Deadline)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t.Validate()
}
