package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// User is a person tasks can be assigned to. PendingTasks lists the ids of the
// tasks currently assigned to the user, in assignment order.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PendingTasks []string  `json:"pendingTasks"`
	DateCreated  time.Time `json:"dateCreated"`
}

// NewUser creates a user with no pending tasks.
func NewUser(name, email string) (*User, error) {
	user := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.TrimSpace(email),
		PendingTasks: []string{},
		DateCreated:  Timestamp(time.Now()),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the user's required fields.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if strings.TrimSpace(u.Name) == "" {
		return NewValidationError("name", "is required", ErrValidation)
	}
	if u.Email == "" {
		return NewValidationError("email", "is required", ErrValidation)
	}
	if err := validate.Var(u.Email, "email"); err != nil {
		return NewValidationError("email", "has invalid format", ErrValidation)
	}
	return nil
}

// HasPendingTask reports whether taskID is in the user's pending list.
func (u *User) HasPendingTask(taskID string) bool {
	return slices.Contains(u.PendingTasks, taskID)
}

// AddPendingTask appends taskID unless it is already listed.
// It reports whether the list changed.
func (u *User) AddPendingTask(taskID string) bool {
	if u.HasPendingTask(taskID) {
		return false
	}
	u.PendingTasks = append(u.PendingTasks, taskID)
	return true
}

// RemovePendingTask drops every occurrence of taskID.
// It reports whether the list changed.
func (u *User) RemovePendingTask(taskID string) bool {
	before := len(u.PendingTasks)
	u.PendingTasks = slices.DeleteFunc(u.PendingTasks, func(id string) bool {
		return id == taskID
	})
	return len(u.PendingTasks) != before
}

// UserPatch is a partial update of a user. A nil field is left untouched.
// PendingTasks is a full replacement of the list when present.
type UserPatch struct {
	Name         *string
	Email        *string
	PendingTasks *[]string
}

// Apply copies the present fields onto u and revalidates it.
func (p UserPatch) Apply(u *User) error {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = strings.TrimSpace(*p.Email)
	}
	if p.PendingTasks != nil {
		u.PendingTasks = slices.Clone(*p.PendingTasks)
		if u.PendingTasks == nil {
			u.PendingTasks = []string{}
		}
	}
	return u.Validate()
}
