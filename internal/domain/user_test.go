package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("Ada", " ada@example.com ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Email != "ada@example.com" {
		t.Errorf("Expected trimmed email, got %q", user.Email)
	}
	if user.PendingTasks == nil || len(user.PendingTasks) != 0 {
		t.Errorf("Expected empty pending list, got %v", user.PendingTasks)
	}
	if user.DateCreated.IsZero() {
		t.Error("Expected non-zero DateCreated")
	}
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name      string
		userName  string
		email     string
		wantField string
	}{
		{"missing name", "", "ada@example.com", "name"},
		{"blank name", "   ", "ada@example.com", "name"},
		{"missing email", "Ada", "", "email"},
		{"malformed email", "Ada", "not-an-email", "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.userName, tt.email)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Expected ErrValidation, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.wantField {
				t.Errorf("Expected validation error on %q, got %v", tt.wantField, err)
			}
		})
	}
}

func TestUserPendingTasks(t *testing.T) {
	user := &User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}

	if !user.AddPendingTask("t1") {
		t.Error("Expected first add to change the list")
	}
	if user.AddPendingTask("t1") {
		t.Error("Expected duplicate add to be a no-op")
	}
	user.AddPendingTask("t2")

	if got := len(user.PendingTasks); got != 2 {
		t.Fatalf("Expected 2 pending tasks, got %d", got)
	}

	if !user.RemovePendingTask("t1") {
		t.Error("Expected remove to change the list")
	}
	if user.RemovePendingTask("t1") {
		t.Error("Expected second remove to be a no-op")
	}
	if user.HasPendingTask("t1") || !user.HasPendingTask("t2") {
		t.Errorf("Unexpected pending list %v", user.PendingTasks)
	}
}

func TestUserPatchApply(t *testing.T) {
	user := &User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", PendingTasks: []string{"t1"}}

	name := "Grace"
	err := UserPatch{Name: &name}.Apply(user)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Name != "Grace" || len(user.PendingTasks) != 1 {
		t.Errorf("Unexpected user after name patch: %+v", user)
	}

	empty := []string{}
	if err := (UserPatch{PendingTasks: &empty}).Apply(user); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.PendingTasks == nil || len(user.PendingTasks) != 0 {
		t.Errorf("Expected pending list replaced with empty list, got %v", user.PendingTasks)
	}

	bad := "nope"
	if err := (UserPatch{Email: &bad}).Apply(user); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for bad email, got %v", err)
	}
}
