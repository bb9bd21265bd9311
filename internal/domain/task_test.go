package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	deadline := time.Date(2030, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))

	task, err := NewTask("Write report", "", deadline, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected generated id")
	}
	if task.Description != DefaultDescription {
		t.Errorf("Expected default description, got %q", task.Description)
	}
	if task.AssignedUser != "" || task.AssignedUserName != Unassigned {
		t.Errorf("Expected unassigned task, got %q/%q", task.AssignedUser, task.AssignedUserName)
	}
	if task.Deadline.Location() != time.UTC || !task.Deadline.Equal(deadline) {
		t.Errorf("Expected deadline normalised to UTC, got %v", task.Deadline)
	}
	if task.DateCreated.IsZero() {
		t.Error("Expected DateCreated to be set")
	}
}

func TestNewTaskValidation(t *testing.T) {
	if _, err := NewTask("", "", time.Now(), false); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for missing name, got %v", err)
	}
	if _, err := NewTask("x", "", time.Time{}, false); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for missing deadline, got %v", err)
	}
}

func TestTaskAssignment(t *testing.T) {
	task, err := NewTask("x", "y", time.Now(), false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	user := &User{ID: uuid.New(), Name: "Ada"}

	task.AssignTo(user)
	if !task.IsAssigned() || task.AssignedUser != user.ID.String() || task.AssignedUserName != "Ada" {
		t.Errorf("Unexpected assignment %q/%q", task.AssignedUser, task.AssignedUserName)
	}

	task.Unassign()
	if task.IsAssigned() || task.AssignedUserName != Unassigned {
		t.Errorf("Expected task to be unassigned, got %q/%q", task.AssignedUser, task.AssignedUserName)
	}
}

func TestTaskPatchApply(t *testing.T) {
	task, err := NewTask("x", "y", time.Now(), false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	task.AssignedUser = "someone"

	done := true
	desc := ""
	patch := TaskPatch{Completed: &done, Description: &desc}
	if patch.HasAssignment() {
		t.Error("Expected patch without assignment")
	}
	if err := patch.Apply(task); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !task.Completed || task.Description != DefaultDescription {
		t.Errorf("Unexpected task after patch: %+v", task)
	}
	if task.AssignedUser != "someone" {
		t.Error("Apply must not touch the assignment")
	}

	empty := ""
	if err := (TaskPatch{Name: &empty}).Apply(task); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for empty name, got %v", err)
	}
}
