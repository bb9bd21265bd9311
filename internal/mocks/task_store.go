package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TaskStore is a mock of store.TaskStore. WithTx returns the mock itself
// unless an expectation for it is set.
type TaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create is a mock implementation of store.TaskStore.Create
func (m *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

// Update is a mock implementation of store.TaskStore.Update
func (m *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

// Delete is a mock implementation of store.TaskStore.Delete
func (m *TaskStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

// List is a mock implementation of store.TaskStore.List
func (m *TaskStore) List(ctx context.Context, opts query.Options) ([]*domain.Task, error) {
	args := m.Called(ctx, opts)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

// Count is a mock implementation of store.TaskStore.Count
func (m *TaskStore) Count(ctx context.Context, opts query.Options) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

// AssignMany is a mock implementation of store.TaskStore.AssignMany
func (m *TaskStore) AssignMany(
	ctx context.Context,
	ids []uuid.UUID,
	assignee, assigneeName string,
) (int64, error) {
	args := m.Called(ctx, ids, assignee, assigneeName)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

// RenameAssignee is a mock implementation of store.TaskStore.RenameAssignee
func (m *TaskStore) RenameAssignee(ctx context.Context, assignee, assigneeName string) (int64, error) {
	args := m.Called(ctx, assignee, assigneeName)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

// UnassignMany is a mock implementation of store.TaskStore.UnassignMany
func (m *TaskStore) UnassignMany(ctx context.Context, ids []uuid.UUID, assignee string) (int64, error) {
	args := m.Called(ctx, ids, assignee)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

// WithTx is a mock implementation of store.TaskStore.WithTx
func (m *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	if !hasExpectation(&m.Mock, "WithTx") {
		return m
	}
	if ret, ok := m.Called(tx).Get(0).(store.TaskStore); ok {
		return ret
	}
	return m
}

func hasExpectation(m *mock.Mock, method string) bool {
	for _, call := range m.ExpectedCalls {
		if call.Method == method {
			return true
		}
	}
	return false
}
