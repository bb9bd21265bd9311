package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// TaskService is a mock of service.TaskService.
type TaskService struct {
	mock.Mock
}

var _ service.TaskService = (*TaskService)(nil)

// List is a mock implementation of service.TaskService.List
func (m *TaskService) List(ctx context.Context, opts query.Options) ([]*domain.Task, error) {
	args := m.Called(ctx, opts)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

// Count is a mock implementation of service.TaskService.Count
func (m *TaskService) Count(ctx context.Context, opts query.Options) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

// Get is a mock implementation of service.TaskService.Get
func (m *TaskService) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

// Create is a mock implementation of service.TaskService.Create
func (m *TaskService) Create(ctx context.Context, params service.CreateTaskParams) (*domain.Task, error) {
	args := m.Called(ctx, params)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

// Update is a mock implementation of service.TaskService.Update
func (m *TaskService) Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	args := m.Called(ctx, id, patch)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

// Delete is a mock implementation of service.TaskService.Delete
func (m *TaskService) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}
