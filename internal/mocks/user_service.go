package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// UserService is a mock of service.UserService.
type UserService struct {
	mock.Mock
}

var _ service.UserService = (*UserService)(nil)

// List is a mock implementation of service.UserService.List
func (m *UserService) List(ctx context.Context, opts query.Options) ([]*domain.User, error) {
	args := m.Called(ctx, opts)
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Error(1)
}

// Count is a mock implementation of service.UserService.Count
func (m *UserService) Count(ctx context.Context, opts query.Options) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

// Get is a mock implementation of service.UserService.Get
func (m *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// Create is a mock implementation of service.UserService.Create
func (m *UserService) Create(ctx context.Context, params service.CreateUserParams) (*domain.User, error) {
	args := m.Called(ctx, params)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// Update is a mock implementation of service.UserService.Update
func (m *UserService) Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (*domain.User, error) {
	args := m.Called(ctx, id, patch)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// Delete is a mock implementation of service.UserService.Delete
func (m *UserService) Delete(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}
