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

// UserStore is a mock of store.UserStore. WithTx returns the mock itself
// unless an expectation for it is set.
type UserStore struct {
	mock.Mock
}

var _ store.UserStore = (*UserStore)(nil)

// Create is a mock implementation of store.UserStore.Create
func (m *UserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// Update is a mock implementation of store.UserStore.Update
func (m *UserStore) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// Delete is a mock implementation of store.UserStore.Delete
func (m *UserStore) Delete(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

// List is a mock implementation of store.UserStore.List
func (m *UserStore) List(ctx context.Context, opts query.Options) ([]*domain.User, error) {
	args := m.Called(ctx, opts)
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Error(1)
}

// Count is a mock implementation of store.UserStore.Count
func (m *UserStore) Count(ctx context.Context, opts query.Options) (int, error) {
	args := m.Called(ctx, opts)
	return args.Int(0), args.Error(1)
}

// WithTx is a mock implementation of store.UserStore.WithTx
func (m *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	if !hasExpectation(&m.Mock, "WithTx") {
		return m
	}
	if ret, ok := m.Called(tx).Get(0).(store.UserStore); ok {
		return ret
	}
	return m
}
