package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/query"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create saves a new user.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user. Returns ErrUserNotFound if it does not exist.
	// Inside a transaction the row stays locked until the transaction ends.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Update replaces every stored field of an existing user.
	// Returns ErrUserNotFound if it does not exist and ErrEmailExists if the
	// new email is taken.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user and returns it as it was before removal.
	// Returns ErrUserNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List returns the users matching opts; see TaskStore.List.
	List(ctx context.Context, opts query.Options) ([]*domain.User, error)

	// Count returns how many users List would return for opts.
	Count(ctx context.Context, opts query.Options) (int, error)

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
