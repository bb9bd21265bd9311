package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/query"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task. Returns ErrTaskNotFound if it does not exist.
	// Inside a transaction the row stays locked until the transaction ends.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update replaces every stored field of an existing task.
	// Returns ErrTaskNotFound if it does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and returns it as it was before removal.
	// Returns ErrTaskNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns the tasks matching opts.Where, ordered by opts.Sort,
	// after skipping opts.Skip and keeping at most opts.Limit (0 = all).
	List(ctx context.Context, opts query.Options) ([]*domain.Task, error)

	// Count returns how many tasks List would return for opts.
	Count(ctx context.Context, opts query.Options) (int, error)

	// AssignMany points every listed task at assignee. Missing ids are
	// skipped. Returns the number of tasks changed.
	AssignMany(ctx context.Context, ids []uuid.UUID, assignee, assigneeName string) (int64, error)

	// RenameAssignee refreshes the cached assignee name on every task
	// assigned to assignee.
	RenameAssignee(ctx context.Context, assignee, assigneeName string) (int64, error)

	// UnassignMany clears the assignment of every listed task and of every
	// task still assigned to assignee.
	UnassignMany(ctx context.Context, ids []uuid.UUID, assignee string) (int64, error)

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
