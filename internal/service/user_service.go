package service

import (
	"context"
	"database/sql"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// CreateUserParams holds the client-supplied fields of a new user.
type CreateUserParams struct {
	Name         string
	Email        string
	PendingTasks []string
}

// UserService provides user operations that keep assignments consistent.
type UserService interface {
	// List returns the users matching opts.
	List(ctx context.Context, opts query.Options) ([]*domain.User, error)

	// Count returns the number of users List would return for opts.
	Count(ctx context.Context, opts query.Options) (int, error)

	// Get retrieves a user by id.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Create stores a new user and points every task in its initial
	// pendingTasks at it.
	Create(ctx context.Context, params CreateUserParams) (*domain.User, error)

	// Update applies patch to a user. A replacement pendingTasks list points
	// every listed task at the user; a name change is copied to every task
	// assigned to the user.
	Update(ctx context.Context, id uuid.UUID, patch domain.UserPatch) (*domain.User, error)

	// Delete removes a user and unassigns its tasks.
	Delete(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	db        *sql.DB
	taskStore store.TaskStore
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
// It returns an error if any of the required dependencies are nil.
func NewUserService(
	db *sql.DB,
	taskStore store.TaskStore,
	userStore store.UserStore,
	logger *slog.Logger,
) (UserService, error) {
	if db == nil {
		return nil, &ServiceError{Service: "user", Operation: "create_service", Message: "db cannot be nil"}
	}
	if taskStore == nil {
		return nil, &ServiceError{Service: "user", Operation: "create_service", Message: "taskStore cannot be nil"}
	}
	if userStore == nil {
		return nil, &ServiceError{Service: "user", Operation: "create_service", Message: "userStore cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		db:        db,
		taskStore: taskStore,
		userStore: userStore,
		logger:    logger.With(slog.String("component", "user_service")),
	}, nil
}

// List implements UserService.List
func (s *userServiceImpl) List(ctx context.Context, opts query.Options) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx, opts)
	if err != nil {
		return nil, NewServiceError("user", "list", "failed to list users", err)
	}
	return users, nil
}

// Count implements UserService.Count
func (s *userServiceImpl) Count(ctx context.Context, opts query.Options) (int, error) {
	n, err := s.userStore.Count(ctx, opts)
	if err != nil {
		return 0, NewServiceError("user", "count", "failed to count users", err)
	}
	return n, nil
}

// Get implements UserService.Get
func (s *userServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("user", "get", "failed to retrieve user", err)
	}
	return user, nil
}

// Create implements UserService.Create
func (s *userServiceImpl) Create(ctx context.Context, params CreateUserParams) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(params.Name, params.Email)
	if err != nil {
		return nil, err
	}

	taskIDs, err := parseTaskIDs(params.PendingTasks)
	if err != nil {
		return nil, err
	}
	if params.PendingTasks != nil {
		user.PendingTasks = slices.Clone(params.PendingTasks)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.userStore.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		_, err := s.taskStore.WithTx(tx).AssignMany(ctx, taskIDs, user.ID.String(), user.Name)
		return err
	})
	if err != nil {
		return nil, NewServiceError("user", "create", "failed to create user", err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.Int("pending_tasks", len(user.PendingTasks)))
	return user, nil
}

// Update implements UserService.Update
func (s *userServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	patch domain.UserPatch,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var taskIDs []uuid.UUID
	if patch.PendingTasks != nil {
		var err error
		if taskIDs, err = parseTaskIDs(*patch.PendingTasks); err != nil {
			return nil, err
		}
	}

	var user *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)
		users := s.userStore.WithTx(tx)

		var err error
		user, err = users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		previousName := user.Name

		if err := patch.Apply(user); err != nil {
			return err
		}

		if err := users.Update(ctx, user); err != nil {
			return err
		}

		// Blind overwrite: tasks dropped from the list keep their assignment.
		if patch.PendingTasks != nil {
			if _, err := tasks.AssignMany(ctx, taskIDs, user.ID.String(), user.Name); err != nil {
				return err
			}
		}

		if user.Name != previousName {
			if _, err := tasks.RenameAssignee(ctx, user.ID.String(), user.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("user", "update", "failed to update user", err)
	}

	log.Info("user updated",
		slog.String("user_id", user.ID.String()),
		slog.Bool("pending_tasks_replaced", patch.PendingTasks != nil))
	return user, nil
}

// Delete implements UserService.Delete
func (s *userServiceImpl) Delete(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removed *domain.User
	var unassigned int64
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		removed, err = s.userStore.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}

		unassigned, err = s.taskStore.WithTx(tx).UnassignMany(ctx,
			knownTaskIDs(removed.PendingTasks), removed.ID.String())
		return err
	})
	if err != nil {
		return nil, NewServiceError("user", "delete", "failed to delete user", err)
	}

	log.Info("user deleted",
		slog.String("user_id", removed.ID.String()),
		slog.Int64("tasks_unassigned", unassigned))
	return removed, nil
}
