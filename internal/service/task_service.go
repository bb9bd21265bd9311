package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// CreateTaskParams holds the client-supplied fields of a new task.
type CreateTaskParams struct {
	Name         string
	Description  string
	Deadline     time.Time
	Completed    bool
	AssignedUser string
}

// TaskService provides task operations that keep assignments consistent.
type TaskService interface {
	// List returns the tasks matching opts.
	List(ctx context.Context, opts query.Options) ([]*domain.Task, error)

	// Count returns the number of tasks List would return for opts.
	Count(ctx context.Context, opts query.Options) (int, error)

	// Get retrieves a task by id.
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Create stores a new task and, when the assignee exists, adds the task
	// to the assignee's pendingTasks.
	Create(ctx context.Context, params CreateTaskParams) (*domain.Task, error)

	// Update applies patch to a task. When the patch carries an assignment
	// the previous and new assignees are reconciled.
	Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes a task and drops it from its assignee's pendingTasks.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	db        *sql.DB
	taskStore store.TaskStore
	userStore store.UserStore
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	db *sql.DB,
	taskStore store.TaskStore,
	userStore store.UserStore,
	logger *slog.Logger,
) (TaskService, error) {
	if db == nil {
		return nil, &ServiceError{Service: "task", Operation: "create_service", Message: "db cannot be nil"}
	}
	if taskStore == nil {
		return nil, &ServiceError{Service: "task", Operation: "create_service", Message: "taskStore cannot be nil"}
	}
	if userStore == nil {
		return nil, &ServiceError{Service: "task", Operation: "create_service", Message: "userStore cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		db:        db,
		taskStore: taskStore,
		userStore: userStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, opts query.Options) ([]*domain.Task, error) {
	tasks, err := s.taskStore.List(ctx, opts)
	if err != nil {
		return nil, NewServiceError("task", "list", "failed to list tasks", err)
	}
	return tasks, nil
}

// Count implements TaskService.Count
func (s *taskServiceImpl) Count(ctx context.Context, opts query.Options) (int, error) {
	n, err := s.taskStore.Count(ctx, opts)
	if err != nil {
		return 0, NewServiceError("task", "count", "failed to count tasks", err)
	}
	return n, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("task", "get", "failed to retrieve task", err)
	}
	return task, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(params.Name, params.Description, params.Deadline, params.Completed)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)
		users := s.userStore.WithTx(tx)

		if params.AssignedUser != "" {
			// An unknown assignee keeps the reference with the unassigned name.
			task.AssignedUser = params.AssignedUser

			assignee, err := lookupUser(ctx, users, params.AssignedUser)
			switch {
			case err == nil:
				task.AssignTo(assignee)
				if assignee.AddPendingTask(task.ID.String()) {
					if err := users.Update(ctx, assignee); err != nil {
						return err
					}
				}
			case errors.Is(err, store.ErrUserNotFound):
				log.Warn("task created with unknown assignee",
					slog.String("task_id", task.ID.String()),
					slog.String("assigned_user", params.AssignedUser))
			default:
				return err
			}
		}

		return tasks.Create(ctx, task)
	})
	if err != nil {
		return nil, NewServiceError("task", "create", "failed to create task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("assigned_user", task.AssignedUser))
	return task, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var task *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)
		users := s.userStore.WithTx(tx)

		var err error
		task, err = tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err := patch.Apply(task); err != nil {
			return err
		}

		if patch.HasAssignment() {
			if err := s.reassign(ctx, users, task, *patch.AssignedUser); err != nil {
				return err
			}
		}

		return tasks.Update(ctx, task)
	})
	if err != nil {
		return nil, NewServiceError("task", "update", "failed to update task", err)
	}

	log.Info("task updated",
		slog.String("task_id", task.ID.String()),
		slog.Bool("reassigned", patch.HasAssignment()))
	return task, nil
}

// reassign moves task from its current assignee to ref. An empty ref
// unassigns the task.
func (s *taskServiceImpl) reassign(
	ctx context.Context,
	users store.UserStore,
	task *domain.Task,
	ref string,
) error {
	taskID := task.ID.String()

	if ref == "" {
		if task.IsAssigned() {
			previous, err := lookupUser(ctx, users, task.AssignedUser)
			switch {
			case err == nil:
				if previous.RemovePendingTask(taskID) {
					if err := users.Update(ctx, previous); err != nil {
						return err
					}
				}
			case errors.Is(err, store.ErrUserNotFound):
				// Unassigning is how a dangling reference gets repaired.
				logger.FromContextOrDefault(ctx, s.logger).Warn("clearing reference to missing user",
					slog.String("task_id", taskID),
					slog.String("assigned_user", task.AssignedUser))
			default:
				return err
			}
		}
		task.Unassign()
		return nil
	}

	assignee, err := lookupUser(ctx, users, ref)
	if err != nil {
		return err
	}

	if task.IsAssigned() && task.AssignedUser != assignee.ID.String() {
		previous, err := lookupUser(ctx, users, task.AssignedUser)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return ErrPreviousUserNotFound
			}
			return err
		}
		if previous.RemovePendingTask(taskID) {
			if err := users.Update(ctx, previous); err != nil {
				return err
			}
		}
	}

	task.AssignTo(assignee)
	if assignee.AddPendingTask(taskID) {
		return users.Update(ctx, assignee)
	}
	return nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		removed  *domain.Task
		orphaned bool
	)
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.taskStore.WithTx(tx)
		users := s.userStore.WithTx(tx)

		var err error
		removed, err = tasks.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !removed.IsAssigned() {
			return nil
		}

		assignee, err := lookupUser(ctx, users, removed.AssignedUser)
		if errors.Is(err, store.ErrUserNotFound) {
			// The removal stands; the caller still learns the reference was dangling.
			orphaned = true
			return nil
		}
		if err != nil {
			return err
		}
		if assignee.RemovePendingTask(removed.ID.String()) {
			return users.Update(ctx, assignee)
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("task", "delete", "failed to delete task", err)
	}

	if orphaned {
		log.Warn("deleted task referenced a missing user",
			slog.String("task_id", removed.ID.String()),
			slog.String("assigned_user", removed.AssignedUser))
		return nil, store.ErrUserNotFound
	}

	log.Info("task deleted", slog.String("task_id", removed.ID.String()))
	return removed, nil
}

// lookupUser loads the user referenced by ref. A reference that is not an
// id cannot match any user and reports store.ErrUserNotFound.
func lookupUser(ctx context.Context, users store.UserStore, ref string) (*domain.User, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, store.ErrUserNotFound
	}
	return users.GetByID(ctx, id)
}
