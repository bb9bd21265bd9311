package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// TaskStore implements the store.TaskStore interface on a SQL database.
type TaskStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
	inTx    bool
}

// NewTaskStore creates a TaskStore. The db may be a *sql.DB or a *sql.Tx.
// If logger is nil, a default logger will be used.
func NewTaskStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
		inTx:    true,
	}
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during creation",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	q := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.dialect.Rebind(q),
		task.ID,
		task.Name,
		task.Description,
		task.Deadline.UTC(),
		task.Completed,
		task.AssignedUser,
		task.AssignedUserName,
		task.DateCreated.UTC(),
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return wrapError("task", "create", err)
	}

	log.Debug("task created", slog.String("task_id", task.ID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	q := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?` + s.dialect.lockClause(s.inTx)
	task, err := scanTask(s.db.QueryRowContext(ctx, s.dialect.Rebind(q), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, wrapError("task", "get", err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	q := `
		UPDATE tasks
		SET name = ?, description = ?, deadline = ?, completed = ?,
			assigned_user = ?, assigned_user_name = ?
		WHERE id = ?`
	result, err := s.db.ExecContext(ctx, s.dialect.Rebind(q),
		task.Name,
		task.Description,
		task.Deadline.UTC(),
		task.Completed,
		task.AssignedUser,
		task.AssignedUserName,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return wrapError("task", "update", err)
	}

	if err := checkRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for update", slog.String("task_id", task.ID.String()))
		return err
	}

	log.Debug("task updated", slog.String("task_id", task.ID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	q := `DELETE FROM tasks WHERE id = ? RETURNING ` + taskColumns
	task, err := scanTask(s.db.QueryRowContext(ctx, s.dialect.Rebind(q), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for deletion", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, wrapError("task", "delete", err)
	}

	log.Debug("task deleted", slog.String("task_id", id.String()))
	return task, nil
}

// List implements store.TaskStore.List
func (s *TaskStore) List(ctx context.Context, opts query.Options) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	q, args, err := selectPage(s.dialect, TaskSchema, taskColumns, opts)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(q), args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, wrapError("task", "list", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, wrapError("task", "list", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, wrapError("task", "list", err)
	}

	return tasks, nil
}

// Count implements store.TaskStore.Count
func (s *TaskStore) Count(ctx context.Context, opts query.Options) (int, error) {
	q, args, err := countPage(s.dialect, TaskSchema, opts)
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(q), args...).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count tasks",
			slog.String("error", err.Error()))
		return 0, wrapError("task", "count", err)
	}
	return n, nil
}

// AssignMany implements store.TaskStore.AssignMany
func (s *TaskStore) AssignMany(
	ctx context.Context,
	ids []uuid.UUID,
	assignee, assigneeName string,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	args := make([]any, 0, len(ids)+2)
	args = append(args, assignee, assigneeName)
	for _, id := range ids {
		args = append(args, id)
	}

	q := `UPDATE tasks SET assigned_user = ?, assigned_user_name = ? WHERE id IN (` + placeholders(len(ids)) + `)`
	return s.execCount(ctx, "assign tasks", q, args...)
}

// RenameAssignee implements store.TaskStore.RenameAssignee
func (s *TaskStore) RenameAssignee(ctx context.Context, assignee, assigneeName string) (int64, error) {
	q := `UPDATE tasks SET assigned_user_name = ? WHERE assigned_user = ?`
	return s.execCount(ctx, "rename assignee", q, assigneeName, assignee)
}

// UnassignMany implements store.TaskStore.UnassignMany
func (s *TaskStore) UnassignMany(ctx context.Context, ids []uuid.UUID, assignee string) (int64, error) {
	args := make([]any, 0, len(ids)+2)
	args = append(args, domain.Unassigned, assignee)

	q := `UPDATE tasks SET assigned_user = '', assigned_user_name = ? WHERE assigned_user = ?`
	if len(ids) > 0 {
		q += ` OR id IN (` + placeholders(len(ids)) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	return s.execCount(ctx, "unassign tasks", q, args...)
}

// execCount runs a bulk statement and returns the number of rows it changed.
func (s *TaskStore) execCount(ctx context.Context, op, q string, args ...any) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, s.dialect.Rebind(q), args...)
	if err != nil {
		log.Error("failed to "+op, slog.String("error", err.Error()))
		return 0, wrapError("task", op, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	log.Debug(op, slog.Int64("rows", n))
	return n, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.Deadline,
		&t.Completed,
		&t.AssignedUser,
		&t.AssignedUserName,
		&t.DateCreated,
	); err != nil {
		return nil, err
	}
	t.Deadline = t.Deadline.UTC()
	t.DateCreated = t.DateCreated.UTC()
	return &t, nil
}
