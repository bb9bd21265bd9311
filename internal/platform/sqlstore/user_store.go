package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/platform/logger"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/store"
)

// UserStore implements the store.UserStore interface on a SQL database.
type UserStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
	inTx    bool
}

// NewUserStore creates a UserStore. The db may be a *sql.DB or a *sql.Tx.
// If logger is nil, a default logger will be used.
func NewUserStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
		inTx:    true,
	}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during creation",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	pending, err := encodePending(user.PendingTasks)
	if err != nil {
		return err
	}

	q := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, s.dialect.Rebind(q),
		user.ID,
		user.Name,
		user.Email,
		pending,
		user.DateCreated.UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("attempted to create user with existing email",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return wrapError("user", "create", err)
	}

	log.Debug("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	q := `SELECT ` + userColumns + ` FROM users WHERE id = ?` + s.dialect.lockClause(s.inTx)
	user, err := scanUser(s.db.QueryRowContext(ctx, s.dialect.Rebind(q), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("user_id", id.String()))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, wrapError("user", "get", err)
	}

	return user, nil
}

// Update implements store.UserStore.Update
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	pending, err := encodePending(user.PendingTasks)
	if err != nil {
		return err
	}

	q := `UPDATE users SET name = ?, email = ?, pending_tasks = ? WHERE id = ?`
	result, err := s.db.ExecContext(ctx, s.dialect.Rebind(q),
		user.Name,
		user.Email,
		pending,
		user.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("attempted to update user to existing email",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return wrapError("user", "update", err)
	}

	if err := checkRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for update", slog.String("user_id", user.ID.String()))
		return err
	}

	log.Debug("user updated",
		slog.String("user_id", user.ID.String()),
		slog.Int("pending_tasks", len(user.PendingTasks)))
	return nil
}

// Delete implements store.UserStore.Delete
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	q := `DELETE FROM users WHERE id = ? RETURNING ` + userColumns
	user, err := scanUser(s.db.QueryRowContext(ctx, s.dialect.Rebind(q), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found for deletion", slog.String("user_id", id.String()))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return nil, wrapError("user", "delete", err)
	}

	log.Debug("user deleted", slog.String("user_id", id.String()))
	return user, nil
}

// List implements store.UserStore.List
func (s *UserStore) List(ctx context.Context, opts query.Options) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	q, args, err := selectPage(s.dialect, UserSchema, userColumns, opts)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(q), args...)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, wrapError("user", "list", err)
	}
	defer func() { _ = rows.Close() }()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, wrapError("user", "list", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating user rows", slog.String("error", err.Error()))
		return nil, wrapError("user", "list", err)
	}

	return users, nil
}

// Count implements store.UserStore.Count
func (s *UserStore) Count(ctx context.Context, opts query.Options) (int, error) {
	q, args, err := countPage(s.dialect, UserSchema, opts)
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(q), args...).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count users",
			slog.String("error", err.Error()))
		return 0, wrapError("user", "count", err)
	}
	return n, nil
}

func encodePending(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode pending tasks: %w", err)
	}
	return string(b), nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u       domain.User
		pending []byte
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &pending, &u.DateCreated); err != nil {
		return nil, err
	}

	u.PendingTasks = []string{}
	if len(pending) > 0 {
		if err := json.Unmarshal(pending, &u.PendingTasks); err != nil {
			return nil, fmt.Errorf("failed to decode pending tasks of user %s: %w", u.ID, err)
		}
	}
	u.DateCreated = u.DateCreated.UTC()
	return &u, nil
}
