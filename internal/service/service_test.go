package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/platform/sqlstore"
	"github.com/phrazzld/taskhub-api/internal/service"
	"github.com/phrazzld/taskhub-api/internal/testdb"
	"github.com/stretchr/testify/require"
)

// fixture wires both services to a fresh SQLite database.
type fixture struct {
	db     *sql.DB
	tasks  *sqlstore.TaskStore
	users  *sqlstore.UserStore
	taskSv service.TaskService
	userSv service.UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, dialect := testdb.OpenSQLite(t)
	tasks := sqlstore.NewTaskStore(db, dialect, nil)
	users := sqlstore.NewUserStore(db, dialect, nil)

	taskSv, err := service.NewTaskService(db, tasks, users, nil)
	require.NoError(t, err)
	userSv, err := service.NewUserService(db, tasks, users, nil)
	require.NoError(t, err)

	return &fixture{db: db, tasks: tasks, users: users, taskSv: taskSv, userSv: userSv}
}

func (f *fixture) createUser(t *testing.T, name string) *domain.User {
	t.Helper()
	user, err := f.userSv.Create(context.Background(), service.CreateUserParams{
		Name:  name,
		Email: uuid.NewString()[:8] + "@example.com",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) createTask(t *testing.T, name, assignee string) *domain.Task {
	t.Helper()
	task, err := f.taskSv.Create(context.Background(), service.CreateTaskParams{
		Name:         name,
		Deadline:     time.Now().Add(24 * time.Hour),
		AssignedUser: assignee,
	})
	require.NoError(t, err)
	return task
}

func (f *fixture) user(t *testing.T, id uuid.UUID) *domain.User {
	t.Helper()
	user, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

func (f *fixture) task(t *testing.T, id uuid.UUID) *domain.Task {
	t.Helper()
	task, err := f.tasks.GetByID(context.Background(), id)
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T { return &v }
