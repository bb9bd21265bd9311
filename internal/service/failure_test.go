package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/mocks"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errDriver = errors.New("driver: bad connection")

type mockedDeps struct {
	sql    sqlmock.Sqlmock
	tasks  *mocks.TaskStore
	users  *mocks.UserStore
	taskSv service.TaskService
	userSv service.UserService
}

func newMockedDeps(t *testing.T) *mockedDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tasks := new(mocks.TaskStore)
	users := new(mocks.UserStore)

	taskSv, err := service.NewTaskService(db, tasks, users, nil)
	require.NoError(t, err)
	userSv, err := service.NewUserService(db, tasks, users, nil)
	require.NoError(t, err)

	return &mockedDeps{sql: sqlMock, tasks: tasks, users: users, taskSv: taskSv, userSv: userSv}
}

func (d *mockedDeps) assertExpectations(t *testing.T) {
	t.Helper()
	d.tasks.AssertExpectations(t)
	d.users.AssertExpectations(t)
	assert.NoError(t, d.sql.ExpectationsWereMet())
}

func assignedTask(user *domain.User) *domain.Task {
	task, _ := domain.NewTask("task", "", time.Now(), false)
	task.AssignTo(user)
	user.AddPendingTask(task.ID.String())
	return task
}

func newUser(name string) *domain.User {
	user, _ := domain.NewUser(name, name+"@example.com")
	return user
}

func TestUnexpectedStoreErrorsAreWrapped(t *testing.T) {
	d := newMockedDeps(t)
	ctx := context.Background()
	id := uuid.New()

	d.tasks.On("GetByID", mock.Anything, id).Return(nil, errDriver)
	d.users.On("Count", mock.Anything, query.Options{}).Return(0, errDriver)

	_, err := d.taskSv.Get(ctx, id)
	var svcErr *service.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "task", svcErr.Service)
	assert.Equal(t, "get", svcErr.Operation)
	assert.ErrorIs(t, err, errDriver)

	_, err = d.userSv.Count(ctx, query.Options{})
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "count", svcErr.Operation)

	d.assertExpectations(t)
}

func TestCreateTaskRollsBackOnStoreFailure(t *testing.T) {
	d := newMockedDeps(t)
	user := newUser("ada")

	d.sql.ExpectBegin()
	d.sql.ExpectRollback()
	d.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	d.users.On("Update", mock.Anything, user).Return(nil)
	d.tasks.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(errDriver)

	_, err := d.taskSv.Create(context.Background(), service.CreateTaskParams{
		Name:         "write",
		Deadline:     time.Now(),
		AssignedUser: user.ID.String(),
	})

	var svcErr *service.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "create", svcErr.Operation)
	d.assertExpectations(t)
}

func TestUpdateTaskReassignsInOneTransaction(t *testing.T) {
	d := newMockedDeps(t)
	from := newUser("from")
	to := newUser("to")
	task := assignedTask(from)

	d.sql.ExpectBegin()
	d.sql.ExpectCommit()
	d.tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
	d.users.On("GetByID", mock.Anything, to.ID).Return(to, nil)
	d.users.On("GetByID", mock.Anything, from.ID).Return(from, nil)
	d.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == from.ID && len(u.PendingTasks) == 0
	})).Return(nil).Once()
	d.users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == to.ID && u.HasPendingTask(task.ID.String())
	})).Return(nil).Once()
	d.tasks.On("Update", mock.Anything, mock.MatchedBy(func(got *domain.Task) bool {
		return got.AssignedUser == to.ID.String() && got.AssignedUserName == "to"
	})).Return(nil)

	updated, err := d.taskSv.Update(context.Background(), task.ID, domain.TaskPatch{
		AssignedUser: ptr(to.ID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, "to", updated.AssignedUserName)
	d.assertExpectations(t)
}

func TestDeleteUserRollsBackWhenUnassignFails(t *testing.T) {
	d := newMockedDeps(t)
	user := newUser("ada")
	task := assignedTask(user)

	d.sql.ExpectBegin()
	d.sql.ExpectRollback()
	d.users.On("Delete", mock.Anything, user.ID).Return(user, nil)
	d.tasks.On("UnassignMany", mock.Anything, []uuid.UUID{task.ID}, user.ID.String()).
		Return(int64(0), errDriver)

	_, err := d.userSv.Delete(context.Background(), user.ID)
	assert.ErrorIs(t, err, errDriver)
	d.assertExpectations(t)
}

func TestUpdateUserRenameRunsAfterUserWrite(t *testing.T) {
	d := newMockedDeps(t)
	user := newUser("ada")

	d.sql.ExpectBegin()
	d.sql.ExpectCommit()
	d.users.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	d.users.On("Update", mock.Anything, user).Return(nil)
	d.tasks.On("RenameAssignee", mock.Anything, user.ID.String(), "Ada L").Return(int64(2), nil)

	updated, err := d.userSv.Update(context.Background(), user.ID, domain.UserPatch{Name: ptr("Ada L")})
	require.NoError(t, err)
	assert.Equal(t, "Ada L", updated.Name)
	d.tasks.AssertNotCalled(t, "AssignMany", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	d.assertExpectations(t)
}
