package sqlstore_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskhub-api/internal/domain"
	"github.com/phrazzld/taskhub-api/internal/platform/sqlstore"
	"github.com/phrazzld/taskhub-api/internal/query"
	"github.com/phrazzld/taskhub-api/internal/store"
	"github.com/phrazzld/taskhub-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name string
	open func(t *testing.T) (*sql.DB, sqlstore.Dialect)
}

var backends = []backend{
	{"sqlite", testdb.OpenSQLite},
	{"postgres", testdb.OpenPostgres},
}

// eachBackend runs fn against every database; PostgreSQL is skipped unless
// DATABASE_URL is set.
func eachBackend(t *testing.T, fn func(t *testing.T, db *sql.DB, tasks *sqlstore.TaskStore, users *sqlstore.UserStore)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			db, dialect := b.open(t)
			fn(t, db,
				sqlstore.NewTaskStore(db, dialect, nil),
				sqlstore.NewUserStore(db, dialect, nil))
		})
	}
}

func newTask(t *testing.T, name string, deadline time.Time, completed bool) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(name, "", deadline, completed)
	require.NoError(t, err)
	return task
}

func newUser(t *testing.T, name, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(name, email)
	require.NoError(t, err)
	return user
}

func mustOptions(t *testing.T, where, sort string, skip, limit int) query.Options {
	t.Helper()
	w, err := query.ParseWhere(where)
	require.NoError(t, err)
	s, err := query.ParseSort(sort)
	require.NoError(t, err)
	return query.Options{Where: w, Sort: s, Skip: skip, Limit: limit}
}

func TestTaskStoreCRUD(t *testing.T) {
	eachBackend(t, func(t *testing.T, _ *sql.DB, tasks *sqlstore.TaskStore, _ *sqlstore.UserStore) {
		ctx := context.Background()
		deadline := time.Date(2031, 3, 4, 5, 6, 7, 8_000_000, time.UTC)
		task := newTask(t, "Write report", deadline, false)

		require.NoError(t, tasks.Create(ctx, task))

		got, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task, got)
		assert.Equal(t, domain.DefaultDescription, got.Description)
		assert.Equal(t, domain.Unassigned, got.AssignedUserName)

		got.Completed = true
		got.Name = "Write final report"
		require.NoError(t, tasks.Update(ctx, got))

		updated, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "Write final report", updated.Name)
		assert.Equal(t, task.DateCreated, updated.DateCreated)

		removed, err := tasks.Delete(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, removed)

		_, err = tasks.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStoreNotFound(t *testing.T) {
	eachBackend(t, func(t *testing.T, _ *sql.DB, tasks *sqlstore.TaskStore, _ *sqlstore.UserStore) {
		ctx := context.Background()
		missing := newTask(t, "Ghost", time.Now(), false)

		_, err := tasks.GetByID(ctx, missing.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		err = tasks.Update(ctx, missing)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		_, err = tasks.Delete(ctx, missing.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})
}

func TestTaskStoreRejectsInvalidTask(t *testing.T) {
	eachBackend(t, func(t *testing.T, _ *sql.DB, tasks *sqlstore.TaskStore, _ *sqlstore.UserStore) {
		task := newTask(t, "Valid", time.Now(), false)
		task.Name = " "

		err := tasks.Create(context.Background(), task)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestTaskStoreListAndCount(t *testing.T) {
	eachBackend(t, func(t *testing.T, _ *sql.DB, tasks *sqlstore.TaskStore, _ *sqlstore.UserStore) {
		ctx := context.Background()
		base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

		var created []*domain.Task
		for i, name := range []string{"a", "b", "c", "d", "e"} {
			task := newTask(t, name, base.AddDate(0, 0, i), i%2 == 0)
			require.NoError(t, tasks.Create(ctx, task))
			created = append(created, task)
		}

		all, err := tasks.List(ctx, mustOptions(t, "", `{"name":1}`, 0, 0))
		require.NoError(t, err)
		require.Len(t, all, 5)

		page, err := tasks.List(ctx, mustOptions(t, "", `{"name":1}`, 2, 1))
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "c", page[0].Name)

		skipped, err := tasks.List(ctx, mustOptions(t, "", `{"name":-1}`, 3, 0))
		require.NoError(t, err)
		require.Len(t, skipped, 2)
		assert.Equal(t, "b", skipped[0].Name)
		assert.Equal(t, "a", skipped[1].Name)

		done, err := tasks.List(ctx, mustOptions(t, `{"completed":true}`, `{"deadline":1}`, 0, 0))
		require.NoError(t, err)
		require.Len(t, done, 3)
		assert.Equal(t, []string{"a", "c", "e"}, []string{done[0].Name, done[1].Name, done[2].Name})

		n, err := tasks.Count(ctx, mustOptions(t, `{"completed":true}`, "", 0, 0))
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = tasks.Count(ctx, mustOptions(t, "", "", 1, 2))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		ranged, err := tasks.List(ctx, mustOptions(t,
			`{"deadline":{"$gte":"2030-01-02","$lt":"2030-01-04"}}`, `{"deadline":1}`, 0, 0))
		require.NoError(t, err)
		require.Len(t, ranged, 2)
		assert.Equal(t, "b", ranged[0].Name)
		assert.Equal(t, "c", ranged[1].Name)

		byID, err := tasks.List(ctx, mustOptions(t,
			`{"_id":{"$in":["`+created[1].ID.String()+`","`+created[3].ID.String()+`"]}}`, `{"name":1}`, 0, 0))
		require.NoError(t, err)
		require.Len(t, byID, 2)
		assert.Equal(t, created[1].ID, byID[0].ID)

		either, err := tasks.List(ctx, mustOptions(t, `{"$or":[{"name":"a"},{"name":"e"}]}`, "", 0, 0))
		require.NoError(t, err)
		assert.Len(t, either, 2)

		none, err := tasks.List(ctx, mustOptions(t, `{"name":"zzz"}`, "", 0, 0))
		require.NoError(t, err)
		assert.Empty(t, none)
		assert.NotNil(t, none)
	})
}

func TestTaskStoreListInvalidQuery(t *testing.T) {
	eachBackend(t, func(t *testing.T, _ *sql.DB, tasks *sqlstore.TaskStore, _ *sqlstore.UserStore) {
		ctx := context.Background()

		_, err := tasks.List(ctx, mustOptions(t, `{"priority":1}`, "", 0, 0))
		assert.ErrorIs(t, err, query.ErrInvalidQuery)

		_, err = tasks.Count(ctx, mustOptions(t, "", `{"name":5}`, 0, 0))
		assert.ErrorIs(t, err, query.ErrInvalidQuery)
	})
}

func TestTaskStoreBulkAssignment(t *testing.T) {
	eachBackend(t, func(t *testing.T, _ *sql.DB, tasks *sqlstore.TaskStore, _ *sqlstore.UserStore) {
		ctx := context.Background()
		owner := uuid.NewString()

		t1 := newTask(t, "one", time.Now(), false)
		t2 := newTask(t, "two", time.Now(), false)
		t3 := newTask(t, "three", time.Now(), false)
		for _, task := range []*domain.Task{t1, t2, t3} {
			require.NoError(t, tasks.Create(ctx, task))
		}

		n, err := tasks.AssignMany(ctx, []uuid.UUID{t1.ID, t2.ID, uuid.New()}, owner, "Ada")
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		n, err = tasks.AssignMany(ctx, nil, owner, "Ada")
		require.NoError(t, err)
		assert.Zero(t, n)

		got, err := tasks.GetByID(ctx, t1.ID)
		require.NoError(t, err)
		assert.Equal(t, owner, got.AssignedUser)
		assert.Equal(t, "Ada", got.AssignedUserName)

		n, err = tasks.RenameAssignee(ctx, owner, "Ada L.")
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		got, err = tasks.GetByID(ctx, t2.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada L.", got.AssignedUserName)

		// t3 is cleared by id, t1 and t2 by owner.
		n, err = tasks.UnassignMany(ctx, []uuid.UUID{t3.ID}, owner)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		for _, id := range []uuid.UUID{t1.ID, t2.ID, t3.ID} {
			got, err := tasks.GetByID(ctx, id)
			require.NoError(t, err)
			assert.False(t, got.IsAssigned())
			assert.Equal(t, domain.Unassigned, got.AssignedUserName)
		}
	})
}

func TestUserStoreCRUD(t *testing.T) {
	eachBackend(t, func(t *testing.T, _ *sql.DB, _ *sqlstore.TaskStore, users *sqlstore.UserStore) {
		ctx := context.Background()
		user := newUser(t, "Grace", "grace@example.com")

		require.NoError(t, users.Create(ctx, user))

		got, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, got)
		assert.NotNil(t, got.PendingTasks)

		pending := []string{uuid.NewString(), uuid.NewString()}
		got.PendingTasks = pending
		got.Name = "Grace H."
		require.NoError(t, users.Update(ctx, got))

		updated, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, pending, updated.PendingTasks)
		assert.Equal(t, "Grace H.", updated.Name)

		removed, err := users.Delete(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, removed)

		_, err = users.GetByID(ctx, user.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = users.Delete(ctx, user.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		err = users.Update(ctx, user)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	eachBackend(t, func(t *testing.T, _ *sql.DB, _ *sqlstore.TaskStore, users *sqlstore.UserStore) {
		ctx := context.Background()
		first := newUser(t, "First", "same@example.com")
		second := newUser(t, "Second", "same@example.com")
		third := newUser(t, "Third", "third@example.com")

		require.NoError(t, users.Create(ctx, first))

		err := users.Create(ctx, second)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.True(t, store.IsDuplicateError(err))

		require.NoError(t, users.Create(ctx, third))
		third.Email = first.Email
		err = users.Update(ctx, third)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestUserStoreListAndCount(t *testing.T) {
	eachBackend(t, func(t *testing.T, _ *sql.DB, _ *sqlstore.TaskStore, users *sqlstore.UserStore) {
		ctx := context.Background()
		for _, name := range []string{"Carol", "Alice", "Bob"} {
			require.NoError(t, users.Create(ctx, newUser(t, name, name+"@example.com")))
		}

		sorted, err := users.List(ctx, mustOptions(t, "", `{"name":1}`, 0, 2))
		require.NoError(t, err)
		require.Len(t, sorted, 2)
		assert.Equal(t, "Alice", sorted[0].Name)
		assert.Equal(t, "Bob", sorted[1].Name)

		n, err := users.Count(ctx, mustOptions(t, `{"email":{"$ne":"Bob@example.com"}}`, "", 0, 0))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		_, err = users.List(ctx, mustOptions(t, `{"pendingTasks":"x"}`, "", 0, 0))
		assert.ErrorIs(t, err, query.ErrInvalidQuery)
	})
}

func TestStoresInTransaction(t *testing.T) {
	eachBackend(t, func(t *testing.T, db *sql.DB, tasks *sqlstore.TaskStore, users *sqlstore.UserStore) {
		ctx := context.Background()
		user := newUser(t, "Tx", "tx@example.com")
		task := newTask(t, "rolled back", time.Now(), false)

		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			require.NoError(t, users.WithTx(tx).Create(ctx, user))
			require.NoError(t, tasks.WithTx(tx).Create(ctx, task))

			locked, err := users.WithTx(tx).GetByID(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, user.ID, locked.ID)
		})

		_, err := users.GetByID(ctx, user.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		_, err = tasks.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}
