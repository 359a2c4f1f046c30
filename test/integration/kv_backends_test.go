package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/rpggio/pmdash/internal/kv"
	"github.com/rpggio/pmdash/internal/redisstore"
	"github.com/rpggio/pmdash/internal/repository"
	"github.com/rpggio/pmdash/internal/sqlite"
)

type testEnv struct {
	projectSvc    *project.Service
	preferenceSvc *preference.Service
}

func newEnv(store repository.KVStore) *testEnv {
	return &testEnv{
		projectSvc:    project.NewService(kv.NewProjectRepository(store), nil),
		preferenceSvc: preference.NewService(kv.NewPreferenceRepository(store), nil),
	}
}

func sqliteStore(t *testing.T) repository.KVStore {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewKVStore(db)
}

func redisStore(t *testing.T) repository.KVStore {
	t.Helper()
	s := miniredis.RunT(t)
	rdb, err := redisstore.Open(context.Background(), s.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return redisstore.NewKVStore(rdb, "pmdash:")
}

// forEachBackend runs fn against every KV driver the server supports.
func forEachBackend(t *testing.T, fn func(t *testing.T, env *testEnv)) {
	backends := map[string]func(*testing.T) repository.KVStore{
		"sqlite": sqliteStore,
		"redis":  redisStore,
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			fn(t, newEnv(open(t)))
		})
	}
}

func TestIntegration_ProjectScenario(t *testing.T) {
	forEachBackend(t, func(t *testing.T, env *testEnv) {
		ctx := context.Background()

		created, err := env.projectSvc.Create(ctx, "u1", project.CreateRequest{Name: "X", DueDate: "2030-01-01"})
		require.NoError(t, err)
		require.Zero(t, created.Progress)

		progress := 50
		updated, err := env.projectSvc.Update(ctx, "u1", created.ID, project.Patch{Progress: &progress})
		require.NoError(t, err)
		require.Equal(t, 50, updated.Progress)
		require.Equal(t, "X", updated.Name)
		require.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

		require.NoError(t, env.projectSvc.Delete(ctx, "u1", created.ID))
		list, err := env.projectSvc.List(ctx, "u1")
		require.NoError(t, err)
		require.Empty(t, list)
	})
}

func TestIntegration_ActorsAreIsolated(t *testing.T) {
	forEachBackend(t, func(t *testing.T, env *testEnv) {
		ctx := context.Background()

		_, err := env.projectSvc.Create(ctx, "u1", project.CreateRequest{Name: "Mine"})
		require.NoError(t, err)
		theirs, err := env.projectSvc.Create(ctx, "u10", project.CreateRequest{Name: "Theirs"})
		require.NoError(t, err)

		list, err := env.projectSvc.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "Mine", list[0].Name)

		name := "Stolen"
		_, err = env.projectSvc.Update(ctx, "u1", theirs.ID, project.Patch{Name: &name})
		require.ErrorIs(t, err, project.ErrProjectNotFound)
	})
}

func TestIntegration_OwnerIDsAreCaseSensitive(t *testing.T) {
	forEachBackend(t, func(t *testing.T, env *testEnv) {
		ctx := context.Background()

		_, err := env.projectSvc.Create(ctx, "OWNER", project.CreateRequest{Name: "Upper"})
		require.NoError(t, err)

		list, err := env.projectSvc.List(ctx, "owner")
		require.NoError(t, err)
		require.Empty(t, list)

		_, err = env.projectSvc.Create(ctx, "owner", project.CreateRequest{Name: "Lower"})
		require.NoError(t, err)
		list, err = env.projectSvc.List(ctx, "owner")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "Lower", list[0].Name)
	})
}

func TestIntegration_SummaryAndPreferences(t *testing.T) {
	forEachBackend(t, func(t *testing.T, env *testEnv) {
		ctx := context.Background()

		for _, req := range []project.CreateRequest{
			{Name: "A", Status: project.StatusCompleted},
			{Name: "B", Status: project.StatusInProgress, DueDate: time.Now().AddDate(0, 0, -2).Format(project.DueDateLayout)},
			{Name: "C"},
		} {
			_, err := env.projectSvc.Create(ctx, "u1", req)
			require.NoError(t, err)
		}

		sum, err := env.projectSvc.Summary(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, 3, sum.Total)
		require.Equal(t, 1, sum.Overdue)
		require.Len(t, sum.Recent, project.RecentLimit)

		prefs, err := env.preferenceSvc.Get(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, preference.ThemeSystem, prefs.Theme())

		_, err = env.preferenceSvc.Save(ctx, "u1", preference.Preferences{"theme": "dark", "compact": true})
		require.NoError(t, err)
		prefs, err = env.preferenceSvc.Get(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, "dark", prefs.Theme())
		require.Equal(t, true, prefs["compact"])
	})
}
