package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/pmdash/internal/config"
	"github.com/rpggio/pmdash/internal/identity"
	"github.com/rpggio/pmdash/internal/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelError, parseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLogLevel("verbose"))
}

func TestLogFileWriter_TrimsToTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	w, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer w.Close()
	w.max, w.keep = 16, 8

	_, err = w.Write([]byte("0123456789"))
	require.NoError(t, err)
	_, err = w.Write([]byte("abcdefghij"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "cdefghij", string(data))

	_, err = w.Write([]byte("XY"))
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasSuffix(data, []byte("XY")))
}

func TestSeedDemoUserIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := identity.NewService(sqlite.NewUserRepository(db), "secret", time.Hour, nil)
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := context.Background()

	require.NoError(t, seedDemoUser(ctx, svc, logger))
	require.NoError(t, seedDemoUser(ctx, svc, logger))

	actor, err := stdioActor(ctx, svc, true)
	require.NoError(t, err)
	require.Equal(t, demoEmail, actor.Email)

	local, err := stdioActor(ctx, svc, false)
	require.NoError(t, err)
	require.Equal(t, "local", local.ID)
}

func TestOpenKVStore_SQLite(t *testing.T) {
	db := newTestDB(t)
	store, closeFn, err := openKVStore(config.Config{KV: config.KVConfig{Driver: config.DriverSQLite}}, db)
	require.NoError(t, err)
	defer closeFn()
	require.NotNil(t, store)
}

func TestEnsureDBDir(t *testing.T) {
	require.NoError(t, ensureDBDir(":memory:"))
	dir := filepath.Join(t.TempDir(), "nested", "data")
	require.NoError(t, ensureDBDir(filepath.Join(dir, "pmdash.db")))
	_, err := os.Stat(dir)
	require.NoError(t, err)
}
