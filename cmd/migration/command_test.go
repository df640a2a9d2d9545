package main

import (
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/riskibarqy/league-season/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	cmd, err := parseCommand([]string{"DOWN"})
	require.NoError(t, err)
	assert.Equal(t, command{name: "down", steps: 1}, cmd)

	cmd, err = parseCommand([]string{"down", "3"})
	require.NoError(t, err)
	assert.Equal(t, 3, cmd.steps)

	cmd, err = parseCommand([]string{"migrate", "2"})
	require.NoError(t, err)
	assert.Equal(t, command{name: "goto", target: 2}, cmd)

	cmd, err = parseCommand([]string{"force", "1"})
	require.NoError(t, err)
	assert.Equal(t, 1, cmd.version)

	for _, args := range [][]string{
		{},
		{"sideways"},
		{"down", "0"},
		{"down", "x"},
		{"force"},
		{"force", "-1"},
		{"goto"},
		{"goto", "-2"},
	} {
		_, err := parseCommand(args)
		assert.Error(t, err, "args=%v", args)
	}
}

func TestResolveMigrationsDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := resolveMigrationsDir("", "/definitely/missing", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = resolveMigrationsDir("/definitely/missing")
	assert.Error(t, err)
}

func TestNormalizeDBURL(t *testing.T) {
	t.Parallel()

	raw := "postgres://u:p@localhost:5432/league?sslmode=disable"
	assert.Equal(t, raw, normalizeDBURL(raw, false))
	assert.Contains(t, normalizeDBURL(raw, true), "disable_prepared_binary_result=yes")
	assert.Contains(t, normalizeDBURL(raw, true), "sslmode=disable")
}

type fakeMigrator struct {
	upErr    error
	steps    int
	forced   int
	migrated uint
}

func (f *fakeMigrator) Up() error                    { return f.upErr }
func (f *fakeMigrator) Steps(n int) error            { f.steps = n; return nil }
func (f *fakeMigrator) Version() (uint, bool, error) { return 0, false, migrate.ErrNilVersion }
func (f *fakeMigrator) Force(version int) error      { f.forced = version; return nil }
func (f *fakeMigrator) Migrate(version uint) error   { f.migrated = version; return nil }

func TestRun(t *testing.T) {
	t.Parallel()

	logger := logging.NewNop()

	m := &fakeMigrator{upErr: migrate.ErrNoChange}
	require.NoError(t, run(command{name: "up"}, m, logger))

	require.NoError(t, run(command{name: "down", steps: 2}, m, logger))
	assert.Equal(t, -2, m.steps)

	require.NoError(t, run(command{name: "force", version: 3}, m, logger))
	assert.Equal(t, 3, m.forced)

	require.NoError(t, run(command{name: "goto", target: 1}, m, logger))
	assert.Equal(t, uint(1), m.migrated)

	require.NoError(t, run(command{name: "version"}, m, logger))
	assert.Error(t, run(command{name: "bogus"}, m, logger))
}
