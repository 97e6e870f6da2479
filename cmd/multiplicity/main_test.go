package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/multiplicity/migrate"
)

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("GO_ENV", "production")
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := execute(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "multiplicity dev\n", out)
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := execute(t, "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestMigrateMissingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")

	code, _, stderr := execute(t, "migrate", "--db", path)

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "not found, skipping")
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "migrate must not create the database")
}

func TestMigrateAddsHostColumnOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE events (id TEXT PRIMARY KEY, title TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	code, _, stderr := execute(t, "migrate", "--db", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "added column events.host")

	code, _, stderr = execute(t, "migrate", "--db", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "already exists")

	db, err = sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	ok, err := migrate.HasColumn(t.Context(), db, "events", "host")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMigrateUsesDatabaseURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uri.db")
	t.Setenv("DATABASE_URI", "file:"+path)

	code, _, stderr := execute(t, "migrate")

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, path)
}

func TestMigrateFailureExitsOne(t *testing.T) {
	// A directory is not a database.
	code, _, _ := execute(t, "migrate", "--db", t.TempDir())
	assert.Equal(t, 1, code)
}

func TestSeedTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.db")

	code, _, stderr := execute(t, "seed", "--db", path)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "seeded 3 events")

	code, _, stderr = execute(t, "seed", "--db", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "--force")

	code, _, stderr = execute(t, "seed", "--db", path, "--force")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "seeded 3 events")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_SESSION_SECRET", "")
	_, err := configFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD, ADMIN_SESSION_SECRET")

	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("ADMIN_SESSION_SECRET", "secret")
	t.Setenv("DATABASE_URI", "file:/tmp/site.db")
	t.Setenv("MAILCHIMP_SERVER_PREFIX", "")
	t.Setenv("COOKIE_SECURE", "TRUE")
	cfg, err := configFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/site.db", cfg.DatabasePath)
	assert.Equal(t, "us16", cfg.MailingList.ServerPrefix)
	assert.True(t, cfg.CookieSecure)
}
