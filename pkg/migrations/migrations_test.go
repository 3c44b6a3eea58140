package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS_ContainsOrderedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(FS, dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "00001_create_users.sql", entries[0].Name())
	assert.Equal(t, "00002_create_otps.sql", entries[1].Name())

	users, err := fs.ReadFile(FS, dir+"/00001_create_users.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(users), "users_single_owner"))

	otps, err := fs.ReadFile(FS, dir+"/00002_create_otps.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(otps), "otps_email_key UNIQUE (email)"))
}

func TestUp_UsesEmbeddedDir(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(_ context.Context, _ *sql.DB, d string) error {
		gotDir = d
		return nil
	}
	require.NoError(t, Up(context.Background(), nil))
	assert.Equal(t, "sql", gotDir)

	gooseUp = func(context.Context, *sql.DB, string) error { return errors.New("locked") }
	err := Up(context.Background(), nil)
	assert.True(t, errx.IsType(err, errx.TypeInternal))
}
