package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("creates an up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "Add Favorites Table")
		require.NoError(t, err)

		assert.FileExists(t, mf.UpPath)
		assert.FileExists(t, mf.DownPath)
		assert.Contains(t, filepath.Base(mf.UpPath), "add_favorites_table.up.sql")
		assert.Contains(t, filepath.Base(mf.DownPath), "add_favorites_table.down.sql")

		content, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "Add Favorites Table")
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")

		_, err := CreateMigration(dir, "init")
		require.NoError(t, err)
		assert.DirExists(t, dir)
	})
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Add Favorites Table", "add_favorites_table"},
		{"fix--weird  spacing_", "fix_weird_spacing"},
		{"CamelCase123", "camelcase123"},
		{"éèç!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in), tt.in)
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory yields empty list", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("lists up migrations only once", func(t *testing.T) {
		dir := t.TempDir()
		_, err := CreateMigration(dir, "one")
		require.NoError(t, err)

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		require.Len(t, migrations, 1)
		assert.Contains(t, migrations[0], "one")
	})
}
