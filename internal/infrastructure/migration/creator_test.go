package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add goods tables", "add_goods_tables"},
		{"Add-Avatar-Indexes", "add_avatar_indexes"},
		{"ADD_OPERATION_EDGES", "add_operation_edges"},
		{"add__location__tag", "add_location_tag"},
		{"Split Lots 123", "split_lots_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add avatar indexes", "Index avatars by reason and consumer")
	require.NoError(t, err)

	// version is the YYYYMMDDHHMMSS stamp
	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))
	assert.Equal(t,
		strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql"),
		strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql"),
	)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add avatar indexes")
	assert.Contains(t, string(up), "Index avatars by reason and consumer")
	assert.Contains(t, string(up), "Write your UP migration SQL here")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
	assert.Contains(t, string(down), "Write your DOWN migration SQL here")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	_, err := CreateMigration(nested, "initial schema", "warehouse tables")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	t.Run("pairs list once by base name", func(t *testing.T) {
		dir := t.TempDir()
		for _, f := range []string{
			"000001_warehouse_core.up.sql",
			"000001_warehouse_core.down.sql",
			"000002_avatar_indexes.up.sql",
			"000002_avatar_indexes.down.sql",
			"000003_operation_edges.up.sql",
			"000003_operation_edges.down.sql",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- sql"), 0644))
		}

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"000001_warehouse_core",
			"000002_avatar_indexes",
			"000003_operation_edges",
		}, names)
	})

	t.Run("empty directory lists empty", func(t *testing.T) {
		names, err := ListMigrations(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("missing directory lists empty", func(t *testing.T) {
		names, err := ListMigrations(filepath.Join(t.TempDir(), "nowhere"))
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("ignores non-migration files and directories", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_warehouse_core.up.sql"), []byte("-- sql"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_warehouse_core.down.sql"), []byte("-- sql"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitkeep"), nil, 0644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0755))

		names, err := ListMigrations(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_warehouse_core"}, names)
	})
}
