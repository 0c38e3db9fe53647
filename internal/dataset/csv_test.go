package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bearcart/internal/errors"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestReadCSV tests delimited file parsing
func TestReadCSV(t *testing.T) {
	dir := t.TempDir()

	t.Run("well-formed file", func(t *testing.T) {
		path := writeFixture(t, dir, "orders.csv",
			"order_id,price_usd,created_at\n1,49.99,2012-03-19 08:04:16\n2,29.99,2012-03-20 10:00:00\n")

		table, err := ReadCSV(path)
		require.NoError(t, err)
		assert.Equal(t, "orders", table.Name)
		assert.Equal(t, 2, table.Len())

		v, ok := table.Row(0).Float64("price_usd")
		assert.True(t, ok)
		assert.InDelta(t, 49.99, v, 0.001)
	})

	t.Run("ragged rows are tolerated", func(t *testing.T) {
		path := writeFixture(t, dir, "ragged.csv", "a,b,c\n1,2\n1,2,3,4\n")

		table, err := ReadCSV(path)
		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())
	})

	t.Run("empty file yields zero rows", func(t *testing.T) {
		path := writeFixture(t, dir, "empty.csv", "")

		table, err := ReadCSV(path)
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
	})

	t.Run("missing file is not found", func(t *testing.T) {
		_, err := ReadCSV(filepath.Join(dir, "nope.csv"))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	})
}

// TestLoaderLoad tests table resolution inside the raw directory
func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "website_sessions.csv",
		"website_session_id,created_at,user_id\n1,2012-03-19 08:04:16,10\n")

	loader := NewLoader(dir, nil)

	t.Run("csv present", func(t *testing.T) {
		table, err := loader.Load(TableSessions)
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
	})

	t.Run("neither encoding present", func(t *testing.T) {
		_, err := loader.Load(TableProducts)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	})
}
