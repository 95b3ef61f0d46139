package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestTextParser(t *testing.T) {
	parser := NewTextParser()

	t.Run("splits on form feed", func(t *testing.T) {
		path := writeTempFile(t, "invoice.txt", "page one\fpage two\fpage three")

		result, err := parser.Parse(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, "invoice.txt", result.Filename)
		assert.Equal(t, []string{"page one", "page two", "page three"}, result.Pages)
	})

	t.Run("single page without separator", func(t *testing.T) {
		path := writeTempFile(t, "single.txt", "just one page")

		result, err := parser.Parse(context.Background(), path)
		require.NoError(t, err)
		assert.Len(t, result.Pages, 1)
	})

	t.Run("blank pages dropped", func(t *testing.T) {
		path := writeTempFile(t, "gaps.txt", "first\f  \f\fsecond")

		result, err := parser.Parse(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, result.Pages)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := parser.Parse(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
		assert.Error(t, err)
	})
}
