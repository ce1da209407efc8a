package writer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwillem/submap/internal/writer"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writer.Render(&buf, []string{"a.com", "blog.a.com", "shop.a.com"}))
	assert.Equal(t, "a.com\nblog.a.com\nshop.a.com\n", buf.String())
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writer.Render(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "domains.txt")
	require.NoError(t, writer.WriteFile(path, []string{"a.com", "b.com"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a.com\nb.com\n", string(data))
}
