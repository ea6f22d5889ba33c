package filesink_test

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storymap/internal/adapters/out/filesink"
	"storymap/internal/core/ports"
	"storymap/internal/pkg/errs"
)

func bundle(content string) []ports.ExportFile {
	return []ports.ExportFile{
		{Name: "EM12345601-cut.svg", ContentType: "image/svg+xml", Content: []byte("<svg>" + content + "</svg>")},
		{Name: "EM12345601-material-spec.txt", ContentType: "text/plain", Content: []byte(content)},
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestSink_Store(t *testing.T) {
	root := t.TempDir()
	sink, err := filesink.New(root)
	require.NoError(t, err)

	err = sink.Store(t.Context(), "EM12345601", bundle("first"))

	require.NoError(t, err)
	dir := sink.Dir("EM12345601")
	assert.Equal(t, []string{"EM12345601-cut.svg", "EM12345601-material-spec.txt"}, listDir(t, dir))
	content, err := os.ReadFile(filepath.Join(dir, "EM12345601-material-spec.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))
}

func TestSink_Store_ReplacesPreviousBundle(t *testing.T) {
	root := t.TempDir()
	sink, err := filesink.New(root)
	require.NoError(t, err)
	require.NoError(t, sink.Store(t.Context(), "EM12345601", append(bundle("first"),
		ports.ExportFile{Name: "stale.dxf", Content: []byte("0\nEOF\n")})))

	err = sink.Store(t.Context(), "EM12345601", bundle("second"))

	require.NoError(t, err)
	assert.Equal(t, []string{"EM12345601-cut.svg", "EM12345601-material-spec.txt"}, listDir(t, sink.Dir("EM12345601")))
	content, err := os.ReadFile(filepath.Join(sink.Dir("EM12345601"), "EM12345601-material-spec.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	for _, name := range listDir(t, root) {
		assert.NotContains(t, name, ".staging-")
		assert.NotContains(t, name, ".previous")
	}
}

func TestSink_Store_RejectsUnsafeNames(t *testing.T) {
	root := t.TempDir()
	sink, err := filesink.New(root)
	require.NoError(t, err)

	tests := []struct {
		name   string
		number string
		files  []ports.ExportFile
	}{
		{"path in file name", "EM12345601", []ports.ExportFile{{Name: "../escape.svg"}}},
		{"hidden file", "EM12345601", []ports.ExportFile{{Name: ".hidden"}}},
		{"path in order number", "../EM12345601", bundle("x")},
		{"duplicate file", "EM12345601", []ports.ExportFile{{Name: "a.svg"}, {Name: "a.svg"}}},
	}
	for _, tt := range tests {
		t.Run("should reject "+tt.name, func(t *testing.T) {
			err := sink.Store(t.Context(), tt.number, tt.files)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		})
	}

	assert.Empty(t, listDir(t, root))
}

func TestSink_Store_RequiresFiles(t *testing.T) {
	sink, err := filesink.New(t.TempDir())
	require.NoError(t, err)

	err = sink.Store(t.Context(), "EM12345601", nil)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestSink_Store_CancelledContextWritesNothing(t *testing.T) {
	root := t.TempDir()
	sink, err := filesink.New(root)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err = sink.Store(ctx, "EM12345601", bundle("x"))

	require.Error(t, err)
	_, statErr := os.Stat(sink.Dir("EM12345601"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNew_RequiresRoot(t *testing.T) {
	_, err := filesink.New(" ")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
