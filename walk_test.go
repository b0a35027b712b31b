package vfs

import (
	"fmt"
	"io"
	"path"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree fills fs with a tree of the given depth. Every directory holds
// three files and, above the last level, two subdirectories.
func buildTree(t testing.TB, fs afero.Fs, dir string, depth int) (files int) {
	t.Helper()
	if err := fs.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	for i := 0; i < 3; i++ {
		name := path.Join(dir, fmt.Sprintf("file%d.txt", i))
		if err := afero.WriteFile(fs, name, []byte(name), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		files++
	}
	if depth > 1 {
		for i := 0; i < 2; i++ {
			files += buildTree(t, fs, path.Join(dir, fmt.Sprintf("dir%d", i)), depth-1)
		}
	}
	return files
}

func drainWalker[P TypedPath[P]](t testing.TB, w *Walker[P]) []string {
	t.Helper()
	defer w.Close()
	var names []string
	for {
		p, err := w.Next()
		if err == io.EOF {
			return names
		}
		if err != nil {
			t.Fatalf("Walk failed after %d files: %v", len(names), err)
		}
		names = append(names, p.String())
	}
}

func TestWalkOrder(t *testing.T) {
	l := newTestLayer(t, map[string]string{
		"/a/x.txt": "x",
		"/b/y.txt": "y",
		"/c.txt":   "c",
	})
	names := drainWalker(t, Walk(l.Root(), nil))
	assert.Equal(t, []string{"/c.txt", "/b/y.txt", "/a/x.txt"}, names)
}

func TestWalkDeepTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	want := buildTree(t, fs, "/", 5)
	require.Equal(t, 93, want)

	l := NewLayer(fs, WithDirBatchSize(2))
	names := drainWalker(t, Walk(l.Root(), nil))
	if len(names) != want {
		t.Fatalf("walked %d files, want %d", len(names), want)
	}

	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			t.Errorf("duplicate %s", name)
		}
		seen[name] = true
		if !strings.HasSuffix(name, ".txt") {
			t.Errorf("directories are never yielded: %s", name)
		}
	}

	// The same tree seen through the boxed form walks identically
	boxed := drainWalker(t, Walk(l.FileSystem().Path("/"), nil))
	assert.Equal(t, names, boxed)
}

func TestWalkFilter(t *testing.T) {
	l := newTestLayer(t, map[string]string{
		"/main.go":       "",
		"/README.md":     "",
		"/pkg/a.go":      "",
		"/pkg/a_test.go": "",
		"/pkg/doc.txt":   "",
	})
	goFiles := func(p LayerPath) bool {
		ext, _ := p.Extension()
		return ext == "go"
	}
	names := drainWalker(t, Walk(l.Root(), goFiles))
	assert.ElementsMatch(t, []string{"/main.go", "/pkg/a.go", "/pkg/a_test.go"}, names)
}

func TestWalkEmpty(t *testing.T) {
	l := NewMemoryLayer()
	require.NoError(t, mustLayerPath(t, l, "/empty").CreateDir())

	w := Walk(mustLayerPath(t, l, "/empty"), nil)
	_, err := w.Next()
	assert.Equal(t, io.EOF, err)
	_, err = w.Next()
	assert.Equal(t, io.EOF, err)
}

func TestWalkRootIsFile(t *testing.T) {
	l := newTestLayer(t, map[string]string{"/only.txt": "x"})
	w := Walk(mustLayerPath(t, l, "/only.txt"), nil)

	_, err := w.Next()
	assert.ErrorIs(t, err, ErrNotDirectory)
	_, err = w.Next()
	assert.Equal(t, io.EOF, err)
}

// TestWalkResumesAfterError mounts a broken file system next to a good one;
// the walk reports the failure and still visits everything else
func TestWalkResumesAfterError(t *testing.T) {
	good := newTestLayer(t, map[string]string{"/a.txt": "a", "/sub/b.txt": "b"})
	boom := fmt.Errorf("disk on fire")
	c, err := NewCompositeBuilder().
		Mount("bad", errFS{err: boom}).
		Mount("good", good.FileSystem()).
		Build()
	require.NoError(t, err)

	w := Walk(c.Root(), nil)
	defer w.Close()

	var names []string
	var errs []error
	for {
		p, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		names = append(names, p.String())
	}
	assert.ElementsMatch(t, []string{"/good/a.txt", "/good/sub/b.txt"}, names)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], boom)
}

func TestWalkAll(t *testing.T) {
	l := newTestLayer(t, map[string]string{"/a": "", "/b": "", "/c": ""})

	var names []string
	for p, err := range Walk(l.Root(), nil).All() {
		require.NoError(t, err)
		names = append(names, p.String())
	}
	assert.Equal(t, []string{"/a", "/b", "/c"}, names)

	w := Walk(l.Root(), nil)
	for p, err := range w.All() {
		require.NoError(t, err)
		assert.Equal(t, "/a", p.String())
		break
	}
	_, err := w.Next()
	assert.Equal(t, io.EOF, err, "breaking out of All closes the walker")
}

func TestWalkClose(t *testing.T) {
	l := newTestLayer(t, map[string]string{"/a": "", "/b": ""})
	w := Walk(l.Root(), nil)

	_, err := w.Next()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Next()
	assert.Equal(t, io.EOF, err)
}

func TestWalkOverlay(t *testing.T) {
	ov, _, _ := newProjectOverlay(t)
	names := drainWalker(t, Walk(ov.Path("/"), nil))
	assert.Equal(t, []string{"/README.md", "/src/a.rs", "/src/b.rs"}, names)
}
