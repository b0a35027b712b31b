package vfs

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTree = map[string]string{
	"/README.md":           "readme",
	"/src/main.go":         "package main",
	"/src/util/strings.go": "package util",
	"/docs/guide.txt":      "guide",
}

var fixedPaths = []string{
	"/", "/README.md", "/src", "/src/main.go", "/src/util",
	"/src/util/strings.go", "/docs", "/docs/guide.txt", "/missing", "/src/missing.go",
}

func populate[P TypedPath[P]](t testing.TB, root P, files map[string]string) {
	t.Helper()
	for name, content := range files {
		writeFile(t, root, name, content)
	}
}

// boxingTransparency checks that every query through the boxed file system
// matches the concrete layer
func boxingTransparency(t *testing.T, l *Layer) {
	boxed := l.FileSystem()
	for _, name := range fixedPaths {
		concrete := mustLayerPath(t, l, name)
		erased := boxed.Path(name)

		assert.Equal(t, concrete.String(), erased.String(), name)
		assert.Equal(t, concrete.Exists(), erased.Exists(), name)

		cm, cerr := concrete.Metadata()
		em, eerr := erased.Metadata()
		assert.Equal(t, cm, em, name)
		assert.Equal(t, cerr == nil, eerr == nil, name)
		if cerr != nil {
			assert.Equal(t, KindOf(cerr), KindOf(eerr), name)
		}

		cl, _ := concrete.FileName()
		el, _ := erased.FileName()
		assert.Equal(t, cl, el, name)
	}
}

func TestBoxingTransparencyAfero(t *testing.T) {
	l := NewMemoryLayer()
	populate(t, l.Root(), fixedTree)
	boxingTransparency(t, l)
}

func TestBoxingTransparencyAbsfs(t *testing.T) {
	l := NewAbsLayer(mustNewMemFS())
	populate(t, l.Root(), fixedTree)
	boxingTransparency(t, l)
}

func TestBoxReadDir(t *testing.T) {
	l := newTestLayer(t, fixedTree)
	concrete := listNames(t, mustLayerPath(t, l, "/src"))
	erased := listNames(t, l.FileSystem().Path("/src"))
	assert.Equal(t, concrete, erased)
	assert.Equal(t, []string{"/src/main.go", "/src/util"}, erased)
}

func TestBoxIdempotent(t *testing.T) {
	l := newTestLayer(t, fixedTree)
	p := Box(l.Root())
	assert.Same(t, p, Box(p))

	lp, ok := Unbox[LayerPath](p)
	require.True(t, ok)
	assert.Equal(t, l.Root(), lp)

	_, ok = Unbox[LayerPath](NewOverlay(l.FileSystem(), l.FileSystem()).Path("/"))
	assert.False(t, ok)
}

func TestBoxResolveAndParent(t *testing.T) {
	l := newTestLayer(t, fixedTree)
	root := l.FileSystem().Path("/")

	p, err := root.Resolve("src/util/strings.go")
	require.NoError(t, err)
	assert.Equal(t, "package util", readString(t, p))

	parent, ok := p.Parent()
	require.True(t, ok)
	assert.Equal(t, "/src/util", parent.String())

	_, ok = root.Parent()
	assert.False(t, ok)

	_, err = root.Resolve("..")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

// TestCloneRoundTrip verifies a clone reads exactly what the original reads
func TestCloneRoundTrip(t *testing.T) {
	l := newTestLayer(t, fixedTree)
	fs := l.FileSystem()

	for _, name := range []string{"/README.md", "/src/main.go", "/src/util/strings.go"} {
		orig := fs.Path(name)
		clone := orig.Clone()
		assert.NotSame(t, orig, clone)
		assert.Equal(t, orig.String(), clone.String())
		assert.Equal(t, readString(t, orig), readString(t, clone))

		om, err := orig.Metadata()
		require.NoError(t, err)
		cm, err := clone.Metadata()
		require.NoError(t, err)
		assert.Equal(t, om, cm)
	}

	dir := fs.Path("/src")
	assert.Equal(t, listNames(t, dir), listNames(t, dir.Clone()))
}

func TestBoxFSInvalidName(t *testing.T) {
	fs := NewMemoryLayer().FileSystem()
	p := fs.Path("/../../etc/passwd")

	assert.False(t, p.Exists())
	_, err := p.Metadata()
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, err = p.Open(ReadOnly())
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, err = p.ReadDir()
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.ErrorIs(t, p.CreateDir(), ErrInvalidPath)
	assert.ErrorIs(t, p.Remove(), ErrInvalidPath)
	assert.ErrorIs(t, p.RemoveAll(), ErrInvalidPath)

	_, err = p.Resolve("x")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.ErrorIs(t, p.IntoFS().Path("/").CreateDir(), ErrInvalidPath)
}

func TestIntoFS(t *testing.T) {
	l := newTestLayer(t, fixedTree)
	sub := l.FileSystem().Path("/src").IntoFS()

	root := sub.Path("/")
	assert.Equal(t, "/", root.String())
	assert.True(t, root.Exists())
	_, ok := root.Parent()
	assert.False(t, ok)

	p := sub.Path("/util/strings.go")
	assert.Equal(t, "/util/strings.go", p.String())
	assert.Equal(t, "package util", readString(t, p))

	name, ok := p.FileName()
	assert.True(t, ok)
	assert.Equal(t, "strings.go", name)

	parent, ok := p.Parent()
	require.True(t, ok)
	assert.Equal(t, "/util", parent.String())

	assert.Equal(t, []string{"/main.go", "/util"}, listNames(t, root))

	_, err := root.Resolve("../README.md")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.False(t, sub.Path("/../README.md").Exists())

	// Writes land in the original layer
	writeFile(t, root, "/new.go", "package src")
	assert.Equal(t, "package src", readString(t, mustLayerPath(t, l, "/src/new.go")))

	// Nesting keeps re-rooting
	nested := parent.IntoFS()
	assert.Equal(t, "package util", readString(t, nested.Path("strings.go")))
	assert.Equal(t, "/strings.go", nested.Path("strings.go").String())
}

func TestErrPathParent(t *testing.T) {
	boom := errors.New("boom")
	p := newErrPath("/a/b", boom)

	parent, ok := p.Parent()
	require.True(t, ok)
	assert.Equal(t, "/a", parent.String())
	_, err := parent.Metadata()
	assert.Equal(t, boom, err)

	_, ok = newErrPath("/", boom).Parent()
	assert.False(t, ok)
	assert.Same(t, p, p.Clone())
}

func TestErrPathResolveCleans(t *testing.T) {
	c, err := NewCompositeBuilder().Mount("a", NewMemoryLayer().FileSystem()).Build()
	require.NoError(t, err)
	p := c.Path("/missing/y")

	tests := []struct {
		segment string
		want    string
	}{
		{"../x", "/missing/x"},
		{"./z/../w", "/missing/y/w"},
		{"..", "/missing"},
	}
	for _, tt := range tests {
		child, err := p.Resolve(tt.segment)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.segment, err)
		}
		if child.String() != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.segment, child, tt.want)
		}
		if _, err := child.Metadata(); !IsNotFound(err) {
			t.Errorf("Resolve(%q): Metadata error = %v, want not found", tt.segment, err)
		}
	}

	_, err = p.Resolve("../../..")
	assert.True(t, IsNotFound(err))
}

func TestBoxedEntriesPassErrors(t *testing.T) {
	l := newTestLayer(t, map[string]string{"/a": "a"})
	entries, err := l.FileSystem().Path("/").ReadDir()
	require.NoError(t, err)
	_, err = entries.Next()
	require.NoError(t, err)
	_, err = entries.Next()
	assert.Equal(t, io.EOF, err)
	require.NoError(t, entries.Close())
}
