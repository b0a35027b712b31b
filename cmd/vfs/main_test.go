package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docopt/docopt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
}

// execute parses argv the way main does and runs the command
func execute(t *testing.T, argv ...string) (string, error) {
	t.Helper()
	parser := &docopt.Parser{HelpHandler: docopt.NoHelpHandler}
	arguments, err := parser.ParseArgs(usage, argv, "")
	require.NoError(t, err)

	fs, err := buildFS(arguments)
	if err != nil {
		return "", err
	}
	var out bytes.Buffer
	err = run(arguments, fs, &out)
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestListAndCat(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"/a.txt": "hello", "/sub/b.txt": "b"})

	out, err := execute(t, "ls", "--root", root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt\t5", "sub/"}, lines(out))

	out, err = execute(t, "cat", "-r", root, "/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	_, err = execute(t, "cat", "-r", root, "/missing.txt")
	assert.Error(t, err)
}

func TestOverlayFlag(t *testing.T) {
	lower := t.TempDir()
	upper := t.TempDir()
	writeTree(t, lower, map[string]string{"/src/a.rs": "lower a", "/README.md": "readme"})
	writeTree(t, upper, map[string]string{"/src/a.rs": "upper a", "/src/b.rs": "upper b"})

	out, err := execute(t, "cat", "--root", upper, "--lower", lower, "/src/a.rs")
	require.NoError(t, err)
	assert.Equal(t, "upper a", out)

	out, err = execute(t, "glob", "--root", upper, "--lower", lower, "**/*.rs", "*.md")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/README.md", "/src/a.rs", "/src/b.rs"}, lines(out))
}

func TestMounts(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeTree(t, a, map[string]string{"/go.mod": "module a", "/inner/go.mod": "module inner"})
	writeTree(t, b, map[string]string{"/svc/go.mod": "module svc"})

	out, err := execute(t, "ls", "--mount", "a="+a, "--mount", "b="+b)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/", "b/"}, lines(out))

	out, err = execute(t, "find", "--projects", "--mount", "a="+a, "--mount", "b="+b, "**/go.mod")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/go.mod", "/b/svc/go.mod"}, lines(out))

	out, err = execute(t, "find", "--mount", "a="+a, "**/go.mod")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/go.mod", "/a/inner/go.mod"}, lines(out))

	_, err = execute(t, "ls", "--mount", "broken")
	assert.Error(t, err)
}

func TestGlobStream(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"/x/1.log": "", "/x/2.txt": "", "/3.log": ""})

	out, err := execute(t, "glob", "--stream", "-r", root, "**/*.log")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/3.log", "/x/1.log"}, lines(out))

	_, err = execute(t, "glob", "-r", root, "[")
	assert.Error(t, err)
}

func TestCopy(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"/proj/main.go": "package main", "/proj/lib/l.go": "package lib"})
	dest := filepath.Join(t.TempDir(), "out")

	_, err := execute(t, "cp", "-r", root, "/proj", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "lib", "l.go"))
	require.NoError(t, err)
	assert.Equal(t, "package lib", string(data))
}

func TestStringList(t *testing.T) {
	assert.Equal(t, []string{"a"}, stringList("a"))
	assert.Equal(t, []string{"a", "b"}, stringList([]string{"a", "b"}))
	assert.Nil(t, stringList(nil))
}
