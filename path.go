package vfs

import (
	"strings"
)

// cleanPath normalizes name into the canonical rooted form. Backslashes are
// not separators; "." segments and empty segments are dropped and ".."
// removes the previous segment. Climbing above the root is an error.
func cleanPath(name string) (string, error) {
	return joinPath("/", name)
}

// joinPath resolves segment against the canonical path base. A leading
// slash in segment does not reset to the root.
func joinPath(base, segment string) (string, error) {
	if strings.IndexByte(segment, 0) >= 0 {
		return "", ErrInvalidPath
	}
	parts := splitSegments(base)
	for _, s := range strings.Split(segment, "/") {
		switch s {
		case "", ".":
		case "..":
			if len(parts) == 0 {
				return "", ErrInvalidPath
			}
			parts = parts[:len(parts)-1]
		default:
			parts = append(parts, s)
		}
	}
	return "/" + strings.Join(parts, "/"), nil
}

func splitSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// splitFirst splits a canonical path into its first segment and the rest,
// e.g. "/a/b/c" into "a" and "/b/c"
func splitFirst(p string) (string, string) {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i], p[i:]
	}
	return p, "/"
}

func fileName(p string) (string, bool) {
	if p == "/" || p == "" {
		return "", false
	}
	return p[strings.LastIndexByte(p, '/')+1:], true
}

// extension returns the text after the last dot of the leaf name. Names with
// only a leading dot, such as ".profile", have no extension.
func extension(p string) (string, bool) {
	name, ok := fileName(p)
	if !ok {
		return "", false
	}
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return "", false
	}
	return name[i+1:], true
}

func parentPath(p string) (string, bool) {
	if p == "/" || p == "" {
		return "", false
	}
	i := strings.LastIndexByte(p, '/')
	if i <= 0 {
		return "/", true
	}
	return p[:i], true
}

// hasDotDot reports whether segment contains a ".." component
func hasDotDot(segment string) bool {
	for _, s := range strings.Split(segment, "/") {
		if s == ".." {
			return true
		}
	}
	return false
}
