package vfs

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Globber matches path strings against one or more glob patterns. A path
// matches when any pattern does. Patterns use doublestar syntax: "*" stays
// within a segment, "**" spans segments, "{a,b}" lists alternatives.
// Leading slashes are ignored on both patterns and paths.
type Globber struct {
	patterns []string
}

// NewGlobber compiles patterns
func NewGlobber(patterns ...string) (*Globber, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no patterns", ErrInvalidPattern)
	}
	g := &Globber{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		p = strings.TrimLeft(p, "/")
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, p)
		}
		g.patterns = append(g.patterns, p)
	}
	return g, nil
}

// Patterns returns the compiled patterns
func (g *Globber) Patterns() []string {
	return append([]string(nil), g.patterns...)
}

// Match reports whether path matches any pattern
func (g *Globber) Match(path string) bool {
	path = strings.TrimLeft(path, "/")
	for _, p := range g.patterns {
		if doublestar.MatchUnvalidated(p, path) {
			return true
		}
	}
	return false
}

// Filter adapts the globber for Walk and NewStream
func Filter[P TypedPath[P]](g *Globber) func(P) bool {
	return func(p P) bool {
		return g.Match(p.String())
	}
}

// Glob walks root yielding the files whose full path matches any pattern
func Glob[P TypedPath[P]](root P, patterns ...string) (*Walker[P], error) {
	g, err := NewGlobber(patterns...)
	if err != nil {
		return nil, err
	}
	return Walk(root, Filter[P](g)), nil
}

// GlobStream is the polled form of Glob
func GlobStream[P TypedPath[P]](root P, patterns ...string) (*Stream[P], error) {
	g, err := NewGlobber(patterns...)
	if err != nil {
		return nil, err
	}
	return NewStream(root, Filter[P](g)), nil
}
