package vfs

import (
	"io"
)

// ResolveMode selects how a Resolver treats directories that contain a match
type ResolveMode int

const (
	// ResolveFiles searches the whole tree
	ResolveFiles ResolveMode = iota
	// ResolveProjects stops descending below a directory once a file in it
	// matched, so nested projects under a project root are not reported
	ResolveProjects
)

// Resolver searches a tree breadth first for files matching glob patterns.
// Shallow matches are reported before deeper ones.
type Resolver[P TypedPath[P]] struct {
	mode    ResolveMode
	glob    *Globber
	queue   []P
	entries DirEntries[P]
	subdirs []P
	matched bool
}

// NewResolver returns a Resolver over root
func NewResolver[P TypedPath[P]](root P, mode ResolveMode, patterns ...string) (*Resolver[P], error) {
	g, err := NewGlobber(patterns...)
	if err != nil {
		return nil, err
	}
	return &Resolver[P]{mode: mode, glob: g, queue: []P{root}}, nil
}

// Next returns the next match or io.EOF. As with Walker, other errors
// concern a single entry and the search can continue.
func (r *Resolver[P]) Next() (P, error) {
	var zero P
	for {
		if r.entries == nil {
			if len(r.queue) == 0 {
				return zero, io.EOF
			}
			dir := r.queue[0]
			r.queue = r.queue[1:]
			entries, err := dir.ReadDir()
			if err != nil {
				return zero, err
			}
			r.entries = entries
			r.subdirs = nil
			r.matched = false
		}

		entry, err := r.entries.Next()
		if err != nil {
			r.finishDir()
			if err == io.EOF {
				continue
			}
			return zero, err
		}
		m, err := entry.Metadata()
		if err != nil {
			return zero, err
		}
		if m.IsDir() {
			r.subdirs = append(r.subdirs, entry)
			continue
		}
		if r.glob.Match(entry.String()) {
			r.matched = true
			return entry, nil
		}
	}
}

func (r *Resolver[P]) finishDir() {
	r.entries.Close()
	r.entries = nil
	if r.mode == ResolveFiles || !r.matched {
		r.queue = append(r.queue, r.subdirs...)
	}
	r.subdirs = nil
}

// Close releases the directory being searched
func (r *Resolver[P]) Close() error {
	r.queue = nil
	r.subdirs = nil
	if r.entries != nil {
		err := r.entries.Close()
		r.entries = nil
		return err
	}
	return nil
}

// FindFiles returns every file beneath root matching any pattern, in
// breadth-first order
func FindFiles[P TypedPath[P]](root P, patterns ...string) ([]P, error) {
	return collect(root, ResolveFiles, patterns)
}

// FindProjects returns the marker files matching patterns, skipping
// anything nested below a directory that already held a marker
func FindProjects[P TypedPath[P]](root P, patterns ...string) ([]P, error) {
	return collect(root, ResolveProjects, patterns)
}

func collect[P TypedPath[P]](root P, mode ResolveMode, patterns []string) ([]P, error) {
	r, err := NewResolver(root, mode, patterns...)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	var found []P
	for {
		p, err := r.Next()
		if err == io.EOF {
			return found, nil
		}
		if err != nil {
			return found, err
		}
		found = append(found, p)
	}
}
