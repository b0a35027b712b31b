package vfs

import (
	"io"
	"iter"
)

// Walker enumerates every file below a root directory, depth first.
// Directories are expanded lazily, so memory grows with the depth of the
// tree and the number of directories waiting to be expanded, never with the
// total number of files.
//
// A Walker is not safe for concurrent use.
type Walker[P TypedPath[P]] struct {
	frontier []P
	filter   func(P) bool
	entries  DirEntries[P]
	closed   bool
}

// Walk returns a Walker over the files beneath root. Only files for which
// filter returns true are yielded; a nil filter accepts every file.
// Directories themselves are never yielded.
func Walk[P TypedPath[P]](root P, filter func(P) bool) *Walker[P] {
	return &Walker[P]{frontier: []P{root}, filter: filter}
}

// Next returns the next file, or io.EOF once the tree is exhausted. Any
// other error concerns a single directory or entry; calling Next again
// continues with the rest of the tree.
func (w *Walker[P]) Next() (P, error) {
	var zero P
	if w.closed {
		return zero, io.EOF
	}
	for {
		if w.entries == nil {
			if len(w.frontier) == 0 {
				return zero, io.EOF
			}
			dir := w.frontier[len(w.frontier)-1]
			w.frontier = w.frontier[:len(w.frontier)-1]
			entries, err := dir.ReadDir()
			if err != nil {
				return zero, err
			}
			w.entries = entries
		}

		entry, err := w.entries.Next()
		if err != nil {
			w.entries.Close()
			w.entries = nil
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
			w.frontier = append(w.frontier, entry)
			continue
		}
		if w.filter == nil || w.filter(entry) {
			return entry, nil
		}
	}
}

// All returns an iterator over the remaining files and errors. The Walker
// is closed when the loop ends.
func (w *Walker[P]) All() iter.Seq2[P, error] {
	return func(yield func(P, error) bool) {
		defer w.Close()
		for {
			p, err := w.Next()
			if err == io.EOF {
				return
			}
			if !yield(p, err) {
				return
			}
		}
	}
}

// Close releases the directory currently being enumerated
func (w *Walker[P]) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.frontier = nil
	if w.entries != nil {
		err := w.entries.Close()
		w.entries = nil
		return err
	}
	return nil
}
