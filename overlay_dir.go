package vfs

import (
	"io"
	"os"
)

// ReadDir lists the merged directory. Upper entries come first in the order
// the upper side returns them; lower entries follow unless a name was
// already seen on the upper side.
func (p *overlayPath) ReadDir() (DirEntries[Path], error) {
	m, err := p.Metadata()
	if err != nil {
		return nil, err
	}
	if !m.IsDir() {
		return nil, pathErr("readdir", p.rel, ErrNotDirectory)
	}

	d := &overlayDir{dir: p, seen: make(map[string]bool)}
	if p.upper != nil && isDir(p.upper) {
		if d.upper, err = p.upper.ReadDir(); err != nil {
			return nil, err
		}
	}
	if isDir(p.lower) {
		if d.lower, err = p.lower.ReadDir(); err != nil {
			d.Close()
			return nil, err
		}
	}
	return d, nil
}

func isDir(p Path) bool {
	m, err := p.Metadata()
	return err == nil && m.IsDir()
}

// overlayDir merges two enumerations, upper first. Names listed only by the
// lower side become lower-only paths.
type overlayDir struct {
	dir    *overlayPath
	upper  DirEntries[Path]
	lower  DirEntries[Path]
	seen   map[string]bool
	closed bool
}

func (d *overlayDir) Next() (Path, error) {
	if d.closed {
		return nil, os.ErrClosed
	}
	if d.upper != nil {
		entry, err := d.upper.Next()
		switch {
		case err == nil:
			return d.fromUpper(entry)
		case err != io.EOF:
			return nil, err
		}
		d.upper.Close()
		d.upper = nil
	}
	for d.lower != nil {
		entry, err := d.lower.Next()
		if err == io.EOF {
			d.lower.Close()
			d.lower = nil
			break
		}
		if err != nil {
			return nil, err
		}
		name, _ := entry.FileName()
		if d.seen[name] {
			continue
		}
		return &overlayPath{o: d.dir.o, rel: childPath(d.dir.rel, name), lower: entry}, nil
	}
	return nil, io.EOF
}

func (d *overlayDir) fromUpper(entry Path) (Path, error) {
	name, _ := entry.FileName()
	d.seen[name] = true
	lower, err := d.dir.lower.Resolve(name)
	if err != nil {
		return nil, err
	}
	return &overlayPath{o: d.dir.o, rel: childPath(d.dir.rel, name), lower: lower, upper: entry}, nil
}

func (d *overlayDir) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	var err error
	if d.upper != nil {
		err = d.upper.Close()
	}
	if d.lower != nil {
		if lerr := d.lower.Close(); err == nil {
			err = lerr
		}
	}
	return err
}
