package vfs

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

const defaultCopyBufferSize = 32 * 1024

// CopyOption is a functional option for Copy
type CopyOption func(*copier)

// WithCopyBufferSize sets the buffer size used to stream file contents
func WithCopyBufferSize(size int) CopyOption {
	return func(c *copier) {
		if size > 0 {
			c.bufferSize = size
		}
	}
}

// CopyStats summarizes a finished Copy
type CopyStats struct {
	Files int
	Dirs  int
	Bytes int64
}

type copier struct {
	bufferSize int
	buf        []byte
	stats      CopyStats
}

// Copy copies src to dst. A file is copied to dst, replacing any file
// there. A directory is copied with everything beneath it; dst is created
// if needed and files already present in it are overwritten. src and dst
// may belong to different file systems. A dst at or beneath src on the same
// backend fails with ErrInvalidPath.
func Copy(src, dst Path, opts ...CopyOption) (CopyStats, error) {
	c := &copier{bufferSize: defaultCopyBufferSize}
	for _, opt := range opts {
		opt(c)
	}
	c.buf = make([]byte, c.bufferSize)

	if nested(src, dst) {
		return c.stats, pathErr("copy", dst.String(), ErrInvalidPath)
	}
	m, err := src.Metadata()
	if err != nil {
		return c.stats, err
	}
	if m.IsDir() {
		err = c.copyTree(src, dst)
	} else {
		err = c.copyFile(src, dst)
	}
	log.WithFields(log.Fields{
		"src":   src.String(),
		"dst":   dst.String(),
		"files": c.stats.Files,
		"dirs":  c.stats.Dirs,
		"bytes": c.stats.Bytes,
	}).Debug("copy finished")
	return c.stats, err
}

func (c *copier) copyFile(src, dst Path) error {
	if m, err := dst.Metadata(); err == nil && m.IsDir() {
		return pathErr("copy", dst.String(), ErrInvalidPath)
	}

	in, err := src.Open(ReadOnly())
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer in.Close()

	out, err := dst.Open(WriteOnly())
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	n, err := io.CopyBuffer(out, in, c.buf)
	if err != nil {
		out.Close()
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	c.stats.Files++
	c.stats.Bytes += n
	return nil
}

func (c *copier) mkdir(dst Path) error {
	m, err := dst.Metadata()
	if err == nil {
		if !m.IsDir() {
			return pathErr("copy", dst.String(), ErrInvalidPath)
		}
		return nil
	}
	if err := CreateDirAll(dst); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	c.stats.Dirs++
	return nil
}

// copyTree copies depth first with an explicit stack of directory pairs
func (c *copier) copyTree(src, dst Path) error {
	type pair struct{ src, dst Path }
	stack := []pair{{src, dst}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := c.mkdir(cur.dst); err != nil {
			return err
		}

		entries, err := cur.src.ReadDir()
		if err != nil {
			return err
		}
		for {
			entry, err := entries.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				entries.Close()
				return err
			}
			name, _ := entry.FileName()
			target, err := cur.dst.Resolve(name)
			if err != nil {
				entries.Close()
				return err
			}
			m, err := entry.Metadata()
			if err != nil {
				entries.Close()
				return err
			}
			if m.IsDir() {
				stack = append(stack, pair{entry, target})
				continue
			}
			if err := c.copyFile(entry, target); err != nil {
				entries.Close()
				return err
			}
		}
		entries.Close()
	}
	return nil
}

// location is a place on one backend. Paths that know where they live
// report every location they read from, so an overlay reports its own and
// both of its sides.
type location struct {
	backend any
	name    string
}

type locator interface {
	locations() []location
}

func locate(p any) []location {
	if l, ok := p.(locator); ok {
		return l.locations()
	}
	return nil
}

// nested reports whether dst is src or lies beneath it on a backend both
// read from
func nested(src, dst Path) bool {
	dsts := locate(dst)
	for _, s := range locate(src) {
		prefix := strings.TrimSuffix(s.name, "/") + "/"
		for _, d := range dsts {
			if s.backend == d.backend && (d.name == s.name || strings.HasPrefix(d.name, prefix)) {
				return true
			}
		}
	}
	return false
}
