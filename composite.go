package vfs

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// CompositeBuilder collects mounts for a Composite
type CompositeBuilder struct {
	mounts map[string]FileSystem
	err    error
}

// NewCompositeBuilder returns an empty builder
func NewCompositeBuilder() *CompositeBuilder {
	return &CompositeBuilder{mounts: make(map[string]FileSystem)}
}

// Mount adds fs under /name. Mounting a name twice replaces the earlier
// file system. The first invalid name is reported by Build.
func (b *CompositeBuilder) Mount(name string, fs FileSystem) *CompositeBuilder {
	if name == "" || strings.Contains(name, "/") || name == "." || name == ".." {
		if b.err == nil {
			b.err = fmt.Errorf("%w: %q", ErrInvalidMountName, name)
		}
		return b
	}
	if _, ok := b.mounts[name]; ok {
		log.WithField("mount", name).Debug("replacing existing mount")
	}
	b.mounts[name] = fs
	return b
}

// Build returns the Composite. The builder may be reused; later mounts do
// not affect composites already built.
func (b *CompositeBuilder) Build() (*Composite, error) {
	if b.err != nil {
		return nil, b.err
	}
	c := &Composite{mounts: make(map[string]FileSystem, len(b.mounts))}
	for name, fs := range b.mounts {
		c.mounts[name] = fs
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	return c, nil
}

// Composite joins named file systems into one tree, each reachable as
// /<mount>/... Its mount table never changes after Build.
type Composite struct {
	mounts map[string]FileSystem
	names  []string
}

// Mounts returns the mount names in sorted order
func (c *Composite) Mounts() []string {
	return append([]string(nil), c.names...)
}

// Path routes name to the mount named by its first segment. Unknown mounts
// yield a path that does not exist and fails every operation with
// ErrNotFound.
func (c *Composite) Path(name string) Path {
	rel, err := cleanPath(name)
	if err != nil {
		return newErrPath(name, pathErr("path", name, err))
	}
	if rel == "/" {
		return &compositeRoot{c: c}
	}
	mount, rest := splitFirst(rel)
	fs, ok := c.mounts[mount]
	if !ok {
		return newErrPath(rel, pathErr("path", rel, ErrNotFound))
	}
	return &mountPath{c: c, mount: mount, inner: fs.Path(rest)}
}

// Root returns the composite's root directory
func (c *Composite) Root() Path {
	return &compositeRoot{c: c}
}

// mountPath is a path inside one mount. Its string form is rebuilt from the
// mount name and the delegated path on demand.
type mountPath struct {
	c     *Composite
	mount string
	inner Path
}

func (p *mountPath) isMountRoot() bool {
	_, ok := p.inner.Parent()
	return !ok
}

func (p *mountPath) String() string {
	s := p.inner.String()
	if s == "/" || s == "" {
		return "/" + p.mount
	}
	return "/" + p.mount + s
}

func (p *mountPath) FileName() (string, bool) {
	return fileName(p.String())
}

func (p *mountPath) Extension() (string, bool) {
	return extension(p.String())
}

func (p *mountPath) Resolve(segment string) (Path, error) {
	if hasDotDot(segment) {
		rel, err := joinPath(p.String(), segment)
		if err != nil {
			return nil, pathErr("resolve", p.String()+"/"+segment, err)
		}
		return p.c.Path(rel), nil
	}
	inner, err := p.inner.Resolve(segment)
	if err != nil {
		return nil, err
	}
	return &mountPath{c: p.c, mount: p.mount, inner: inner}, nil
}

func (p *mountPath) Parent() (Path, bool) {
	inner, ok := p.inner.Parent()
	if !ok {
		return &compositeRoot{c: p.c}, true
	}
	return &mountPath{c: p.c, mount: p.mount, inner: inner}, true
}

func (p *mountPath) Exists() bool {
	return p.isMountRoot() || p.inner.Exists()
}

func (p *mountPath) Metadata() (Metadata, error) {
	if p.isMountRoot() {
		return Metadata{Kind: TypeDirectory}, nil
	}
	return p.inner.Metadata()
}

func (p *mountPath) Open(opts OpenOptions) (File, error) {
	return p.inner.Open(opts)
}

func (p *mountPath) ReadDir() (DirEntries[Path], error) {
	entries, err := p.inner.ReadDir()
	if err != nil {
		return nil, err
	}
	return &mountEntries{dir: p, entries: entries}, nil
}

func (p *mountPath) CreateDir() error {
	return p.inner.CreateDir()
}

func (p *mountPath) Remove() error {
	if p.isMountRoot() {
		return pathErr("remove", p.String(), ErrPermissionDenied)
	}
	return p.inner.Remove()
}

func (p *mountPath) RemoveAll() error {
	if p.isMountRoot() {
		return pathErr("removeall", p.String(), ErrPermissionDenied)
	}
	return p.inner.RemoveAll()
}

func (p *mountPath) Clone() Path {
	return &mountPath{c: p.c, mount: p.mount, inner: p.inner.Clone()}
}

func (p *mountPath) IntoFS() FileSystem {
	return p.inner.IntoFS()
}

func (p *mountPath) locations() []location {
	return append([]location{{p.c, p.String()}}, locate(p.inner)...)
}

type mountEntries struct {
	dir     *mountPath
	entries DirEntries[Path]
}

func (e *mountEntries) Next() (Path, error) {
	inner, err := e.entries.Next()
	if err != nil {
		return nil, err
	}
	return &mountPath{c: e.dir.c, mount: e.dir.mount, inner: inner}, nil
}

func (e *mountEntries) Close() error {
	return e.entries.Close()
}

// compositeRoot is "/" of a Composite. It lists the mounts and refuses
// everything that would modify it.
type compositeRoot struct {
	c *Composite
}

func (r *compositeRoot) String() string            { return "/" }
func (r *compositeRoot) FileName() (string, bool)  { return "", false }
func (r *compositeRoot) Extension() (string, bool) { return "", false }
func (r *compositeRoot) Parent() (Path, bool)      { return nil, false }
func (r *compositeRoot) Exists() bool              { return true }
func (r *compositeRoot) Clone() Path               { return r }
func (r *compositeRoot) IntoFS() FileSystem        { return r.c }

func (r *compositeRoot) Metadata() (Metadata, error) {
	return Metadata{Kind: TypeDirectory}, nil
}

// Resolve dispatches exactly like Composite.Path
func (r *compositeRoot) Resolve(segment string) (Path, error) {
	rel, err := joinPath("/", segment)
	if err != nil {
		return nil, pathErr("resolve", "/"+segment, err)
	}
	return r.c.Path(rel), nil
}

func (r *compositeRoot) Open(OpenOptions) (File, error) {
	return nil, pathErr("open", "/", ErrPermissionDenied)
}

func (r *compositeRoot) ReadDir() (DirEntries[Path], error) {
	return &rootEntries{c: r.c}, nil
}

func (r *compositeRoot) CreateDir() error {
	return pathErr("mkdir", "/", ErrPermissionDenied)
}

func (r *compositeRoot) Remove() error {
	return pathErr("remove", "/", ErrPermissionDenied)
}

func (r *compositeRoot) RemoveAll() error {
	return pathErr("removeall", "/", ErrPermissionDenied)
}

// rootEntries yields one directory per mount
type rootEntries struct {
	c      *Composite
	next   int
	closed bool
}

func (e *rootEntries) Next() (Path, error) {
	if e.closed {
		return nil, os.ErrClosed
	}
	if e.next >= len(e.c.names) {
		return nil, io.EOF
	}
	name := e.c.names[e.next]
	e.next++
	return &mountPath{c: e.c, mount: name, inner: e.c.mounts[name].Path("/")}, nil
}

func (e *rootEntries) Close() error {
	e.closed = true
	return nil
}

// locations covers every mount, since the root reads from all of them
func (r *compositeRoot) locations() []location {
	locs := []location{{r.c, "/"}}
	for _, name := range r.c.names {
		locs = append(locs, locate(r.c.mounts[name].Path("/"))...)
	}
	return locs
}
