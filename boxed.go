package vfs

// Box erases the concrete type of a backend path. Boxing a value that is
// already a Path returns it unchanged.
func Box[P TypedPath[P]](p P) Path {
	if bp, ok := any(p).(Path); ok {
		return bp
	}
	return &boxedPath[P]{p: p}
}

// BoxFS erases the concrete path type of a backend. Names the backend
// rejects become a Path whose operations return that error.
func BoxFS[P TypedPath[P]](fs TypedFS[P]) FileSystem {
	return &boxedFS[P]{fs: fs}
}

type boxedFS[P TypedPath[P]] struct {
	fs TypedFS[P]
}

func (b *boxedFS[P]) Path(name string) Path {
	p, err := b.fs.Path(name)
	if err != nil {
		return newErrPath(name, err)
	}
	return Box(p)
}

type boxedPath[P TypedPath[P]] struct {
	p P
}

// Unbox returns the concrete path behind a boxed Path
func Unbox[P TypedPath[P]](p Path) (P, bool) {
	if b, ok := p.(*boxedPath[P]); ok {
		return b.p, true
	}
	cp, ok := p.(P)
	return cp, ok
}

func (b *boxedPath[P]) String() string                   { return b.p.String() }
func (b *boxedPath[P]) FileName() (string, bool)         { return b.p.FileName() }
func (b *boxedPath[P]) Extension() (string, bool)        { return b.p.Extension() }
func (b *boxedPath[P]) Exists() bool                     { return b.p.Exists() }
func (b *boxedPath[P]) Metadata() (Metadata, error)      { return b.p.Metadata() }
func (b *boxedPath[P]) Open(o OpenOptions) (File, error) { return b.p.Open(o) }
func (b *boxedPath[P]) CreateDir() error                 { return b.p.CreateDir() }
func (b *boxedPath[P]) Remove() error                    { return b.p.Remove() }
func (b *boxedPath[P]) RemoveAll() error                 { return b.p.RemoveAll() }

func (b *boxedPath[P]) Resolve(segment string) (Path, error) {
	p, err := b.p.Resolve(segment)
	if err != nil {
		return nil, err
	}
	return Box(p), nil
}

func (b *boxedPath[P]) Parent() (Path, bool) {
	p, ok := b.p.Parent()
	if !ok {
		return nil, false
	}
	return Box(p), true
}

func (b *boxedPath[P]) ReadDir() (DirEntries[Path], error) {
	entries, err := b.p.ReadDir()
	if err != nil {
		return nil, err
	}
	return &boxedEntries[P]{entries: entries}, nil
}

func (b *boxedPath[P]) Clone() Path {
	return &boxedPath[P]{p: b.p}
}

func (b *boxedPath[P]) IntoFS() FileSystem {
	return newSubFS(b)
}

func (b *boxedPath[P]) locations() []location {
	return locate(b.p)
}

type boxedEntries[P TypedPath[P]] struct {
	entries DirEntries[P]
}

func (e *boxedEntries[P]) Next() (Path, error) {
	p, err := e.entries.Next()
	if err != nil {
		return nil, err
	}
	return Box(p), nil
}

func (e *boxedEntries[P]) Close() error {
	return e.entries.Close()
}

// subFS is a FileSystem rooted at an arbitrary Path. Its paths report
// strings relative to that root and cannot resolve above it.
type subFS struct {
	base Path
}

func newSubFS(base Path) *subFS {
	return &subFS{base: base}
}

func (s *subFS) Path(name string) Path {
	rel, err := cleanPath(name)
	if err != nil {
		return newErrPath(name, pathErr("path", name, err))
	}
	p, err := s.at(rel)
	if err != nil {
		return newErrPath(rel, err)
	}
	return p
}

func (s *subFS) at(rel string) (*subPath, error) {
	if rel == "/" {
		return &subPath{fs: s, rel: rel, inner: s.base.Clone()}, nil
	}
	inner, err := s.base.Resolve(rel[1:])
	if err != nil {
		return nil, err
	}
	return &subPath{fs: s, rel: rel, inner: inner}, nil
}

type subPath struct {
	fs    *subFS
	rel   string
	inner Path
}

func (p *subPath) String() string                   { return p.rel }
func (p *subPath) FileName() (string, bool)         { return fileName(p.rel) }
func (p *subPath) Extension() (string, bool)        { return extension(p.rel) }
func (p *subPath) Exists() bool                     { return p.inner.Exists() }
func (p *subPath) Metadata() (Metadata, error)      { return p.inner.Metadata() }
func (p *subPath) Open(o OpenOptions) (File, error) { return p.inner.Open(o) }
func (p *subPath) CreateDir() error                 { return p.inner.CreateDir() }
func (p *subPath) Remove() error                    { return p.inner.Remove() }
func (p *subPath) RemoveAll() error                 { return p.inner.RemoveAll() }

func (p *subPath) Resolve(segment string) (Path, error) {
	rel, err := joinPath(p.rel, segment)
	if err != nil {
		return nil, pathErr("resolve", p.rel+"/"+segment, err)
	}
	sp, err := p.fs.at(rel)
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func (p *subPath) Parent() (Path, bool) {
	rel, ok := parentPath(p.rel)
	if !ok {
		return nil, false
	}
	parent, err := p.fs.at(rel)
	if err != nil {
		return newErrPath(rel, err), true
	}
	return parent, true
}

func (p *subPath) ReadDir() (DirEntries[Path], error) {
	entries, err := p.inner.ReadDir()
	if err != nil {
		return nil, err
	}
	return &subEntries{dir: p, entries: entries}, nil
}

func (p *subPath) Clone() Path {
	return &subPath{fs: p.fs, rel: p.rel, inner: p.inner.Clone()}
}

func (p *subPath) IntoFS() FileSystem {
	return newSubFS(p.inner)
}

func (p *subPath) locations() []location {
	return locate(p.inner)
}

type subEntries struct {
	dir     *subPath
	entries DirEntries[Path]
}

func (e *subEntries) Next() (Path, error) {
	inner, err := e.entries.Next()
	if err != nil {
		return nil, err
	}
	name, _ := inner.FileName()
	return &subPath{fs: e.dir.fs, rel: childPath(e.dir.rel, name), inner: inner}, nil
}

func (e *subEntries) Close() error {
	return e.entries.Close()
}

// errPath stands in for a name that could not be turned into a real path,
// such as one under an unknown mount. It never exists and every operation
// returns err.
type errPath struct {
	path string
	err  error
}

func newErrPath(path string, err error) *errPath {
	return &errPath{path: path, err: err}
}

func (p *errPath) String() string                 { return p.path }
func (p *errPath) FileName() (string, bool)       { return fileName(p.path) }
func (p *errPath) Extension() (string, bool)      { return extension(p.path) }
func (p *errPath) Exists() bool                   { return false }
func (p *errPath) Metadata() (Metadata, error)    { return Metadata{}, p.err }
func (p *errPath) Open(OpenOptions) (File, error) { return nil, p.err }
func (p *errPath) ReadDir() (DirEntries[Path], error) {
	return nil, p.err
}
func (p *errPath) CreateDir() error { return p.err }
func (p *errPath) Remove() error    { return p.err }
func (p *errPath) RemoveAll() error { return p.err }

// Resolve keeps the stored error. The name is cleaned as a whole since an
// invalid name need not be canonical; one that still escapes the root
// reports the stored error instead of a path.
func (p *errPath) Resolve(segment string) (Path, error) {
	rel, err := cleanPath(p.path + "/" + segment)
	if err != nil {
		return nil, p.err
	}
	return newErrPath(rel, p.err), nil
}

func (p *errPath) Parent() (Path, bool) {
	pp, ok := parentPath(p.path)
	if !ok {
		return nil, false
	}
	return newErrPath(pp, p.err), true
}

func (p *errPath) Clone() Path        { return p }
func (p *errPath) IntoFS() FileSystem { return errFS{err: p.err} }

// errFS is a FileSystem whose every path fails with err
type errFS struct {
	err error
}

func (fs errFS) Path(name string) Path {
	return newErrPath(name, fs.err)
}
