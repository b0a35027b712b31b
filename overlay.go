package vfs

// Overlay merges two file systems into one read-only view. Where both sides
// have an entry at the same location the upper one wins; directories present
// on both sides are merged.
//
// Every location is looked up on both sides independently, so a file on the
// upper side hides a lower directory of the same name from listings but not
// from direct lookups beneath it.
type Overlay struct {
	lower FileSystem
	upper FileSystem
}

// NewOverlay creates an Overlay of upper over lower
func NewOverlay(lower, upper FileSystem) *Overlay {
	return &Overlay{lower: lower, upper: upper}
}

// Path returns the overlay path for name. The backing file systems are not
// consulted until the path is used.
func (o *Overlay) Path(name string) Path {
	rel, err := cleanPath(name)
	if err != nil {
		return newErrPath(name, pathErr("path", name, err))
	}
	return o.at(rel)
}

func (o *Overlay) at(rel string) *overlayPath {
	return &overlayPath{
		o:     o,
		rel:   rel,
		lower: o.lower.Path(rel),
		upper: o.upper.Path(rel),
	}
}

// overlayPath is a location in an Overlay. lower is always set. upper is nil
// only for entries a listing found on the lower side alone: the upper side
// has nothing at that name, so it has nothing beneath it either.
type overlayPath struct {
	o     *Overlay
	rel   string
	lower Path
	upper Path
}

func (p *overlayPath) String() string {
	return p.rel
}

func (p *overlayPath) FileName() (string, bool) {
	return fileName(p.rel)
}

func (p *overlayPath) Extension() (string, bool) {
	return extension(p.rel)
}

func (p *overlayPath) Resolve(segment string) (Path, error) {
	rel, err := joinPath(p.rel, segment)
	if err != nil {
		return nil, pathErr("resolve", p.rel+"/"+segment, err)
	}
	if hasDotDot(segment) {
		return p.o.at(rel), nil
	}
	child := &overlayPath{o: p.o, rel: rel}
	if child.lower, err = p.lower.Resolve(segment); err != nil {
		return nil, err
	}
	if p.upper != nil {
		if child.upper, err = p.upper.Resolve(segment); err != nil {
			return nil, err
		}
	}
	return child, nil
}

func (p *overlayPath) Parent() (Path, bool) {
	rel, ok := parentPath(p.rel)
	if !ok {
		return nil, false
	}
	return p.o.at(rel), true
}

func (p *overlayPath) Exists() bool {
	return (p.upper != nil && p.upper.Exists()) || p.lower.Exists()
}

// Metadata reports the upper side, or the lower side where the upper one
// has nothing.
func (p *overlayPath) Metadata() (Metadata, error) {
	if p.upper != nil {
		m, err := p.upper.Metadata()
		if !IsNotFound(err) {
			return m, err
		}
	}
	return p.lower.Metadata()
}

// Open opens the file for reading. Any option that could modify the file
// is refused.
func (p *overlayPath) Open(opts OpenOptions) (File, error) {
	if !opts.IsReadOnly() {
		return nil, pathErr("open", p.rel, ErrPermissionDenied)
	}
	if p.upper != nil {
		f, err := p.upper.Open(opts)
		if !IsNotFound(err) {
			return f, err
		}
	}
	return p.lower.Open(opts)
}

func (p *overlayPath) CreateDir() error {
	return pathErr("mkdir", p.rel, ErrPermissionDenied)
}

func (p *overlayPath) Remove() error {
	return pathErr("remove", p.rel, ErrPermissionDenied)
}

func (p *overlayPath) RemoveAll() error {
	return pathErr("removeall", p.rel, ErrPermissionDenied)
}

func (p *overlayPath) locations() []location {
	locs := append([]location{{p.o, p.rel}}, locate(p.lower)...)
	if p.upper != nil {
		locs = append(locs, locate(p.upper)...)
	}
	return locs
}

func (p *overlayPath) Clone() Path {
	c := *p
	return &c
}

// IntoFS returns an overlay of the two sides re-rooted here, or the lower
// side alone for a lower-only path.
func (p *overlayPath) IntoFS() FileSystem {
	if p.upper == nil {
		return p.lower.IntoFS()
	}
	return NewOverlay(p.lower.IntoFS(), p.upper.IntoFS())
}
