package vfs

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	defaultDirBatchSize = 64
	defaultFileMode     = 0644
	defaultDirMode      = 0755
)

// Layer is a concrete backend: a tree of files and directories stored in an
// afero or absfs filesystem. Its paths are LayerPath values.
type Layer struct {
	name      string
	store     store
	batchSize int
	fileMode  os.FileMode
	dirMode   os.FileMode
	hostRoot  string
}

// LayerOption is a functional option for configuring a Layer
type LayerOption func(*Layer)

// WithLayerName sets the name reported by Name
func WithLayerName(name string) LayerOption {
	return func(l *Layer) {
		l.name = name
	}
}

// WithDirBatchSize sets how many names ReadDir pulls from the store at a
// time. Values below 1 are ignored.
func WithDirBatchSize(n int) LayerOption {
	return func(l *Layer) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// WithFileMode sets the permission bits for files created through Open
func WithFileMode(mode os.FileMode) LayerOption {
	return func(l *Layer) {
		l.fileMode = mode
	}
}

// WithDirMode sets the permission bits for directories created by CreateDir
func WithDirMode(mode os.FileMode) LayerOption {
	return func(l *Layer) {
		l.dirMode = mode
	}
}

func newLayer(s store, opts []LayerOption) *Layer {
	l := &Layer{
		name:      "layer",
		store:     s,
		batchSize: defaultDirBatchSize,
		fileMode:  defaultFileMode,
		dirMode:   defaultDirMode,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewLayer creates a Layer backed by an afero filesystem
func NewLayer(fs afero.Fs, opts ...LayerOption) *Layer {
	return newLayer(aferoStore{fs: fs}, opts)
}

// NewMemoryLayer creates an empty in-memory Layer
func NewMemoryLayer(opts ...LayerOption) *Layer {
	return NewLayer(afero.NewMemMapFs(), append([]LayerOption{WithLayerName("memory")}, opts...)...)
}

// NewPhysicalLayer creates a Layer over the host directory root. Paths
// cannot reach outside root.
func NewPhysicalLayer(root string, opts ...LayerOption) *Layer {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	base := afero.NewBasePathFs(afero.NewOsFs(), root)
	l := NewLayer(base, append([]LayerOption{WithLayerName(root)}, opts...)...)
	l.hostRoot = root
	return l
}

// Name returns the layer's name
func (l *Layer) Name() string {
	return l.name
}

// Path returns the path for name. Only malformed names fail; the store is
// not consulted.
func (l *Layer) Path(name string) (LayerPath, error) {
	p, err := cleanPath(name)
	if err != nil {
		return LayerPath{}, pathErr("path", name, err)
	}
	return LayerPath{layer: l, path: p}, nil
}

// Root returns the layer's root directory
func (l *Layer) Root() LayerPath {
	return LayerPath{layer: l, path: "/"}
}

// FileSystem returns the type-erased view of the layer
func (l *Layer) FileSystem() FileSystem {
	return BoxFS[LayerPath](l)
}

// LayerPath is a location in a Layer. It is a small value; copying it never
// copies file data.
type LayerPath struct {
	layer *Layer
	path  string
}

func (p LayerPath) String() string {
	return p.path
}

func (p LayerPath) FileName() (string, bool) {
	return fileName(p.path)
}

func (p LayerPath) Extension() (string, bool) {
	return extension(p.path)
}

func (p LayerPath) Resolve(segment string) (LayerPath, error) {
	np, err := joinPath(p.path, segment)
	if err != nil {
		return LayerPath{}, pathErr("resolve", p.path+"/"+segment, err)
	}
	return LayerPath{layer: p.layer, path: np}, nil
}

func (p LayerPath) Parent() (LayerPath, bool) {
	pp, ok := parentPath(p.path)
	if !ok {
		return LayerPath{}, false
	}
	return LayerPath{layer: p.layer, path: pp}, true
}

func (p LayerPath) Exists() bool {
	_, err := p.layer.store.Stat(p.path)
	return err == nil
}

func (p LayerPath) Metadata() (Metadata, error) {
	info, err := p.layer.store.Stat(p.path)
	if err != nil {
		return Metadata{}, err
	}
	return metadataOf(info), nil
}

func metadataOf(info os.FileInfo) Metadata {
	if info.IsDir() {
		return Metadata{Kind: TypeDirectory}
	}
	return Metadata{Kind: TypeFile, Size: uint64(info.Size())}
}

func (p LayerPath) Open(opts OpenOptions) (File, error) {
	return p.layer.store.OpenFile(p.path, opts.Flag(), p.layer.fileMode)
}

func (p LayerPath) ReadDir() (DirEntries[LayerPath], error) {
	info, err := p.layer.store.Stat(p.path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, pathErr("readdir", p.path, ErrNotDirectory)
	}
	h, err := p.layer.store.OpenDir(p.path)
	if err != nil {
		return nil, err
	}
	return &layerEntries{dir: p, handle: h}, nil
}

// CreateDir creates the directory. The parent must already exist.
func (p LayerPath) CreateDir() error {
	if p.path == "/" {
		return pathErr("mkdir", p.path, ErrAlreadyExists)
	}
	parent, _ := p.Parent()
	info, err := p.layer.store.Stat(parent.path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return pathErr("mkdir", p.path, ErrNotDirectory)
	}
	if p.Exists() {
		return pathErr("mkdir", p.path, ErrAlreadyExists)
	}
	return p.layer.store.Mkdir(p.path, p.layer.dirMode)
}

// Remove deletes a file or an empty directory
func (p LayerPath) Remove() error {
	if p.path == "/" {
		return pathErr("remove", p.path, ErrPermissionDenied)
	}
	info, err := p.layer.store.Stat(p.path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		empty, err := p.isEmptyDir()
		if err != nil {
			return err
		}
		if !empty {
			return pathErr("remove", p.path, errors.New("directory not empty"))
		}
	}
	return p.layer.store.Remove(p.path)
}

func (p LayerPath) isEmptyDir() (bool, error) {
	h, err := p.layer.store.OpenDir(p.path)
	if err != nil {
		return false, err
	}
	defer h.Close()
	names, err := h.Readdirnames(1)
	if err != nil && err != io.EOF {
		return false, err
	}
	return len(names) == 0, nil
}

// RemoveAll deletes the path and everything below it. Removing the root
// empties the layer but keeps the root itself.
func (p LayerPath) RemoveAll() error {
	if p.path != "/" {
		if !p.Exists() {
			return pathErr("removeall", p.path, ErrNotFound)
		}
		return p.layer.store.RemoveAll(p.path)
	}
	entries, err := p.ReadDir()
	if err != nil {
		return err
	}
	var children []LayerPath
	for {
		child, err := entries.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			entries.Close()
			return err
		}
		children = append(children, child)
	}
	entries.Close()
	for _, child := range children {
		if err := p.layer.store.RemoveAll(child.path); err != nil {
			return err
		}
	}
	return nil
}

// layerEntries enumerates a directory in batches of names
type layerEntries struct {
	dir    LayerPath
	handle dirHandle
	batch  []string
	done   bool
	closed bool
}

func (e *layerEntries) Next() (LayerPath, error) {
	if e.closed {
		return LayerPath{}, os.ErrClosed
	}
	for len(e.batch) == 0 {
		if e.done {
			return LayerPath{}, io.EOF
		}
		names, err := e.handle.Readdirnames(e.dir.layer.batchSize)
		if err != nil && err != io.EOF {
			return LayerPath{}, err
		}
		if err == io.EOF || len(names) == 0 {
			e.done = true
		}
		e.batch = names
	}
	name := e.batch[0]
	e.batch = e.batch[1:]
	return LayerPath{layer: e.dir.layer, path: childPath(e.dir.path, name)}, nil
}

func (e *layerEntries) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.handle.Close()
}

func childPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

// locations names the host directory for physical layers, so two layers
// over overlapping directories are recognised as one backend
func (p LayerPath) locations() []location {
	if p.layer.hostRoot != "" {
		return []location{{hostDisk{}, filepath.ToSlash(filepath.Join(p.layer.hostRoot, filepath.FromSlash(p.path)))}}
	}
	return []location{{p.layer, p.path}}
}

type hostDisk struct{}
