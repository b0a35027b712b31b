package vfs

import (
	"io"
	"os"
)

// FileType distinguishes files from directories
type FileType int

const (
	// TypeFile is a regular file
	TypeFile FileType = iota
	// TypeDirectory is a directory
	TypeDirectory
)

func (t FileType) String() string {
	if t == TypeDirectory {
		return "directory"
	}
	return "file"
}

// Metadata is a snapshot of a path at the moment it was queried.
// It is never cached; querying again may observe later changes.
type Metadata struct {
	Kind FileType
	Size uint64 // always 0 for directories
}

// IsDir reports whether the metadata describes a directory
func (m Metadata) IsDir() bool {
	return m.Kind == TypeDirectory
}

// IsFile reports whether the metadata describes a regular file
func (m Metadata) IsFile() bool {
	return m.Kind == TypeFile
}

// OpenOptions configures Open. Only these flags are recognized; whether a
// combination is valid is decided by the backend when the file is opened.
type OpenOptions struct {
	Read     bool
	Write    bool
	Create   bool
	Append   bool
	Truncate bool
}

// ReadOnly returns options that open an existing file for reading
func ReadOnly() OpenOptions {
	return OpenOptions{Read: true}
}

// WriteOnly returns options that create or truncate a file for writing
func WriteOnly() OpenOptions {
	return OpenOptions{Write: true, Create: true, Truncate: true}
}

// IsReadOnly reports whether the options leave the target untouched
func (o OpenOptions) IsReadOnly() bool {
	return !o.Write && !o.Create && !o.Append && !o.Truncate
}

// Flag converts the options to os.OpenFile flags.
// Append implies write access.
func (o OpenOptions) Flag() int {
	var flag int
	writing := o.Write || o.Append
	switch {
	case o.Read && writing:
		flag = os.O_RDWR
	case writing:
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}
	if o.Create {
		flag |= os.O_CREATE
	}
	if o.Append {
		flag |= os.O_APPEND
	}
	if o.Truncate {
		flag |= os.O_TRUNC
	}
	return flag
}

// File is an open file handle returned by Open
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
}

// DirEntries enumerates a directory lazily. Next returns io.EOF once the
// directory is exhausted. Close releases the underlying handle.
type DirEntries[P any] interface {
	Next() (P, error)
	Close() error
}

// TypedPath is the contract a concrete backend path satisfies. P is the
// backend's own path type, so generic code keeps static dispatch; Box turns
// a TypedPath into a Path when the concrete type has to be hidden.
type TypedPath[P any] interface {
	// String returns the canonical, slash-rooted form ("/a/b")
	String() string
	// FileName returns the leaf name; false only for the root
	FileName() (string, bool)
	// Extension returns the text after the last '.' of the leaf name
	Extension() (string, bool)
	// Resolve joins segment onto the path and normalizes the result.
	// Escaping above the backend root fails with ErrInvalidPath.
	Resolve(segment string) (P, error)
	// Parent returns the enclosing directory; false at the root
	Parent() (P, bool)
	Exists() bool
	Metadata() (Metadata, error)
	Open(opts OpenOptions) (File, error)
	// ReadDir fails when the path does not exist or is not a directory
	ReadDir() (DirEntries[P], error)
	CreateDir() error
	Remove() error
	RemoveAll() error
}

// TypedFS produces typed paths rooted at a backend
type TypedFS[P any] interface {
	Path(name string) (P, error)
}

// Path is a type-erased location in some FileSystem. Any TypedPath can be
// turned into a Path with Box, and Path itself satisfies TypedPath[Path], so
// generic helpers such as Walk accept both.
type Path interface {
	String() string
	FileName() (string, bool)
	Extension() (string, bool)
	Resolve(segment string) (Path, error)
	Parent() (Path, bool)
	Exists() bool
	Metadata() (Metadata, error)
	Open(opts OpenOptions) (File, error)
	ReadDir() (DirEntries[Path], error)
	CreateDir() error
	Remove() error
	RemoveAll() error

	// Clone copies the handle, never the data behind it
	Clone() Path
	// IntoFS returns a FileSystem rooted at this path
	IntoFS() FileSystem
}

// FileSystem turns names into paths. Path never touches the backing store
// and never fails; a name that cannot be resolved yields a Path whose
// operations report the failure.
type FileSystem interface {
	Path(name string) Path
}

var (
	_ TypedPath[Path]      = Path(nil)
	_ TypedPath[LayerPath] = LayerPath{}
	_ TypedFS[LayerPath]   = (*Layer)(nil)
)
