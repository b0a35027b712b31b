package vfs

import (
	"errors"
	"io/fs"
	"syscall"
)

// ErrorKind classifies failures reported by paths and file systems
type ErrorKind int

const (
	// KindBackend is any failure not covered by a more specific kind
	KindBackend ErrorKind = iota
	KindNotFound
	KindPermissionDenied
	KindInvalidPath
	KindAlreadyExists
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermissionDenied:
		return "permission denied"
	case KindInvalidPath:
		return "invalid path"
	case KindAlreadyExists:
		return "already exists"
	}
	return "backend error"
}

// kindError is a sentinel that also matches its io/fs counterpart, so
// errors.Is(vfs.ErrNotFound, fs.ErrNotExist) holds and backend errors
// compare the same way in both directions through KindOf.
type kindError struct {
	kind ErrorKind
	msg  string
	std  error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool {
	return e.std != nil && target == e.std
}

var (
	// ErrNotFound is returned when a path does not exist
	ErrNotFound = &kindError{kind: KindNotFound, msg: "file not found", std: fs.ErrNotExist}
	// ErrPermissionDenied is returned for operations a file system refuses,
	// such as any mutation through an overlay
	ErrPermissionDenied = &kindError{kind: KindPermissionDenied, msg: "permission denied", std: fs.ErrPermission}
	// ErrInvalidPath is returned for malformed paths and paths escaping their root
	ErrInvalidPath = &kindError{kind: KindInvalidPath, msg: "invalid path", std: fs.ErrInvalid}
	// ErrAlreadyExists is returned when creating something that already exists
	ErrAlreadyExists = &kindError{kind: KindAlreadyExists, msg: "file already exists", std: fs.ErrExist}

	// ErrNotDirectory is returned when listing a path that is not a directory
	ErrNotDirectory = errors.New("not a directory")
	// ErrInvalidMountName is returned by the composite builder
	ErrInvalidMountName = errors.New("invalid mount name")
	// ErrInvalidPattern is returned when a glob pattern does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")
	// ErrPending is returned by Stream.Poll while backend I/O is in flight
	ErrPending = errors.New("operation pending")
)

// PathError records a failed operation on a path
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

func pathErr(op, path string, err error) error {
	return &PathError{Op: op, Path: path, Err: err}
}

// KindOf classifies err. Errors from the module and from backends built on
// os, afero or absfs are recognized through their io/fs sentinels.
func KindOf(err error) ErrorKind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	switch {
	case err == nil:
		return KindBackend
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, syscall.ENOTDIR):
		// a name beneath a regular file
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	case errors.Is(err, fs.ErrInvalid):
		return KindInvalidPath
	case errors.Is(err, fs.ErrExist):
		return KindAlreadyExists
	}
	return KindBackend
}

// IsNotFound reports whether err means the path does not exist
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
