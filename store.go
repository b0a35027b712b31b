package vfs

import (
	"os"

	"github.com/spf13/afero"
)

// store is the string-addressed storage a Layer is built on. Names passed to
// a store are always canonical rooted paths.
type store interface {
	Stat(name string) (os.FileInfo, error)
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	OpenDir(name string) (dirHandle, error)
	Mkdir(name string, perm os.FileMode) error
	Remove(name string) error
	RemoveAll(name string) error
}

// dirHandle is the part of an open directory that enumeration needs.
// afero.File and absfs.File both provide it.
type dirHandle interface {
	Readdirnames(n int) ([]string, error)
	Close() error
}

// aferoStore adapts an afero.Fs
type aferoStore struct {
	fs afero.Fs
}

var _ store = aferoStore{}

func (s aferoStore) Stat(name string) (os.FileInfo, error) {
	return s.fs.Stat(name)
}

func (s aferoStore) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f, err := s.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s aferoStore) OpenDir(name string) (dirHandle, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s aferoStore) Mkdir(name string, perm os.FileMode) error {
	return s.fs.Mkdir(name, perm)
}

func (s aferoStore) Remove(name string) error {
	return s.fs.Remove(name)
}

func (s aferoStore) RemoveAll(name string) error {
	return s.fs.RemoveAll(name)
}
