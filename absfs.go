package vfs

import (
	"os"

	"github.com/absfs/absfs"
)

// absStore adapts an absfs.FileSystem so any absfs implementation
// (memfs, osfs, boltfs) can back a Layer.
type absStore struct {
	fs absfs.FileSystem
}

// Ensure absStore implements store at compile time
var _ store = absStore{}

func (s absStore) Stat(name string) (os.FileInfo, error) {
	return s.fs.Stat(name)
}

func (s absStore) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	f, err := s.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s absStore) OpenDir(name string) (dirHandle, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s absStore) Mkdir(name string, perm os.FileMode) error {
	return s.fs.Mkdir(name, perm)
}

func (s absStore) Remove(name string) error {
	return s.fs.Remove(name)
}

func (s absStore) RemoveAll(name string) error {
	return s.fs.RemoveAll(name)
}

// NewAbsLayer creates a Layer backed by an absfs.FileSystem.
//
// Example:
//
//	mfs, _ := memfs.NewFS()
//	layer := vfs.NewAbsLayer(mfs, vfs.WithLayerName("scratch"))
//	fs := layer.FileSystem()
func NewAbsLayer(fs absfs.FileSystem, opts ...LayerOption) *Layer {
	return newLayer(absStore{fs: fs}, opts)
}
