package vfs

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// ReadFile reads the whole file at p
func ReadFile[P TypedPath[P]](p P) ([]byte, error) {
	f, err := p.Open(ReadOnly())
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// ReadString reads the file at p as UTF-8 text
func ReadString[P TypedPath[P]](p P) (string, error) {
	b, err := ReadFile(p)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", pathErr("read", p.String(), fmt.Errorf("%w: not valid utf-8", ErrInvalidPath))
	}
	return string(b), nil
}

// WriteFile creates or truncates the file at p and writes data to it
func WriteFile[P TypedPath[P]](p P, data []byte) error {
	f, err := p.Open(WriteOnly())
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// CreateDirAll creates p and any missing parents. It succeeds if p is
// already a directory.
func CreateDirAll[P TypedPath[P]](p P) error {
	m, err := p.Metadata()
	if err == nil {
		if m.IsDir() {
			return nil
		}
		return pathErr("mkdir", p.String(), ErrNotDirectory)
	}
	if !IsNotFound(err) {
		return err
	}
	if parent, ok := p.Parent(); ok {
		if err := CreateDirAll(parent); err != nil {
			return err
		}
	}
	if err := p.CreateDir(); err != nil && KindOf(err) != KindAlreadyExists {
		return err
	}
	return nil
}
