// Package system abstracts where documents are read from and where generated modules are written.
package system

import (
	"io/fs"
	"os"
	"path/filepath"
)

// VirtualFS is a read-only file system used to load input documents.
type VirtualFS interface {
	fs.FS
}

// WritableFS is a hierarchical store for generated output.
// MkdirAll must succeed when the directory already exists.
type WritableFS interface {
	VirtualFS
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

// FileSystem is the operating system file system.
type FileSystem struct{}

var (
	_ VirtualFS  = (*FileSystem)(nil)
	_ WritableFS = (*FileSystem)(nil)
)

func (*FileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func (*FileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile writes data to name, creating missing parent directories and replacing any existing file.
func (*FileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	return os.WriteFile(name, data, perm)
}

func (*FileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}
