package types

import (
	"io"
	"io/fs"
)

// WritableFile is the subset of a file handle needed to stream content out
type WritableFile interface {
	io.Writer
	io.Closer
	Sync() error
}

// FS is the filesystem interface required for relink operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Open(name string) (io.ReadCloser, error)
	OpenFile(name string, flag int, perm fs.FileMode) (WritableFile, error)
	Chmod(name string, mode fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// Lstat never follows a trailing symlink
	Lstat(name string) (fs.FileInfo, error)

	// IOFS exposes the tree rooted at the absolute directory root as an io/fs.FS
	IOFS(root string) fs.FS
}

// Pather provides the on-disk locations relink uses for its own state
type Pather interface {
	// ConfigDir returns the XDG config directory for relink
	ConfigDir() string

	// StateDir returns the XDG state directory for relink
	StateDir() string

	// JournalDir returns the directory recovery journals are written to
	JournalDir() string
}
