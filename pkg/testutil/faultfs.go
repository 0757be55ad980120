package testutil

import (
	"io"
	"io/fs"
	"strings"

	"github.com/arthur-debert/relink/pkg/types"
)

// FaultFS wraps a real types.FS and lets a test fail individual operations.
// Fail is consulted before every mutating call and every stat; a non-nil
// return is handed back to the caller instead of performing the operation.
type FaultFS struct {
	types.FS
	Fail func(op, path string) error
	// Calls records every op and path that reached the wrapper
	Calls []string
}

// NewFaultFS wraps inner with no faults configured
func NewFaultFS(inner types.FS) *FaultFS {
	return &FaultFS{FS: inner}
}

// FailOn makes op on path fail with err
func (f *FaultFS) FailOn(op, path string, err error) {
	prev := f.Fail
	f.Fail = func(o, p string) error {
		if o == op && p == path {
			return err
		}
		if prev != nil {
			return prev(o, p)
		}
		return nil
	}
}

func (f *FaultFS) check(op, path string) error {
	f.Calls = append(f.Calls, op+" "+path)
	if f.Fail == nil {
		return nil
	}
	return f.Fail(op, path)
}

func (f *FaultFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check("lstat", name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FaultFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check("stat", name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultFS) Open(name string) (io.ReadCloser, error) {
	if err := f.check("open", name); err != nil {
		return nil, err
	}
	return f.FS.Open(name)
}

func (f *FaultFS) OpenFile(name string, flag int, perm fs.FileMode) (types.WritableFile, error) {
	if err := f.check("openfile", name); err != nil {
		return nil, err
	}
	return f.FS.OpenFile(name, flag, perm)
}

func (f *FaultFS) Symlink(oldname, newname string) error {
	if err := f.check("symlink", newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FaultFS) Remove(name string) error {
	if err := f.check("remove", name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

func (f *FaultFS) Rename(oldpath, newpath string) error {
	if err := f.check("rename", newpath); err != nil {
		return err
	}
	return f.FS.Rename(oldpath, newpath)
}

func (f *FaultFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check("mkdirall", path); err != nil {
		return err
	}
	return f.FS.MkdirAll(path, perm)
}

// Mutations returns the recorded calls that change the filesystem
func (f *FaultFS) Mutations() []string {
	var out []string
	for _, c := range f.Calls {
		op, _, _ := strings.Cut(c, " ")
		switch op {
		case "openfile", "symlink", "remove", "rename", "mkdirall":
			out = append(out, c)
		}
	}
	return out
}
