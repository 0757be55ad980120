package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/relink/pkg/types"
)

// maxSymlinkHops matches the Linux MAXSYMLINKS limit
const maxSymlinkHops = 40

// CanonicalPath resolves every symlink in the directories leading to path.
// The final element is kept as is, since callers lstat it.
func CanonicalPath(fsys types.FS, path string) (string, error) {
	dir, err := RealDir(fsys, filepath.Dir(path))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(path)), nil
}

// RealDir returns the absolute directory dir with every symlink resolved,
// reading links through fsys.
func RealDir(fsys types.FS, dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		return "", &fs.PathError{Op: "resolve", Path: dir, Err: fmt.Errorf("path is not absolute")}
	}

	vol := filepath.VolumeName(dir)
	resolved := vol + string(filepath.Separator)
	pending := splitPath(dir[len(vol):])
	hops := 0

	for len(pending) > 0 {
		name := pending[0]
		pending = pending[1:]

		switch name {
		case ".":
			continue
		case "..":
			resolved = filepath.Dir(resolved)
			continue
		}

		next := filepath.Join(resolved, name)
		info, err := fsys.Lstat(next)
		if err != nil {
			return "", err
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			resolved = next
			continue
		}

		hops++
		if hops > maxSymlinkHops {
			return "", &fs.PathError{Op: "resolve", Path: dir, Err: fmt.Errorf("too many levels of symbolic links")}
		}
		target, err := fsys.Readlink(next)
		if err != nil {
			return "", err
		}
		if filepath.IsAbs(target) {
			tvol := filepath.VolumeName(target)
			resolved = tvol + string(filepath.Separator)
			target = target[len(tvol):]
		}
		pending = append(splitPath(target), pending...)
	}

	return resolved, nil
}

func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool {
		return r < 128 && os.IsPathSeparator(uint8(r))
	})
}
