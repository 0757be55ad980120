package filesystem

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/relink/pkg/types"
)

const tempPrefix = ".relink-tmp-"

// TempName returns a sibling name for path that is unlikely to collide,
// used for staging a new entry before renaming it into place.
func TempName(path string) string {
	return filepath.Join(filepath.Dir(path), fmt.Sprintf("%s%d-%s", tempPrefix, os.Getpid(), filepath.Base(path)))
}

// AtomicWriteFile writes data to path through a temp file in the same
// directory followed by a rename, so readers see either the old or the
// new content.
func AtomicWriteFile(fsys types.FS, path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpPath := TempName(path)
	tmp, err := fsys.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	done := false
	defer func() {
		if !done {
			_ = tmp.Close()
			_ = fsys.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		done = true
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := fsys.Chmod(tmpPath, perm); err != nil {
		done = true
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		done = true
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	done = true
	return nil
}
