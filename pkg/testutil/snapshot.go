package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Entry is the observable state of one path in a Snapshot
type Entry struct {
	Mode    fs.FileMode
	Content string
	Target  string
}

// Snapshot maps paths relative to a root to their state
type Snapshot map[string]Entry

// TakeSnapshot records every entry under root without following symlinks
func TakeSnapshot(t *testing.T, root string) Snapshot {
	t.Helper()

	snap := Snapshot{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		e := Entry{Mode: info.Mode()}
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			e.Target, err = os.Readlink(path)
		case info.Mode().IsRegular():
			var data []byte
			data, err = os.ReadFile(path)
			e.Content = string(data)
		}
		if err != nil {
			return err
		}
		snap[rel] = e
		return nil
	})
	require.NoError(t, err)
	return snap
}

// AssertUnchanged fails if root no longer matches before
func AssertUnchanged(t *testing.T, root string, before Snapshot) {
	t.Helper()
	assert.Equal(t, before, TakeSnapshot(t, root), "tree under %s was mutated", root)
}
