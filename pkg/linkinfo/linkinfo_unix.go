//go:build !windows

package linkinfo

import (
	"io/fs"
	"syscall"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/types"
)

// FromFileInfo returns the storage id and total hard-link count for fi.
// fi must come from an lstat of path.
func FromFileInfo(fi fs.FileInfo, path string) (types.StorageID, uint64, error) {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return types.StorageID{}, 0, errors.New(errors.ErrIO, "stat result carries no device/inode information").
			WithDetail("path", path)
	}
	id := types.StorageID{
		Device: uint64(st.Dev),
		Object: uint64(st.Ino),
	}
	return id, uint64(st.Nlink), nil
}
