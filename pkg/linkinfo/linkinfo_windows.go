//go:build windows

package linkinfo

import (
	"io/fs"
	"syscall"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/types"
)

// FromFileInfo returns the storage id and total hard-link count for the
// file at path. fi is used to decide whether to open the reparse point
// itself rather than its target.
func FromFileInfo(fi fs.FileInfo, path string) (types.StorageID, uint64, error) {
	pathp, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return types.StorageID{}, 0, errors.IO(err, "stat", path)
	}

	attrs := uint32(syscall.FILE_FLAG_BACKUP_SEMANTICS)
	if fi != nil && fi.Mode()&fs.ModeSymlink != 0 {
		attrs |= syscall.FILE_FLAG_OPEN_REPARSE_POINT
	}
	shareMode := uint32(syscall.FILE_SHARE_READ | syscall.FILE_SHARE_WRITE | syscall.FILE_SHARE_DELETE)
	h, err := syscall.CreateFile(pathp, 0, shareMode, nil, syscall.OPEN_EXISTING, attrs, 0)
	if err != nil {
		return types.StorageID{}, 0, errors.IO(err, "open", path)
	}
	defer func() { _ = syscall.CloseHandle(h) }()

	var info syscall.ByHandleFileInformation
	if err := syscall.GetFileInformationByHandle(h, &info); err != nil {
		return types.StorageID{}, 0, errors.IO(err, "stat", path)
	}

	id := types.StorageID{
		Device: uint64(info.VolumeSerialNumber),
		Object: uint64(info.FileIndexHigh)<<32 | uint64(info.FileIndexLow),
	}
	return id, uint64(info.NumberOfLinks), nil
}
