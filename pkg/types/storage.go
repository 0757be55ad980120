package types

import "fmt"

// StorageID names one storage object within a filesystem.
// On Unix it is the (device, inode) pair; on Windows the
// (volume serial number, file index) pair.
type StorageID struct {
	Device uint64
	Object uint64
}

// String formats the id as "device|object"
func (id StorageID) String() string {
	return fmt.Sprintf("%d|%d", id.Device, id.Object)
}

// IsZero reports whether the id was never populated
func (id StorageID) IsZero() bool {
	return id.Device == 0 && id.Object == 0
}

// SameDevice reports whether both ids live on the same filesystem
func (id StorageID) SameDevice(other StorageID) bool {
	return id.Device == other.Device
}
