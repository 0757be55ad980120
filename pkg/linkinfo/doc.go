// Package linkinfo extracts storage-object identity and hard-link counts
// from stat results.
//
// On Unix the identity is the (device, inode) pair read from syscall.Stat_t.
// On Windows the file is opened without following reparse points and the
// (volume serial number, file index) pair is read from the handle.
package linkinfo
