// Package filesystem provides filesystem implementations for relink.
//
// This package contains the afero-backed implementation of the types.FS
// interface used for every read and mutation relink performs, plus an
// atomic write helper for state files.
package filesystem
