// Package discovery walks a search pattern once and attributes every match
// to the link inventory that owns its storage object.
//
// Patterns use doublestar syntax (`*`, `?`, `[...]`, `{a,b}`, `**`) with
// forward slashes. The literal prefix of the pattern becomes the walk root,
// resolved against the working directory when relative, and every match is
// reported as an absolute path so it compares equal to inventory source
// paths. Matches are inspected with lstat: a symlink is never a hard link.
package discovery
