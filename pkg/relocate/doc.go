// Package relocate copies a source's content to its new home once and
// turns every path that held a hard link to it into a symlink to the copy.
//
// Copies go through a sibling temp file and a rename, so a failed copy never
// leaves a partial destination and never writes through a hard link. Each
// replacement is staged the same way by default: the symlink is created
// under a temporary name and renamed over the old entry. With staging off
// the old entry is removed first and the link created after, which can
// leave the path missing if the second step fails.
//
// Progress is recorded in a journal.Session when one is given; Resume uses
// that record to finish a run that stopped part way.
package relocate
