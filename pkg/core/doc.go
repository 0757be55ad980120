// Package core sequences a relink run.
//
// A run has two halves separated by the completeness gate:
//
//  1. Read-only: every declared source is stat'ed into a link inventory,
//     the search pattern is walked once to attribute hard links to those
//     inventories, and the gate refuses to continue unless every link
//     counted by the filesystem was found.
//
//  2. Mutating: each inventory is relocated in declaration order. Its
//     content is copied to the destination and every path that held a hard
//     link, the source included, is replaced by a symlink to the copy.
//
// Nothing is written before the gate passes. From the first mutation on,
// progress is recorded in a recovery journal so an interrupted run can be
// rolled forward with Resume; the journal is removed when the run succeeds.
package core
