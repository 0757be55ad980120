// Package testutil provides utilities for testing relink components.
//
// Key components:
//   - TestEnvironment: isolated temp-dir workspace with XDG state and config
//     redirected into it, plus helpers for building hard-link sets
//   - Snapshot: captures a tree so tests can prove nothing was mutated
//   - MockFS: testify mock of types.FS
//   - FaultFS: a real filesystem that fails selected operations on demand
//
// Usage guidelines:
//   - Link identity only exists on a real filesystem, so relink tests run
//     against t.TempDir rather than an in-memory filesystem
//   - Each test should be completely isolated with no shared state
package testutil
