// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate isolated test environments with real link identity

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/relink/pkg/filesystem"
	"github.com/arthur-debert/relink/pkg/paths"
	"github.com/arthur-debert/relink/pkg/types"
)

// TestEnvironment provides a complete test environment with all dependencies
type TestEnvironment struct {
	// Root is the temp directory everything lives under
	Root string
	// WorkDir is where relative sources and patterns resolve
	WorkDir   string
	StateDir  string
	ConfigDir string

	FS    types.FS
	Paths paths.Paths

	t *testing.T
}

// NewTestEnvironment creates a temp-dir workspace and points relink's XDG
// directories into it
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	// macOS hands out /var paths that are symlinks to /private/var
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	env := &TestEnvironment{
		t:         t,
		Root:      root,
		WorkDir:   filepath.Join(root, "work"),
		StateDir:  filepath.Join(root, "state"),
		ConfigDir: filepath.Join(root, "config"),
		FS:        filesystem.NewOS(),
	}

	for _, dir := range []string{env.WorkDir, env.StateDir, env.ConfigDir} {
		if err := env.FS.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv(paths.EnvRelinkStateDir, env.StateDir)
	t.Setenv(paths.EnvRelinkConfigDir, env.ConfigDir)
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "xdg-state"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "xdg-config"))

	p, err := paths.New(env.WorkDir)
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p

	return env
}

// Path returns the absolute path of rel inside the work directory
func (env *TestEnvironment) Path(rel string) string {
	return filepath.Join(env.WorkDir, filepath.FromSlash(rel))
}

// File creates rel inside the work directory and returns its absolute path
func (env *TestEnvironment) File(rel, content string) string {
	env.t.Helper()
	return CreateFile(env.t, env.WorkDir, filepath.FromSlash(rel), content)
}

// Dir creates rel inside the work directory and returns its absolute path
func (env *TestEnvironment) Dir(rel string) string {
	env.t.Helper()
	return CreateDir(env.t, env.WorkDir, filepath.FromSlash(rel))
}

// HardLinkSet creates the first path with content and hard links every
// other path to it. It returns the absolute paths in order.
func (env *TestEnvironment) HardLinkSet(content string, rels ...string) []string {
	env.t.Helper()
	if len(rels) == 0 {
		env.t.Fatal("HardLinkSet needs at least one path")
	}

	out := make([]string, 0, len(rels))
	first := env.File(rels[0], content)
	out = append(out, first)
	for _, rel := range rels[1:] {
		p := env.Path(rel)
		CreateHardLink(env.t, first, p)
		out = append(out, p)
	}
	return out
}

// Symlink creates a symlink at rel pointing to target
func (env *TestEnvironment) Symlink(target, rel string) string {
	env.t.Helper()
	p := env.Path(rel)
	CreateSymlink(env.t, target, p)
	return p
}
