// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Environment variables
// PURPOSE: Verify XDG resolution, overrides and path normalization

package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_XDGDirectories(t *testing.T) {
	configHome := t.TempDir()
	stateHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_STATE_HOME", stateHome)
	t.Setenv(paths.EnvRelinkConfigDir, "")
	t.Setenv(paths.EnvRelinkStateDir, "")

	work := t.TempDir()
	p, err := paths.New(work)
	require.NoError(t, err)

	assert.Equal(t, work, p.WorkDir())
	assert.Equal(t, filepath.Join(configHome, "relink"), p.ConfigDir())
	assert.Equal(t, filepath.Join(stateHome, "relink"), p.StateDir())
	assert.Equal(t, filepath.Join(stateHome, "relink", "journals"), p.JournalDir())
	assert.Equal(t, filepath.Join(configHome, "relink", "config.toml"), p.UserConfigPath())
	assert.Equal(t, filepath.Join(work, ".relink.toml"), p.ProjectConfigPath())
	assert.Equal(t, filepath.Join(stateHome, "relink", "relink.log"), p.LogFilePath())
}

func TestNew_EnvOverrides(t *testing.T) {
	cfgDir := t.TempDir()
	stateDir := t.TempDir()
	t.Setenv(paths.EnvRelinkConfigDir, cfgDir)
	t.Setenv(paths.EnvRelinkStateDir, stateDir)

	p, err := paths.New(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, cfgDir, p.ConfigDir())
	assert.Equal(t, stateDir, p.StateDir())
	assert.Equal(t, filepath.Join(stateDir, "journals"), p.JournalDir())
}

func TestNew_EmptyWorkDirUsesCwd(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	p, err := paths.New("")
	require.NoError(t, err)
	assert.Equal(t, cwd, p.WorkDir())
}

func TestNormalizePath(t *testing.T) {
	work := t.TempDir()
	p, err := paths.New(work)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"relative", "a.txt", filepath.Join(work, "a.txt")},
		{"dot prefixed", "./sub/../a.txt", filepath.Join(work, "a.txt")},
		{"absolute", "/tmp/x/../y", "/tmp/y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.NormalizePath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	_, err := paths.Normalize("/work", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = paths.Normalize("relative/work", "a.txt")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestNormalize_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := paths.Normalize("/work", "~/a.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "a.txt"), got)
}
