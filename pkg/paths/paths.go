package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/types"
)

// Environment variable names
const (
	// EnvRelinkConfigDir overrides the XDG config directory for relink
	EnvRelinkConfigDir = "RELINK_CONFIG_DIR"

	// EnvRelinkStateDir overrides the XDG state directory for relink
	EnvRelinkStateDir = "RELINK_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names inside the relink directories
const (
	// RelinkDirName is the directory name for relink-specific files
	RelinkDirName = "relink"

	// ConfigFileName is the user configuration file
	ConfigFileName = "config.toml"

	// ProjectConfigFile is the per-directory configuration file
	ProjectConfigFile = ".relink.toml"

	// JournalsDir is the subdirectory for recovery journals
	JournalsDir = "journals"

	// LogFileName is the name of the log file
	LogFileName = "relink.log"
)

// Paths provides centralized path management for relink
type Paths interface {
	types.Pather
	WorkDir() string
	UserConfigPath() string
	ProjectConfigPath() string
	LogFilePath() string
	NormalizePath(path string) (string, error)
}

type paths struct {
	workDir   string
	xdgConfig string
	xdgState  string
}

// New creates a Paths instance anchored at workDir. An empty workDir means
// the process working directory.
func New(workDir string) (Paths, error) {
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrIO, "failed to get current directory")
		}
		workDir = cwd
	}

	absWork, err := filepath.Abs(expandHome(workDir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for %s", workDir)
	}

	// xdg caches the environment at init; pick up changes made since
	xdg.Reload()

	p := &paths{workDir: absWork}
	if dir := os.Getenv(EnvRelinkConfigDir); dir != "" {
		p.xdgConfig = expandHome(dir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, RelinkDirName)
	}
	if dir := os.Getenv(EnvRelinkStateDir); dir != "" {
		p.xdgState = expandHome(dir)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, RelinkDirName)
	}
	return p, nil
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~user is left alone
	return path
}

func (p *paths) WorkDir() string {
	return p.workDir
}

func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

func (p *paths) StateDir() string {
	return p.xdgState
}

func (p *paths) JournalDir() string {
	return filepath.Join(p.xdgState, JournalsDir)
}

func (p *paths) UserConfigPath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

func (p *paths) ProjectConfigPath() string {
	return filepath.Join(p.workDir, ProjectConfigFile)
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// NormalizePath returns path as an absolute, cleaned path. Relative paths
// are resolved against the working directory, never the process cwd.
func (p *paths) NormalizePath(path string) (string, error) {
	return Normalize(p.workDir, path)
}

// Normalize resolves path against workDir and cleans it
func Normalize(workDir, path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}
	path = expandHome(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if !filepath.IsAbs(workDir) {
		return "", errors.Newf(errors.ErrInvalidInput, "working directory %q is not absolute", workDir).
			WithDetail("path", workDir)
	}
	return filepath.Join(workDir, path), nil
}
