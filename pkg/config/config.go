package config

import (
	"github.com/arthur-debert/relink/pkg/errors"
)

// DuplicatePolicy decides what happens when two declared sources share a
// storage object
type DuplicatePolicy string

const (
	// DuplicateReject fails the run with DUPLICATE_SOURCE
	DuplicateReject DuplicatePolicy = "reject"
	// DuplicateMerge records the later source as a discovered link of the first
	DuplicateMerge DuplicatePolicy = "merge"
)

// Config is the complete relink configuration
type Config struct {
	Relocate  Relocate  `koanf:"relocate" toml:"relocate"`
	Discovery Discovery `koanf:"discovery" toml:"discovery"`
	Sources   Sources   `koanf:"sources" toml:"sources"`
	Journal   Journal   `koanf:"journal" toml:"journal"`
	Logging   Logging   `koanf:"logging" toml:"logging"`
}

// Relocate holds settings for the copy-and-replace phase
type Relocate struct {
	RelativeLinks bool `koanf:"relative_links" toml:"relative_links"`
	StagedReplace bool `koanf:"staged_replace" toml:"staged_replace"`
	VerifyCopy    bool `koanf:"verify_copy" toml:"verify_copy"`
}

// Discovery holds settings for link discovery
type Discovery struct {
	FollowSymlinks bool `koanf:"follow_symlinks" toml:"follow_symlinks"`
	SameDevice     bool `koanf:"same_device" toml:"same_device"`
}

// Sources holds settings for declared sources
type Sources struct {
	DuplicatePolicy DuplicatePolicy `koanf:"duplicate_policy" toml:"duplicate_policy"`
}

// Journal holds recovery journal settings
type Journal struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
}

// Logging holds logging settings that are not verbosity
type Logging struct {
	File bool `koanf:"file" toml:"file"`
}

// Default returns the configuration produced by the embedded defaults alone
func Default() *Config {
	cfg, err := Load(LoadOptions{SkipFiles: true, SkipEnv: true})
	if err != nil {
		// The embedded defaults are part of the binary
		panic(err)
	}
	return cfg
}

// Validate checks values that the decoder cannot
func (c *Config) Validate() error {
	switch c.Sources.DuplicatePolicy {
	case DuplicateReject, DuplicateMerge:
	default:
		return errors.Newf(errors.ErrConfigLoad,
			"sources.duplicate_policy must be %q or %q, got %q",
			DuplicateReject, DuplicateMerge, c.Sources.DuplicatePolicy).
			WithDetail("key", "sources.duplicate_policy")
	}
	return nil
}
