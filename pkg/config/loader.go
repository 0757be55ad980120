package config

import (
	"os"
	"reflect"
	"strings"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for configuration environment variables.
// Sections are separated by a double underscore.
const EnvPrefix = "RELINK_"

// LoadOptions selects which layers are merged on top of the defaults
type LoadOptions struct {
	// UserConfigPath is the user-level config file; missing is fine
	UserConfigPath string
	// ConfigFile replaces UserConfigPath and must exist
	ConfigFile string
	// ProjectConfigPath is the per-directory config file; missing is fine
	ProjectConfigPath string
	// Overrides are flat dotted keys applied last, typically from flags
	Overrides map[string]interface{}
	SkipFiles bool
	SkipEnv   bool
}

// Load merges defaults, files, environment and overrides into a Config
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config.loader")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User and project files
	if !opts.SkipFiles {
		if opts.ConfigFile != "" {
			if err := loadFile(k, opts.ConfigFile, true); err != nil {
				return nil, err
			}
		} else if opts.UserConfigPath != "" {
			if err := loadFile(k, opts.UserConfigPath, false); err != nil {
				return nil, err
			}
		}
		if opts.ProjectConfigPath != "" {
			if err := loadFile(k, opts.ProjectConfigPath, false); err != nil {
				return nil, err
			}
		}
	}

	// 3. Environment
	if !opts.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				trimStringHookFunc(),
				lowerPolicyHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Bool("relativeLinks", cfg.Relocate.RelativeLinks).
		Bool("stagedReplace", cfg.Relocate.StagedReplace).
		Str("duplicatePolicy", string(cfg.Sources.DuplicatePolicy)).
		Bool("journal", cfg.Journal.Enabled).
		Msg("Configuration loaded")

	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", path).
			WithDetail("path", path)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}

// envKey maps RELINK_RELOCATE__RELATIVE_LINKS to relocate.relative_links
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func trimStringHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		return strings.TrimSpace(data.(string)), nil
	}
}

func lowerPolicyHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(DuplicatePolicy("")) {
			return data, nil
		}
		return DuplicatePolicy(strings.ToLower(data.(string))), nil
	}
}
