package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/stagedir/pkg/errors"
	"github.com/arthur-debert/stagedir/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix marks environment variables that override plan values
const EnvPrefix = "STAGEDIR_"

// LoadConfiguration loads defaults, then planPath if it is not empty,
// then STAGEDIR_* variables.
func LoadConfiguration(planPath string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Plan file
	if planPath != "" {
		parser, err := parserFor(planPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(planPath), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load plan from %s", planPath).
				WithDetail("path", planPath)
		}
		logger.Debug().Str("path", planPath).Msg("Plan file loaded")
	}

	// 3. Env vars
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	logger.Debug().
		Str("key", cfg.Key).
		Int("dirs", len(cfg.Dirs)).
		Int("deps", len(cfg.Deps)).
		Int("merge", len(cfg.Merge)).
		Int("links", len(cfg.Links)).
		Msg("Configuration loaded")

	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.New(errors.ErrConfigLoad, fmt.Sprintf("unsupported plan file extension %q", filepath.Ext(path))).
			WithDetail("path", path)
	}
}
