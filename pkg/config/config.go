package config

import (
	"github.com/arthur-debert/stagedir/pkg/errors"
)

// Config is a staging plan
type Config struct {
	// Key the staging root is published under and dependencies are
	// resolved with
	Key string `koanf:"key"`

	// Dirs are copied into the staging root
	Dirs []string `koanf:"dirs"`

	// Deps are copied into root/<dep>
	Deps []string `koanf:"deps"`

	// Merge deps are copied straight into the root
	Merge []string `koanf:"merge"`

	// Links are mirrored with symlinks, outside the staging root
	Links []LinkSpec `koanf:"links"`

	// Manifest is where to write the record of materialized entries
	Manifest string `koanf:"manifest"`

	MaxDepth int    `koanf:"max_depth"`
	Prefix   string `koanf:"prefix"`
}

// LinkSpec is one link-mode mirror
type LinkSpec struct {
	Src  string `koanf:"src"`
	Dest string `koanf:"dest"`
}

// HasStaging reports whether the plan touches the staging root
func (c *Config) HasStaging() bool {
	return len(c.Dirs)+len(c.Deps)+len(c.Merge) > 0
}

// Validate checks the plan is runnable
func (c *Config) Validate() error {
	if c.HasStaging() && c.Key == "" {
		return errors.New(errors.ErrConfigValid, "a key is required to stage directories or dependencies").
			WithDetail("field", "key")
	}
	if c.MaxDepth < 0 {
		return errors.Newf(errors.ErrConfigValid, "max_depth must not be negative, got %d", c.MaxDepth).
			WithDetail("field", "max_depth")
	}
	if c.Prefix == "" {
		return errors.New(errors.ErrConfigValid, "prefix must not be empty").
			WithDetail("field", "prefix")
	}
	for i, l := range c.Links {
		if l.Src == "" || l.Dest == "" {
			return errors.Newf(errors.ErrConfigValid, "links[%d] needs both src and dest", i).
				WithDetail("field", "links")
		}
	}
	return nil
}
