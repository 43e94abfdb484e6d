// Package configloader resolves the viewer configuration. It implements
// XDG-compliant discovery of the user config file, environment variable
// overrides, and validation of the merged result.
package configloader

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/bigmd/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// ExplicitPath is an explicit config file path (from --config flag).
	// If set, XDG discovery is skipped and the file must exist.
	ExplicitPath string

	// IgnoreEnv skips environment variable overrides.
	IgnoreEnv bool

	// Environ looks up environment variables; nil uses os.Getenv.
	Environ func(string) string
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// LoadedFrom is the config file that was read, if any.
	LoadedFrom string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration.
// Precedence (highest to lowest):
//  1. Environment variables (BIGMD_*)
//  2. Config file (--config or the discovered user config)
//  3. Built-in defaults
//
// The file decodes directly over the defaults, so keys it omits keep
// their default values.
func Load(opts LoadOptions) (*LoadResult, error) {
	environ := opts.Environ
	if environ == nil {
		environ = os.Getenv
	}

	result := &LoadResult{Config: config.NewConfig()}

	path := opts.ExplicitPath
	explicit := path != ""
	if !explicit {
		path = discoverUserConfig(environ)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, result.Config); err != nil {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
			result.LoadedFrom = path
		case explicit:
			return nil, fmt.Errorf("load config: %w", err)
		case !errors.Is(err, os.ErrNotExist):
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping unreadable config %s: %v", path, err))
		}
	}

	if !opts.IgnoreEnv {
		applyEnv(result.Config, environ)
	}

	if err := Validate(result.Config); err != nil {
		return nil, err
	}
	return result, nil
}
