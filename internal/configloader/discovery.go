package configloader

import (
	"os"
	"path/filepath"
)

// configFileNames are the user config file names we search for, in
// order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var configFileNames = []string{"config.yaml", "config.yml"}

// discoverUserConfig returns the user-level config path, or empty when
// none exists. It honors $XDG_CONFIG_HOME and falls back to
// ~/.config/bigmd/.
func discoverUserConfig(environ func(string) string) string {
	base := environ("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return findConfigInDir(filepath.Join(base, "bigmd"))
}

// findConfigInDir returns the first existing config file in dir.
func findConfigInDir(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
