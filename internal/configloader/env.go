package configloader

import (
	"strconv"

	"github.com/yaklabco/bigmd/pkg/config"
)

// Environment variables recognized on top of the config file.
const (
	// EnvConfig points at an explicit config file, like --config.
	EnvConfig = "BIGMD_CONFIG"

	// EnvNoImages disables image rendering when set to a truthy value.
	EnvNoImages = "BIGMD_NO_IMAGES"

	// EnvMaxImageHeight overrides images.max_height.
	EnvMaxImageHeight = "BIGMD_MAX_IMAGE_HEIGHT"

	// EnvWatchDebounce overrides watch.debounce_millis.
	EnvWatchDebounce = "BIGMD_WATCH_DEBOUNCE_MS"
)

// applyEnv overlays recognized environment variables onto cfg.
// Unparseable values are ignored rather than fatal.
func applyEnv(cfg *config.Config, environ func(string) string) {
	if truthy(environ(EnvNoImages)) {
		cfg.Images.Enabled = false
	}
	if v := environ(EnvMaxImageHeight); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Images.MaxHeight = n
		}
	}
	if v := environ(EnvWatchDebounce); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Watch.DebounceMillis = n
		}
	}
}

func truthy(v string) bool {
	switch v {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
