package configloader

import (
	"fmt"

	"github.com/yaklabco/bigmd/pkg/config"
)

// Validate checks the merged configuration for values the viewer
// cannot work with.
func Validate(cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil configuration")
	}

	for i, tier := range cfg.Tiers {
		if tier.Numerator < 1 || tier.Denominator < 1 {
			return fmt.Errorf("config: tier %d: numerator and denominator must be positive, got %d/%d",
				i+1, tier.Numerator, tier.Denominator)
		}
		if tier.Numerator > tier.Denominator {
			return fmt.Errorf("config: tier %d: scale %d/%d exceeds full size",
				i+1, tier.Numerator, tier.Denominator)
		}
	}

	if cfg.Images.MaxHeight < 1 {
		return fmt.Errorf("config: images.max_height must be positive, got %d", cfg.Images.MaxHeight)
	}
	if cfg.Watch.DebounceMillis < 0 {
		return fmt.Errorf("config: watch.debounce_millis must not be negative, got %d", cfg.Watch.DebounceMillis)
	}

	return nil
}
