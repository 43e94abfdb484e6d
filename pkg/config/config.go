// Package config defines core configuration types for bigmd.
// These types are pure data structures with no dependencies on the
// renderer or on config loaders.
package config

// StyleConfig describes one visual style of the skin. Colors accept
// anything lipgloss understands: named ANSI indexes ("12") or hex
// values ("#87cefa"). Empty means terminal default.
type StyleConfig struct {
	Fg     string `mapstructure:"fg" yaml:"fg,omitempty"`
	Bg     string `mapstructure:"bg" yaml:"bg,omitempty"`
	Bold   bool   `mapstructure:"bold" yaml:"bold,omitempty"`
	Italic bool   `mapstructure:"italic" yaml:"italic,omitempty"`
}

// SkinConfig is the color scheme applied to rendered blocks.
type SkinConfig struct {
	// Headers indexes header styles by level, H1 first. Levels past the
	// end of the slice reuse the last entry.
	Headers []StyleConfig `mapstructure:"headers" yaml:"headers"`

	Text      StyleConfig `mapstructure:"text" yaml:"text"`
	Code      StyleConfig `mapstructure:"code" yaml:"code"`
	CodeBlock StyleConfig `mapstructure:"code_block" yaml:"code_block"`
	Link      StyleConfig `mapstructure:"link" yaml:"link"`
	Quote     StyleConfig `mapstructure:"quote" yaml:"quote"`
	Rule      StyleConfig `mapstructure:"rule" yaml:"rule"`

	// Selection highlights the active search match or cursor-selected
	// link.
	Selection StyleConfig `mapstructure:"selection" yaml:"selection"`
}

// HeaderStyle returns the style for a header level, clamped to the
// configured table.
func (s SkinConfig) HeaderStyle(level int) StyleConfig {
	if len(s.Headers) == 0 {
		return StyleConfig{Bold: true}
	}
	if level < 1 {
		level = 1
	}
	if level > len(s.Headers) {
		level = len(s.Headers)
	}
	return s.Headers[level-1]
}

// TierConfig is one header level's scale fraction for the text-sizing
// protocol. A level rendered at Numerator/Denominator of the full tier
// height.
type TierConfig struct {
	Numerator   int `mapstructure:"numerator" yaml:"numerator"`
	Denominator int `mapstructure:"denominator" yaml:"denominator"`
}

// ImagesConfig controls inline image rendering.
type ImagesConfig struct {
	// Enabled turns image rendering off entirely when false; image
	// blocks collapse to their alt text.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// MaxHeight caps an image's height in terminal rows.
	MaxHeight int `mapstructure:"max_height" yaml:"max_height"`
}

// WatchConfig controls the file watcher.
type WatchConfig struct {
	// DebounceMillis coalesces bursts of filesystem events into one
	// reload.
	DebounceMillis int `mapstructure:"debounce_millis" yaml:"debounce_millis"`
}

// Config is the root configuration structure for bigmd.
type Config struct {
	Skin   SkinConfig   `mapstructure:"skin" yaml:"skin"`
	Tiers  []TierConfig `mapstructure:"tiers" yaml:"tiers"`
	Images ImagesConfig `mapstructure:"images" yaml:"images"`
	Watch  WatchConfig  `mapstructure:"watch" yaml:"watch"`

	// CLI-level options (not persisted to config files).

	// Path is the file to view; empty means stdin.
	Path string `mapstructure:"-" yaml:"-"`

	// WatchEnabled reloads the document when the file changes.
	WatchEnabled bool `mapstructure:"-" yaml:"-"`

	// OverrideProtocol forces a capability instead of probing.
	OverrideProtocol string `mapstructure:"-" yaml:"-"`

	// NoCapChecks skips the capability probe and uses text art.
	NoCapChecks bool `mapstructure:"-" yaml:"-"`

	// LogFile receives structured logs; empty disables logging.
	LogFile string `mapstructure:"-" yaml:"-"`

	// Debug lowers the log threshold to debug.
	Debug bool `mapstructure:"-" yaml:"-"`
}

// TierRatio returns the scale fraction for a header level, falling
// back to the built-in table for levels the config does not cover.
func (c *Config) TierRatio(level int) (num, den int) {
	if level >= 1 && level <= len(c.Tiers) {
		t := c.Tiers[level-1]
		if t.Numerator > 0 && t.Denominator > 0 {
			return t.Numerator, t.Denominator
		}
	}
	return defaultTier(level)
}

func defaultTier(level int) (int, int) {
	switch level {
	case 1:
		return 7, 7
	case 2:
		return 5, 6
	case 3:
		return 3, 4
	case 4:
		return 2, 3
	case 5:
		return 3, 5
	default:
		return 1, 3
	}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Skin: SkinConfig{
			Headers: []StyleConfig{
				{Fg: "12", Bold: true},
				{Fg: "14", Bold: true},
				{Fg: "10", Bold: true},
				{Fg: "11", Bold: true},
				{Fg: "13", Bold: true},
				{Fg: "9", Bold: true},
			},
			Code:      StyleConfig{Fg: "11"},
			CodeBlock: StyleConfig{Fg: "15", Bg: "236"},
			Link:      StyleConfig{Fg: "12"},
			Quote:     StyleConfig{Fg: "8"},
			Rule:      StyleConfig{Fg: "8"},
			Selection: StyleConfig{Fg: "0", Bg: "11"},
		},
		Tiers: []TierConfig{
			{7, 7}, {5, 6}, {3, 4}, {2, 3}, {3, 5}, {1, 3},
		},
		Images: ImagesConfig{
			Enabled:   true,
			MaxHeight: 20,
		},
		Watch: WatchConfig{
			DebounceMillis: 200,
		},
	}
}
