package config

import "bytes"

// templateHeader introduces the generated config file.
const templateHeader = `# bigmd configuration.
# Place this file at $XDG_CONFIG_HOME/bigmd/config.yaml (typically
# ~/.config/bigmd/config.yaml).
#
# Colors accept ANSI palette indexes ("12") or hex values ("#87cefa").
# Header tiers are the scale fractions used by the text-sizing
# protocol, H1 first.`

// GenerateTemplate renders the default configuration as a commented
// YAML document, as printed by --print-config.
func GenerateTemplate() ([]byte, error) {
	body, err := NewConfig().ToYAML()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	buf.WriteString("\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}
