package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/bigmd/pkg/config"
)

// Skin holds the compiled lipgloss styles for every rendered element.
type Skin struct {
	Headers []lipgloss.Style

	Text      lipgloss.Style
	Code      lipgloss.Style
	CodeBlock lipgloss.Style
	Link      lipgloss.Style
	Quote     lipgloss.Style
	Rule      lipgloss.Style
	Selection lipgloss.Style
}

// NewSkin compiles the configured color scheme.
func NewSkin(cfg config.SkinConfig) *Skin {
	s := &Skin{
		Text:      compileStyle(cfg.Text),
		Code:      compileStyle(cfg.Code),
		CodeBlock: compileStyle(cfg.CodeBlock),
		Link:      compileStyle(cfg.Link).Underline(true),
		Quote:     compileStyle(cfg.Quote),
		Rule:      compileStyle(cfg.Rule),
		Selection: compileStyle(cfg.Selection),
	}
	for level := 1; level <= 6; level++ {
		s.Headers = append(s.Headers, compileStyle(cfg.HeaderStyle(level)))
	}
	return s
}

// Header returns the style for a header level, clamped to 1-6.
func (s *Skin) Header(level int) lipgloss.Style {
	if level < 1 {
		level = 1
	}
	if level > len(s.Headers) {
		level = len(s.Headers)
	}
	return s.Headers[level-1]
}

func compileStyle(sc config.StyleConfig) lipgloss.Style {
	style := lipgloss.NewStyle()
	if sc.Fg != "" {
		style = style.Foreground(lipgloss.Color(sc.Fg))
	}
	if sc.Bg != "" {
		style = style.Background(lipgloss.Color(sc.Bg))
	}
	if sc.Bold {
		style = style.Bold(true)
	}
	if sc.Italic {
		style = style.Italic(true)
	}
	return style
}
