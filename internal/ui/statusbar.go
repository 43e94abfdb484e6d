package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// statusBar renders the bottom chrome line: document title and load
// state on the left, cursor state and scroll position on the right.
// While a query is being typed the left side shows the input instead.
func (m *Model) statusBar() string {
	skin := m.renderer.Skin()

	left := " " + m.title
	switch {
	case m.searching:
		left = " " + m.input.View()
	case m.loadErr != nil:
		left += "  " + skin.Selection.Render(fmt.Sprintf("load error: %v", m.loadErr))
	case m.doc == nil:
		left += "  loading..."
	}

	var right string
	switch {
	case m.mode == cursorSearch && m.search.Active():
		cur, total := m.search.Position()
		right = fmt.Sprintf("/%s %d/%d  ", m.search.Query, cur, total)
	case m.mode == cursorLinks && m.links.Active():
		cur, total := m.links.Position()
		link, _ := m.links.Current()
		right = fmt.Sprintf("link %d/%d %s  ", cur, total, truncateTarget(link.Target, m.width/3))
	}
	if m.count > 0 {
		right += fmt.Sprintf("%d  ", m.count)
	}
	right += fmt.Sprintf("%s  %d%% ", m.renderer.Capability(), m.viewport.Percent())

	pad := m.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if pad < 1 {
		left = ansi.Truncate(left, maxInt(m.width-ansi.StringWidth(right)-1, 0), "…")
		pad = maxInt(m.width-ansi.StringWidth(left)-ansi.StringWidth(right), 1)
	}

	return skin.Quote.Render(left + strings.Repeat(" ", pad) + right)
}

func truncateTarget(target string, width int) string {
	if width < 4 {
		width = 4
	}
	return ansi.Truncate(target, width, "…")
}
