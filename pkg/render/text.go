package render

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/bigmd/pkg/document"
)

// LineOptions control per-line text rendering.
type LineOptions struct {
	// Width is the full content width; code block rows pad to it so the
	// background spans the line.
	Width int

	// Query highlights every case-insensitive occurrence with the
	// selection style.
	Query string

	// SelectTarget highlights spans carrying this link target.
	SelectTarget string
}

// renderLine styles one wrapped line of block b.
func renderLine(skin *Skin, b *document.Block, line document.Line, opts LineOptions) string {
	var sb strings.Builder

	gutterWidth := 0
	for i := 0; i < line.Quote; i++ {
		sb.WriteString(skin.Quote.Render("│ "))
		gutterWidth += 2
	}
	if line.Marker != "" {
		sb.WriteString(skin.Text.Render(line.Marker))
	}

	matches := matchRanges(line.Plain(), opts.Query)
	pos := len(line.Marker)

	for _, span := range line.Spans {
		base := spanStyle(skin, b, span)
		selected := opts.SelectTarget != "" && span.Target == opts.SelectTarget
		for _, seg := range segment(span.Text, pos, matches) {
			style := base
			if seg.marked || selected {
				style = skin.Selection
			}
			sb.WriteString(style.Render(seg.text))
		}
		pos += len(span.Text)
	}

	if b.Kind == document.KindCodeBlock && opts.Width > 0 {
		if pad := opts.Width - line.Width() - gutterWidth; pad > 0 {
			sb.WriteString(skin.CodeBlock.Render(strings.Repeat(" ", pad)))
		}
	}
	return sb.String()
}

// renderRule draws a horizontal rule across the content width.
func renderRule(skin *Skin, width int) string {
	if width < 1 {
		width = 1
	}
	return skin.Rule.Render(strings.Repeat("─", width))
}

func spanStyle(skin *Skin, b *document.Block, span document.Span) lipgloss.Style {
	switch {
	case b.Kind == document.KindCodeBlock:
		return skin.CodeBlock
	case span.Target != "":
		return skin.Link
	case span.Style&document.StyleCode != 0:
		return skin.Code
	}
	style := skin.Text
	if b.Kind == document.KindHeader {
		style = skin.Header(b.Level)
	}
	if span.Style&document.StyleBold != 0 {
		style = style.Bold(true)
	}
	if span.Style&document.StyleItalic != 0 {
		style = style.Italic(true)
	}
	if span.Style&document.StyleStrike != 0 {
		style = style.Strikethrough(true)
	}
	return style
}

// matchRanges returns the byte ranges of every case-insensitive
// occurrence of query in text. Lowercasing that changes byte lengths
// (rare outside ASCII) disables highlighting rather than misplacing it.
func matchRanges(text, query string) [][2]int {
	if query == "" {
		return nil
	}
	lower := strings.ToLower(text)
	needle := strings.ToLower(query)
	if len(lower) != len(text) {
		return nil
	}
	var out [][2]int
	for from := 0; ; {
		i := strings.Index(lower[from:], needle)
		if i < 0 {
			return out
		}
		start := from + i
		out = append(out, [2]int{start, start + len(needle)})
		from = start + len(needle)
	}
}

type textSegment struct {
	text   string
	marked bool
}

// segment splits text (starting at byte offset pos of the full line)
// at highlight range boundaries.
func segment(text string, pos int, ranges [][2]int) []textSegment {
	if len(ranges) == 0 {
		return []textSegment{{text: text}}
	}
	end := pos + len(text)
	cuts := []int{pos, end}
	for _, r := range ranges {
		if r[0] > pos && r[0] < end {
			cuts = append(cuts, r[0])
		}
		if r[1] > pos && r[1] < end {
			cuts = append(cuts, r[1])
		}
	}
	sort.Ints(cuts)

	var out []textSegment
	for i := 0; i+1 < len(cuts); i++ {
		lo, hi := cuts[i], cuts[i+1]
		if lo == hi {
			continue
		}
		out = append(out, textSegment{
			text:   text[lo-pos : hi-pos],
			marked: inAnyRange(lo, ranges),
		})
	}
	return out
}

func inAnyRange(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

