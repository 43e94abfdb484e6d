package document

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wrap"
)

// headerRows is the cell height of one oversized header segment. Scaled
// header glyphs are two terminal rows tall regardless of tier.
const headerRows = 2

// TierRatio maps a header level to the scale fraction numerator and
// denominator used by the text-sizing protocol. The default table matches
// the tuned values for kitty's OSC 66 tiers.
type TierRatio func(level int) (num, den int)

// DefaultTierRatio is the built-in level scale table.
func DefaultTierRatio(level int) (int, int) {
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

// LayoutOptions tune the layout pass.
type LayoutOptions struct {
	// TierRatio overrides the header scale table. Nil uses the default.
	TierRatio TierRatio
}

// Span is a slice of one Run as it landed on a wrapped line.
type Span struct {
	Text   string
	Style  RunStyle
	Target string

	// run identifies the originating Run within its block, so that a link
	// wrapped across lines is still recognized as one link.
	run int
}

// Line is one wrapped terminal line of a text block.
type Line struct {
	Spans []Span

	// Quote is the blockquote nesting depth; the renderer prepends one
	// gutter per level.
	Quote int

	// Marker is the list bullet or ordinal prefix, already indented.
	// Continuation lines carry an equivalent run of spaces.
	Marker string
}

// Plain returns the line's unstyled text, marker included.
func (l Line) Plain() string {
	var b strings.Builder
	b.WriteString(l.Marker)
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Width returns the printable cell width of the line.
func (l Line) Width() int {
	w := runewidth.StringWidth(l.Marker)
	for _, s := range l.Spans {
		w += runewidth.StringWidth(s.Text)
	}
	return w
}

// wrapRuns word-wraps styled runs to the given width, preserving span
// styling and link identity across line breaks. Words wider than the
// whole line are broken runewise. runID numbers runs across the whole
// enclosing block, so link identity survives nesting in lists and
// quotes.
func wrapRuns(runs []Run, width int, runID *int) []Line {
	if width < 1 {
		width = 1
	}

	type atom struct {
		span  Span
		width int
		space bool
	}
	var atoms []atom
	for _, r := range runs {
		id := *runID
		*runID++
		for _, frag := range splitWords(r.Text) {
			atoms = append(atoms, atom{
				span:  Span{Text: frag, Style: r.Style, Target: r.Target, run: id},
				width: runewidth.StringWidth(frag),
				space: frag == " ",
			})
		}
	}

	var (
		lines []Line
		cur   Line
		used  int
	)
	flush := func() {
		lines = append(lines, cur)
		cur = Line{}
		used = 0
	}
	push := func(s Span, w int) {
		if n := len(cur.Spans); n > 0 {
			last := &cur.Spans[n-1]
			if last.Style == s.Style && last.Target == s.Target && last.run == s.run {
				last.Text += s.Text
				used += w
				return
			}
		}
		cur.Spans = append(cur.Spans, s)
		used += w
	}

	for _, a := range atoms {
		if a.space {
			if used > 0 && used+1 <= width {
				push(a.span, 1)
			}
			continue
		}
		if used+a.width > width {
			if used > 0 {
				flush()
			}
			// Hard-break fragments that can never fit on one line.
			for a.width > width {
				head, tail, headWidth := splitAt(a.span.Text, width)
				push(Span{Text: head, Style: a.span.Style, Target: a.span.Target, run: a.span.run}, headWidth)
				flush()
				a.span.Text = tail
				a.width = runewidth.StringWidth(tail)
			}
		}
		push(a.span, a.width)
	}
	if used > 0 || len(lines) == 0 {
		flush()
	}

	// Trailing spaces do not count against the next line; drop them.
	for i := range lines {
		lines[i].Spans = trimTrailingSpace(lines[i].Spans)
	}
	return lines
}

// splitWords breaks text into words and single-space separators. Runs of
// whitespace collapse into one separator, matching Markdown semantics.
func splitWords(text string) []string {
	var out []string
	fields := strings.Fields(text)
	leading := len(text) > 0 && isSpace(rune(text[0]))
	trailing := len(text) > 0 && isSpace(rune(text[len(text)-1]))
	if leading {
		out = append(out, " ")
	}
	for i, f := range fields {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, f)
	}
	if trailing && len(fields) > 0 {
		out = append(out, " ")
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

// splitAt splits text so the head occupies at most width cells.
func splitAt(text string, width int) (head, tail string, headWidth int) {
	w := 0
	for i, r := range text {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			return text[:i], text[i:], w
		}
		w += rw
	}
	return text, "", w
}

func trimTrailingSpace(spans []Span) []Span {
	for len(spans) > 0 {
		last := &spans[len(spans)-1]
		last.Text = strings.TrimRight(last.Text, " ")
		if last.Text != "" {
			break
		}
		spans = spans[:len(spans)-1]
	}
	return spans
}

// layoutBlock produces the wrapped lines for one block at the given
// content width. Image blocks yield no text lines here; their extent is
// tracked separately since it depends on rasterization.
func layoutBlock(b *Block, width int, tier TierRatio, quote int, runID *int) []Line {
	if width < 1 {
		width = 1
	}
	switch b.Kind {
	case KindHeader:
		num, den := tier(b.Level)
		scaled := width * den / (2 * num)
		if scaled < 1 {
			scaled = 1
		}
		segs := wrapRuns(b.Runs, scaled, runID)
		for i := range segs {
			segs[i].Quote = quote
		}
		return segs
	case KindParagraph:
		lines := wrapRuns(b.Runs, width, runID)
		for i := range lines {
			lines[i].Quote = quote
		}
		return lines
	case KindList:
		return layoutList(b, width, tier, quote, runID)
	case KindBlockQuote:
		var lines []Line
		inner := width - 2
		for i := range b.Items {
			lines = append(lines, layoutBlock(&b.Items[i], inner, tier, quote+1, runID)...)
		}
		if len(lines) == 0 {
			lines = []Line{{Quote: quote + 1}}
		}
		return lines
	case KindCodeBlock:
		var lines []Line
		for _, raw := range b.Lines {
			// Code keeps its spacing; overlong lines break hard at the
			// margin instead of word-wrapping.
			for _, part := range strings.Split(wrap.String(raw, width), "\n") {
				lines = append(lines, Line{
					Spans: []Span{{Text: part, Style: StyleCode}},
					Quote: quote,
				})
			}
		}
		if len(lines) == 0 {
			lines = []Line{{Spans: []Span{{Style: StyleCode}}, Quote: quote}}
		}
		return lines
	case KindRule:
		return []Line{{Quote: quote}}
	case KindImage:
		return nil
	default:
		return nil
	}
}

func layoutList(b *Block, width int, tier TierRatio, quote int, runID *int) []Line {
	var lines []Line
	indent := strings.Repeat("  ", b.Level)
	ordinal := 0
	for i := range b.Items {
		item := &b.Items[i]
		if item.Kind == KindList {
			lines = append(lines, layoutBlock(item, width, tier, quote, runID)...)
			continue
		}
		ordinal++
		marker := indent + "• "
		if b.Ordered {
			marker = indent + strconv.Itoa(ordinal) + ". "
		}
		pad := strings.Repeat(" ", runewidth.StringWidth(marker))
		inner := width - runewidth.StringWidth(marker)
		for j, line := range layoutBlock(item, inner, tier, quote, runID) {
			if j == 0 {
				line.Marker = marker
			} else {
				line.Marker = pad
			}
			lines = append(lines, line)
		}
	}
	return lines
}
