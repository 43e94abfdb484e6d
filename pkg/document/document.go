// Package document holds the viewer's block tree and its line-offset
// layout. A Document is built once per load or reload, laid out for a
// terminal width, and then addressed by line offset for scrolling,
// search, and link navigation.
package document

import "strings"

// Link is one hyperlink occurrence in document order.
type Link struct {
	// Offset is the terminal line the link starts on.
	Offset int
	// Target is the resolved destination URL, verbatim from the source.
	Target string
	// Text is the display text of the link.
	Text string
}

// Document is an ordered block sequence with computed line offsets.
// It is immutable in content once published by the worker; only image
// extents may be refined on the interactive side as rasterization
// resolves their true cell heights.
type Document struct {
	Blocks     []Block
	Generation uint64

	width     int
	tier      TierRatio
	wrapped   [][]Line
	imageRows []int
	total     int
}

// New wraps parsed blocks into a Document tagged with a generation.
// Layout must be called before the document is addressed by offset.
func New(blocks []Block, generation uint64) *Document {
	return &Document{Blocks: blocks, Generation: generation}
}

// Layout wraps every block at the given width and assigns line-offset
// ranges in a single left-to-right pass. Calling it again with the same
// width and content yields identical offsets.
func (d *Document) Layout(width int, opts LayoutOptions) {
	tier := opts.TierRatio
	if tier == nil {
		tier = DefaultTierRatio
	}
	if d.imageRows == nil || d.width != width {
		// Image cell heights were produced for the old geometry.
		d.imageRows = make([]int, len(d.Blocks))
	}
	d.width = width
	d.tier = tier
	d.wrapped = make([][]Line, len(d.Blocks))
	for i := range d.Blocks {
		runID := 0
		d.wrapped[i] = layoutBlock(&d.Blocks[i], width, tier, 0, &runID)
	}
	d.assignOffsets()
}

// assignOffsets recomputes Start/End for every block from the current
// wraps and image extents. Separated from Layout so that refining one
// image height does not re-wrap text.
func (d *Document) assignOffsets() {
	offset := 0
	for i := range d.Blocks {
		b := &d.Blocks[i]
		if offset > 0 {
			// Blank separator line between blocks.
			offset++
		}
		b.Start = offset
		offset += d.blockExtent(i)
		b.End = offset
	}
	d.total = offset
}

func (d *Document) blockExtent(i int) int {
	b := &d.Blocks[i]
	switch b.Kind {
	case KindImage:
		if d.imageRows[i] > 0 {
			return d.imageRows[i]
		}
		return 1
	case KindHeader:
		return headerRows * len(d.wrapped[i])
	default:
		return len(d.wrapped[i])
	}
}

// SetImageExtent records the rasterized cell height of an image block and
// re-runs the offset pass. Offsets of later blocks shift accordingly.
func (d *Document) SetImageExtent(i, rows int) {
	if i < 0 || i >= len(d.Blocks) || d.Blocks[i].Kind != KindImage {
		return
	}
	if rows < 1 {
		rows = 1
	}
	if d.imageRows[i] == rows {
		return
	}
	d.imageRows[i] = rows
	d.assignOffsets()
}

// TotalLines returns the laid-out document height in terminal lines.
func (d *Document) TotalLines() int {
	return d.total
}

// Width returns the width the current layout was computed for.
func (d *Document) Width() int {
	return d.width
}

// BlockLines returns block i's wrapped lines. Image blocks have none.
func (d *Document) BlockLines(i int) []Line {
	if i < 0 || i >= len(d.wrapped) {
		return nil
	}
	return d.wrapped[i]
}

// Visible returns the indices of blocks whose line ranges intersect the
// half-open offset range [from, to).
func (d *Document) Visible(from, to int) []int {
	var out []int
	for i := range d.Blocks {
		b := &d.Blocks[i]
		if b.End > from && b.Start < to {
			out = append(out, i)
		}
	}
	return out
}

// Links walks the laid-out document once and returns every hyperlink in
// document order. A link whose display text wrapped across lines is
// reported once, at the line it starts on, with its unbroken target.
func (d *Document) Links() []Link {
	var out []Link
	for i := range d.Blocks {
		b := &d.Blocks[i]
		step := 1
		if b.Kind == KindHeader {
			step = headerRows
		}
		seen := map[int]bool{}
		for li, line := range d.wrapped[i] {
			for _, s := range line.Spans {
				if s.Target == "" || seen[s.run] {
					continue
				}
				seen[s.run] = true
				out = append(out, Link{
					Offset: b.Start + li*step,
					Target: s.Target,
					Text:   s.Text,
				})
			}
		}
	}
	return out
}

// Matches returns the line offsets, in document order, whose rendered
// text contains the query (case-insensitive). A nil or empty query has
// no matches.
func (d *Document) Matches(query string) []int {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)
	var out []int
	for i := range d.Blocks {
		b := &d.Blocks[i]
		step := 1
		if b.Kind == KindHeader {
			step = headerRows
		}
		for li, line := range d.wrapped[i] {
			if strings.Contains(strings.ToLower(line.Plain()), needle) {
				out = append(out, b.Start+li*step)
			}
		}
	}
	return out
}
