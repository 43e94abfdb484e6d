package render

import (
	"image"
	"io"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/bigmd/pkg/capability"
	"github.com/yaklabco/bigmd/pkg/config"
	"github.com/yaklabco/bigmd/pkg/document"
)

// FrameOptions carry the per-frame highlight state.
type FrameOptions struct {
	// Query highlights search matches in text blocks.
	Query string

	// SelectTarget highlights the link spans with this target.
	SelectTarget string
}

// Renderer produces terminal frames from a laid-out document for one
// negotiated capability. It owns the artifact cache; Invalidate must be
// called when a new generation or geometry arrives.
type Renderer struct {
	cap    capability.Capability
	cfg    *config.Config
	skin   *Skin
	cache  *Cache
	load   ImageLoader
	logger *log.Logger

	// failed remembers image sources whose load or encode failed, so a
	// broken image does not retry every frame.
	failed map[string]bool

	// scaled memoizes capability-scaled pixels per source and geometry,
	// so clipping a scrolled image re-encodes without reloading.
	scaled map[uint64]scaledEntry
}

type scaledEntry struct {
	img        *image.RGBA
	cols, rows int
}

// NewRenderer builds a renderer for the given capability and config.
// The loader may be nil when image rendering is disabled.
func NewRenderer(termCap capability.Capability, cfg *config.Config, loader ImageLoader, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Renderer{
		cap:    termCap,
		cfg:    cfg,
		skin:   NewSkin(cfg.Skin),
		cache:  NewCache(),
		load:   loader,
		logger: logger,
		failed: make(map[string]bool),
		scaled: make(map[uint64]scaledEntry),
	}
}

// Capability returns the capability the renderer encodes for.
func (r *Renderer) Capability() capability.Capability {
	return r.cap
}

// Skin exposes the compiled styles for chrome (status bar) reuse.
func (r *Renderer) Skin() *Skin {
	return r.skin
}

// Invalidate drops all cached artifacts and failure memory.
func (r *Renderer) Invalidate() {
	r.cache.Clear()
	r.failed = make(map[string]bool)
	r.scaled = make(map[uint64]scaledEntry)
}

// Frame renders the half-open line range [top, top+height) of the
// document. The returned slice always has exactly height rows; rows
// past the end of the document are empty.
//
// Rendering an image block for the first time resolves its true cell
// height; the document's offsets shift and the pass restarts, which is
// cheap because the encoded artifact is now cached.
func (r *Renderer) Frame(doc *document.Document, top, height int, opts FrameOptions) []string {
	rows := make([]string, height)
	if doc == nil || height < 1 {
		return rows
	}

	for attempt := 0; ; attempt++ {
		if r.renderPass(doc, top, height, opts, rows) || attempt > len(doc.Blocks) {
			return rows
		}
		for i := range rows {
			rows[i] = ""
		}
	}
}

// renderPass fills rows for one layout snapshot. It reports false when
// an image measurement shifted the offsets mid-pass.
func (r *Renderer) renderPass(doc *document.Document, top, height int, opts FrameOptions, rows []string) bool {
	width := doc.Width()
	for _, bi := range doc.Visible(top, top+height) {
		b := &doc.Blocks[bi]

		if b.Kind == document.KindImage {
			art, resized := r.imageArtifact(doc, bi, top, height)
			if resized {
				return false
			}
			copyRows(rows, art, b.Start, top)
			continue
		}

		art := r.blockArtifact(doc, bi, width, opts, top, height)
		copyRows(rows, art, b.Start, top)
	}
	return true
}

// copyRows places artifact rows into the frame at the block's offset.
func copyRows(rows []string, art Artifact, blockStart, top int) {
	for i := 0; i < art.Height(); i++ {
		line := blockStart + i - top
		if line >= 0 && line < len(rows) {
			rows[line] = art.Row(i)
		}
	}
}

// clipWindow returns the artifact-row slice [from, to) of a block
// spanning rows cells from start that falls inside [top, top+height).
func clipWindow(start, rows, top, height int) (from, to int) {
	from = top - start
	if from < 0 {
		from = 0
	}
	to = top + height - start
	if to > rows {
		to = rows
	}
	if to < from {
		to = from
	}
	return from, to
}

// placeRows positions enc inside a blank artifact of total rows,
// starting at offset.
func placeRows(total, offset int, enc []string) []string {
	out := make([]string, total)
	for i, row := range enc {
		if offset+i >= 0 && offset+i < total {
			out[offset+i] = row
		}
	}
	return out
}

// blockArtifact renders a non-image block. Text is cheap and rendered
// fresh each frame so highlights stay current; header glyph work is
// cached.
func (r *Renderer) blockArtifact(doc *document.Document, bi, width int, opts FrameOptions, top, height int) Artifact {
	b := &doc.Blocks[bi]
	lines := doc.BlockLines(bi)

	switch b.Kind {
	case document.KindHeader:
		return r.headerArtifact(b, lines, width, top, height)
	case document.KindRule:
		return Artifact{Rows: []string{renderRule(r.skin, width)}}
	default:
		lineOpts := LineOptions{Width: width, Query: opts.Query, SelectTarget: opts.SelectTarget}
		out := make([]string, len(lines))
		for i, line := range lines {
			out[i] = renderLine(r.skin, b, line, lineOpts)
		}
		return Artifact{Rows: out}
	}
}

// headerRows is the cell height of one oversized header segment,
// matching the layout's two-row reservation.
const headerRows = 2

// headerArtifact renders every wrapped segment of a header, two rows
// per segment, through the capability's glyph path. Segments that
// straddle the viewport edge are re-encoded for their visible slice so
// the graphics escape lands on a row that survives clipping.
func (r *Renderer) headerArtifact(b *document.Block, lines []document.Line, width, top, height int) Artifact {
	var rows []string
	for si, seg := range lines {
		segTop := b.Start + headerRows*si
		from, to := clipWindow(segTop, headerRows, top, height)
		rows = append(rows, r.headerSegment(seg, b.Level, width, from, to)...)
	}
	return Artifact{Rows: rows}
}

func (r *Renderer) headerSegment(seg document.Line, level, width, from, to int) []string {
	if from >= to {
		return make([]string, headerRows)
	}
	if r.cap.Kind != capability.InlineGraphics {
		from, to = 0, headerRows
	}

	key := Key("header", seg.Plain(),
		KeyInts(level, width, r.cap.CellWidth, r.cap.CellHeight, int(r.cap.Kind), int(r.cap.Encoding), from, to))
	if art, ok := r.cache.Get(key); ok {
		return art.Rows
	}

	var rows []string
	switch r.cap.Kind {
	case capability.TextSizing:
		// The sizing escape scales glyphs in place; there are no pixel
		// rows to slice, so a clipped segment keeps its full payload.
		rows = encodeTextSizing(seg, level, width, r.cfg.TierRatio)
	case capability.InlineGraphics:
		img := rasterizeHeader(seg, level, width, r.cap.CellWidth, r.cap.CellHeight,
			r.cfg.TierRatio, r.cfg.Skin.HeaderStyle(level))
		if from > 0 || to < headerRows {
			img = cropRows(img, from*r.cap.CellHeight, to*r.cap.CellHeight)
		}
		rows = placeRows(headerRows, from, r.encodePixels(img, width, to-from))
	default:
		img := rasterizeHeader(seg, level, width, r.cap.CellWidth, r.cap.CellHeight,
			r.cfg.TierRatio, r.cfg.Skin.HeaderStyle(level))
		rows = encodeHalfBlocks(scaleImage(img, width, 4), width, 2)
	}

	r.cache.Put(key, Artifact{Rows: rows})
	return rows
}

// scaledImage loads and scales an image once per source and geometry.
// The memo keeps scroll-driven re-encodes from reloading the bytes.
func (r *Renderer) scaledImage(source string, width int) (scaledEntry, bool) {
	key := Key("pixels", source,
		KeyInts(width, r.cfg.Images.MaxHeight, r.cap.CellWidth, r.cap.CellHeight, int(r.cap.Kind)))
	if entry, ok := r.scaled[key]; ok {
		return entry, true
	}

	src, err := r.load(source)
	if err != nil {
		r.logger.Warn("image load failed", "source", source, "err", err)
		r.failed[source] = true
		return scaledEntry{}, false
	}

	bounds := src.Bounds()
	cols, rowCount := fitCells(bounds.Dx(), bounds.Dy(), width, r.cfg.Images.MaxHeight,
		r.cap.CellWidth, r.cap.CellHeight)

	var img *image.RGBA
	if r.cap.Kind == capability.InlineGraphics {
		img = scaleImage(src, cols*r.cap.CellWidth, rowCount*r.cap.CellHeight)
	} else {
		img = scaleImage(src, cols, rowCount*2)
	}

	entry := scaledEntry{img: img, cols: cols, rows: rowCount}
	r.scaled[key] = entry
	return entry, true
}

// imageArtifact renders an image block and records its measured cell
// height on the document. The resized result tells the caller to
// restart the frame pass with the shifted offsets. When the block
// straddles the viewport edge, only the visible pixel-row slice is
// encoded, so the escape sits on a row copyRows keeps and never paints
// past the frame.
func (r *Renderer) imageArtifact(doc *document.Document, bi, top, height int) (Artifact, bool) {
	b := &doc.Blocks[bi]
	width := doc.Width()

	if !r.cfg.Images.Enabled || r.load == nil || r.failed[b.Source] {
		return r.placeholderArtifact(doc, bi)
	}

	entry, ok := r.scaledImage(b.Source, width)
	if !ok {
		return r.placeholderArtifact(doc, bi)
	}

	// Settle the extent before clipping: the restart pass re-runs with
	// the block's final offset, and the clip window depends on it.
	if r.settleExtent(doc, bi, entry.rows) {
		return Artifact{}, true
	}

	from, to := clipWindow(b.Start, entry.rows, top, height)
	if r.cap.Kind != capability.InlineGraphics {
		// Half-block rows clip row by row, so one artifact serves
		// every scroll position.
		from, to = 0, entry.rows
	}

	key := Key("image", b.Source,
		KeyInts(width, r.cfg.Images.MaxHeight, r.cap.CellWidth, r.cap.CellHeight,
			int(r.cap.Kind), int(r.cap.Encoding), from, to))
	if art, ok := r.cache.Get(key); ok {
		return art, false
	}

	var rows []string
	if r.cap.Kind == capability.InlineGraphics {
		img := entry.img
		if from > 0 || to < entry.rows {
			img = cropRows(img, from*r.cap.CellHeight, to*r.cap.CellHeight)
		}
		rows = placeRows(entry.rows, from, r.encodePixels(img, entry.cols, to-from))
	} else {
		// Half-block rows are independent text; copyRows clips them
		// without help.
		rows = encodeHalfBlocks(entry.img, entry.cols, entry.rows)
	}

	art := Artifact{Rows: rows}
	r.cache.Put(key, art)
	return art, false
}

// encodePixels dispatches to the negotiated graphics encoding. Encode
// failures degrade to half blocks rather than dropping the block.
func (r *Renderer) encodePixels(img *image.RGBA, cols, rows int) []string {
	switch r.cap.Encoding {
	case capability.EncodingKitty:
		return encodeKitty(img, cols, rows)
	case capability.EncodingITerm2:
		out, err := encodeITerm2(img, cols, rows)
		if err == nil {
			return out
		}
		r.logger.Warn("iterm2 encode failed", "err", err)
	case capability.EncodingSixel:
		return encodeSixel(img, rows)
	}
	return encodeHalfBlocks(scaleImage(img, cols, rows*2), cols, rows)
}

func (r *Renderer) placeholderArtifact(doc *document.Document, bi int) (Artifact, bool) {
	art := Artifact{Rows: altTextRows(r.skin, doc.Blocks[bi].Alt)}
	return art, r.settleExtent(doc, bi, art.Height())
}

// settleExtent updates the block's measured extent, reporting whether
// the document offsets moved.
func (r *Renderer) settleExtent(doc *document.Document, bi, rows int) bool {
	before := doc.Blocks[bi].Extent()
	doc.SetImageExtent(bi, rows)
	return doc.Blocks[bi].Extent() != before
}
