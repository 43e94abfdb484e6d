package render

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bigmd/pkg/capability"
	"github.com/yaklabco/bigmd/pkg/config"
	"github.com/yaklabco/bigmd/pkg/document"
)

func textArtRenderer(loader ImageLoader) *Renderer {
	return NewRenderer(capability.Fallback(), config.NewConfig(), loader, nil)
}

func layoutDoc(t *testing.T, blocks []document.Block, width int) *document.Document {
	t.Helper()
	doc := document.New(blocks, 1)
	doc.Layout(width, document.LayoutOptions{})
	return doc
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache()
	key := Key("header", "Title", KeyInts(1, 80))

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Put(key, Artifact{Rows: []string{"x", "y"}})
	art, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, 2, art.Height())

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)

	c.Clear()
	assert.Zero(t, c.Len())
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestKeyDistinguishesGeometry(t *testing.T) {
	a := Key("image", "pic.png", KeyInts(80, 20))
	b := Key("image", "pic.png", KeyInts(79, 20))
	assert.NotEqual(t, a, b)
}

func TestFitCellsContainsAspect(t *testing.T) {
	// Square image, 8x16 cells: fills the height-bounded width.
	cols, rows := fitCells(100, 100, 80, 20, 8, 16)
	assert.LessOrEqual(t, rows, 20)
	assert.LessOrEqual(t, cols, 30, "width is bounded to maxRows*3/2")

	// A wide flat image keeps its aspect rather than filling the height.
	cols, rows = fitCells(300, 10, 80, 20, 8, 16)
	assert.Equal(t, 30, cols)
	assert.Less(t, rows, 5)

	// Degenerate inputs stay positive.
	cols, rows = fitCells(0, 0, 0, 0, 0, 0)
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)
}

func TestEncodeTextSizingChunks(t *testing.T) {
	seg := document.Line{Spans: []document.Span{{Text: "abcdefgh"}}}
	rows := encodeTextSizing(seg, 2, 40, document.DefaultTierRatio)

	require.Len(t, rows, 2)
	assert.Empty(t, rows[1], "second row stays blank under the doubled glyphs")

	// Level 2 is 5/6: six-character chunks at width 5.
	assert.Contains(t, rows[0], "\x1b]66;s=2:n=5:d=6:w=5;abcdef\x1b\\")
	assert.Contains(t, rows[0], "\x1b]66;s=2:n=5:d=6:w=5;gh\x1b\\")
	assert.Contains(t, rows[0], "\x1b[40X", "area erase precedes the glyphs")
	assert.Contains(t, rows[0], "\x1b[?7l")
	assert.True(t, strings.HasSuffix(rows[0], "\x1b[?7h"), "autowrap restored after the glyphs")
}

func TestEncodeKittyFramesPayload(t *testing.T) {
	img := solidImage(2, 2, color.RGBA{255, 0, 0, 255})
	rows := encodeKitty(img, 4, 2)

	require.Len(t, rows, 2)
	assert.True(t, strings.HasPrefix(rows[0], "\x1b_Gf=32,s=2,v=2,a=T,c=4,r=2,"))
	assert.True(t, strings.HasSuffix(rows[0], "\x1b\\"))
	assert.Contains(t, rows[0], "m=0;", "single chunk is final")
	assert.Empty(t, rows[1])
}

func TestEncodeKittyChunksLargePayload(t *testing.T) {
	img := solidImage(64, 64, color.RGBA{0, 128, 255, 255})
	rows := encodeKitty(img, 32, 16)

	assert.Contains(t, rows[0], "m=1;")
	assert.GreaterOrEqual(t, strings.Count(rows[0], "\x1b_G"), 2)
}

func TestEncodeSixelStructure(t *testing.T) {
	img := solidImage(12, 6, color.RGBA{255, 0, 0, 255})
	rows := encodeSixel(img, 1)

	require.Len(t, rows, 1)
	payload := rows[0]
	assert.True(t, strings.HasPrefix(payload, "\x1bPq"))
	assert.True(t, strings.HasSuffix(payload, "\x1b\\"))
	// Pure red quantizes to register 180 = 5*36.
	assert.Contains(t, payload, "#180;2;100;0;0")
	// Twelve full-height columns run-length encode as !12~.
	assert.Contains(t, payload, "!12~")
}

func TestEncodeHalfBlocksUsesHalfBlockGlyphs(t *testing.T) {
	img := solidImage(3, 4, color.RGBA{10, 200, 50, 255})
	rows := encodeHalfBlocks(img, 3, 2)

	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, 3, strings.Count(row, "▀"))
	}
}

func TestEncodeHalfBlocksTransparentCells(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	rows := encodeHalfBlocks(img, 1, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, " ", rows[0])
}

func TestMatchRangesCaseInsensitive(t *testing.T) {
	got := matchRanges("Go and GO and go", "go")
	assert.Equal(t, [][2]int{{0, 2}, {7, 9}, {14, 16}}, got)
	assert.Nil(t, matchRanges("anything", ""))
}

func TestFrameRendersParagraphText(t *testing.T) {
	doc := layoutDoc(t, []document.Block{
		{Kind: document.KindParagraph, Runs: []document.Run{{Text: "hello terminal world"}}},
	}, 40)
	r := textArtRenderer(nil)

	rows := r.Frame(doc, 0, 3, FrameOptions{})
	require.Len(t, rows, 3)
	assert.Equal(t, "hello terminal world", ansi.Strip(rows[0]))
	assert.Empty(t, ansi.Strip(rows[1]))
}

func TestFrameRuleSpansWidth(t *testing.T) {
	doc := layoutDoc(t, []document.Block{{Kind: document.KindRule}}, 10)
	r := textArtRenderer(nil)

	rows := r.Frame(doc, 0, 1, FrameOptions{})
	assert.Equal(t, strings.Repeat("─", 10), ansi.Strip(rows[0]))
}

func TestFrameTextArtNeverEmitsGraphicsEscapes(t *testing.T) {
	loader := func(string) (image.Image, error) {
		return solidImage(10, 10, color.RGBA{200, 0, 0, 255}), nil
	}
	doc := layoutDoc(t, []document.Block{
		{Kind: document.KindHeader, Level: 1, Runs: []document.Run{{Text: "Big"}}},
		{Kind: document.KindImage, Source: "pic.png", Alt: "a picture"},
	}, 60)
	r := textArtRenderer(loader)

	rows := r.Frame(doc, 0, 40, FrameOptions{})
	for _, row := range rows {
		assert.NotContains(t, row, "\x1b_G")
		assert.NotContains(t, row, "1337")
		assert.NotContains(t, row, "\x1bPq")
		assert.NotContains(t, row, "\x1b]66")
	}
}

func TestFrameSettlesImageExtent(t *testing.T) {
	calls := 0
	loader := func(string) (image.Image, error) {
		calls++
		return solidImage(10, 10, color.RGBA{0, 0, 200, 255}), nil
	}
	doc := layoutDoc(t, []document.Block{
		{Kind: document.KindImage, Source: "pic.png"},
		{Kind: document.KindParagraph, Runs: []document.Run{{Text: "after"}}},
	}, 80)
	r := textArtRenderer(loader)

	assert.Equal(t, 1, doc.Blocks[0].Extent(), "provisional height before rendering")

	rows := r.Frame(doc, 0, 40, FrameOptions{})
	assert.Equal(t, 15, doc.Blocks[0].Extent(), "square image at 30 cols, 8x16 cells")
	assert.Equal(t, 1, calls, "artifact cached across the restarted pass")

	// The paragraph follows the settled image plus the separator line.
	assert.Equal(t, "after", ansi.Strip(rows[16]))
}

func TestFrameBrokenImageFallsBackToAltText(t *testing.T) {
	calls := 0
	loader := func(string) (image.Image, error) {
		calls++
		return nil, errors.New("no such file")
	}
	doc := layoutDoc(t, []document.Block{
		{Kind: document.KindImage, Source: "missing.png", Alt: "diagram"},
	}, 80)
	r := textArtRenderer(loader)

	rows := r.Frame(doc, 0, 2, FrameOptions{})
	assert.Equal(t, "[diagram]", ansi.Strip(rows[0]))

	r.Frame(doc, 0, 2, FrameOptions{})
	assert.Equal(t, 1, calls, "failed sources are not retried")
}

func TestFrameImagesDisabledShowsAltText(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Images.Enabled = false
	doc := layoutDoc(t, []document.Block{
		{Kind: document.KindImage, Source: "pic.png", Alt: "chart"},
	}, 80)
	r := NewRenderer(capability.Fallback(), cfg, nil, nil)

	rows := r.Frame(doc, 0, 1, FrameOptions{})
	assert.Equal(t, "[chart]", ansi.Strip(rows[0]))
}

func TestFramePartialBlockVisibility(t *testing.T) {
	doc := layoutDoc(t, []document.Block{
		{Kind: document.KindParagraph, Runs: []document.Run{{Text: "one two three four five six seven"}}},
	}, 10)
	r := textArtRenderer(nil)

	require.Greater(t, doc.TotalLines(), 2)
	rows := r.Frame(doc, 1, 2, FrameOptions{})
	require.Len(t, rows, 2)
	assert.NotEmpty(t, ansi.Strip(rows[0]), "second wrapped line is visible")
}

func TestInvalidateDropsCacheAndFailures(t *testing.T) {
	calls := 0
	loader := func(string) (image.Image, error) {
		calls++
		return nil, errors.New("transient")
	}
	doc := layoutDoc(t, []document.Block{
		{Kind: document.KindImage, Source: "pic.png"},
	}, 80)
	r := textArtRenderer(loader)

	r.Frame(doc, 0, 2, FrameOptions{})
	r.Invalidate()
	r.Frame(doc, 0, 2, FrameOptions{})
	assert.Equal(t, 2, calls, "invalidation clears failure memory")
}

func kittyRenderer(t *testing.T, loader ImageLoader) *Renderer {
	t.Helper()
	termCap, err := capability.Parse("kitty")
	require.NoError(t, err)
	return NewRenderer(termCap, config.NewConfig(), loader, nil)
}

func TestFrameScrolledImageKeepsEscapeVisible(t *testing.T) {
	calls := 0
	loader := func(string) (image.Image, error) {
		calls++
		return solidImage(10, 10, color.RGBA{0, 120, 0, 255}), nil
	}
	doc := layoutDoc(t, []document.Block{
		{Kind: document.KindImage, Source: "pic.png"},
	}, 80)
	r := kittyRenderer(t, loader)

	r.Frame(doc, 0, 20, FrameOptions{})
	require.Equal(t, 15, doc.Blocks[0].Extent())

	rows := r.Frame(doc, 5, 20, FrameOptions{})

	// Rows 5..14 of the image remain; the transmit escape must sit on
	// the first surviving row, re-encoded for the visible slice.
	assert.Contains(t, rows[0], "\x1b_G")
	assert.Contains(t, rows[0], ",r=10,")
	for _, row := range rows[1:] {
		assert.NotContains(t, row, "\x1b_G")
	}

	r.Frame(doc, 6, 20, FrameOptions{})
	assert.Equal(t, 1, calls, "scroll steps re-encode from memoized pixels")
}

func TestFrameBottomClippedImageStaysInsideViewport(t *testing.T) {
	loader := func(string) (image.Image, error) {
		return solidImage(10, 10, color.RGBA{0, 0, 120, 255}), nil
	}
	doc := layoutDoc(t, []document.Block{
		{Kind: document.KindParagraph, Runs: []document.Run{{Text: "intro"}}},
		{Kind: document.KindImage, Source: "pic.png"},
	}, 80)
	r := kittyRenderer(t, loader)

	rows := r.Frame(doc, 0, 6, FrameOptions{})
	require.Len(t, rows, 6)

	// The image starts on row 2 and only four of its rows fit; the
	// escape covers exactly those cells so nothing paints below the
	// frame.
	assert.Contains(t, rows[2], "\x1b_G")
	assert.Contains(t, rows[2], ",r=4,")
}

func TestFrameClippedHeaderReEncodesVisibleRow(t *testing.T) {
	doc := layoutDoc(t, []document.Block{
		{Kind: document.KindHeader, Level: 1, Runs: []document.Run{{Text: "Title"}}},
		{Kind: document.KindParagraph, Runs: []document.Run{{Text: "body"}}},
	}, 40)
	r := kittyRenderer(t, nil)

	rows := r.Frame(doc, 1, 4, FrameOptions{})

	// Only the lower half of the header remains in view.
	assert.Contains(t, rows[0], "\x1b_G")
	assert.Contains(t, rows[0], ",r=1,")
	assert.Equal(t, "body", ansi.Strip(rows[2]))
}
