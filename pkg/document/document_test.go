package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textBlock(words string) Block {
	return Block{Kind: KindParagraph, Runs: []Run{{Text: words}}}
}

func TestLayoutAssignsContiguousRanges(t *testing.T) {
	doc := New([]Block{
		{Kind: KindHeader, Level: 1, Runs: []Run{{Text: "Title"}}},
		textBlock("one two three"),
		{Kind: KindRule},
	}, 1)
	doc.Layout(40, LayoutOptions{})

	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, 0, doc.Blocks[0].Start)
	assert.Equal(t, 2, doc.Blocks[0].End, "tier-1 header occupies two rows")
	// One separator line between blocks.
	assert.Equal(t, 3, doc.Blocks[1].Start)
	assert.Equal(t, 4, doc.Blocks[1].End)
	assert.Equal(t, 5, doc.Blocks[2].Start)
	assert.Equal(t, 6, doc.Blocks[2].End)
	assert.Equal(t, 6, doc.TotalLines())
}

func TestLayoutIsPureFunctionOfContentAndWidth(t *testing.T) {
	blocks := []Block{
		textBlock("alpha beta gamma delta epsilon zeta eta theta iota kappa"),
		{Kind: KindList, Items: []Block{textBlock("first item"), textBlock("second item")}},
		{Kind: KindCodeBlock, Lines: []string{"x := 1", "y := 2"}},
	}
	doc := New(blocks, 1)

	doc.Layout(30, LayoutOptions{})
	snapshot := func() []int {
		var out []int
		for _, b := range doc.Blocks {
			out = append(out, b.Start, b.End)
		}
		return out
	}
	first := snapshot()

	doc.Layout(80, LayoutOptions{})
	doc.Layout(30, LayoutOptions{})
	assert.Equal(t, first, snapshot(), "resize round-trip reproduces the layout")

	doc.Layout(30, LayoutOptions{})
	assert.Equal(t, first, snapshot(), "re-running layout is idempotent")
}

func TestWrapPreservesLinkAcrossLineBreak(t *testing.T) {
	long := "http://link.example/veeeeeeeeeeeeeeeeery/long/tail"
	doc := New([]Block{
		{Kind: KindParagraph, Runs: []Run{
			{Text: "see "},
			{Text: long, Target: long},
		}},
	}, 1)
	doc.Layout(20, LayoutOptions{})

	lines := doc.BlockLines(0)
	require.Greater(t, len(lines), 1, "URL must wrap at width 20")

	links := doc.Links()
	require.Len(t, links, 1, "a wrapped link is still one link")
	assert.Equal(t, long, links[0].Target, "target survives wrapping unbroken")
}

func TestLinksReportDocumentOrderOffsets(t *testing.T) {
	doc := New([]Block{
		{Kind: KindParagraph, Runs: []Run{{Text: "a", Target: "http://a"}}},
		textBlock("filler"),
		{Kind: KindParagraph, Runs: []Run{
			{Text: "b", Target: "http://b"},
			{Text: " and "},
			{Text: "c", Target: "http://c"},
		}},
	}, 1)
	doc.Layout(80, LayoutOptions{})

	links := doc.Links()
	require.Len(t, links, 3)
	assert.Equal(t, "http://a", links[0].Target)
	assert.Equal(t, "http://b", links[1].Target)
	assert.Equal(t, "http://c", links[2].Target)
	assert.Less(t, links[0].Offset, links[1].Offset)
	assert.Equal(t, links[1].Offset, links[2].Offset, "two links on one line share a line offset")
}

func TestMatchesIsCaseInsensitive(t *testing.T) {
	doc := New([]Block{
		textBlock("Alpha beta"),
		textBlock("nothing here"),
		textBlock("ALPHA again"),
	}, 1)
	doc.Layout(80, LayoutOptions{})

	offsets := doc.Matches("alpha")
	require.Len(t, offsets, 2)
	assert.Equal(t, doc.Blocks[0].Start, offsets[0])
	assert.Equal(t, doc.Blocks[2].Start, offsets[1])

	assert.Empty(t, doc.Matches(""))
}

func TestCodeBlockContentStaysLiteral(t *testing.T) {
	doc := New([]Block{
		{Kind: KindCodeBlock, Lines: []string{"# not a header", "text"}, Language: "sh"},
	}, 1)
	doc.Layout(80, LayoutOptions{})

	require.Equal(t, KindCodeBlock, doc.Blocks[0].Kind)
	lines := doc.BlockLines(0)
	require.Len(t, lines, 2)
	assert.Equal(t, "# not a header", lines[0].Plain())
	assert.Equal(t, StyleCode, lines[0].Spans[0].Style)
	assert.Equal(t, 2, doc.Blocks[0].Extent(), "one terminal line per literal line")
}

func TestSetImageExtentShiftsLaterBlocks(t *testing.T) {
	doc := New([]Block{
		textBlock("before"),
		{Kind: KindImage, Source: "pic.png", Alt: "pic"},
		textBlock("after"),
	}, 1)
	doc.Layout(80, LayoutOptions{})

	require.Equal(t, 1, doc.Blocks[1].Extent(), "provisional image height is one line")
	afterStart := doc.Blocks[2].Start

	doc.SetImageExtent(1, 10)
	assert.Equal(t, 10, doc.Blocks[1].Extent())
	assert.Equal(t, afterStart+9, doc.Blocks[2].Start)

	// Extents are geometry-bound; a different width resets them.
	doc.Layout(40, LayoutOptions{})
	assert.Equal(t, 1, doc.Blocks[1].Extent())
}

func TestVisibleSelectsIntersectingBlocks(t *testing.T) {
	doc := New([]Block{
		textBlock("a"), textBlock("b"), textBlock("c"), textBlock("d"),
	}, 1)
	doc.Layout(80, LayoutOptions{})

	// Blocks sit at offsets 0, 2, 4, 6 with separator lines between.
	assert.Equal(t, []int{0, 1}, doc.Visible(0, 3))
	assert.Equal(t, []int{2, 3}, doc.Visible(4, 100))
	assert.Empty(t, doc.Visible(100, 200))
}

func TestListLayoutMarksItems(t *testing.T) {
	doc := New([]Block{
		{Kind: KindList, Ordered: true, Items: []Block{
			textBlock("first"),
			textBlock("second"),
		}},
	}, 1)
	doc.Layout(80, LayoutOptions{})

	lines := doc.BlockLines(0)
	require.Len(t, lines, 2)
	assert.Equal(t, "1. first", lines[0].Plain())
	assert.Equal(t, "2. second", lines[1].Plain())
}

func TestBlockQuoteDepthOnLines(t *testing.T) {
	doc := New([]Block{
		{Kind: KindBlockQuote, Items: []Block{
			{Kind: KindBlockQuote, Items: []Block{textBlock("deep")}},
		}},
	}, 1)
	doc.Layout(80, LayoutOptions{})

	lines := doc.BlockLines(0)
	require.NotEmpty(t, lines)
	assert.Equal(t, 2, lines[0].Quote)
}

func TestHeaderWrapsIntoSegments(t *testing.T) {
	doc := New([]Block{
		{Kind: KindHeader, Level: 1, Runs: []Run{{Text: "1234567890"}}},
	}, 1)
	doc.Layout(10, LayoutOptions{})

	lines := doc.BlockLines(0)
	require.Len(t, lines, 2, "tier 1 at width 10 leaves 5 columns per segment")
	assert.Equal(t, "12345", lines[0].Plain())
	assert.Equal(t, "67890", lines[1].Plain())
	assert.Equal(t, 4, doc.Blocks[0].Extent(), "two segments of two rows each")
}

func TestLinksInListItemsStayDistinct(t *testing.T) {
	doc := New([]Block{
		{Kind: KindList, Items: []Block{
			{Kind: KindParagraph, Runs: []Run{{Text: "a", Target: "http://a"}}},
			{Kind: KindParagraph, Runs: []Run{{Text: "b", Target: "http://b"}}},
			{Kind: KindParagraph, Runs: []Run{{Text: "c", Target: "http://c"}}},
		}},
	}, 1)
	doc.Layout(80, LayoutOptions{})

	links := doc.Links()
	require.Len(t, links, 3, "every list item keeps its own link")
	assert.Equal(t, "http://a", links[0].Target)
	assert.Equal(t, "http://b", links[1].Target)
	assert.Equal(t, "http://c", links[2].Target)
}

func TestLinksInBlockQuoteChildrenStayDistinct(t *testing.T) {
	doc := New([]Block{
		{Kind: KindBlockQuote, Items: []Block{
			{Kind: KindParagraph, Runs: []Run{{Text: "first", Target: "http://first"}}},
			{Kind: KindParagraph, Runs: []Run{{Text: "second", Target: "http://second"}}},
		}},
	}, 1)
	doc.Layout(80, LayoutOptions{})

	links := doc.Links()
	require.Len(t, links, 2)
	assert.Equal(t, "http://first", links[0].Target)
	assert.Equal(t, "http://second", links[1].Target)
}
