package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/bigmd/pkg/document"
)

func TestParseBasicBlocks(t *testing.T) {
	src := `# Title

A paragraph with *emphasis* and **strong** text.

---

> quoted

` + "```go\nfmt.Println(1)\n```\n"

	blocks := New().Parse([]byte(src))
	require.Len(t, blocks, 5)

	assert.Equal(t, document.KindHeader, blocks[0].Kind)
	assert.Equal(t, 1, blocks[0].Level)
	assert.Equal(t, "Title", blocks[0].PlainText())

	assert.Equal(t, document.KindParagraph, blocks[1].Kind)
	assert.Equal(t, "A paragraph with emphasis and strong text.", blocks[1].PlainText())

	assert.Equal(t, document.KindRule, blocks[2].Kind)

	require.Equal(t, document.KindBlockQuote, blocks[3].Kind)
	require.Len(t, blocks[3].Items, 1)
	assert.Equal(t, "quoted", blocks[3].Items[0].PlainText())

	require.Equal(t, document.KindCodeBlock, blocks[4].Kind)
	assert.Equal(t, "go", blocks[4].Language)
	assert.Equal(t, []string{"fmt.Println(1)"}, blocks[4].Lines)
}

func TestParseInlineStyles(t *testing.T) {
	blocks := New().Parse([]byte("*ah* ha `code` ~~gone~~"))
	require.Len(t, blocks, 1)

	runs := blocks[0].Runs
	require.NotEmpty(t, runs)
	assert.Equal(t, "ah", runs[0].Text)
	assert.Equal(t, document.StyleItalic, runs[0].Style)

	var code, strike *document.Run
	for i := range runs {
		switch {
		case runs[i].Style&document.StyleCode != 0:
			code = &runs[i]
		case runs[i].Style&document.StyleStrike != 0:
			strike = &runs[i]
		}
	}
	require.NotNil(t, code)
	assert.Equal(t, "code", code.Text)
	require.NotNil(t, strike)
	assert.Equal(t, "gone", strike.Text)
}

func TestParseLinkCarriesVerbatimTarget(t *testing.T) {
	blocks := New().Parse([]byte("[text](http://link.example/path)"))
	require.Len(t, blocks, 1)

	var target string
	for _, r := range blocks[0].Runs {
		if r.IsLink() {
			target = r.Target
			assert.Equal(t, "text", r.Text)
		}
	}
	assert.Equal(t, "http://link.example/path", target)
}

func TestParseLinkSplitAcrossSourceLines(t *testing.T) {
	// A link destination is never split by source line wrapping once
	// parsed; the target must come back whole.
	src := "[a b](http://link.example/veeeeeeeeeeeeeeeeery/long/tail)"
	blocks := New().Parse([]byte(src))
	require.Len(t, blocks, 1)

	var targets []string
	for _, r := range blocks[0].Runs {
		if r.IsLink() {
			targets = append(targets, r.Target)
		}
	}
	require.NotEmpty(t, targets)
	for _, target := range targets {
		assert.Equal(t, "http://link.example/veeeeeeeeeeeeeeeeery/long/tail", target)
	}
}

func TestParseAutolink(t *testing.T) {
	blocks := New().Parse([]byte("visit https://example.com today"))
	require.Len(t, blocks, 1)

	var found bool
	for _, r := range blocks[0].Runs {
		if r.IsLink() {
			found = true
			assert.Equal(t, "https://example.com", r.Target)
		}
	}
	assert.True(t, found, "GFM autolink should produce a link run")
}

func TestParseStandaloneImage(t *testing.T) {
	blocks := New().Parse([]byte("before\n\n![alt text](./pic.png)\n\nafter"))
	require.Len(t, blocks, 3)

	img := blocks[1]
	assert.Equal(t, document.KindImage, img.Kind)
	assert.Equal(t, "./pic.png", img.Source)
	assert.Equal(t, "alt text", img.Alt)
}

func TestParseHeaderInsideFenceStaysLiteral(t *testing.T) {
	src := "```\n# not a header\n## also not\n```"
	blocks := New().Parse([]byte(src))
	require.Len(t, blocks, 1)

	require.Equal(t, document.KindCodeBlock, blocks[0].Kind)
	assert.Equal(t, []string{"# not a header", "## also not"}, blocks[0].Lines)
}

func TestParseNestedLists(t *testing.T) {
	src := "- one\n- two\n  - deep\n- three"
	blocks := New().Parse([]byte(src))
	require.Len(t, blocks, 1)

	list := blocks[0]
	require.Equal(t, document.KindList, list.Kind)
	assert.False(t, list.Ordered)

	var nested *document.Block
	for i := range list.Items {
		if list.Items[i].Kind == document.KindList {
			nested = &list.Items[i]
		}
	}
	require.NotNil(t, nested, "nested list should survive as a list item")
	assert.Equal(t, 1, nested.Level)
	require.NotEmpty(t, nested.Items)
	assert.Equal(t, "deep", nested.Items[0].PlainText())
}

func TestParseOrderedList(t *testing.T) {
	blocks := New().Parse([]byte("1. first\n2. second"))
	require.Len(t, blocks, 1)
	assert.True(t, blocks[0].Ordered)
	assert.Len(t, blocks[0].Items, 2)
}

func TestParseTableDegradesToText(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |"
	blocks := New().Parse([]byte(src))
	require.NotEmpty(t, blocks)
	for _, b := range blocks {
		assert.NotEqual(t, document.KindHeader, b.Kind)
	}
	joined := ""
	for _, b := range blocks {
		joined += b.PlainText()
	}
	assert.True(t, strings.Contains(joined, "1"), "table content should not be dropped")
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, New().Parse(nil))
	assert.Empty(t, New().Parse([]byte("")))
}
