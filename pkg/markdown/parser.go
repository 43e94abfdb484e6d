// Package markdown is the parse boundary: it turns raw Markdown bytes
// into the viewer's closed block set using goldmark. Anything goldmark
// produces outside that set (tables, raw HTML) degrades to literal
// paragraph text rather than erroring.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gmparser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/bigmd/pkg/document"
)

// Parser converts Markdown source into document blocks.
type Parser struct {
	md goldmark.Markdown
}

// New creates a GFM-enabled parser.
func New() *Parser {
	return &Parser{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Parse maps the goldmark AST onto the viewer's block set. It never
// fails: unparseable constructs become literal text.
func (p *Parser) Parse(src []byte) []document.Block {
	reader := text.NewReader(src)
	root := p.md.Parser().Parse(reader, gmparser.WithContext(gmparser.NewContext()))
	m := &mapper{src: src}
	return m.blocks(root, 0)
}

type mapper struct {
	src []byte
}

// blocks maps the children of a goldmark container node.
func (m *mapper) blocks(parent ast.Node, listLevel int) []document.Block {
	var out []document.Block
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if b, ok := m.block(child, listLevel); ok {
			out = append(out, b)
		}
	}
	return out
}

func (m *mapper) block(n ast.Node, listLevel int) (document.Block, bool) {
	switch gmn := n.(type) {
	case *ast.Heading:
		level := gmn.Level
		if level > 6 {
			level = 6
		}
		return document.Block{
			Kind:  document.KindHeader,
			Level: level,
			Runs:  m.runs(gmn, 0),
		}, true

	case *ast.Paragraph, *ast.TextBlock:
		// A paragraph that is exactly one image stands alone as an image
		// block; images mixed into running text degrade to their alt text.
		if img, ok := soleImage(n); ok {
			return document.Block{
				Kind:   document.KindImage,
				Source: string(img.Destination),
				Alt:    m.inlineText(img),
			}, true
		}
		return document.Block{
			Kind: document.KindParagraph,
			Runs: m.runs(n, 0),
		}, true

	case *ast.List:
		return document.Block{
			Kind:    document.KindList,
			Ordered: gmn.IsOrdered(),
			Level:   listLevel,
			Items:   m.listItems(gmn, listLevel),
		}, true

	case *ast.Blockquote:
		return document.Block{
			Kind:  document.KindBlockQuote,
			Items: m.blocks(gmn, 0),
		}, true

	case *ast.FencedCodeBlock:
		return document.Block{
			Kind:     document.KindCodeBlock,
			Language: string(gmn.Language(m.src)),
			Lines:    m.literalLines(gmn),
		}, true

	case *ast.CodeBlock:
		return document.Block{
			Kind:  document.KindCodeBlock,
			Lines: m.literalLines(gmn),
		}, true

	case *ast.ThematicBreak:
		return document.Block{Kind: document.KindRule}, true

	case *ast.HTMLBlock:
		// Raw HTML is out of scope; show it literally.
		return document.Block{
			Kind:  document.KindCodeBlock,
			Lines: m.literalLines(gmn),
		}, true

	default:
		// Tables and anything else outside the closed set flatten to a
		// literal paragraph so content is never silently dropped.
		txt := m.inlineText(n)
		if strings.TrimSpace(txt) == "" {
			return document.Block{}, false
		}
		return document.Block{
			Kind: document.KindParagraph,
			Runs: []document.Run{{Text: txt}},
		}, true
	}
}

// listItems flattens goldmark list items. An item's first paragraph
// becomes the bullet line; nested lists become sibling list blocks with
// a deeper nesting level.
func (m *mapper) listItems(list *ast.List, level int) []document.Block {
	var items []document.Block
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		for child := li.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				items = append(items, document.Block{
					Kind:    document.KindList,
					Ordered: nested.IsOrdered(),
					Level:   level + 1,
					Items:   m.listItems(nested, level+1),
				})
				continue
			}
			if b, ok := m.block(child, level); ok {
				items = append(items, b)
			}
		}
	}
	return items
}

// runs flattens a node's inline children into styled runs. Styles nest
// by OR-ing the inherited mask; link targets are carried verbatim.
func (m *mapper) runs(parent ast.Node, style document.RunStyle) []document.Run {
	var out []document.Run
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, m.inlineRuns(child, style, "")...)
	}
	return mergeRuns(out)
}

func (m *mapper) inlineRuns(n ast.Node, style document.RunStyle, target string) []document.Run {
	switch gmn := n.(type) {
	case *ast.Text:
		txt := string(gmn.Value(m.src))
		if gmn.SoftLineBreak() || gmn.HardLineBreak() {
			txt += " "
		}
		return []document.Run{{Text: txt, Style: style, Target: target}}

	case *ast.String:
		return []document.Run{{Text: string(gmn.Value), Style: style, Target: target}}

	case *ast.Emphasis:
		s := style | document.StyleItalic
		if gmn.Level >= 2 {
			s = style | document.StyleBold
		}
		return m.childRuns(gmn, s, target)

	case *east.Strikethrough:
		return m.childRuns(gmn, style|document.StyleStrike, target)

	case *ast.CodeSpan:
		return []document.Run{{
			Text:   m.inlineText(gmn),
			Style:  style | document.StyleCode,
			Target: target,
		}}

	case *ast.Link:
		// The destination is goldmark's reassembled URL, whole even when
		// the source split it across lines.
		return m.childRuns(gmn, style, string(gmn.Destination))

	case *ast.AutoLink:
		url := string(gmn.URL(m.src))
		return []document.Run{{Text: url, Style: style, Target: url}}

	case *ast.Image:
		return []document.Run{{Text: m.inlineText(gmn), Style: style, Target: target}}

	default:
		return m.childRuns(n, style, target)
	}
}

func (m *mapper) childRuns(parent ast.Node, style document.RunStyle, target string) []document.Run {
	var out []document.Run
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, m.inlineRuns(child, style, target)...)
	}
	return out
}

// inlineText collects the plain text beneath a node.
func (m *mapper) inlineText(n ast.Node) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		switch gmn := n.(type) {
		case *ast.Text:
			b.Write(gmn.Value(m.src))
			if gmn.SoftLineBreak() || gmn.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(gmn.Value)
		default:
			for child := n.FirstChild(); child != nil; child = child.NextSibling() {
				walk(child)
			}
		}
	}
	walk(n)
	return b.String()
}

// literalLines extracts a block node's raw source lines unchanged. This
// is what keeps `# looks-like-a-header` inside a fence literal.
func (m *mapper) literalLines(n ast.Node) []string {
	segments := n.Lines()
	out := make([]string, 0, segments.Len())
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		out = append(out, strings.TrimRight(string(seg.Value(m.src)), "\n"))
	}
	return out
}

// soleImage reports whether the paragraph consists solely of one image.
func soleImage(p ast.Node) (*ast.Image, bool) {
	child := p.FirstChild()
	if child == nil || child.NextSibling() != nil {
		return nil, false
	}
	img, ok := child.(*ast.Image)
	return img, ok
}

func mergeRuns(runs []document.Run) []document.Run {
	var out []document.Run
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Style == r.Style && out[n-1].Target == r.Target {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
