package document

// BlockKind classifies a block-level element of the document.
type BlockKind uint8

// The closed set of block kinds the viewer renders. Constructs outside
// this set are degraded to paragraphs at the parse boundary.
const (
	KindHeader BlockKind = iota
	KindParagraph
	KindList
	KindBlockQuote
	KindCodeBlock
	KindRule
	KindImage
)

// String returns a short name for the kind, used in log fields.
func (k BlockKind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	case KindBlockQuote:
		return "blockquote"
	case KindCodeBlock:
		return "codeblock"
	case KindRule:
		return "rule"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// RunStyle is a bitmask of inline text attributes.
type RunStyle uint8

// Inline attributes carried on a Run.
const (
	StyleBold RunStyle = 1 << iota
	StyleItalic
	StyleCode
	StyleStrike
)

// Run is one inline fragment of a paragraph or header: a stretch of text
// with uniform styling. A Run with a non-empty Target is a hyperlink; the
// Target is the resolved destination URL, verbatim from the source even
// when the display text ends up wrapped across terminal lines.
type Run struct {
	Text   string
	Style  RunStyle
	Target string
}

// IsLink reports whether the run carries a hyperlink target.
func (r Run) IsLink() bool {
	return r.Target != ""
}

// Block is one node of the document tree. Which fields are meaningful
// depends on Kind:
//
//   - KindHeader: Level (1-6) and Runs
//   - KindParagraph: Runs
//   - KindList: Ordered, Level (nesting depth), Items
//   - KindBlockQuote: Items
//   - KindCodeBlock: Lines and Language
//   - KindRule: nothing
//   - KindImage: Source and Alt
//
// Start/End record the half-open terminal-line range the block occupies
// after layout. They are the addressing unit for scroll, search, and
// link navigation.
type Block struct {
	Kind BlockKind

	Level   int
	Ordered bool
	Runs    []Run
	Items   []Block

	Lines    []string
	Language string

	Source string
	Alt    string

	Start int
	End   int
}

// Extent returns the number of terminal lines the block occupies.
func (b *Block) Extent() int {
	return b.End - b.Start
}

// PlainText flattens the block's runs into unstyled text. Nested blocks
// (lists, quotes) are flattened recursively with single spaces between
// items; code blocks join their literal lines.
func (b *Block) PlainText() string {
	switch b.Kind {
	case KindCodeBlock:
		return joinLines(b.Lines)
	case KindList, KindBlockQuote:
		out := ""
		for i := range b.Items {
			if i > 0 {
				out += " "
			}
			out += b.Items[i].PlainText()
		}
		return out
	default:
		out := ""
		for _, r := range b.Runs {
			out += r.Text
		}
		return out
	}
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
