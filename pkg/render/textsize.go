package render

import (
	"fmt"
	"strings"

	"github.com/yaklabco/bigmd/pkg/document"
)

// encodeTextSizing produces the scaled-text rows for one wrapped header
// segment. The glyphs span two terminal rows; the escape payload sits
// on the first row and the second row stays blank so the terminal's
// doubled glyphs are not overwritten.
//
// Each chunk of den characters is wrapped in one OSC 66 sequence with
// scale 2 and the fractional width num/den, so a full line of chunks
// advances exactly width cells.
func encodeTextSizing(segment document.Line, level, width int, tier document.TierRatio) []string {
	num, den := tier(level)

	var sb strings.Builder

	// Erase both rows of the area first and disable autowrap, so stale
	// cells under the doubled glyphs cannot bleed through.
	fmt.Fprintf(&sb, "\x1b[%dX\x1b[?7l", width)
	sb.WriteString("\x1b[1B")
	fmt.Fprintf(&sb, "\x1b[%dX\x1b[?7l", width)
	sb.WriteString("\x1b[1A")

	chars := []rune(segment.Plain())
	for start := 0; start < len(chars); start += den {
		end := start + den
		if end > len(chars) {
			end = len(chars)
		}
		fmt.Fprintf(&sb, "\x1b]66;s=2:n=%d:d=%d:w=%d;%s\x1b\\", num, den, num, string(chars[start:end]))
	}

	// Re-enable autowrap; the disable above must not outlive the row.
	sb.WriteString("\x1b[?7h")

	return []string{sb.String(), ""}
}
