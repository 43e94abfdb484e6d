// Package capability resolves which rendering mechanism the terminal
// actually supports: the text-sizing protocol for oversized glyphs, an
// inline graphics protocol for pixel images, or a character-cell
// approximation when neither is available. Detection happens once at
// startup; the result is immutable.
package capability

import (
	"fmt"
	"strings"
)

// Kind is the tagged capability variant.
type Kind uint8

// Capability kinds, most conservative first.
const (
	// TextArt renders images and oversized headers as colored half-block
	// character cells. Always available.
	TextArt Kind = iota

	// TextSizing renders headers through in-band scaled-text escape
	// sequences (OSC 66); images fall back to text art.
	TextSizing

	// InlineGraphics renders pixel images through a graphics protocol.
	InlineGraphics
)

func (k Kind) String() string {
	switch k {
	case TextSizing:
		return "textsize"
	case InlineGraphics:
		return "graphics"
	default:
		return "textart"
	}
}

// Encoding selects the wire format for InlineGraphics.
type Encoding uint8

// Graphics protocol encodings.
const (
	EncodingNone Encoding = iota
	EncodingKitty
	EncodingITerm2
	EncodingSixel
)

func (e Encoding) String() string {
	switch e {
	case EncodingKitty:
		return "kitty"
	case EncodingITerm2:
		return "iterm2"
	case EncodingSixel:
		return "sixel"
	default:
		return "none"
	}
}

// Capability is the resolved terminal capability plus the cell geometry
// needed to rasterize images and header glyphs.
type Capability struct {
	Kind     Kind
	Encoding Encoding

	// CellWidth and CellHeight are one terminal cell's size in pixels.
	CellWidth  int
	CellHeight int
}

// Default cell geometry used when the terminal does not report one.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Fallback is the most conservative capability.
func Fallback() Capability {
	return Capability{
		Kind:       TextArt,
		CellWidth:  DefaultCellWidth,
		CellHeight: DefaultCellHeight,
	}
}

// Parse resolves a capability override name as accepted by the
// --override-protocol flag: kitty, iterm2, sixel, textsize or textart.
func Parse(name string) (Capability, error) {
	c := Fallback()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kitty":
		c.Kind, c.Encoding = InlineGraphics, EncodingKitty
	case "iterm2", "iterm":
		c.Kind, c.Encoding = InlineGraphics, EncodingITerm2
	case "sixel":
		c.Kind, c.Encoding = InlineGraphics, EncodingSixel
	case "textsize", "text-sizing":
		c.Kind = TextSizing
	case "textart", "halfblocks":
		c.Kind = TextArt
	default:
		return c, fmt.Errorf("unknown protocol override %q (want kitty, iterm2, sixel, textsize or textart)", name)
	}
	return c, nil
}

// String renders the capability for logs and the status line.
func (c Capability) String() string {
	if c.Kind == InlineGraphics {
		return c.Kind.String() + "/" + c.Encoding.String()
	}
	return c.Kind.String()
}
