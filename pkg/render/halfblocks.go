package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// encodeHalfBlocks renders pixels as colored half-block characters, two
// vertical pixels per terminal cell. The caller scales the image to
// cols x rows*2 pixels first.
func encodeHalfBlocks(img *image.RGBA, cols, rows int) []string {
	out := make([]string, rows)
	for row := 0; row < rows; row++ {
		var sb strings.Builder
		for col := 0; col < cols; col++ {
			top, topOpaque := pixelColor(img, col, row*2)
			bottom, bottomOpaque := pixelColor(img, col, row*2+1)
			switch {
			case !topOpaque && !bottomOpaque:
				sb.WriteByte(' ')
			case !bottomOpaque:
				sb.WriteString(lipgloss.NewStyle().Foreground(top).Render("▀"))
			case !topOpaque:
				sb.WriteString(lipgloss.NewStyle().Foreground(bottom).Render("▄"))
			default:
				sb.WriteString(lipgloss.NewStyle().Foreground(top).Background(bottom).Render("▀"))
			}
		}
		out[row] = sb.String()
	}
	return out
}

// pixelColor reads one pixel as a lipgloss color, reporting whether it
// is opaque enough to draw.
func pixelColor(img *image.RGBA, x, y int) (lipgloss.Color, bool) {
	b := img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return "", false
	}
	i := y*img.Stride + x*4
	if img.Pix[i+3] < 128 {
		return "", false
	}
	c := colorful.Color{
		R: float64(img.Pix[i]) / 255,
		G: float64(img.Pix[i+1]) / 255,
		B: float64(img.Pix[i+2]) / 255,
	}
	return lipgloss.Color(c.Hex()), true
}

// altTextRows renders an image's alt text placeholder.
func altTextRows(skin *Skin, alt string) []string {
	if alt == "" {
		alt = "image"
	}
	return []string{skin.Quote.Render(fmt.Sprintf("[%s]", alt))}
}
