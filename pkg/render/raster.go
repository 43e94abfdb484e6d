package render

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/yaklabco/bigmd/pkg/config"
	"github.com/yaklabco/bigmd/pkg/document"
)

// rasterizeHeader draws one wrapped header segment into pixels sized
// for its two-row cell area, scaled by the level's tier fraction. Used
// when the terminal renders headers through graphics or text art
// instead of the text-sizing protocol.
func rasterizeHeader(segment document.Line, level, width, cellW, cellH int, tier document.TierRatio, style config.StyleConfig) *image.RGBA {
	num, den := tier(level)

	areaW := width * cellW
	areaH := 2 * cellH
	if areaW < 1 {
		areaW = 1
	}

	text := segment.Plain()
	face := basicfont.Face7x13
	textW := len(text) * face.Advance
	if textW < 1 {
		textW = 1
	}

	src := image.NewRGBA(image.Rect(0, 0, textW, face.Height))
	drawer := font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(styleColor(style.Fg, color.White)),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	drawer.DrawString(text)

	// Scale the glyph strip to the tier's fraction of the area height,
	// preserving aspect, then letterbox it onto the full area so every
	// header occupies the same two rows.
	glyphH := areaH * num / den
	if glyphH < 1 {
		glyphH = 1
	}
	glyphW := textW * glyphH / face.Height
	if glyphW > areaW {
		glyphW = areaW
	}
	if glyphW < 1 {
		glyphW = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, areaW, areaH))
	top := areaH - glyphH
	target := image.Rect(0, top, glyphW, areaH)
	xdraw.ApproxBiLinear.Scale(dst, target, src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// ansiPalette maps the 16 base ANSI color indexes to RGB.
var ansiPalette = [16]color.RGBA{
	{0, 0, 0, 255}, {205, 49, 49, 255}, {13, 188, 121, 255}, {229, 229, 16, 255},
	{36, 114, 200, 255}, {188, 63, 188, 255}, {17, 168, 205, 255}, {229, 229, 229, 255},
	{102, 102, 102, 255}, {241, 76, 76, 255}, {35, 209, 139, 255}, {245, 245, 67, 255},
	{59, 142, 234, 255}, {214, 112, 214, 255}, {41, 184, 219, 255}, {255, 255, 255, 255},
}

// styleColor resolves a skin color string (hex or ANSI index) to RGB.
func styleColor(s string, fallback color.Color) color.Color {
	if s == "" {
		return fallback
	}
	if strings.HasPrefix(s, "#") {
		if c, err := colorful.Hex(s); err == nil {
			r, g, b := c.RGB255()
			return color.RGBA{r, g, b, 255}
		}
		return fallback
	}
	if idx, err := strconv.Atoi(s); err == nil {
		if idx >= 0 && idx < len(ansiPalette) {
			return ansiPalette[idx]
		}
		if idx >= 16 && idx < 256 {
			return xtermColor(idx)
		}
	}
	return fallback
}

// xtermColor expands a 256-palette index past the base 16: a 6x6x6
// color cube then a grayscale ramp.
func xtermColor(idx int) color.RGBA {
	if idx < 232 {
		idx -= 16
		levels := [6]uint8{0, 95, 135, 175, 215, 255}
		return color.RGBA{
			levels[idx/36],
			levels[idx/6%6],
			levels[idx%6],
			255,
		}
	}
	v := uint8(8 + (idx-232)*10)
	return color.RGBA{v, v, v, 255}
}
