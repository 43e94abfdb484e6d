package render

import (
	"encoding/base64"
	"fmt"
	"image"
	"strings"
)

// kittyChunkSize is the base64 payload cap per graphics escape.
const kittyChunkSize = 4096

// encodeKitty transmits RGBA pixels through the kitty graphics
// protocol, displayed immediately over cols x rows cells. The whole
// payload lands on the artifact's first row; the remaining rows stay
// blank.
func encodeKitty(img *image.RGBA, cols, rows int) []string {
	b := img.Bounds()
	payload := base64.StdEncoding.EncodeToString(rgbaBytes(img))

	var sb strings.Builder
	first := true
	for len(payload) > 0 {
		chunk := payload
		if len(chunk) > kittyChunkSize {
			chunk = payload[:kittyChunkSize]
		}
		payload = payload[len(chunk):]

		more := 0
		if len(payload) > 0 {
			more = 1
		}
		if first {
			fmt.Fprintf(&sb, "\x1b_Gf=32,s=%d,v=%d,a=T,c=%d,r=%d,q=2,m=%d;%s\x1b\\",
				b.Dx(), b.Dy(), cols, rows, more, chunk)
			first = false
		} else {
			fmt.Fprintf(&sb, "\x1b_Gm=%d;%s\x1b\\", more, chunk)
		}
	}

	return payloadRows(sb.String(), rows)
}

// rgbaBytes returns the tightly packed RGBA pixel data.
func rgbaBytes(img *image.RGBA) []byte {
	b := img.Bounds()
	w := b.Dx() * 4
	if img.Stride == w {
		return img.Pix[:w*b.Dy()]
	}
	out := make([]byte, 0, w*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride:]
		out = append(out, row[:w]...)
	}
	return out
}

// payloadRows places an escape payload on the first of rows lines.
func payloadRows(payload string, rows int) []string {
	if rows < 1 {
		rows = 1
	}
	out := make([]string, rows)
	out[0] = payload
	return out
}
