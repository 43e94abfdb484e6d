package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
)

// encodeITerm2 transmits pixels through iTerm2's inline image protocol
// (OSC 1337), displayed over cols x rows cells.
func encodeITerm2(img *image.RGBA, cols, rows int) ([]string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	payload := fmt.Sprintf("\x1b]1337;File=inline=1;size=%d;width=%d;height=%d;preserveAspectRatio=0:%s\x07",
		buf.Len(), cols, rows, base64.StdEncoding.EncodeToString(buf.Bytes()))
	return payloadRows(payload, rows), nil
}
