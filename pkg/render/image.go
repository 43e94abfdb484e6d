package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageLoader resolves an image source to decoded pixels. Relative
// sources resolve against the document's directory; http(s) sources are
// fetched. Injectable so tests never touch the filesystem or network.
type ImageLoader func(source string) (image.Image, error)

// maxRemoteImageBytes caps remote image downloads.
const maxRemoteImageBytes = 32 << 20

// NewImageLoader returns the default loader rooted at baseDir.
func NewImageLoader(baseDir string) ImageLoader {
	client := &http.Client{Timeout: 10 * time.Second}
	return func(source string) (image.Image, error) {
		var r io.ReadCloser
		switch {
		case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
			resp, err := client.Get(source)
			if err != nil {
				return nil, fmt.Errorf("fetch image: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				resp.Body.Close()
				return nil, fmt.Errorf("fetch image: %s returned %s", source, resp.Status)
			}
			r = struct {
				io.Reader
				io.Closer
			}{io.LimitReader(resp.Body, maxRemoteImageBytes), resp.Body}
		default:
			path := source
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("open image: %w", err)
			}
			r = f
		}
		defer r.Close()

		img, _, err := image.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("decode image %s: %w", source, err)
		}
		return img, nil
	}
}

// NewImageLoaderFromBytes serves fixed pixels for every source.
func NewImageLoaderFromBytes(data []byte) ImageLoader {
	return func(string) (image.Image, error) {
		img, _, err := image.Decode(bytes.NewReader(data))
		return img, err
	}
}

// fitCells computes the cell extent of an image shown at up to width
// columns and maxRows rows, preserving aspect ratio. The width is also
// bounded to maxRows*3/2 columns so tall viewports do not produce
// absurdly wide images.
func fitCells(imgW, imgH, width, maxRows, cellW, cellH int) (cols, rows int) {
	if imgW < 1 || imgH < 1 || width < 1 || maxRows < 1 {
		return 1, 1
	}
	if cellW < 1 {
		cellW = 1
	}
	if cellH < 1 {
		cellH = 1
	}

	maxCols := maxRows * 3 / 2
	if maxCols > width {
		maxCols = width
	}
	if maxCols < 1 {
		maxCols = 1
	}

	cols = maxCols
	rows = (cols*cellW*imgH + imgW*cellH - 1) / (imgW * cellH)
	if rows > maxRows {
		rows = maxRows
		cols = rows * cellH * imgW / (imgH * cellW)
		if cols > maxCols {
			cols = maxCols
		}
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// cropRows copies the pixel-row slice [y0, y1) into a fresh image at
// the origin.
func cropRows(img *image.RGBA, y0, y1 int) *image.RGBA {
	b := img.Bounds()
	if y0 < 0 {
		y0 = 0
	}
	if y1 > b.Dy() {
		y1 = b.Dy()
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), y1-y0))
	xdraw.Copy(out, image.Point{}, img,
		image.Rect(b.Min.X, b.Min.Y+y0, b.Max.X, b.Min.Y+y1), xdraw.Src, nil)
	return out
}

// scaleImage resamples img to exactly w x h pixels.
func scaleImage(img image.Image, w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}
