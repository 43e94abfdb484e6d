package render

import (
	"image"
	"strconv"
	"strings"
)

// encodeSixel transmits pixels as a sixel image over rows cells. Colors
// are quantized to the 6x6x6 cube, which keeps the palette register
// count within what sixel terminals guarantee.
func encodeSixel(img *image.RGBA, rows int) []string {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var sb strings.Builder
	sb.WriteString("\x1bPq")
	sb.WriteString("\"1;1;")
	sb.WriteString(strconv.Itoa(w))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(h))

	// Quantize every pixel up front and note which registers a band
	// actually uses.
	indexed := make([]int, w*h)
	used := make(map[int]bool)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*img.Stride + x*4
			reg := sixelRegister(img.Pix[i], img.Pix[i+1], img.Pix[i+2])
			indexed[y*w+x] = reg
			used[reg] = true
		}
	}

	// Define only the registers in use. Sixel channel values run 0-100.
	for reg := 0; reg < 216; reg++ {
		if !used[reg] {
			continue
		}
		r, g, bl := sixelChannels(reg)
		sb.WriteByte('#')
		sb.WriteString(strconv.Itoa(reg))
		sb.WriteString(";2;")
		sb.WriteString(strconv.Itoa(r))
		sb.WriteByte(';')
		sb.WriteString(strconv.Itoa(g))
		sb.WriteByte(';')
		sb.WriteString(strconv.Itoa(bl))
	}

	// Emit six-pixel-high bands, one pass per register per band.
	for top := 0; top < h; top += 6 {
		bandRegs := make(map[int]bool)
		for y := top; y < top+6 && y < h; y++ {
			for x := 0; x < w; x++ {
				bandRegs[indexed[y*w+x]] = true
			}
		}
		firstReg := true
		for reg := 0; reg < 216; reg++ {
			if !bandRegs[reg] {
				continue
			}
			if !firstReg {
				sb.WriteByte('$')
			}
			firstReg = false
			sb.WriteByte('#')
			sb.WriteString(strconv.Itoa(reg))
			writeSixelRow(&sb, indexed, w, h, top, reg)
		}
		if top+6 < h {
			sb.WriteByte('-')
		}
	}
	sb.WriteString("\x1b\\")

	return payloadRows(sb.String(), rows)
}

// writeSixelRow emits one register's run-length encoded band.
func writeSixelRow(sb *strings.Builder, indexed []int, w, h, top, reg int) {
	prev := byte(0)
	count := 0
	flush := func() {
		if count == 0 {
			return
		}
		if count > 3 {
			sb.WriteByte('!')
			sb.WriteString(strconv.Itoa(count))
			sb.WriteByte(prev)
		} else {
			for i := 0; i < count; i++ {
				sb.WriteByte(prev)
			}
		}
		count = 0
	}
	for x := 0; x < w; x++ {
		bits := 0
		for dy := 0; dy < 6; dy++ {
			y := top + dy
			if y >= h {
				break
			}
			if indexed[y*w+x] == reg {
				bits |= 1 << dy
			}
		}
		ch := byte(63 + bits)
		if ch != prev {
			flush()
			prev = ch
		}
		count++
	}
	flush()
}

// sixelRegister maps 8-bit RGB to the 6x6x6 cube register.
func sixelRegister(r, g, b uint8) int {
	q := func(v uint8) int { return (int(v)*5 + 127) / 255 }
	return q(r)*36 + q(g)*6 + q(b)
}

// sixelChannels returns a register's RGB on the 0-100 sixel scale.
func sixelChannels(reg int) (int, int, int) {
	e := func(v int) int { return v * 100 / 5 }
	return e(reg / 36), e(reg / 6 % 6), e(reg % 6)
}
