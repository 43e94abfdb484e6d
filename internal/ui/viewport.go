package ui

// Viewport tracks the scroll window over the laid-out document. All
// movement clamps into [0, MaxTop].
type Viewport struct {
	Top    int
	Height int
	Total  int
}

// MaxTop is the largest valid scroll offset.
func (v *Viewport) MaxTop() int {
	max := v.Total - v.Height
	if max < 0 {
		return 0
	}
	return max
}

// ScrollBy moves the window by delta lines.
func (v *Viewport) ScrollBy(delta int) {
	v.ScrollTo(v.Top + delta)
}

// ScrollTo moves the window to top, clamped.
func (v *Viewport) ScrollTo(top int) {
	if top > v.MaxTop() {
		top = v.MaxTop()
	}
	if top < 0 {
		top = 0
	}
	v.Top = top
}

// ToStart jumps to the top of the document.
func (v *Viewport) ToStart() {
	v.Top = 0
}

// ToEnd jumps so the last line sits at the bottom of the window.
func (v *Viewport) ToEnd() {
	v.Top = v.MaxTop()
}

// PageLines is the stride of a full-page movement, leaving two lines
// of overlap for continuity.
func (v *Viewport) PageLines() int {
	n := v.Height - 2
	if n < 1 {
		n = 1
	}
	return n
}

// HalfPageLines is the stride of a half-page movement.
func (v *Viewport) HalfPageLines() int {
	n := (v.PageLines() + 1) / 2
	if n < 1 {
		n = 1
	}
	return n
}

// EnsureVisible scrolls the minimum amount so offset is inside the
// window.
func (v *Viewport) EnsureVisible(offset int) {
	if offset < v.Top {
		v.ScrollTo(offset)
	} else if offset >= v.Top+v.Height {
		v.ScrollTo(offset - v.Height + 1)
	}
}

// Percent reports the scroll position as 0-100.
func (v *Viewport) Percent() int {
	max := v.MaxTop()
	if max == 0 {
		return 100
	}
	return v.Top * 100 / max
}
