package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstAtOrAfter(t *testing.T) {
	offsets := []int{5, 40, 120}

	assert.Equal(t, 0, firstAtOrAfter(offsets, 0))
	assert.Equal(t, 0, firstAtOrAfter(offsets, 5))
	assert.Equal(t, 1, firstAtOrAfter(offsets, 6))
	assert.Equal(t, 2, firstAtOrAfter(offsets, 50))
	// Everything lies before the scroll position: wrap to the first.
	assert.Equal(t, 0, firstAtOrAfter(offsets, 200))
	assert.Equal(t, -1, firstAtOrAfter(nil, 10))
}

func TestStepIndexCircular(t *testing.T) {
	assert.Equal(t, 1, stepIndex(3, 0, 1))
	assert.Equal(t, 0, stepIndex(3, 2, 1))
	assert.Equal(t, 2, stepIndex(3, 0, -1))
	assert.Equal(t, -1, stepIndex(0, 0, 1))
}

func TestViewportClamping(t *testing.T) {
	v := Viewport{Height: 10, Total: 25}

	v.ScrollBy(100)
	assert.Equal(t, 15, v.Top)
	v.ScrollBy(-100)
	assert.Equal(t, 0, v.Top)

	v.ToEnd()
	assert.Equal(t, 15, v.Top)
	v.ToStart()
	assert.Equal(t, 0, v.Top)

	// Short documents never scroll.
	short := Viewport{Height: 10, Total: 3}
	short.ScrollBy(5)
	assert.Equal(t, 0, short.Top)
	assert.Equal(t, 100, short.Percent())
}

func TestViewportStrides(t *testing.T) {
	v := Viewport{Height: 20, Total: 100}
	assert.Equal(t, 18, v.PageLines())
	assert.Equal(t, 10, v.HalfPageLines())

	tiny := Viewport{Height: 1, Total: 100}
	assert.Equal(t, 1, tiny.PageLines())
	assert.Equal(t, 1, tiny.HalfPageLines())
}

func TestViewportEnsureVisible(t *testing.T) {
	v := Viewport{Height: 10, Total: 100}

	v.EnsureVisible(50)
	assert.Equal(t, 41, v.Top, "scrolls the minimum to bring the line into view")

	v.EnsureVisible(45)
	assert.Equal(t, 41, v.Top, "already visible lines do not move the window")

	v.EnsureVisible(5)
	assert.Equal(t, 5, v.Top)
}
