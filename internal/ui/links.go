package ui

import "github.com/yaklabco/bigmd/pkg/document"

// LinkState drives link navigation: n/N cycle through the document's
// hyperlinks and Enter opens the selected one.
type LinkState struct {
	links  []document.Link
	cursor int
}

// SetLinks replaces the link list after a load or relayout.
func (l *LinkState) SetLinks(links []document.Link) {
	l.links = links
	l.cursor = -1
}

// Active reports whether a link is selected.
func (l *LinkState) Active() bool {
	return l.cursor >= 0 && l.cursor < len(l.links)
}

// Clear drops the selection but keeps the link list.
func (l *LinkState) Clear() {
	l.cursor = -1
}

// Next selects the next link. With no selection it starts at the first
// link at or after scrollTop, wrapping to the first link.
func (l *LinkState) Next(scrollTop int) (document.Link, bool) {
	if l.cursor < 0 {
		l.cursor = firstAtOrAfter(l.offsets(), scrollTop)
	} else {
		l.cursor = stepIndex(len(l.links), l.cursor, 1)
	}
	return l.Current()
}

// Prev selects the previous link, with the same entry rule as Next.
func (l *LinkState) Prev(scrollTop int) (document.Link, bool) {
	if l.cursor < 0 {
		l.cursor = firstAtOrAfter(l.offsets(), scrollTop)
	} else {
		l.cursor = stepIndex(len(l.links), l.cursor, -1)
	}
	return l.Current()
}

// Current returns the selected link.
func (l *LinkState) Current() (document.Link, bool) {
	if !l.Active() {
		return document.Link{}, false
	}
	return l.links[l.cursor], true
}

// Position reports the 1-based cursor position and link count.
func (l *LinkState) Position() (current, total int) {
	return l.cursor + 1, len(l.links)
}

func (l *LinkState) offsets() []int {
	out := make([]int, len(l.links))
	for i, link := range l.links {
		out[i] = link.Offset
	}
	return out
}
