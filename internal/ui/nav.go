package ui

// firstAtOrAfter returns the index of the first offset at or after
// from, wrapping to the first entry when every offset lies before it.
// Returns -1 for an empty slice. Offsets are in document order.
func firstAtOrAfter(offsets []int, from int) int {
	if len(offsets) == 0 {
		return -1
	}
	for i, off := range offsets {
		if off >= from {
			return i
		}
	}
	return 0
}

// stepIndex moves a cursor circularly through n entries.
func stepIndex(n, cur, delta int) int {
	if n == 0 {
		return -1
	}
	next := (cur + delta) % n
	if next < 0 {
		next += n
	}
	return next
}
