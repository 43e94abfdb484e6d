package ui

import "github.com/yaklabco/bigmd/pkg/document"

// SearchState drives incremental search. While the query is being
// typed, matches update live; accepting the query starts cursor
// navigation through them.
type SearchState struct {
	Query    string
	Accepted bool

	matches []int
	cursor  int
}

// SetQuery updates the live query and recomputes matches against the
// laid-out document. The cursor resets; navigation starts on accept.
func (s *SearchState) SetQuery(query string, doc *document.Document) {
	s.Query = query
	s.cursor = -1
	if doc == nil || query == "" {
		s.matches = nil
		return
	}
	s.matches = doc.Matches(query)
}

// Refresh recomputes matches after a reload or relayout, keeping the
// query. The cursor resets because offsets may have shifted.
func (s *SearchState) Refresh(doc *document.Document) {
	query := s.Query
	accepted := s.Accepted
	s.SetQuery(query, doc)
	s.Accepted = accepted
}

// Accept commits the query and begins navigation.
func (s *SearchState) Accept() {
	s.Accepted = true
}

// Clear resets the search entirely.
func (s *SearchState) Clear() {
	*s = SearchState{cursor: -1}
}

// Active reports whether an accepted search owns the n/N keys.
func (s *SearchState) Active() bool {
	return s.Accepted && s.Query != ""
}

// Next advances to the next match. With no current match it selects
// the first match at or after scrollTop, wrapping to the first match.
func (s *SearchState) Next(scrollTop int) (int, bool) {
	if s.cursor < 0 {
		s.cursor = firstAtOrAfter(s.matches, scrollTop)
	} else {
		s.cursor = stepIndex(len(s.matches), s.cursor, 1)
	}
	return s.Current()
}

// Prev moves to the previous match, with the same entry rule as Next.
func (s *SearchState) Prev(scrollTop int) (int, bool) {
	if s.cursor < 0 {
		s.cursor = firstAtOrAfter(s.matches, scrollTop)
	} else {
		s.cursor = stepIndex(len(s.matches), s.cursor, -1)
	}
	return s.Current()
}

// Current returns the selected match offset.
func (s *SearchState) Current() (int, bool) {
	if s.cursor < 0 || s.cursor >= len(s.matches) {
		return 0, false
	}
	return s.matches[s.cursor], true
}

// Position reports the 1-based cursor position and match count for the
// status line. Position is 0 before navigation starts.
func (s *SearchState) Position() (current, total int) {
	return s.cursor + 1, len(s.matches)
}
