// Package render turns laid-out document blocks into terminal output
// for the negotiated capability: styled text, scaled-text escape
// sequences, inline graphics, or half-block character art. Expensive
// artifacts (rasterized headers, encoded images) are cached across
// frames and invalidated in bulk on reload or resize.
package render

// Artifact is the rendered form of one block: one ANSI-ready string per
// terminal row of the block's extent. Graphics artifacts carry their
// whole escape payload on the first row and blank continuation rows, so
// that emitting row k of a partially visible block stays well formed.
type Artifact struct {
	Rows []string
}

// Height returns the artifact's extent in terminal rows.
func (a Artifact) Height() int {
	return len(a.Rows)
}

// Row returns row i, or an empty string outside the artifact.
func (a Artifact) Row(i int) string {
	if i < 0 || i >= len(a.Rows) {
		return ""
	}
	return a.Rows[i]
}
