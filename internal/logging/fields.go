// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldSource = "source"
	FieldInput  = "input"

	// Document fields.
	FieldGeneration = "generation"
	FieldBlocks     = "blocks"
	FieldLines      = "lines"
	FieldLinks      = "links"

	// Terminal fields.
	FieldCapability = "capability"
	FieldEncoding   = "encoding"
	FieldWidth      = "width"
	FieldHeight     = "height"
	FieldCellWidth  = "cell_width"
	FieldCellHeight = "cell_height"

	// Cache fields.
	FieldCacheHits   = "cache_hits"
	FieldCacheMisses = "cache_misses"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
