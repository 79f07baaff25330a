package clean

// Config holds the two cleaning toggles.
type Config struct {
	// KeepEmoji preserves zero width joiners and variation selectors so that
	// multi-code-point emoji sequences stay fused. Stripping them fractures
	// a single rendered glyph into its visible parts.
	KeepEmoji bool
	// CollapseSpaces collapses runs of two or more ASCII spaces to one and
	// trims leading and trailing whitespace from the result.
	CollapseSpaces bool
}

// DefaultConfig returns the default configuration: emoji glue preserved,
// spaces collapsed.
func DefaultConfig() Config {
	return Config{
		KeepEmoji:      true,
		CollapseSpaces: true,
	}
}
