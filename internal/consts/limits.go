package consts

// Parsing limits
const (
	// DefaultMaxNestingDepth is the maximum parenthesis nesting depth a
	// build accepts before failing, guarding evaluation against stack
	// exhaustion on pathologically nested input.
	DefaultMaxNestingDepth = 512
)

// Cache limits
const (
	// DefaultMaxCacheEntries is the default capacity of the parse cache.
	DefaultMaxCacheEntries = 100
)

// History limits
const (
	// DefaultHistoryLimit is how many past evaluations are loaded into the
	// interactive session on startup.
	DefaultHistoryLimit = 50
)

// Puzzle defaults
const (
	// DefaultPuzzleAttempts is how many random candidates the digit-puzzle
	// solver tries before giving up.
	DefaultPuzzleAttempts = 1000
)

// Display defaults
const (
	// DefaultPrecision renders floats in their shortest form; a
	// non-negative value fixes the fractional digit count instead.
	DefaultPrecision = -1
)
