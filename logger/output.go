package logger

// OutputCategory defines a category of console output that can be enabled/disabled.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information the session prints regardless of severity.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Migration listings, operation outcomes
	OutputErrors                        // Tool error lines, validation messages

	// Level 1 (-v)
	OutputProgress // Spinner and step announcements

	// Level 2 (-vv)
	OutputConfig    // Resolved project paths and settings
	OutputToolCalls // The exact command line of each tool invocation

	// Level 3 (-vvv)
	OutputRawToolOutput // Full captured tool output after every call
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:       VerbosityUser,
	OutputErrors:        VerbosityUser,
	OutputProgress:      VerbosityInfo,
	OutputConfig:        VerbosityDebug,
	OutputToolCalls:     VerbosityDebug,
	OutputRawToolOutput: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// Enabled reports whether category is shown at the current verbosity.
func Enabled(category OutputCategory) bool {
	return ShouldOutput(Verbosity, category)
}
