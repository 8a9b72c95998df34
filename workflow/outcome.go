package workflow

import (
	"github.com/teranos/efmig/parse"
)

// Kind classifies the outcome of an operation.
type Kind int

const (
	// Success means the tool confirmed the operation
	Success Kind = iota
	// UpToDate means there was nothing to apply
	UpToDate
	// Empty means there are no migrations to operate on
	Empty
	// Failure means the tool reported errors or could not be run
	Failure
	// Ambiguous means the tool neither failed nor printed a known success marker
	Ambiguous
	// Invalid means the input was rejected before the tool was invoked
	Invalid
	// Cancelled means the user declined a confirmation
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case UpToDate:
		return "up-to-date"
	case Empty:
		return "empty"
	case Failure:
		return "failure"
	case Ambiguous:
		return "ambiguous"
	case Invalid:
		return "invalid"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// OK reports whether the kind leaves the store in the state the user asked for.
func (k Kind) OK() bool {
	return k == Success || k == UpToDate
}

// Step is one tool invocation inside a composite operation.
type Step struct {
	Verb      string
	Migration parse.Migration
	Kind      Kind
	Result    parse.Result
}

// Outcome is what an operation reports back to the session.
type Outcome struct {
	Operation string
	Kind      Kind
	// Messages are user-facing lines: tool errors verbatim, validation text, summaries
	Messages []string
	// Lines are tool data lines to show verbatim
	Lines []string
	// Migrations: the listing for List, the latest for RemoveLast, the removal
	// set (newest first) for Rollback
	Migrations []parse.Migration
	// Target is the resolved migration for Update and Rollback
	Target *parse.Migration
	// Steps holds every sub-invocation of Rollback
	Steps []Step
	// Err is set for Failure and Invalid outcomes
	Err error
}
