package parse

import (
	"regexp"
	"strings"

	"github.com/teranos/efmig/errors"
)

var (
	errorLinePattern = regexp.MustCompile(`^error:\s+(.+)$`)
	dataLinePattern  = regexp.MustCompile(`^data:\s+(.+)$`)
)

// Result is the structured view of one tool invocation.
type Result struct {
	// Succeeded is false as soon as one error line was seen
	Succeeded bool
	// Errors holds the text of every error line, in output order
	Errors []string
	// Data holds the text of every data line, in output order
	Data []string
	// Raw is the full captured output, kept for marker checks
	Raw string
	// ExitCode of the process. Informational only: text markers decide success.
	ExitCode int
}

// Parse classifies every line of raw output.
// Lines that are neither error nor data lines only remain visible through Raw.
func Parse(raw string) Result {
	result := Result{Succeeded: true, Raw: raw}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")

		if m := errorLinePattern.FindStringSubmatch(line); m != nil {
			result.Errors = append(result.Errors, strings.TrimSpace(m[1]))
			result.Succeeded = false
			continue
		}
		if m := dataLinePattern.FindStringSubmatch(line); m != nil {
			result.Data = append(result.Data, strings.TrimSpace(m[1]))
		}
	}

	return result
}

// Failed builds a failed Result for an invocation that never produced output,
// e.g. when the tool binary could not be started.
func Failed(err error) Result {
	return Result{Errors: []string{err.Error()}, Raw: err.Error(), ExitCode: -1}
}

// Contains reports whether marker occurs anywhere in the raw output.
func (r Result) Contains(marker string) bool {
	return marker != "" && strings.Contains(r.Raw, marker)
}

// ContainsAny reports whether any of the markers occurs in the raw output.
func (r Result) ContainsAny(markers []string) bool {
	for _, m := range markers {
		if r.Contains(m) {
			return true
		}
	}
	return false
}

// Err returns nil for a successful result, otherwise an ErrTool-marked error
// carrying every error line.
func (r Result) Err() error {
	if r.Succeeded {
		return nil
	}
	msg := strings.Join(r.Errors, "; ")
	if msg == "" {
		msg = "tool failed without error output"
	}
	return errors.MarkTool(errors.New(msg))
}
