package parse

import (
	"regexp"
	"strings"
)

// KeyLength is the width of the timestamp prefix of a migration identifier.
const KeyLength = 14

var (
	migrationPattern  = regexp.MustCompile(`^(\d{14})_(.+)$`)
	annotationPattern = regexp.MustCompile(`\s*\([^()]*\)\s*$`)
)

// Migration is one entry of a migration listing.
type Migration struct {
	// ID is the full identifier, e.g. "20240101120000_AddUsers"
	ID string `json:"id"`
	// Key is the timestamp prefix, the only ordering key between migrations
	Key string `json:"key"`
	// Name is ID without the key and separator
	Name string `json:"name"`
	// Pending is true when the tool annotated the entry, e.g. "(Pending)"
	Pending bool `json:"pending"`
	// SourceFile is the matching source file, empty when none was found
	SourceFile string `json:"sourceFile,omitempty"`
}

// Resolver maps a migration identifier to its source file path ("" = unknown).
type Resolver func(id string) string

// ParseListing reads migration records from the data lines of a listing.
// Lines that do not start with a timestamp key are banner or noise lines and are
// skipped. resolve may be nil.
func ParseListing(lines []string, resolve Resolver) []Migration {
	var migrations []Migration
	for _, line := range lines {
		m, ok := ParseIdentifier(line)
		if !ok {
			continue
		}
		if resolve != nil {
			m.SourceFile = resolve(m.ID)
		}
		migrations = append(migrations, m)
	}
	return migrations
}

// ParseIdentifier parses a single listing entry such as
// "20240101120000_AddUsers (Pending)".
func ParseIdentifier(line string) (Migration, bool) {
	line = strings.TrimSpace(line)
	if !migrationPattern.MatchString(line) {
		return Migration{}, false
	}

	id, pending := StripAnnotation(line)
	m := migrationPattern.FindStringSubmatch(id)
	if m == nil {
		return Migration{}, false
	}

	return Migration{
		ID:      id,
		Key:     m[1],
		Name:    m[2],
		Pending: pending,
	}, true
}

// StripAnnotation removes a trailing parenthesized annotation.
// The second return value reports whether one was present.
func StripAnnotation(s string) (string, bool) {
	s = strings.TrimSpace(s)
	loc := annotationPattern.FindStringIndex(s)
	if loc == nil {
		return s, false
	}
	return strings.TrimSpace(s[:loc[0]]), true
}
