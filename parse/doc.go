// Package parse turns the free-text output of the migration tool into typed values.
//
// The tool is run with prefixed output, so every line it prints starts with a
// channel tag such as "data:" or "error:". Parse splits a captured run into
// error lines and data lines; ParseListing reads the data lines of a
// "migrations list" run into Migration records.
//
// All pattern matching against tool output lives here. Callers branch only on
// Result fields and on the marker phrases configured in settings.
package parse
