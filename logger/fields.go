package logger

// Standard field names for consistent structured logging across efmig.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldOperationID = "operation_id"

	// Operations
	FieldOperation = "operation"
	FieldVerb      = "verb"
	FieldArgs      = "args"
	FieldTarget    = "target"
	FieldMigration = "migration"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount     = "count"
	FieldAttempt   = "attempt"
	FieldExitCode  = "exit_code"
	FieldErrorLine = "error_lines"
	FieldDataLines = "data_lines"

	// Payloads
	FieldRaw = "raw"

	// Status
	FieldOutcome = "outcome"

	// Files and paths
	FieldPath           = "path"
	FieldBinary         = "binary"
	FieldStartupProject = "startup_project"
	FieldDataProject    = "data_project"
)
