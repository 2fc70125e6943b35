package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"
	FieldEvent      = "event"
	FieldCommand    = "command"

	// Run fields.
	FieldMode  = "mode"
	FieldJobs  = "jobs"
	FieldWrite = "write"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldFilesChanged     = "files_changed"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldDuration         = "duration"

	// Language server fields.
	FieldURI     = "uri"
	FieldMethod  = "method"
	FieldVersion = "version"
	FieldOffset  = "offset"

	// Registry fields.
	FieldSeverity    = "severity"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldSignature   = "signature"

	// Build fields.
	FieldCommit = "commit"
	FieldBuilt  = "built"
)
