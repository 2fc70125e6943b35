package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/gocbs/pkg/analysis"
	"github.com/yaklabco/gocbs/pkg/lint"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	Writer io.Writer
	Format Format

	// Color is "auto", "always" or "never".
	Color string

	// ContextLines is the number of source lines shown around each text
	// diagnostic; negative disables source context.
	ContextLines int

	ShowSummary bool

	// Compact writes JSON and SARIF without indentation.
	Compact bool

	// WorkingDir makes reported paths relative when set.
	WorkingDir string

	// Rules are described in the SARIF tool driver.
	Rules []lint.Rule

	// Version is the tool version reported in SARIF.
	Version string

	// SortBy orders the summary tables.
	SortBy analysis.SortField
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:       os.Stdout,
		Format:       FormatText,
		Color:        "auto",
		ContextLines: 1,
		ShowSummary:  true,
		Version:      "dev",
		SortBy:       analysis.SortByCount,
	}
}
