// Package constants provides named constants used throughout the fetbench
// codebase. This centralizes magic values for better maintainability.
package constants

// Filesystem names
const (
	// HistoryDBName is the run-history SQLite database filename, created
	// in the results directory.
	HistoryDBName = "fetbench.db"

	// RunTraceName is the JSONL run-event trace filename, created in the
	// results directory at debug level and above.
	RunTraceName = "runs.jsonl"
)

// Metadata formatting
const (
	// BiasSigFigs is the number of significant figures used when
	// normalizing the bias current to microamperes for the results header.
	BiasSigFigs = 4
)
