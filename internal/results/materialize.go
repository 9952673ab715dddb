// Package results folds a simulator-produced raw data file together with a
// provenance header into the final results artifact consumed by the
// downstream plotting scripts.
package results

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HeaderField is one ordered "# key = value" provenance line. Field order
// is fixed per bench; the plotting scripts key off the names.
type HeaderField struct {
	Key   string
	Value string
}

// Outcome reports what Materialize actually did. The original flow skipped
// silently when the simulator produced no data file; the outcome makes that
// case visible to callers without turning it into an error.
type Outcome int

const (
	// OutcomeWritten means the final results file was produced.
	OutcomeWritten Outcome = iota
	// OutcomeSkippedNoData means the expected raw data file was absent and
	// no final file was created.
	OutcomeSkippedNoData
)

// String returns the outcome name used in logs and run records.
func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeSkippedNoData:
		return "skipped-no-data"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Header renders the fields as a comment block, one "# key = value" line
// per field.
func Header(fields []HeaderField) string {
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "# %s = %s\n", f.Key, f.Value)
	}
	return b.String()
}

// Materialize writes finalPath as the provenance header followed verbatim
// by the entire contents of rawPath, then removes rawPath so a stale raw
// file cannot corrupt a later run. The write replaces any previous final
// file, it never appends.
//
// If rawPath does not exist the step is skipped: no final file is written
// and no error is returned, only OutcomeSkippedNoData. Whether the
// simulator run itself failed is the invoker's business, not ours.
func Materialize(rawPath, finalPath string, fields []HeaderField) (Outcome, error) {
	raw, err := os.ReadFile(rawPath)
	if err != nil {
		if os.IsNotExist(err) {
			return OutcomeSkippedNoData, nil
		}
		return OutcomeSkippedNoData, fmt.Errorf("reading raw data file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		return OutcomeSkippedNoData, fmt.Errorf("creating results directory: %w", err)
	}

	content := append([]byte(Header(fields)), raw...)
	if err := os.WriteFile(finalPath, content, 0644); err != nil {
		return OutcomeSkippedNoData, fmt.Errorf("writing results file: %w", err)
	}

	if err := os.Remove(rawPath); err != nil {
		return OutcomeWritten, fmt.Errorf("removing raw data file: %w", err)
	}

	return OutcomeWritten, nil
}
