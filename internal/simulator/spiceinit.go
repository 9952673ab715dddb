// Package simulator writes simulator behavior configuration and drives
// external simulator processes (ngspice, Spectre wrappers).
package simulator

import (
	"fmt"
	"os"
	"path/filepath"
)

// SpiceInitName is the per-directory ngspice startup file. ngspice resolves
// it relative to its current working directory, which is why Runner launches
// the process from the netlist's directory.
const SpiceInitName = ".spiceinit"

// spiceInitContent enables HSA compatibility mode (required for the sky130
// model library to resolve) and disables the model consistency check.
const spiceInitContent = "set ngbehavior=hsa\nset ng_nomodcheck\n"

// WriteSpiceInit (over)writes the ngspice startup file in dir. The content
// is fixed, so the operation is idempotent; any write error is fatal to the
// run and is returned to the caller.
func WriteSpiceInit(dir string) error {
	path := filepath.Join(dir, SpiceInitName)
	if err := os.WriteFile(path, []byte(spiceInitContent), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", SpiceInitName, err)
	}
	return nil
}
