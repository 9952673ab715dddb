// Package bench defines characterization benches: which netlist to run,
// with which simulator, and where the results go.
package bench

import (
	"fmt"
	"path/filepath"
)

// Simulator identifies the external simulator family a bench targets.
type Simulator string

const (
	// Ngspice benches run in batch mode and need a .spiceinit written
	// alongside the netlist before launch.
	Ngspice Simulator = "ngspice"
	// Spectre benches run through the site wrapper command and manage
	// their own option files.
	Spectre Simulator = "spectre"
)

// Default simulator commands. The Spectre wrapper is a site binary and is
// commonly overridden with --command where it is unavailable.
const (
	DefaultNgspiceCommand = "ngspice"
	DefaultSpectreCommand = "cad-spec"
)

// Bench describes one characterization run. Built-in benches mirror the
// device testbench tree; extra benches can be declared in the config file.
type Bench struct {
	// Name is the identifier used on the command line (fetbench run <name>).
	Name string `yaml:"name"`

	// Simulator selects ngspice or spectre semantics.
	Simulator Simulator `yaml:"simulator"`

	// Command overrides the simulator executable name. Empty means the
	// simulator's default.
	Command string `yaml:"command,omitempty"`

	// Netlist is the input netlist path relative to the device root.
	Netlist string `yaml:"netlist"`

	// RawData is the data filename the netlist's write directive produces
	// in the netlist's directory. Empty means the bench produces no data
	// file to materialize (log only).
	RawData string `yaml:"raw_data,omitempty"`

	// Category is the results subdirectory (results/<category>/).
	Category string `yaml:"category"`

	// Topology is an optional wiring tag added to the provenance header
	// (e.g. "diode-connected").
	Topology string `yaml:"topology,omitempty"`
}

// DefaultCommand returns the simulator command for the bench, falling back
// to the family default when no override is configured.
func (b Bench) DefaultCommand() string {
	if b.Command != "" {
		return b.Command
	}
	if b.Simulator == Spectre {
		return DefaultSpectreCommand
	}
	return DefaultNgspiceCommand
}

// BatchArgs returns the arguments placed before the netlist filename.
func (b Bench) BatchArgs() []string {
	if b.Simulator == Ngspice {
		return []string{"-b"}
	}
	return nil
}

// NeedsSpiceInit reports whether a .spiceinit must be written into the
// netlist directory before the run.
func (b Bench) NeedsSpiceInit() bool {
	return b.Simulator == Ngspice
}

// Validate checks the fields a run cannot proceed without.
func (b Bench) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("bench has no name")
	}
	if b.Simulator != Ngspice && b.Simulator != Spectre {
		return fmt.Errorf("bench %s: invalid simulator %q (valid: ngspice, spectre)", b.Name, b.Simulator)
	}
	if b.Netlist == "" {
		return fmt.Errorf("bench %s: no netlist configured", b.Name)
	}
	if b.Category == "" {
		return fmt.Errorf("bench %s: no results category configured", b.Name)
	}
	return nil
}

// Builtins returns the benches that mirror the original shell scripts.
func Builtins() []Bench {
	return []Bench{
		{
			Name:      "gmId",
			Simulator: Ngspice,
			Netlist:   filepath.Join("ngspice", "characterization", "fet_gmId.sp"),
			RawData:   "gmId_data.txt",
			Category:  "gmId",
		},
		{
			Name:      "av",
			Simulator: Ngspice,
			Netlist:   filepath.Join("ngspice", "characterization", "nfet_av.sp"),
			RawData:   "av_data.txt",
			Category:  "av",
			Topology:  "diode-connected",
		},
		{
			Name:      "nanopore-iv",
			Simulator: Spectre,
			Netlist:   filepath.Join("testbenches", "standalone", "nanopore_iv.scs"),
			Category:  filepath.Join("standalone", "iv"),
		},
	}
}

// Merge overlays extra benches onto the built-ins. An extra bench with a
// built-in's name replaces it; new names are appended in order.
func Merge(builtins, extra []Bench) []Bench {
	merged := make([]Bench, len(builtins))
	copy(merged, builtins)

	index := make(map[string]int, len(merged))
	for i, b := range merged {
		index[b.Name] = i
	}

	for _, b := range extra {
		if i, ok := index[b.Name]; ok {
			merged[i] = b
			continue
		}
		index[b.Name] = len(merged)
		merged = append(merged, b)
	}

	return merged
}

// Find returns the named bench.
func Find(benches []Bench, name string) (Bench, bool) {
	for _, b := range benches {
		if b.Name == name {
			return b, true
		}
	}
	return Bench{}, false
}
