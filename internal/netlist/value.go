package netlist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fetbench/fetbench/internal/constants"
)

// unitScale maps SPICE engineering suffixes to multipliers.
// "meg" must be matched before the single-letter "m".
var unitScale = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"Meg": 1e6,
	"MEG": 1e6,
	"K":   1e3,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

// valueRe accepts a signed decimal with optional exponent, an optional
// engineering suffix, and optional trailing unit letters (ngspice ignores
// anything after the suffix, e.g. "20uA").
var valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|Meg|MEG|[TGKkmunpf])?[A-Za-z]*$`)

// ParseValue converts a SPICE value literal to a float64, applying the
// engineering suffix if present. "20u" -> 2e-5, "1k" -> 1000.
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	if matches[2] != "" {
		if multiplier, ok := unitScale[matches[2]]; ok {
			num *= multiplier
		}
	}

	return num, nil
}

// FormatMicro renders a value in amperes as microamperes with a fixed
// number of significant figures and no unit suffix. 2e-5 -> "20".
func FormatMicro(amps float64) string {
	return strconv.FormatFloat(amps*1e6, 'g', constants.BiasSigFigs, 64)
}
