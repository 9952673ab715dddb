// Package netlist extracts provenance metadata from SPICE and Spectre
// netlist text. Extraction is purely textual: it scans static netlist
// content for labeled lines and pulls literal sub-fields out of them. It is
// not a circuit parse and assumes the characterization netlist conventions:
// one matching instance line per netlist, parameters written inline without
// continuations.
package netlist

import (
	"bufio"
	"regexp"
	"strings"
)

// Field is one extracted metadata value. Found distinguishes "pattern did
// not match" from a genuinely empty value, so callers can report misses
// instead of silently writing blanks.
type Field struct {
	Value string
	Found bool
}

// Metadata holds the provenance fields pulled from a characterization
// netlist. Values are kept as the literal substrings from the source so the
// results header reproduces the netlist exactly; only the bias current is
// normalized (to microamperes, 4 significant figures).
type Metadata struct {
	Device Field // model name on the device instance line
	Width  Field // W= literal, micrometers
	Length Field // L= literal, micrometers
	BiasUA Field // DC bias current magnitude in microamperes
	Corner Field // process corner from the .lib include line
}

// Missing returns the header keys whose patterns did not match.
func (m Metadata) Missing() []string {
	var keys []string
	for _, f := range []struct {
		key string
		f   Field
	}{
		{"device", m.Device},
		{"W_um", m.Width},
		{"L_um", m.Length},
		{"Id_uA", m.BiasUA},
		{"corner", m.Corner},
	} {
		if !f.f.Found {
			keys = append(keys, f.key)
		}
	}
	return keys
}

var (
	deviceRe = regexp.MustCompile(`\bsky130_fd_pr__\w+`)
	widthRe  = regexp.MustCompile(`\bW=(\S+)`)
	lengthRe = regexp.MustCompile(`\bL=(\S+)`)
)

// Extract scans netlist text for the characterization metadata fields.
// Unmatched fields come back with Found=false and an empty Value; that is
// not an error here, the caller decides how loudly to report it.
func Extract(text string) Metadata {
	var m Metadata

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}

		fields := strings.Fields(line)
		switch {
		case strings.HasPrefix(strings.ToUpper(fields[0]), "X") && !m.Device.Found:
			// Subcircuit device instance, e.g.
			// XM1 drain gate 0 0 sky130_fd_pr__nfet_01v8 W=1 L=0.15
			if model := deviceRe.FindString(line); model != "" {
				m.Device = Field{Value: model, Found: true}
			}
			if w := widthRe.FindStringSubmatch(line); w != nil {
				m.Width = Field{Value: w[1], Found: true}
			}
			if l := lengthRe.FindStringSubmatch(line); l != nil {
				m.Length = Field{Value: l[1], Found: true}
			}

		case strings.HasPrefix(strings.ToUpper(fields[0]), "I") && !m.BiasUA.Found:
			// Current source, e.g. I_d 0 d DC 20u
			if ua, ok := biasFromSource(fields); ok {
				m.BiasUA = Field{Value: ua, Found: true}
			}

		case strings.EqualFold(fields[0], ".lib") && !m.Corner.Found:
			// .lib ".../sky130.lib.spice" tt
			if len(fields) >= 3 {
				m.Corner = Field{Value: fields[len(fields)-1], Found: true}
			}
		}
	}

	return m
}

// biasFromSource pulls the DC magnitude out of a current source element
// line and normalizes it to microamperes.
func biasFromSource(fields []string) (string, bool) {
	for i, f := range fields {
		if strings.EqualFold(f, "DC") && i+1 < len(fields) {
			amps, err := ParseValue(fields[i+1])
			if err != nil {
				return "", false
			}
			return FormatMicro(amps), true
		}
	}
	return "", false
}
