package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var testFields = []HeaderField{
	{Key: "source", Value: "fet_gmId.sp"},
	{Key: "date", Value: "2026-02-08 12:00:00"},
	{Key: "device", Value: "sky130_fd_pr__nfet_01v8"},
	{Key: "W_um", Value: "1"},
	{Key: "L_um", Value: "0.15"},
	{Key: "Id_uA", Value: ""},
	{Key: "corner", Value: "tt"},
}

const rawData = "0.0 1.2e-6 3.4e-5\n0.1 1.3e-6 3.5e-5\n0.2 1.4e-6 3.6e-5\n"

func TestMaterializeWritesHeaderPlusRows(t *testing.T) {
	workDir := t.TempDir()
	rawPath := filepath.Join(workDir, "gmId_data.txt")
	finalPath := filepath.Join(t.TempDir(), "gmId", "gmId_data.txt")

	if err := os.WriteFile(rawPath, []byte(rawData), 0644); err != nil {
		t.Fatal(err)
	}

	outcome, err := Materialize(rawPath, finalPath, testFields)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if outcome != OutcomeWritten {
		t.Fatalf("Materialize() outcome = %v, want %v", outcome, OutcomeWritten)
	}

	data, err := os.ReadFile(finalPath)
	if err != nil {
		t.Fatalf("reading final file: %v", err)
	}
	content := string(data)

	// Header line count + data row count, rows byte-identical.
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	wantLines := len(testFields) + 3
	if len(lines) != wantLines {
		t.Errorf("final file has %d lines, want %d", len(lines), wantLines)
	}
	if !strings.HasSuffix(content, rawData) {
		t.Errorf("data rows not byte-identical to raw file:\n%s", content)
	}
	if !strings.Contains(content, "# device = sky130_fd_pr__nfet_01v8\n") {
		t.Errorf("header missing device line:\n%s", content)
	}
	if !strings.Contains(content, "# Id_uA = \n") {
		t.Errorf("blank metadata value not written as empty header line:\n%s", content)
	}

	// Raw file must be gone so it cannot leak into a later run.
	if _, err := os.Stat(rawPath); !os.IsNotExist(err) {
		t.Errorf("raw data file still present after materialization")
	}
}

func TestMaterializeSkipsWhenRawMissing(t *testing.T) {
	finalPath := filepath.Join(t.TempDir(), "gmId_data.txt")

	outcome, err := Materialize(filepath.Join(t.TempDir(), "absent.txt"), finalPath, testFields)
	if err != nil {
		t.Fatalf("Materialize() error = %v, want soft skip", err)
	}
	if outcome != OutcomeSkippedNoData {
		t.Errorf("Materialize() outcome = %v, want %v", outcome, OutcomeSkippedNoData)
	}
	if _, err := os.Stat(finalPath); !os.IsNotExist(err) {
		t.Errorf("final file created despite missing raw data")
	}
}

func TestMaterializeOverwritesPreviousRun(t *testing.T) {
	workDir := t.TempDir()
	rawPath := filepath.Join(workDir, "data.txt")
	finalPath := filepath.Join(t.TempDir(), "data.txt")

	for i := 0; i < 2; i++ {
		if err := os.WriteFile(rawPath, []byte(rawData), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Materialize(rawPath, finalPath, testFields); err != nil {
			t.Fatalf("Materialize() error = %v", err)
		}
	}

	data, err := os.ReadFile(finalPath)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "# source = "); n != 1 {
		t.Errorf("final file has %d header blocks after re-run, want 1", n)
	}
}

func TestOutcomeString(t *testing.T) {
	if got := OutcomeWritten.String(); got != "written" {
		t.Errorf("OutcomeWritten.String() = %q", got)
	}
	if got := OutcomeSkippedNoData.String(); got != "skipped-no-data" {
		t.Errorf("OutcomeSkippedNoData.String() = %q", got)
	}
}
