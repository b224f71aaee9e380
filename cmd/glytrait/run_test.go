package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/glytrait/config"
	"github.com/carbocation/glytrait/tableio"
	"github.com/xuri/excelize/v2"
)

const features = `Structure,nN,nF,nG,nS,nL,nE,s1,s2,s3
H3N4,2,0,0,0,0,0,0.2,0.1,NA
H5N4F1S1,2,1,2,1,0,1,0.3,0.4,0.5
H6N5S3,3,0,3,3,1,2,0.5,0.5,0.5
`

func writeFeatures(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "features.csv")
	if err := os.WriteFile(path, []byte(features), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunTSV(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeFeatures(t)
	cfg.Output = filepath.Join(t.TempDir(), "traits.tsv")
	cfg.Workers = 2

	if err := run(cfg); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected a header and 3 samples, got %d lines", len(lines))
	}

	header := strings.Split(lines[0], "\t")
	if header[0] != "sample" || header[1] != "Hb" {
		t.Errorf("unexpected header %v", header[:2])
	}
	for _, name := range header {
		if name == "SL" {
			t.Error("linkage traits should be excluded unless requested")
		}
	}

	// No structure has more than four antennae.
	if s1 := strings.Split(lines[1], "\t"); s1[0] != "s1" || s1[1] != "0" {
		t.Errorf("unexpected first row %v", s1[:2])
	}
}

func TestRunFilteredCSVWithLinkage(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeFeatures(t)
	cfg.Output = filepath.Join(t.TempDir(), "traits.csv")
	cfg.SiaLinkage = true
	cfg.Normalize = true
	cfg.FilterInvalid = true

	if err := run(cfg); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	header := strings.Split(strings.SplitN(string(out), "\n", 2)[0], ",")

	kept := make(map[string]bool)
	for _, name := range header[1:] {
		kept[name] = true
	}
	if kept["Hb"] {
		t.Error("Hb is zero in every sample and should have been filtered")
	}
	if !kept["S"] || !kept["SL"] {
		t.Errorf("expected S and SL to be kept, got %v", header)
	}
}

func TestRunXLSX(t *testing.T) {
	cfg := config.Default()
	cfg.Input = writeFeatures(t)
	cfg.Output = filepath.Join(t.TempDir(), "traits.xlsx")
	cfg.MaxNA = 0.2

	if err := run(cfg); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if n := len(f.GetSheetList()); n != 5 {
		t.Errorf("expected 5 sheets, got %d", n)
	}

	// H3N4 is missing in one of three samples.
	structures, err := f.GetRows(tableio.SheetStructures)
	if err != nil {
		t.Fatal(err)
	}
	if len(structures) != 3 || structures[1][0] != "H5N4F1S1" {
		t.Errorf("expected H3N4 to be dropped, got %v", structures)
	}

	rows, err := f.GetRows(tableio.SheetSummary)
	if err != nil {
		t.Fatal(err)
	}
	summary := make(map[string]string)
	for _, row := range rows[1:] {
		if len(row) > 1 {
			summary[row[0]] = row[1]
		}
	}
	for key, expected := range map[string]string{
		"Max NA":     "0.2",
		"Samples":    "3",
		"Structures": "2",
		"Normalize":  "false",
	} {
		if summary[key] != expected {
			t.Errorf("summary %q: got %q, expected %q", key, summary[key], expected)
		}
	}
	if summary["Version"] == "" {
		t.Error("summary should carry a version")
	}
}

func TestRunMaxNADropsEverything(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")
	body := "Structure,nN,nF,nG,nS,s1,s2\nA,2,0,0,0,0.5,NA\nB,4,0,0,0,NA,0.5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Input = path
	cfg.Output = filepath.Join(t.TempDir(), "traits.tsv")
	cfg.MaxNA = 0

	if err := run(cfg); err == nil {
		t.Error("expected an error when every structure is dropped")
	}
}

func TestRunRejectsBadFormulaFile(t *testing.T) {
	formulas := filepath.Join(t.TempDir(), "formulas.txt")
	if err := os.WriteFile(formulas, []byte("Bad = [nQ > 0] / [1]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Input = writeFeatures(t)
	cfg.Output = filepath.Join(t.TempDir(), "traits.tsv")
	cfg.FormulaFile = formulas

	if err := run(cfg); err == nil {
		t.Fatal("expected an unknown feature to abort the run")
	}
	if _, err := os.Stat(cfg.Output); !os.IsNotExist(err) {
		t.Error("no output should be written when formulas fail to load")
	}
}
