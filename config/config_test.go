package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseJSONConfigFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glytrait.json")
	body := `{"input": "features.csv", "output": "traits.xlsx", "sia_linkage": true, "workers": 3, "max_na": 0.2}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseJSONConfigFromPath(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Input != "features.csv" || cfg.Output != "traits.xlsx" || !cfg.SiaLinkage || cfg.Workers != 3 || cfg.MaxNA != 0.2 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Layout != "DEFAULT" {
		t.Errorf("layout should keep its default, got %q", cfg.Layout)
	}
	if cfg.ResolvedFormat() != FormatXLSX {
		t.Errorf("expected xlsx from the output extension, got %q", cfg.ResolvedFormat())
	}
	if err := cfg.Validate(); err != nil {
		t.Error(err)
	}
}

func TestParseJSONConfigRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glytrait.json")
	if err := os.WriteFile(path, []byte(`{"inputs": "features.csv"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseJSONConfigFromPath(path); err == nil {
		t.Error("expected an unknown field to be rejected")
	}

	if _, err := ParseJSONConfigFromPath(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected a missing file to be an error")
	}
}

func TestResolvedFormat(t *testing.T) {
	for _, v := range []struct {
		Format, Output, Expected string
	}{
		{"", "", FormatTSV},
		{"", "out.tsv", FormatTSV},
		{"", "out.CSV", FormatCSV},
		{"", "out.xlsx", FormatXLSX},
		{"CSV", "out.xlsx", FormatCSV},
	} {
		c := Config{Format: v.Format, Output: v.Output}
		if got := c.ResolvedFormat(); got != v.Expected {
			t.Errorf("format %q, output %q: got %q, expected %q", v.Format, v.Output, got, v.Expected)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Input = "features.csv"
	if err := valid.Validate(); err != nil {
		t.Fatal(err)
	}

	for _, v := range []struct {
		Name   string
		Modify func(*Config)
		Err    error
	}{
		{"no input", func(c *Config) { c.Input = "" }, ErrMissingInput},
		{"unknown format", func(c *Config) { c.Format = "parquet" }, ErrUnknownFormat},
		{"xlsx to stdout", func(c *Config) { c.Format = FormatXLSX }, ErrXLSXToStdout},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrWorkers},
		{"skip defaults", func(c *Config) { c.SkipDefaults = true }, ErrSkipDefaults},
		{"negative max_na", func(c *Config) { c.MaxNA = -0.5 }, ErrMaxNA},
		{"max_na above 1", func(c *Config) { c.MaxNA = 2 }, ErrMaxNA},
		{"unknown layout", func(c *Config) { c.Layout = "NOPE" }, nil},
	} {
		c := valid
		v.Modify(&c)
		err := c.Validate()
		if err == nil {
			t.Errorf("%s: expected an error", v.Name)
			continue
		}
		if v.Err != nil && !errors.Is(err, v.Err) {
			t.Errorf("%s: expected %v, got %v", v.Name, v.Err, err)
		}
	}
}
