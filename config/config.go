// Package config holds the run configuration of the glytrait command, which
// may come from a JSON file, from flags, or both.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/glytrait"
	"github.com/carbocation/glytrait/tableio"
	"github.com/carbocation/pfx"
)

const (
	FormatTSV  = "tsv"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var (
	ErrMissingInput  = errors.New("config: an input feature table is required")
	ErrUnknownFormat = errors.New("config: unknown output format")
	ErrXLSXToStdout  = errors.New("config: xlsx output needs an output path")
	ErrWorkers       = errors.New("config: workers must not be negative")
	ErrSkipDefaults  = errors.New("config: skip_defaults requires formula_file")
	ErrMaxNA         = errors.New("config: max_na must be between 0 and 1")
)

type Config struct {
	ConfigPath    string `json:"-"`
	Input         string `json:"input"`
	Output        string `json:"output"`
	Format        string `json:"format"`
	FormulaFile   string `json:"formula_file"`
	SkipDefaults  bool   `json:"skip_defaults"`
	SiaLinkage    bool   `json:"sia_linkage"`
	Normalize     bool   `json:"normalize"`
	FilterInvalid bool   `json:"filter_invalid"`
	Layout        string `json:"layout"`
	Workers       int    `json:"workers"`

	// MaxNA drops structures whose abundance is missing in more than this
	// proportion of samples. 1 keeps every structure.
	MaxNA float64 `json:"max_na"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Layout: "DEFAULT",
		MaxNA:  1,
	}
}

// ParseJSONConfigFromPath reads a JSON configuration file. Fields absent from
// the file keep their Default values.
func ParseJSONConfigFromPath(path string) (Config, error) {
	out := Default()
	out.ConfigPath = glytrait.ExpandHome(path)

	f, err := os.Open(out.ConfigPath)
	if err != nil {
		return out, pfx.Err(err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return out, pfx.Err(err)
	}

	out.ExpandPaths()

	return out, nil
}

// ExpandPaths interprets ~ in every path field.
func (c *Config) ExpandPaths() {
	c.Input = glytrait.ExpandHome(c.Input)
	c.Output = glytrait.ExpandHome(c.Output)
	c.FormulaFile = glytrait.ExpandHome(c.FormulaFile)
}

// ResolvedFormat is Format, or the format implied by the output extension, or
// tsv.
func (c Config) ResolvedFormat() string {
	if c.Format != "" {
		return strings.ToLower(c.Format)
	}

	switch strings.ToLower(filepath.Ext(c.Output)) {
	case ".xlsx":
		return FormatXLSX
	case ".csv":
		return FormatCSV
	}
	return FormatTSV
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	if c.Input == "" {
		return ErrMissingInput
	}

	switch c.ResolvedFormat() {
	case FormatTSV, FormatCSV:
	case FormatXLSX:
		if c.Output == "" {
			return ErrXLSXToStdout
		}
	default:
		return fmt.Errorf("%w: %q (valid: %s, %s, %s)", ErrUnknownFormat, c.Format, FormatTSV, FormatCSV, FormatXLSX)
	}

	if _, err := tableio.LookupLayout(c.Layout); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.Workers < 0 {
		return ErrWorkers
	}

	if math.IsNaN(c.MaxNA) || c.MaxNA < 0 || c.MaxNA > 1 {
		return fmt.Errorf("%w: %g", ErrMaxNA, c.MaxNA)
	}

	if c.SkipDefaults && c.FormulaFile == "" {
		return ErrSkipDefaults
	}

	return nil
}
