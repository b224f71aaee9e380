package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/carbocation/glytrait/compileinfo"
	"github.com/carbocation/glytrait/config"
	"github.com/carbocation/glytrait/formula"
	"github.com/carbocation/glytrait/glycan"
	"github.com/carbocation/glytrait/tableio"
	"github.com/carbocation/glytrait/trait"
)

func run(cfg config.Config) error {
	formulas, err := formula.Load(formula.Options{
		UserFile:          cfg.FormulaFile,
		SkipDefaults:      cfg.SkipDefaults,
		IncludeSiaLinkage: cfg.SiaLinkage,
	})
	if err != nil {
		return fmt.Errorf("LoadFormulasErr: %w", err)
	}
	log.Println("Loaded", len(formulas), "trait formulas")

	layout, err := tableio.LookupLayout(cfg.Layout)
	if err != nil {
		return err
	}

	table, err := tableio.ReadFeatureTable(cfg.Input, tableio.ReadOptions{
		Layout:         layout,
		RequireLinkage: cfg.SiaLinkage,
	})
	if err != nil {
		return fmt.Errorf("ReadFeatureTableErr: %w", err)
	}

	if cfg.MaxNA < 1 {
		dropped, err := table.FilterStructures(cfg.MaxNA)
		if err != nil {
			return err
		}
		for _, id := range dropped {
			log.Printf("Dropping structure %s, which is missing in more than %g of samples\n", id, cfg.MaxNA)
		}
		if len(table.Structures) == 0 {
			return fmt.Errorf("no structures remain after dropping those missing in more than %g of samples", cfg.MaxNA)
		}
	}

	if cfg.Normalize {
		log.Println("Normalizing abundances within each sample")
		table.Normalize()
	}

	traits, err := trait.Engine{Workers: cfg.Workers}.Compute(formulas, table)
	if err != nil {
		return fmt.Errorf("ComputeTraitsErr: %w", err)
	}
	log.Printf("Computed %d traits for %d samples (%d undefined values)\n", len(traits.Formulas), len(traits.Samples), traits.Undefined())

	if cfg.FilterInvalid {
		var dropped []string
		traits, dropped = trait.FilterInvalid(traits)
		for _, name := range dropped {
			log.Println("Dropping trait", name, "which is undefined or constant across samples")
		}
	}

	return write(cfg, traits, table)
}

func write(cfg config.Config, traits *trait.Table, input *glycan.Table) error {
	format := cfg.ResolvedFormat()

	if format == config.FormatXLSX {
		if err := tableio.WriteWorkbook(cfg.Output, traits, input, summarize(cfg, traits, input)); err != nil {
			return err
		}
		log.Printf("Output written to %s\n", cfg.Output)
		return nil
	}

	var w io.Writer = STDOUT
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		w = f
	}

	writeTable := tableio.WriteTSV
	if format == config.FormatCSV {
		writeTable = tableio.WriteCSV
	}
	if err := writeTable(w, traits); err != nil {
		if f, ok := w.(*os.File); ok {
			f.Close()
		}
		return err
	}

	if f, ok := w.(*os.File); ok {
		if err := f.Close(); err != nil {
			return err
		}
		log.Printf("Output written to %s\n", cfg.Output)
	}
	return nil
}

// summarize describes the build and the options of a run for the workbook's
// Summary sheet.
func summarize(cfg config.Config, traits *trait.Table, input *glycan.Table) []tableio.SummaryEntry {
	info := compileinfo.Get()
	version := info.Version
	if version == "" {
		version = "(devel)"
	}

	out := []tableio.SummaryEntry{
		{Key: "Version", Value: version},
		{Key: "Commit", Value: info.Commit},
		{Key: "Go version", Value: info.GoVersion},
		{Key: "Input", Value: cfg.Input},
		{Key: "Layout", Value: cfg.Layout},
		{Key: "Formula file", Value: cfg.FormulaFile},
		{Key: "Skip defaults", Value: strconv.FormatBool(cfg.SkipDefaults)},
		{Key: "Sialic acid linkage", Value: strconv.FormatBool(cfg.SiaLinkage)},
		{Key: "Normalize", Value: strconv.FormatBool(cfg.Normalize)},
		{Key: "Filter invalid", Value: strconv.FormatBool(cfg.FilterInvalid)},
		{Key: "Max NA", Value: strconv.FormatFloat(cfg.MaxNA, 'g', -1, 64)},
		{Key: "Traits", Value: strconv.Itoa(len(traits.Formulas))},
		{Key: "Samples", Value: strconv.Itoa(len(traits.Samples))},
	}
	if input != nil {
		out = append(out, tableio.SummaryEntry{Key: "Structures", Value: strconv.Itoa(len(input.Structures))})
	}

	return out
}
