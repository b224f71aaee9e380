package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/glytrait"
	_ "github.com/carbocation/glytrait/compileinfoprint"
	"github.com/carbocation/glytrait/config"
	"github.com/carbocation/glytrait/formula"
	"github.com/carbocation/glytrait/tableio"
)

var (
	BufferSize = 4096
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

func main() {
	defer STDOUT.Flush()

	var configPath, writeFormulas string
	cfg := config.Default()

	flag.StringVar(&configPath, "config", "", "Optional: path to a JSON config file. Flags that are given explicitly override its values.")
	flag.StringVar(&cfg.Input, "input", "", "Feature table (.csv/.tsv/.txt, optionally compressed, or .xls/.xlsx): a structure column, the feature columns, and one abundance column per sample")
	flag.StringVar(&cfg.Output, "output", "", "Optional: output path. If empty, a TSV is written to stdout.")
	flag.StringVar(&cfg.Format, "format", "", fmt.Sprintf("Optional: output format (%s, %s, %s). Inferred from --output when empty.", config.FormatTSV, config.FormatCSV, config.FormatXLSX))
	flag.StringVar(&cfg.FormulaFile, "formula-file", "", "Optional: file of additional trait formulas, same grammar as the built-in set")
	flag.BoolVar(&cfg.SkipDefaults, "skip-defaults", false, "Compute only the formulas in --formula-file")
	flag.BoolVar(&cfg.SiaLinkage, "sia-linkage", false, "Include traits that depend on alpha-2,3 / alpha-2,6 sialic acid linkage (nL, nE)")
	flag.BoolVar(&cfg.Normalize, "normalize", false, "Rescale each sample's abundances to sum to 1 before computing traits")
	flag.BoolVar(&cfg.FilterInvalid, "filter-invalid", false, "Drop traits that are undefined or constant in every sample")
	flag.StringVar(&cfg.Layout, "layout", cfg.Layout, fmt.Sprint("Column naming of the feature table. Options include: ", tableio.LayoutNames()))
	flag.IntVar(&cfg.Workers, "workers", 0, "Samples to evaluate concurrently. 0 uses every CPU.")
	flag.Float64Var(&cfg.MaxNA, "max-na", cfg.MaxNA, "Drop structures whose abundance is missing in more than this proportion of samples (0-1). 1 keeps every structure.")
	flag.StringVar(&writeFormulas, "write-formulas", "", "Write the built-in formula file to this path (a template for --formula-file) and exit")
	flag.Parse()

	if writeFormulas != "" {
		if err := saveBuiltinFormulas(glytrait.ExpandHome(writeFormulas)); err != nil {
			log.Fatalln(err)
		}
		log.Printf("Built-in formulas written to %s\n", writeFormulas)
		return
	}

	if configPath != "" {
		fileCfg, err := config.ParseJSONConfigFromPath(configPath)
		if err != nil {
			log.Fatalln(err)
		}
		cfg = overrideWithFlags(fileCfg, cfg)
	}
	cfg.ExpandPaths()

	if err := cfg.Validate(); err != nil {
		flag.PrintDefaults()
		log.Fatalln(err)
	}

	if err := run(cfg); err != nil {
		log.Fatalln(err)
	}
}

// overrideWithFlags copies every explicitly set flag from flagCfg onto base.
func overrideWithFlags(base, flagCfg config.Config) config.Config {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			base.Input = flagCfg.Input
		case "output":
			base.Output = flagCfg.Output
		case "format":
			base.Format = flagCfg.Format
		case "formula-file":
			base.FormulaFile = flagCfg.FormulaFile
		case "skip-defaults":
			base.SkipDefaults = flagCfg.SkipDefaults
		case "sia-linkage":
			base.SiaLinkage = flagCfg.SiaLinkage
		case "normalize":
			base.Normalize = flagCfg.Normalize
		case "filter-invalid":
			base.FilterInvalid = flagCfg.FilterInvalid
		case "layout":
			base.Layout = flagCfg.Layout
		case "workers":
			base.Workers = flagCfg.Workers
		case "max-na":
			base.MaxNA = flagCfg.MaxNA
		}
	})

	return base
}

func saveBuiltinFormulas(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := formula.WriteDefault(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
