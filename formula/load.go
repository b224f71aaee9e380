package formula

import (
	"bytes"
	"embed"
	"fmt"
	"io"

	"github.com/carbocation/glytrait"
	"github.com/carbocation/pfx"
)

//go:embed builtin/*
var builtinFiles embed.FS

const builtinPath = "builtin/structure.txt"

// Options selects which formulas Load returns.
type Options struct {
	// UserFile, if set, is a formula file parsed with the same grammar and
	// appended after the built-in set. It may be compressed.
	UserFile string

	// SkipDefaults loads only UserFile.
	SkipDefaults bool

	// IncludeSiaLinkage keeps formulas that reference nL or nE.
	IncludeSiaLinkage bool
}

// Default parses the built-in formula set.
func Default() ([]Formula, error) {
	src, err := builtinFiles.ReadFile(builtinPath)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return Parse(bytes.NewReader(src), "builtin")
}

// WriteDefault copies the built-in formula source to w, as a starting point
// for a user formula file.
func WriteDefault(w io.Writer) error {
	src, err := builtinFiles.ReadFile(builtinPath)
	if err != nil {
		return pfx.Err(err)
	}

	_, err = w.Write(src)
	return pfx.Err(err)
}

// LoadFile parses the formula file at path.
func LoadFile(path string) ([]Formula, error) {
	rdr, err := glytrait.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()

	return Parse(rdr, path)
}

// Load assembles the formula set described by opts. Any error in either the
// built-in or the user source aborts the whole load.
func Load(opts Options) ([]Formula, error) {
	var formulas []Formula

	if !opts.SkipDefaults {
		defaults, err := Default()
		if err != nil {
			return nil, err
		}
		formulas = defaults
	}

	if opts.UserFile != "" {
		user, err := LoadFile(opts.UserFile)
		if err != nil {
			return nil, err
		}

		formulas, err = Merge(formulas, user, opts.UserFile)
		if err != nil {
			return nil, err
		}
	} else if opts.SkipDefaults {
		return nil, fmt.Errorf("formula: SkipDefaults requires a UserFile")
	}

	if !opts.IncludeSiaLinkage {
		formulas = WithoutSiaLinkage(formulas)
	}

	return formulas, nil
}

// Merge appends extra to base. A formula in extra whose name already exists
// in base is a *ParseError attributed to source.
func Merge(base, extra []Formula, source string) ([]Formula, error) {
	names := make(map[string]struct{}, len(base))
	for _, f := range base {
		names[f.Name] = struct{}{}
	}

	out := make([]Formula, 0, len(base)+len(extra))
	out = append(out, base...)
	for _, f := range extra {
		if _, exists := names[f.Name]; exists {
			return nil, &ParseError{
				Source: source,
				Line:   f.Line,
				Token:  f.Name,
				Err:    fmt.Errorf("%w: already defined by the built-in set", ErrDuplicateName),
			}
		}
		names[f.Name] = struct{}{}
		out = append(out, f)
	}

	return out, nil
}

// WithoutSiaLinkage drops formulas that reference linkage-specific sialic
// acid counts.
func WithoutSiaLinkage(formulas []Formula) []Formula {
	out := make([]Formula, 0, len(formulas))
	for _, f := range formulas {
		if !f.SiaLinkage() {
			out = append(out, f)
		}
	}
	return out
}
