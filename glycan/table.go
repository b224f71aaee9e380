package glycan

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/guregu/null.v3"
)

var (
	ErrDuplicateStructure = errors.New("glycan: duplicate structure identity")
	ErrDuplicateSample    = errors.New("glycan: duplicate sample name")
	ErrNegativeAbundance  = errors.New("glycan: negative abundance")
	ErrNonFiniteAbundance = errors.New("glycan: abundance is not a finite number")
	ErrShape              = errors.New("glycan: abundance matrix does not match structures and samples")
	ErrMaxNA              = errors.New("glycan: missing-value threshold must be between 0 and 1")
)

// Table is the feature table: the annotated structures plus one abundance per
// (sample, structure). Abundance is indexed [sample][structure]; an invalid
// null.Float marks an abundance that was not measured.
//
// Per sample, present abundances are expected to sum to 1. Table does not
// enforce or restore that unless Normalize is called explicitly.
type Table struct {
	Structures []Structure
	Samples    []string
	Abundance  [][]null.Float
}

// NewTable allocates a table with every abundance missing.
func NewTable(structures []Structure, samples []string) *Table {
	t := &Table{
		Structures: structures,
		Samples:    samples,
		Abundance:  make([][]null.Float, len(samples)),
	}
	for i := range t.Abundance {
		t.Abundance[i] = make([]null.Float, len(structures))
	}
	return t
}

// Set records the abundance of structure j in sample i.
func (t *Table) Set(i, j int, abundance float64) {
	t.Abundance[i][j] = null.FloatFrom(abundance)
}

// Sample returns the abundances of every structure for sample i, in structure
// order. The slice is shared with the table and must not be modified.
func (t *Table) Sample(i int) []null.Float {
	return t.Abundance[i]
}

// SampleIndex returns the position of the named sample.
func (t *Table) SampleIndex(name string) (int, bool) {
	for i, s := range t.Samples {
		if s == name {
			return i, true
		}
	}
	return -1, false
}

// HasLinkage reports whether any structure carries linkage-resolved sialic
// acid counts.
func (t *Table) HasLinkage() bool {
	for _, s := range t.Structures {
		if s.L != 0 || s.E != 0 {
			return true
		}
	}
	return false
}

// Validate checks the shape of the matrix, uniqueness of structure and sample
// names, and that every present abundance is finite and not negative.
func (t *Table) Validate() error {
	if len(t.Abundance) != len(t.Samples) {
		return fmt.Errorf("%w: %d samples but %d abundance rows", ErrShape, len(t.Samples), len(t.Abundance))
	}

	seen := make(map[string]struct{}, len(t.Structures))
	for _, s := range t.Structures {
		if _, exists := seen[s.ID]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateStructure, s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(t.Samples))
	for i, name := range t.Samples {
		if _, exists := seen[name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateSample, name)
		}
		seen[name] = struct{}{}

		row := t.Abundance[i]
		if len(row) != len(t.Structures) {
			return fmt.Errorf("%w: sample %q has %d abundances for %d structures", ErrShape, name, len(row), len(t.Structures))
		}
		for j, a := range row {
			if a.Valid && (math.IsNaN(a.Float64) || math.IsInf(a.Float64, 0)) {
				return fmt.Errorf("%w: sample %q, structure %q: %g", ErrNonFiniteAbundance, name, t.Structures[j].ID, a.Float64)
			}
			if a.Valid && a.Float64 < 0 {
				return fmt.Errorf("%w: sample %q, structure %q: %g", ErrNegativeAbundance, name, t.Structures[j].ID, a.Float64)
			}
		}
	}

	return nil
}

// Normalize rescales the present abundances of each sample so they sum to 1.
// Samples whose present abundances sum to zero are left untouched.
func (t *Table) Normalize() {
	for _, row := range t.Abundance {
		var total float64
		for _, a := range row {
			if a.Valid {
				total += a.Float64
			}
		}
		if total == 0 {
			continue
		}
		for j, a := range row {
			if a.Valid {
				row[j] = null.FloatFrom(a.Float64 / total)
			}
		}
	}
}

// FilterStructures drops every structure whose abundance is missing in more
// than maxNA of the samples, and returns the identities it dropped. maxNA is a
// proportion: 0 keeps only fully measured structures, 1 keeps everything.
func (t *Table) FilterStructures(maxNA float64) ([]string, error) {
	if math.IsNaN(maxNA) || maxNA < 0 || maxNA > 1 {
		return nil, fmt.Errorf("%w: %g", ErrMaxNA, maxNA)
	}
	if len(t.Samples) == 0 {
		return nil, nil
	}

	keep := make([]int, 0, len(t.Structures))
	dropped := make([]string, 0)
	for j, s := range t.Structures {
		missing := 0
		for _, row := range t.Abundance {
			if !row[j].Valid {
				missing++
			}
		}
		if float64(missing)/float64(len(t.Samples)) > maxNA {
			dropped = append(dropped, s.ID)
			continue
		}
		keep = append(keep, j)
	}
	if len(dropped) == 0 {
		return dropped, nil
	}

	structures := make([]Structure, 0, len(keep))
	for _, j := range keep {
		structures = append(structures, t.Structures[j])
	}
	for i, row := range t.Abundance {
		kept := make([]null.Float, 0, len(keep))
		for _, j := range keep {
			kept = append(kept, row[j])
		}
		t.Abundance[i] = kept
	}
	t.Structures = structures

	return dropped, nil
}
