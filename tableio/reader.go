package tableio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/glytrait"
	"github.com/carbocation/glytrait/glycan"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

var (
	ErrNoIdentity      = errors.New("tableio: no structure identity column")
	ErrMissingFeature  = errors.New("tableio: required feature column is missing")
	ErrMissingLinkage  = errors.New("tableio: sialic acid linkage columns are missing")
	ErrNoSamples       = errors.New("tableio: no sample columns")
	ErrNoStructures    = errors.New("tableio: no structure rows")
	ErrBadAbundance    = errors.New("tableio: abundance is not a number")
	ErrUnsupportedFile = errors.New("tableio: unsupported file type")
)

// missingMarkers are abundance cells treated as "not measured".
var missingMarkers = map[string]struct{}{
	"":    {},
	"NA":  {},
	"N/A": {},
	"NaN": {},
	"nan": {},
	"-":   {},
}

// ReadOptions controls ReadFeatureTable.
type ReadOptions struct {
	Layout Layout

	// RequireLinkage makes missing nL/nE columns an error instead of
	// defaulting those counts to zero.
	RequireLinkage bool
}

// structureRow is one row of the feature columns after the header has been
// rewritten to canonical names.
type structureRow struct {
	ID string `csv:"Structure"`
	N  int    `csv:"nN"`
	F  int    `csv:"nF"`
	G  int    `csv:"nG"`
	S  int    `csv:"nS"`
	L  int    `csv:"nL"`
	E  int    `csv:"nE"`
}

// ReadFeatureTable loads a feature table from a CSV, TSV, XLS or XLSX file.
// Text files may be compressed. Rows are structures; besides the identity and
// feature columns, every column is a sample holding relative abundances.
func ReadFeatureTable(path string, opts ReadOptions) (*glycan.Table, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		rows, err = readXLSRows(glytrait.ExpandHome(path))
	case ".xlsx":
		rows, err = readXLSXRows(glytrait.ExpandHome(path))
	case ".ods", ".xlsb", ".xlsm", ".numbers":
		return nil, fmt.Errorf("%w: %s; export the sheet as CSV, TSV or XLSX", ErrUnsupportedFile, path)
	default:
		rows, err = readDelimitedRows(path)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("Read %d rows from %s\n", len(rows), path)

	return BuildFeatureTable(rows, opts)
}

func readDelimitedRows(path string) ([][]string, error) {
	rdr, err := glytrait.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()

	fileBytes, err := io.ReadAll(rdr)
	if err != nil {
		return nil, pfx.Err(err)
	}

	fallback := ','
	if strings.Contains(strings.ToLower(path), ".tsv") || strings.Contains(strings.ToLower(path), ".txt") {
		fallback = '\t'
	}
	sample := fileBytes
	if len(sample) > 64*1024 {
		sample = sample[:64*1024]
	}

	reader := csv.NewReader(bytes.NewReader(fileBytes))
	reader.Comma = glytrait.DetermineDelimiter(sample, fallback)
	reader.Comment = '#'
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}

// BuildFeatureTable converts raw rows, header first, into a feature table.
func BuildFeatureTable(rows [][]string, opts ReadOptions) (*glycan.Table, error) {
	layout := opts.Layout
	if layout.Columns == nil {
		layout = Layouts["DEFAULT"]
	}

	if len(rows) < 1 {
		return nil, ErrNoStructures
	}
	header := rows[0]

	// Choose the identity column by the layout's order of preference.
	identityCol := -1
	for _, name := range layout.Identity {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				identityCol = i
				break
			}
		}
		if identityCol >= 0 {
			break
		}
	}
	if identityCol < 0 {
		return nil, fmt.Errorf("%w: expected one of %s", ErrNoIdentity, strings.Join(layout.Identity, ", "))
	}

	// The identity and feature columns are handed to gocsv under canonical
	// names; everything else is a sample.
	canonical := []string{"Structure"}
	featureCols := []int{identityCol}
	present := make(map[glycan.Feature]bool)
	sampleCols := make([]int, 0)
	samples := make([]string, 0)
	for i, h := range header {
		if i == identityCol {
			continue
		}

		isIdentity, feature := layout.column(h)
		switch {
		case strings.TrimSpace(h) == "":
			// Unnamed columns, such as the one a trailing delimiter leaves,
			// are ignored.
		case feature.Valid():
			if present[feature] {
				return nil, fmt.Errorf("tableio: column %q appears more than once", h)
			}
			canonical = append(canonical, feature.String())
			featureCols = append(featureCols, i)
			present[feature] = true
		case isIdentity:
			// An additional identity-like column (e.g. a glycoCT string next
			// to the composition) is neither a feature nor a sample.
		default:
			sampleCols = append(sampleCols, i)
			samples = append(samples, strings.TrimSpace(h))
		}
	}

	for _, f := range []glycan.Feature{glycan.Branches, glycan.Fucose, glycan.Galactose, glycan.Sialic} {
		if !present[f] {
			return nil, fmt.Errorf("%w: %s (%s)", ErrMissingFeature, layout.Columns[f], f)
		}
	}
	if !present[glycan.SialicA23] || !present[glycan.SialicA26] {
		if opts.RequireLinkage {
			return nil, fmt.Errorf("%w: expected %s and %s", ErrMissingLinkage, layout.Columns[glycan.SialicA23], layout.Columns[glycan.SialicA26])
		}
		log.Println("No sialic acid linkage columns found; nL and nE default to 0")
	}

	if len(sampleCols) == 0 {
		return nil, ErrNoSamples
	}

	body := dropBlankRows(rows[1:])
	if len(body) == 0 {
		return nil, ErrNoStructures
	}

	projected := make([][]string, 0, len(body)+1)
	projected = append(projected, canonical)
	for _, row := range body {
		projected = append(projected, project(row, featureCols))
	}

	records := []*structureRow{}
	if err := gocsv.UnmarshalCSV(&rowsReader{rows: projected}, &records); err != nil {
		return nil, fmt.Errorf("DecodeFeaturesErr: %w", err)
	}

	structures := make([]glycan.Structure, 0, len(records))
	for _, rec := range records {
		structures = append(structures, glycan.Structure{
			ID: strings.TrimSpace(rec.ID),
			N:  rec.N,
			F:  rec.F,
			G:  rec.G,
			S:  rec.S,
			L:  rec.L,
			E:  rec.E,
		})
	}

	table := glycan.NewTable(structures, samples)
	for j, row := range body {
		for i, col := range sampleCols {
			cell := ""
			if col < len(row) {
				cell = strings.TrimSpace(row[col])
			}
			if _, missing := missingMarkers[cell]; missing {
				continue
			}

			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: structure %q, sample %q: %q", ErrBadAbundance, structures[j].ID, samples[i], cell)
			}
			table.Set(i, j, v)
		}
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}

	log.Printf("Loaded %d structures across %d samples\n", len(structures), len(samples))

	return table, nil
}

// dropBlankRows removes rows whose cells are all empty, which spreadsheets
// tend to leave behind.
func dropBlankRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// project picks cols out of row, reading past the end of a jagged row as
// empty cells.
func project(row []string, cols []int) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		if c < len(row) {
			out[i] = row[c]
		}
	}
	return out
}

// rowsReader replays already-read rows to gocsv.
type rowsReader struct {
	rows [][]string
	pos  int
}

func (r *rowsReader) Read() ([]string, error) {
	if r.pos >= len(r.rows) {
		return nil, io.EOF
	}
	row := r.rows[r.pos]
	r.pos++
	return row, nil
}

func (r *rowsReader) ReadAll() ([][]string, error) {
	out := r.rows[r.pos:]
	r.pos = len(r.rows)
	return out, nil
}
