package tableio

import (
	"fmt"

	"github.com/carbocation/glytrait/glycan"
	"github.com/carbocation/glytrait/trait"
	"github.com/carbocation/pfx"
	"github.com/xuri/excelize/v2"
)

const (
	SheetTraitValues      = "Trait values"
	SheetTraitDefinitions = "Trait definitions"
	SheetStructures       = "Structures"
	SheetAbundances       = "Abundances"
	SheetSummary          = "Summary"
)

// SummaryEntry is one row of the Summary sheet.
type SummaryEntry struct {
	Key   string
	Value string
}

// WriteWorkbook saves an .xlsx workbook at path with the trait values, the
// trait definitions and, when input is non-nil, the structures and abundances
// the traits were derived from. Undefined trait values are left blank. A
// non-empty summary is written last, as a two-column sheet describing the run.
func WriteWorkbook(path string, t *trait.Table, input *glycan.Table, summary []SummaryEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return pfx.Err(err)
	}

	if err := f.SetSheetName("Sheet1", SheetTraitValues); err != nil {
		return pfx.Err(err)
	}

	rows := make([][]interface{}, 0, len(t.Samples)+1)
	rows = append(rows, stringsRow("sample", t.Names()))
	for s, sample := range t.Samples {
		row := make([]interface{}, 0, len(t.Formulas)+1)
		row = append(row, sample)
		for i := range t.Formulas {
			if v := t.Values[i][s]; v.Valid {
				row = append(row, v.Float64)
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}
	if err := writeSheet(f, SheetTraitValues, rows, bold); err != nil {
		return err
	}

	rows = [][]interface{}{{"Trait", "Formula", "Description"}}
	for _, fm := range t.Formulas {
		rows = append(rows, []interface{}{fm.Name, fm.String(), fm.Description})
	}
	if err := writeSheet(f, SheetTraitDefinitions, rows, bold); err != nil {
		return err
	}

	if input != nil {
		rows = [][]interface{}{stringsRow("Structure", featureHeader())}
		for _, s := range input.Structures {
			row := []interface{}{s.ID}
			for _, feat := range glycan.Features() {
				row = append(row, s.Count(feat))
			}
			rows = append(rows, row)
		}
		if err := writeSheet(f, SheetStructures, rows, bold); err != nil {
			return err
		}

		rows = [][]interface{}{stringsRow("Structure", input.Samples)}
		for j, s := range input.Structures {
			row := []interface{}{s.ID}
			for i := range input.Samples {
				if a := input.Abundance[i][j]; a.Valid {
					row = append(row, a.Float64)
				} else {
					row = append(row, nil)
				}
			}
			rows = append(rows, row)
		}
		if err := writeSheet(f, SheetAbundances, rows, bold); err != nil {
			return err
		}
	}

	if len(summary) > 0 {
		rows = [][]interface{}{{"Key", "Value"}}
		for _, e := range summary {
			rows = append(rows, []interface{}{e.Key, e.Value})
		}
		if err := writeSheet(f, SheetSummary, rows, bold); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("SaveWorkbookErr: %w", err)
	}

	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	if idx, err := f.GetSheetIndex(sheet); err != nil {
		return pfx.Err(err)
	} else if idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return pfx.Err(err)
		}
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return pfx.Err(err)
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return pfx.Err(err)
		}
	}

	if len(rows) > 0 {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return pfx.Err(err)
		}
	}

	return nil
}

func stringsRow(first string, rest []string) []interface{} {
	out := make([]interface{}, 0, len(rest)+1)
	out = append(out, first)
	for _, s := range rest {
		out = append(out, s)
	}
	return out
}

func featureHeader() []string {
	out := make([]string, 0, 6)
	for _, f := range glycan.Features() {
		out = append(out, f.String())
	}
	return out
}
