package tableio

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"gopkg.in/guregu/null.v3"

	"github.com/carbocation/glytrait/formula"
	"github.com/carbocation/glytrait/glycan"
	"github.com/carbocation/glytrait/trait"
)

func testTraits(t *testing.T) *trait.Table {
	t.Helper()

	hb, err := formula.ParseLine("Hb = [nN > 4] / [1]")
	if err != nil {
		t.Fatal(err)
	}
	hb.Description = "Proportion of high-branching glycans"
	fs, err := formula.ParseLine("FS = [nS > 0] // [nF > 0]")
	if err != nil {
		t.Fatal(err)
	}

	return &trait.Table{
		Formulas: []formula.Formula{hb, fs},
		Samples:  []string{"s1", "s2"},
		Values: [][]null.Float{
			{null.FloatFrom(0.5), null.FloatFrom(0.00001)},
			{{}, null.FloatFrom(0.25)},
		},
	}
}

func TestWriteDelimited(t *testing.T) {
	for _, v := range []struct {
		Name     string
		Write    func(*bytes.Buffer, *trait.Table) error
		Expected string
	}{
		{"tsv", func(b *bytes.Buffer, tab *trait.Table) error { return WriteTSV(b, tab) }, "sample\tHb\tFS\ns1\t0.5\tNA\ns2\t1e-05\t0.25\n"},
		{"csv", func(b *bytes.Buffer, tab *trait.Table) error { return WriteCSV(b, tab) }, "sample,Hb,FS\ns1,0.5,NA\ns2,1e-05,0.25\n"},
	} {
		var buf bytes.Buffer
		if err := v.Write(&buf, testTraits(t)); err != nil {
			t.Fatal(err)
		}
		if got := buf.String(); got != v.Expected {
			t.Errorf("%s: got %q, expected %q", v.Name, got, v.Expected)
		}
	}
}

func TestNullFloatFormatter(t *testing.T) {
	for _, v := range []struct {
		In       null.Float
		Expected string
	}{
		{null.Float{}, "NA"},
		{null.FloatFrom(0), "0"},
		{null.FloatFrom(1), "1"},
		{null.FloatFrom(1.0 / 3), "0.3333333333333333"},
	} {
		if got := NullFloatFormatter(v.In); got != v.Expected {
			t.Errorf("%v: got %q, expected %q", v.In, got, v.Expected)
		}
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traits.xlsx")

	input := glycan.NewTable([]glycan.Structure{{ID: "A", N: 5, F: 1}}, []string{"s1", "s2"})
	input.Set(0, 0, 1)

	summary := []SummaryEntry{{Key: "Version", Value: "v1.0.0"}, {Key: "Normalize", Value: "true"}}
	if err := WriteWorkbook(path, testTraits(t), input, summary); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	expectedSheets := []string{SheetTraitValues, SheetTraitDefinitions, SheetStructures, SheetAbundances, SheetSummary}
	if len(sheets) != len(expectedSheets) {
		t.Fatalf("got sheets %v, expected %v", sheets, expectedSheets)
	}
	for i := range sheets {
		if sheets[i] != expectedSheets[i] {
			t.Errorf("sheet %d: got %q, expected %q", i, sheets[i], expectedSheets[i])
		}
	}

	for _, v := range []struct {
		Sheet, Cell, Expected string
	}{
		{SheetTraitValues, "A1", "sample"},
		{SheetTraitValues, "B1", "Hb"},
		{SheetTraitValues, "A2", "s1"},
		{SheetTraitValues, "B2", "0.5"},
		{SheetTraitValues, "C2", ""},
		{SheetTraitValues, "C3", "0.25"},
		{SheetTraitDefinitions, "A2", "Hb"},
		{SheetTraitDefinitions, "B2", "Hb = [nN > 4] / [1]"},
		{SheetTraitDefinitions, "C2", "Proportion of high-branching glycans"},
		{SheetTraitDefinitions, "B3", "FS = [nS > 0] // [nF > 0]"},
		{SheetStructures, "B1", "nN"},
		{SheetStructures, "B2", "5"},
		{SheetStructures, "C2", "1"},
		{SheetAbundances, "B2", "1"},
		{SheetAbundances, "C2", ""},
		{SheetSummary, "A1", "Key"},
		{SheetSummary, "A2", "Version"},
		{SheetSummary, "B2", "v1.0.0"},
		{SheetSummary, "B3", "true"},
	} {
		got, err := f.GetCellValue(v.Sheet, v.Cell)
		if err != nil {
			t.Fatal(err)
		}
		if got != v.Expected {
			t.Errorf("%s!%s: got %q, expected %q", v.Sheet, v.Cell, got, v.Expected)
		}
	}
}

func TestWriteWorkbookWithoutInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traits.xlsx")
	if err := WriteWorkbook(path, testTraits(t), nil, nil); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if n := len(f.GetSheetList()); n != 2 {
		t.Errorf("expected 2 sheets, got %d", n)
	}
}
