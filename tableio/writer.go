package tableio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/glytrait/trait"
	"gopkg.in/guregu/null.v3"
)

// Undefined is written in place of an undefined trait value in delimited
// output.
const Undefined = "NA"

// NullFloatFormatter renders a trait value, writing Undefined for undefined
// cells. Values are written with the shortest representation that reads back
// to the same float64.
func NullFloatFormatter(n null.Float) string {
	if !n.Valid {
		return Undefined
	}

	return strconv.FormatFloat(n.Float64, 'g', -1, 64)
}

// WriteDelimited writes t with one row per sample and one column per trait.
func WriteDelimited(w io.Writer, t *trait.Table, comma rune) error {
	buf := bufio.NewWriter(w)
	cw := csv.NewWriter(buf)
	cw.Comma = comma

	header := append([]string{"sample"}, t.Names()...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("WriteHeaderErr: %w", err)
	}

	row := make([]string, len(header))
	for s, sample := range t.Samples {
		row[0] = sample
		for i := range t.Formulas {
			row[i+1] = NullFloatFormatter(t.Values[i][s])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("WriteRowErr: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	return buf.Flush()
}

// WriteTSV writes t tab-delimited.
func WriteTSV(w io.Writer, t *trait.Table) error {
	return WriteDelimited(w, t, '\t')
}

// WriteCSV writes t comma-delimited.
func WriteCSV(w io.Writer, t *trait.Table) error {
	return WriteDelimited(w, t, ',')
}
