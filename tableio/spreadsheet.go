package tableio

import (
	"fmt"
	"log"

	"github.com/carbocation/pfx"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// readXLSRows reads the first sheet of a legacy .xls workbook.
func readXLSRows(path string) ([][]string, error) {
	spreadsheet, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, pfx.Err(err)
	}

	if spreadsheet.NumSheets() > 1 {
		log.Printf("%s has %d sheets; only the first is read\n", path, spreadsheet.NumSheets())
	}

	sheet := spreadsheet.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("tableio: %s has no readable sheet", path)
	}

	output := make([][]string, 0, int(sheet.MaxRow)+1)
	for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
		row := xlsRow(sheet, rowID)
		if row == nil {
			continue
		}

		cells := make([]string, 0, row.LastCol()+1)
		for colID := 0; colID <= row.LastCol(); colID++ {
			cells = append(cells, row.Col(colID))
		}
		output = append(output, cells)
	}

	return output, nil
}

// xlsRow returns nil for rows the sheet does not store. xls.WorkSheet.Row
// dereferences the row before returning it, so absent rows panic.
func xlsRow(sheet *xls.WorkSheet, rowID int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()

	return sheet.Row(rowID)
}

// readXLSXRows reads the first sheet of an .xlsx workbook.
func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("tableio: %s has no sheets", path)
	}
	if len(sheets) > 1 {
		log.Printf("%s has %d sheets; only %q is read\n", path, len(sheets), sheets[0])
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}
