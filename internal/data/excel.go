package data

import (
	"os"

	"github.com/extrame/xls"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// LoadExcel reads the first worksheet of an .xlsx workbook.
func LoadExcel(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, loadError(err, path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, loadError(errors.New("cannot find worksheet"), path)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, loadError(err, path)
	}
	if len(records) == 0 {
		return []Row{}, nil
	}

	return rowsFromRecords(records[0], records[1:]), nil
}

// LoadXLS reads the first worksheet of a legacy .xls workbook.
func LoadXLS(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, loadError(err, path)
	}
	defer f.Close()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, loadError(err, path)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, loadError(errors.New("cannot find worksheet"), path)
	}

	var records [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		// LastCol is one past the last used column.
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		records = append(records, cells)
	}
	if len(records) == 0 {
		return []Row{}, nil
	}

	return rowsFromRecords(records[0], records[1:]), nil
}
