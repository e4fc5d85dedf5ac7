// Package data loads tabular request data used to parameterize request bodies.
//
// Every loader treats the first row as column headers and returns one Row per
// remaining record, in file order. Short records leave missing columns unset
// and cells beyond the header width are ignored.
package data

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Row maps a column name to the cell value of one record. Rows are read-only
// once loaded.
type Row map[string]string

var (
	// ErrDataLoad marks any failure to read or parse a data file.
	ErrDataLoad = errors.New("failed to load data file")

	// ErrUnsupportedFormat is returned for extensions other than csv, xls and xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Load reads rows from path, choosing the parser by file extension.
func Load(path string) ([]Row, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	switch ext {
	case "csv":
		return LoadCSV(path)
	case "xlsx":
		return LoadExcel(path)
	case "xls":
		return LoadXLS(path)
	default:
		return nil, loadError(ErrUnsupportedFormat, path)
	}
}

// rowsFromRecords converts a header line plus records into rows.
func rowsFromRecords(headers []string, records [][]string) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := make(Row, len(headers))
		for idx, cell := range record {
			if idx >= len(headers) {
				break
			}
			if headers[idx] == "" {
				continue
			}
			row[headers[idx]] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

func loadError(err error, path string) error {
	return errors.Wrapf(&wrapped{cause: err}, "%s", path)
}

// wrapped ties a parser failure to ErrDataLoad while keeping the cause reachable.
type wrapped struct {
	cause error
}

func (w *wrapped) Error() string {
	return ErrDataLoad.Error() + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() error { return w.cause }

func (w *wrapped) Is(target error) bool { return target == ErrDataLoad }
