package data

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
)

// utf8BOM is written at the start of "CSV UTF-8" exports from spreadsheet tools.
const utf8BOM = "\ufeff"

// LoadCSV reads a comma separated file whose first line holds the column names.
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, loadError(err, path)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, loadError(err, path)
	}
	return rows, nil
}

// ReadCSV parses CSV content from r.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return []Row{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	return rowsFromRecords(headers, records), nil
}
