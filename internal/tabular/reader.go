package tabular

import (
	"fmt"
	"os"
	"strings"
)

// Options controls how a data file is read.
type Options struct {
	// Encoding names the text encoding of the file. Empty means DefaultEncoding.
	// Ignored for workbooks.
	Encoding string

	// ForceDoubleQuote treats doubled quotes inside quoted fields as escaped
	// quotes regardless of what sniffing concluded.
	ForceDoubleQuote bool
}

// Dataset is the parsed content of a data file.
type Dataset struct {
	// Header holds the normalized column identifiers in file order.
	Header []string

	// Records holds one record per non-empty data row. Blank lines produce
	// no record and do not consume an index, so META.index counts data rows
	// only.
	Records []Record

	// Dialect is the dialect used to parse delimited text. Zero for workbooks.
	Dialect Dialect
}

// ReadFile reads a delimited text file or an XLSX workbook into a Dataset.
func ReadFile(path string, opts Options) (*Dataset, error) {
	if IsWorkbook(path) {
		rows, err := readWorkbook(path)
		if err != nil {
			return nil, err
		}
		return NewDataset(rows)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is user-provided input
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
	}
	return ReadText(data, opts)
}

// ReadText decodes, sniffs and parses raw delimited text into a Dataset.
func ReadText(data []byte, opts Options) (*Dataset, error) {
	text, err := Decode(data, opts.Encoding)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoHeader
	}

	dialect, err := Sniff(Sample(text))
	if err != nil {
		return nil, err
	}
	if opts.ForceDoubleQuote {
		dialect.DoubleQuote = true
	}

	ds, err := NewDataset(Parse(text, dialect))
	if err != nil {
		return nil, err
	}
	ds.Dialect = dialect
	return ds, nil
}

// NewDataset builds a Dataset from raw rows: the first non-empty row is the
// header, every later non-empty row becomes a Record. Empty rows are skipped
// without taking an index.
func NewDataset(rows [][]string) (*Dataset, error) {
	var (
		ds     *Dataset
		header []string
	)
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if ds == nil {
			header = NormalizeHeader(row)
			ds = &Dataset{Header: header}
			continue
		}
		ds.Records = append(ds.Records, NewRecord(header, row, len(ds.Records)))
	}
	if ds == nil {
		return nil, ErrNoHeader
	}
	return ds, nil
}
