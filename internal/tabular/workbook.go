package tabular

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// IsWorkbook reports whether path names an XLSX workbook.
func IsWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// readWorkbook returns the rows of the first sheet of an XLSX workbook.
func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrRead, path, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrWorkbook, path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s: no sheets", ErrWorkbook, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: sheet %q: %v", ErrWorkbook, path, sheets[0], err)
	}
	return rows, nil
}
