package tabular

import "errors"

// Sentinel errors for tabular ingestion.
var (
	// ErrRead indicates the data file could not be opened or read.
	ErrRead = errors.New("cannot read data file")

	// ErrUnknownEncoding indicates the requested text encoding is not supported.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrDecode indicates the data bytes are invalid under the requested encoding.
	ErrDecode = errors.New("cannot decode data file")

	// ErrSniff indicates no consistent dialect could be inferred from the sample.
	ErrSniff = errors.New("could not determine delimiter")

	// ErrNoHeader indicates the data file has no rows at all.
	ErrNoHeader = errors.New("data file has no header row")

	// ErrWorkbook indicates the workbook could not be opened or read.
	ErrWorkbook = errors.New("cannot read workbook")
)
