// Package tabular reads delimited text and workbook files into datasets of
// records keyed by normalized column identifiers.
//
// Reading happens in stages:
//   - decoding the raw bytes under a named text encoding
//   - sniffing the dialect (delimiter, quote, escaping) from a sample
//   - parsing every row with the sniffed dialect
//   - normalizing the header and zipping each row against it
//
// Workbooks (.xlsx) skip decoding and sniffing: the first sheet is read as-is.
package tabular
