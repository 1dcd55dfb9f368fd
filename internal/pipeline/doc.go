// Package pipeline assembles rendered record bodies into complete documents.
//
// Two shapes are produced from the same body:
//   - HTMLDocument: a standalone page linking main.css, for browsers and the
//     live preview
//   - PDFDocument: a page with the template stylesheet inlined and a file://
//     base URL, so headless Chrome resolves relative images and fonts
//
// PDF generation itself is handled by the root csv2pdf package using
// headless Chrome (go-rod).
package pipeline
