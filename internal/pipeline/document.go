package pipeline

import (
	"fmt"
	"html"
	"net/url"
	"path/filepath"
	"strings"
)

// StylesheetHref is the stylesheet every HTML preview links to. It is
// resolved relative to wherever the preview is opened from.
const StylesheetHref = "main.css"

// DefaultLang is the document language when none is configured.
const DefaultLang = "en"

// htmlShell wraps rendered fragments for HTML output. The body is inserted
// byte-for-byte.
const htmlShell = `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<link rel="stylesheet" href="%s">
</head>
<body>
%s
</body>
</html>`

// pdfShell wraps rendered fragments for PDF compilation. The base URL makes
// relative references resolve against the template directory; the stylesheet
// is inlined because the browser prints from a temp file.
const pdfShell = `<!DOCTYPE html>
<html lang="%s">
<head>
<meta charset="utf-8">
<base href="%s">
<style>%s</style>
</head>
<body>
%s
</body>
</html>`

// HTMLDocument wraps body in a complete HTML5 document linking StylesheetHref.
func HTMLDocument(body, lang string) string {
	return fmt.Sprintf(htmlShell, html.EscapeString(langOrDefault(lang)), StylesheetHref, body)
}

// PDFDocumentOptions configures PDFDocument.
type PDFDocumentOptions struct {
	// Lang is the document language. Empty means DefaultLang.
	Lang string

	// BaseDir is the directory relative references resolve against.
	BaseDir string

	// CSS is the stylesheet content to inline.
	CSS string
}

// PDFDocument wraps body in a complete HTML5 document ready for printing:
// a file:// base URL for BaseDir and the inlined stylesheet.
func PDFDocument(body string, opts PDFDocumentOptions) (string, error) {
	base, err := DirURL(opts.BaseDir)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(pdfShell,
		html.EscapeString(langOrDefault(opts.Lang)),
		html.EscapeString(base),
		sanitizeCSS(opts.CSS),
		body), nil
}

// DirURL returns the file:// URL of dir with a trailing slash, so relative
// references resolve inside the directory.
func DirURL(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving base directory %q: %w", dir, err)
	}
	u := pathToFileURL(abs)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u, nil
}

// pathToFileURL converts an absolute filesystem path to a file:// URL.
func pathToFileURL(absPath string) string {
	// filepath.ToSlash handles Windows backslashes
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // C:/dir -> /C:/dir
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

func langOrDefault(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return DefaultLang
	}
	return lang
}

// InjectBeforeBodyEnd inserts snippet right before </body>, or appends it
// when the document has no closing body tag.
func InjectBeforeBodyEnd(doc, snippet string) string {
	const tag = "</body>"
	for i := len(doc) - len(tag); i >= 0; i-- {
		if strings.EqualFold(doc[i:i+len(tag)], tag) {
			return doc[:i] + snippet + doc[i:]
		}
	}
	return doc + snippet
}
