package pipeline

import (
	"path/filepath"
	"strings"
	"testing"
)

// bodyOf returns the text between the <body> line and the </body> line.
func bodyOf(t *testing.T, doc string) string {
	t.Helper()
	start := strings.Index(doc, "<body>\n")
	end := strings.LastIndex(doc, "\n</body>")
	if start == -1 || end == -1 || end < start {
		t.Fatalf("document has no body: %q", doc)
	}
	return doc[start+len("<body>\n") : end]
}

// ---------------------------------------------------------------------------
// TestHTMLDocument - Preview shell
// ---------------------------------------------------------------------------

func TestHTMLDocument(t *testing.T) {
	t.Parallel()

	body := "<p>Ada</p>\n<p>100% &amp; more</p>"
	doc := HTMLDocument(body, "")

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		`<meta charset="utf-8">`,
		`<link rel="stylesheet" href="main.css">`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if got := bodyOf(t, doc); got != body {
		t.Errorf("body = %q, want %q", got, body)
	}
}

func TestHTMLDocument_Lang(t *testing.T) {
	t.Parallel()

	if doc := HTMLDocument("", "fi"); !strings.Contains(doc, `<html lang="fi">`) {
		t.Errorf("lang not applied: %q", doc)
	}
	if doc := HTMLDocument("", `x"y`); !strings.Contains(doc, `lang="x&#34;y"`) {
		t.Errorf("lang not escaped: %q", doc)
	}
}

// ---------------------------------------------------------------------------
// TestPDFDocument - Print shell
// ---------------------------------------------------------------------------

func TestPDFDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	body := "<p>Ada</p><p>Bob</p>"

	doc, err := PDFDocument(body, PDFDocumentOptions{
		Lang:    "fi",
		BaseDir: dir,
		CSS:     "body { color: red } /* </style><script> */",
	})
	if err != nil {
		t.Fatalf("PDFDocument() unexpected error: %v", err)
	}

	base := pathToFileURL(dir) + "/"
	if !strings.Contains(doc, `<base href="`+base+`">`) {
		t.Errorf("base URL %q missing: %q", base, doc)
	}
	if !strings.Contains(doc, "body { color: red }") {
		t.Error("stylesheet not inlined")
	}
	if strings.Contains(doc, "</style><script>") {
		t.Error("stylesheet can close the style element")
	}
	if strings.Contains(doc, "main.css") {
		t.Error("PDF document should not link the preview stylesheet")
	}
	if got := bodyOf(t, doc); got != body {
		t.Errorf("body = %q, want %q", got, body)
	}
}

func TestDocuments_SameBody(t *testing.T) {
	t.Parallel()

	body := "<section>\n  <h1>Ada</h1>\n</section>\n"
	pdf, err := PDFDocument(body, PDFDocumentOptions{BaseDir: "."})
	if err != nil {
		t.Fatalf("PDFDocument() unexpected error: %v", err)
	}
	if bodyOf(t, pdf) != bodyOf(t, HTMLDocument(body, "")) {
		t.Error("HTML and PDF documents carry different bodies")
	}
}

// ---------------------------------------------------------------------------
// TestDirURL - Directory base URLs
// ---------------------------------------------------------------------------

func TestDirURL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := DirURL(dir)
	if err != nil {
		t.Fatalf("DirURL() unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "file:///") || !strings.HasSuffix(got, "/") {
		t.Errorf("DirURL() = %q", got)
	}
	if !strings.Contains(got, filepath.ToSlash(filepath.Base(dir))) {
		t.Errorf("DirURL() = %q does not contain %q", got, filepath.Base(dir))
	}
}

func TestPathToFileURL_EscapesSpaces(t *testing.T) {
	t.Parallel()

	got := pathToFileURL("/tmp/my reports")
	if got != "file:///tmp/my%20reports" {
		t.Errorf("pathToFileURL() = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestInjectBeforeBodyEnd - Snippet placement
// ---------------------------------------------------------------------------

func TestInjectBeforeBodyEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "before closing body", doc: "<body>x</body></html>", want: "<body>x<s></body></html>"},
		{name: "uppercase tag", doc: "<BODY>x</BODY>", want: "<BODY>x<s></BODY>"},
		{name: "last closing body wins", doc: "</body>y</body>", want: "</body>y<s></body>"},
		{name: "no body appends", doc: "<p>x</p>", want: "<p>x</p><s>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := InjectBeforeBodyEnd(tt.doc, "<s>"); got != tt.want {
				t.Errorf("InjectBeforeBodyEnd() = %q, want %q", got, tt.want)
			}
		})
	}
}
