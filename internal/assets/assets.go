package assets

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"sync"
)

// Asset names used by the preview server.
const (
	LiveReloadScript = "livereload"
	ErrorPageName    = "error"
)

// LiveReloadSnippet returns a <script> element that reloads the page whenever
// the websocket at wsPath sends "reload".
func LiveReloadSnippet(wsPath string) (string, error) {
	js, err := LoadScript(LiveReloadScript)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<script data-ws=\"%s\">\n%s</script>\n", html.EscapeString(wsPath), js), nil
}

// ErrorPage is the data shown when a preview fails.
type ErrorPage struct {
	Title   string
	Message string
	Hint    string
}

var errorPage = sync.OnceValues(func() (*template.Template, error) {
	return LoadPage(ErrorPageName)
})

// RenderErrorPage writes the error page for p to w.
func RenderErrorPage(w io.Writer, p ErrorPage) error {
	tmpl, err := errorPage()
	if err != nil {
		return err
	}
	if p.Title == "" {
		p.Title = "Preview failed"
	}
	if err := tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return nil
}
