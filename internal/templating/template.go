package templating

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alnah/go-csv2pdf/internal/tabular"
)

// Template is a loaded template ready to render records.
type Template struct {
	name   string
	tmpl   *template.Template
	refs   []string
	logger *slog.Logger
}

// Name returns the name the template was loaded under.
func (t *Template) Name() string { return t.name }

// Fields returns the top-level field names the template reads, sorted.
func (t *Template) Fields() []string {
	out := make([]string, len(t.refs))
	copy(out, t.refs)
	return out
}

// Execute renders one record. Fields the template reads but the record lacks
// are logged and bound to a nil *Undefined.
func (t *Template) Execute(w io.Writer, rec tabular.Record) error {
	ctx := rec.Context()
	for _, name := range t.refs {
		if _, ok := ctx[name]; ok {
			continue
		}
		ctx[name] = (*Undefined)(nil)
		t.logger.Warn("undefined field",
			slog.String("field", name),
			slog.Int("row", rec.Index()),
			slog.String("template", t.name))
	}

	if err := t.tmpl.Execute(w, ctx); err != nil {
		return fmt.Errorf("%w: %s: row %d: %w", ErrRender, t.name, rec.Index(), err)
	}
	return nil
}

// RenderDataset renders every record in order and concatenates the
// fragments. It stops at the first failing record.
func (t *Template) RenderDataset(ds *tabular.Dataset) (string, error) {
	var b strings.Builder
	for _, rec := range ds.Records {
		if err := t.Execute(&b, rec); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// Render loads the template at templatePath, with its directory as the
// search root, and renders every record of ds. cfg.Root and cfg.FS are
// ignored.
func Render(cfg Config, templatePath string, ds *tabular.Dataset) (string, error) {
	env := NewEnvironment(Config{
		Root:   filepath.Dir(templatePath),
		Logger: cfg.Logger,
	})
	tmpl, err := env.Load(filepath.Base(templatePath))
	if err != nil {
		return "", err
	}
	return tmpl.RenderDataset(ds)
}
