package templating

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"text/template/parse"
)

// Config configures an Environment.
type Config struct {
	// Root is the directory templates are loaded from.
	Root string

	// FS overrides Root when set.
	FS fs.FS

	// Logger receives undefined-field warnings. Nil means slog.Default().
	Logger *slog.Logger
}

// Environment loads templates from one search root with one helper set.
// Each render invocation builds its own; nothing is shared between them.
type Environment struct {
	fsys   fs.FS
	funcs  template.FuncMap
	logger *slog.Logger
}

// NewEnvironment creates an Environment from cfg.
func NewEnvironment(cfg Config) *Environment {
	fsys := cfg.FS
	if fsys == nil {
		fsys = os.DirFS(cfg.Root)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Environment{
		fsys:   fsys,
		funcs:  newHelpers(),
		logger: logger,
	}
}

// Load parses the named template and every template file it references,
// then prepares it for per-record execution.
func (e *Environment) Load(name string) (*Template, error) {
	name = path.Clean(filepath.ToSlash(name))

	root := template.New(name).Funcs(e.funcs).Option("missingkey=error")
	l := &loader{fsys: e.fsys, root: root, loaded: make(map[string]bool)}
	if err := l.load(name, root); err != nil {
		return nil, err
	}

	refs := make(map[string]struct{})
	seen := make(map[*parse.Tree]bool)
	for _, t := range root.Templates() {
		if t.Tree == nil || t.Tree.Root == nil || seen[t.Tree] {
			continue
		}
		seen[t.Tree] = true
		collectRefs(t.Tree.Root, true, refs)
		guardPrints(t.Tree.Root)
	}

	names := make([]string, 0, len(refs))
	for ref := range refs {
		names = append(names, ref)
	}
	sort.Strings(names)

	return &Template{
		name:   name,
		tmpl:   root,
		refs:   names,
		logger: e.logger,
	}, nil
}

type loader struct {
	fsys   fs.FS
	root   *template.Template
	loaded map[string]bool
}

// load parses file into t, then loads referenced templates that are neither
// defined nor loaded yet. Definitions that existed before file was parsed
// win over same-named blocks of file, so an including template can
// override the blocks of the layout it includes.
func (l *loader) load(file string, t *template.Template) error {
	src, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTemplateNotFound, file, err)
	}
	l.loaded[file] = true

	before := make(map[string]*parse.Tree)
	for _, tt := range l.root.Templates() {
		if tt.Tree != nil {
			before[tt.Name()] = tt.Tree
		}
	}

	if _, err := t.Parse(string(src)); err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateSyntax, err)
	}

	for name, tree := range before {
		if cur := l.root.Lookup(name); cur != nil && cur.Tree != tree {
			if _, err := l.root.AddParseTree(name, tree); err != nil {
				return fmt.Errorf("%w: restoring %q: %v", ErrTemplateSyntax, name, err)
			}
		}
	}

	for _, ref := range l.calls() {
		if l.loaded[ref] || !fs.ValidPath(ref) {
			continue
		}
		if cur := l.root.Lookup(ref); cur != nil && cur.Tree != nil {
			continue
		}
		// Not a file: either defined by a later include or reported as a
		// missing template at execution.
		if _, err := fs.Stat(l.fsys, ref); err != nil {
			continue
		}
		if err := l.load(ref, l.root.New(ref)); err != nil {
			return err
		}
	}
	return nil
}

// calls lists the names of all templates invoked with {{template}}, sorted.
func (l *loader) calls() []string {
	names := make(map[string]struct{})
	for _, tt := range l.root.Templates() {
		if tt.Tree != nil && tt.Tree.Root != nil {
			collectCalls(tt.Tree.Root, names)
		}
	}
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
