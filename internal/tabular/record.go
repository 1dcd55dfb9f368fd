package tabular

// Reserved context keys exposing row metadata to templates.
const (
	MetaKey      = "META"
	MetaIndexKey = "index"
)

// Field is one named cell of a record.
type Field struct {
	Name  string
	Value string
}

// Record is one data row keyed by normalized header. It is immutable once
// built.
type Record struct {
	fields []Field
	index  int
}

// NewRecord zips a normalized header with a row of cells. Pairing stops at the
// shorter of the two. When a name repeats, the field keeps the position of its
// first occurrence and the value of its last.
func NewRecord(header, cells []string, index int) Record {
	n := min(len(header), len(cells))
	fields := make([]Field, 0, n)
	pos := make(map[string]int, n)
	for i := 0; i < n; i++ {
		name := header[i]
		if j, ok := pos[name]; ok {
			fields[j].Value = cells[i]
			continue
		}
		pos[name] = len(fields)
		fields = append(fields, Field{Name: name, Value: cells[i]})
	}
	return Record{fields: fields, index: index}
}

// Index returns the 0-based position of the row among data rows.
func (r Record) Index() int { return r.index }

// Len returns the number of fields.
func (r Record) Len() int { return len(r.fields) }

// Fields returns a copy of the fields in header order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Get returns the value of the named field.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Context builds a fresh template context: every field plus MetaKey holding
// the row index.
func (r Record) Context() map[string]any {
	ctx := make(map[string]any, len(r.fields)+1)
	for _, f := range r.fields {
		ctx[f.Name] = f.Value
	}
	ctx[MetaKey] = map[string]any{MetaIndexKey: r.index}
	return ctx
}
