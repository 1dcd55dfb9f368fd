package templating

import (
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/alnah/go-csv2pdf/internal/dateutil"
)

// newHelpers returns the functions every template can call.
func newHelpers() template.FuncMap {
	md := newMarkdownRenderer()
	return template.FuncMap{
		"nl2br":       nl2brHelper,
		"datetime":    datetimeHelper,
		"markdown":    md.helper,
		"safe":        safeHelper,
		"striptags":   striptagsHelper,
		"eq":          eqHelper,
		"ne":          neHelper,
		"index":       indexHelper,
		guardFuncName: requireDefined,
	}
}

// paragraphBreak matches a run of two or more line breaks.
var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Nl2br turns plain text into paragraphs: runs of blank lines separate
// paragraphs, single line breaks become <br> tags. Line endings \r\n, \r and
// \n are all recognized. When autoescape is set the text is HTML-escaped and
// the markup is not; otherwise the text is copied as-is.
//
//	Nl2br("a\nb\n\nc", true) == "<p>a<br>\nb</p>\n\n<p>c</p>"
func Nl2br(value string, autoescape bool) string {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\r", "\n")

	paragraphs := paragraphBreak.Split(value, -1)
	for i, p := range paragraphs {
		lines := strings.Split(strings.TrimSuffix(p, "\n"), "\n")
		if autoescape {
			for j, line := range lines {
				lines[j] = template.HTMLEscapeString(line)
			}
		}
		paragraphs[i] = "<p>" + strings.Join(lines, "<br>\n") + "</p>"
	}
	return strings.Join(paragraphs, "\n\n")
}

// nl2brHelper is the template form of Nl2br. Output is always escaped
// context-safe HTML: plain values are escaped, HTML values are kept.
func nl2brHelper(v any) (template.HTML, error) {
	if h, ok := v.(template.HTML); ok {
		return template.HTML(Nl2br(string(h), false)), nil // #nosec G203 -- input already trusted HTML
	}
	s, err := stringArg("nl2br", v)
	if err != nil {
		return "", err
	}
	return template.HTML(Nl2br(s, true)), nil // #nosec G203 -- text escaped by Nl2br
}

// datetimeHelper formats a timestamp with strftime directives. Used as
// {{.when | datetime}} or {{.when | datetime "%d.%m.%Y"}}: the value always
// comes last.
func datetimeHelper(args ...any) (string, error) {
	if len(args) == 0 || len(args) > 2 {
		return "", fmt.Errorf("%w: datetime: want a value and an optional format, got %d arguments", ErrFilter, len(args))
	}
	format := dateutil.DefaultFormat
	if len(args) == 2 {
		f, ok := args[0].(string)
		if !ok {
			return "", fmt.Errorf("%w: datetime: format must be a string, got %T", ErrFilter, args[0])
		}
		format = f
	}
	return FormatDateTime(args[len(args)-1], format)
}

// FormatDateTime formats a time.Time, or a string in dateutil.TimestampLayout,
// with strftime directives.
func FormatDateTime(value any, format string) (string, error) {
	var t time.Time
	switch v := value.(type) {
	case *Undefined:
		return "", fmt.Errorf("%w: datetime value", ErrUndefined)
	case time.Time:
		t = v
	case string:
		parsed, err := dateutil.ParseTimestamp(v)
		if err != nil {
			return "", fmt.Errorf("%w: datetime: %v", ErrFilter, err)
		}
		t = parsed
	default:
		return "", fmt.Errorf("%w: datetime: unsupported value type %T", ErrFilter, value)
	}

	out, err := dateutil.Strftime(t, format)
	if err != nil {
		return "", fmt.Errorf("%w: datetime: %v", ErrFilter, err)
	}
	return out, nil
}

// safeHelper marks a value as trusted HTML.
func safeHelper(v any) (template.HTML, error) {
	s, err := stringArg("safe", v)
	if err != nil {
		return "", err
	}
	return template.HTML(s), nil // #nosec G203 -- explicit opt-in by the template author
}

// striptagsHelper returns the text content of an HTML value with runs of
// whitespace collapsed.
func striptagsHelper(v any) (string, error) {
	s, err := stringArg("striptags", v)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return "", fmt.Errorf("%w: striptags: %v", ErrFilter, z.Err())
			}
			return strings.Join(strings.Fields(b.String()), " "), nil
		case html.TextToken:
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
}

// stringArg converts a helper argument to text.
func stringArg(helper string, v any) (string, error) {
	switch s := v.(type) {
	case *Undefined:
		return "", fmt.Errorf("%w: %s argument", ErrUndefined, helper)
	case nil:
		return "", nil
	case string:
		return s, nil
	case template.HTML:
		return string(s), nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return fmt.Sprint(v), nil
	}
}
