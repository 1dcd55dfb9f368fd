// Package dateutil parses data-file timestamps and formats them with
// strftime directives.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for date handling.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidTimestamp  = errors.New("invalid timestamp")
)

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 100

// DefaultFormat is used when no format is given: "15:04 02-01-06".
const DefaultFormat = "%H:%M %d-%m-%y"

// TimestampLayout is the layout timestamps are stored in: YYYY-MM-DD HH:MM:SS.
const TimestampLayout = "2006-01-02 15:04:05"

// directives maps strftime directives to the Go layout producing the same
// text. Each directive is formatted on its own so literal text in the format
// is never read as a layout token.
var directives = map[byte]string{
	'a': "Mon",
	'A': "Monday",
	'b': "Jan",
	'B': "January",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'm': "01",
	'M': "04",
	'p': "PM",
	'S': "05",
	'y': "06",
	'Y': "2006",
	'z': "-0700",
	'Z': "MST",
}

// ParseTimestamp parses a value in TimestampLayout.
func ParseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match YYYY-MM-DD HH:MM:SS", ErrInvalidTimestamp, value)
	}
	return t, nil
}

// Strftime formats t according to format.
// Supported directives: %a %A %b %B %d %e %f %H %I %j %m %M %p %S %y %Y %z %Z %%.
// Names are English. Returns ErrInvalidDateFormat for unknown directives, a
// trailing '%' or an over-long format.
func Strftime(t time.Time, format string) (string, error) {
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	b.Grow(len(format) + 16)

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 == len(format) {
			return "", fmt.Errorf("%w: trailing %%", ErrInvalidDateFormat)
		}
		i++
		d := format[i]
		switch d {
		case '%':
			b.WriteByte('%')
		case 'j':
			fmt.Fprintf(&b, "%03d", t.YearDay())
		case 'f':
			fmt.Fprintf(&b, "%06d", t.Nanosecond()/int(time.Microsecond))
		default:
			layout, ok := directives[d]
			if !ok {
				return "", fmt.Errorf("%w: unknown directive %%%c", ErrInvalidDateFormat, d)
			}
			b.WriteString(t.Format(layout))
		}
	}
	return b.String(), nil
}
