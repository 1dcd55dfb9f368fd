package tabular

import "strings"

type parseState int

const (
	startRecord parseState = iota
	startField
	inField
	inQuotedField
	quoteInQuotedField
)

// parser is a character-level CSV state machine. Unlike encoding/csv it
// accepts any quote character and can run with quote doubling disabled.
type parser struct {
	dialect Dialect
	state   parseState

	rows  [][]string
	row   []string
	field strings.Builder

	// escapedQuote records whether a doubled quote was seen inside a quoted
	// field. Sniffing uses it to decide DoubleQuote.
	escapedQuote bool
}

// Parse splits text into rows of raw cells using the given dialect.
// Line endings \r\n, \r and \n all end a record; inside a quoted field they
// are kept in the value as \n. Lines without any cell are dropped. End of
// text inside a quoted field closes the field.
func Parse(text string, d Dialect) [][]string {
	rows, _ := parse(text, d)
	return rows
}

func parse(text string, d Dialect) ([][]string, bool) {
	p := &parser{dialect: d}
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\r' {
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			c = '\n'
		}
		p.step(c)
	}
	p.finish()
	return p.rows, p.escapedQuote
}

func (p *parser) step(c rune) {
	d := p.dialect
	switch p.state {
	case startRecord:
		if c == '\n' {
			return
		}
		p.state = startField
		p.step(c)

	case startField:
		switch {
		case c == '\n':
			p.saveField()
			p.saveRow()
		case c == d.Quote:
			p.state = inQuotedField
		case c == ' ' && d.SkipInitialSpace:
		case c == d.Delimiter:
			p.saveField()
		default:
			p.field.WriteRune(c)
			p.state = inField
		}

	case inField:
		switch c {
		case '\n':
			p.saveField()
			p.saveRow()
		case d.Delimiter:
			p.saveField()
			p.state = startField
		default:
			p.field.WriteRune(c)
		}

	case inQuotedField:
		if c == d.Quote {
			if d.DoubleQuote {
				p.state = quoteInQuotedField
			} else {
				p.state = inField
			}
			return
		}
		p.field.WriteRune(c)

	case quoteInQuotedField:
		switch {
		case c == d.Quote:
			p.field.WriteRune(c)
			p.escapedQuote = true
			p.state = inQuotedField
		case c == d.Delimiter:
			p.saveField()
			p.state = startField
		case c == '\n':
			p.saveField()
			p.saveRow()
		default:
			p.field.WriteRune(c)
			p.state = inField
		}
	}
}

func (p *parser) finish() {
	if p.state == startRecord {
		return
	}
	p.saveField()
	p.saveRow()
}

func (p *parser) saveField() {
	p.row = append(p.row, p.field.String())
	p.field.Reset()
}

func (p *parser) saveRow() {
	p.rows = append(p.rows, p.row)
	p.row = nil
	p.state = startRecord
}
