package tabular

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrBareQuote     = errors.New("unexpected quote in unquoted field")
	ErrQuoteTrailer  = errors.New("unexpected character after closing quote")
	ErrUnclosedQuote = errors.New("unclosed quoted field")
	ErrBareCR        = errors.New("CR not followed by LF")
)

// ParseError records where in the input a syntax error was found. Line and
// Column are 1-based, Row and Field are 0-based.
type ParseError struct {
	Line   int
	Column int
	Row    int
	Field  int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d, row %d, field %d", e.Err, e.Line, e.Column, e.Row, e.Field)
}

func (e *ParseError) Unwrap() error { return e.Err }

type state int

const (
	startField state = iota
	inField
	inQuotedField
	afterQuote
)

// Reader produces rows from a character source.
type Reader struct {
	src    io.RuneReader
	line   int
	column int
	row    int
}

// NewReader returns a Reader pulling characters from src. A *bufio.Reader
// over a file is the usual source.
func NewReader(src io.RuneReader) *Reader {
	return &Reader{src: src, line: 1}
}

// Read returns the next row. At a clean end of input it returns nil, io.EOF.
// A trailing row without a final line break is still returned.
func (r *Reader) Read() ([]string, error) {
	var (
		fields    []string
		buf       strings.Builder
		st        = startField
		pendingCR bool
	)

	emit := func() {
		fields = append(fields, buf.String())
		buf.Reset()
	}

	for {
		c, _, err := r.src.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", r.row, err)
		}

		r.column++
		if c == '\n' {
			r.line++
			r.column = 0
		}

		// Only reachable outside quotes; a CR inside quotes is plain data.
		if pendingCR {
			if c == '\n' {
				emit()
				return r.finish(fields), nil
			}
			return nil, r.errorf(ErrBareCR, len(fields))
		}

		switch st {
		case startField:
			switch c {
			case ',':
				emit()
			case '"':
				st = inQuotedField
			case '\r':
				pendingCR = true
			case '\n':
				emit()
				return r.finish(fields), nil
			default:
				buf.WriteRune(c)
				st = inField
			}

		case inField:
			switch c {
			case ',':
				emit()
				st = startField
			case '"':
				return nil, r.errorf(ErrBareQuote, len(fields))
			case '\r':
				pendingCR = true
			case '\n':
				emit()
				return r.finish(fields), nil
			default:
				buf.WriteRune(c)
			}

		case inQuotedField:
			if c == '"' {
				st = afterQuote
			} else {
				buf.WriteRune(c)
			}

		case afterQuote:
			switch c {
			case '"':
				buf.WriteByte('"')
				st = inQuotedField
			case ',':
				emit()
				st = startField
			case '\r':
				pendingCR = true
			case '\n':
				emit()
				return r.finish(fields), nil
			default:
				return nil, r.errorf(ErrQuoteTrailer, len(fields))
			}
		}
	}

	if pendingCR {
		return nil, r.errorf(ErrBareCR, len(fields))
	}
	if st == inQuotedField {
		return nil, r.errorf(ErrUnclosedQuote, len(fields))
	}
	if st != startField || buf.Len() > 0 || len(fields) > 0 {
		emit()
		return r.finish(fields), nil
	}
	return nil, io.EOF
}

func (r *Reader) finish(fields []string) []string {
	r.row++
	return fields
}

func (r *Reader) errorf(err error, field int) error {
	return &ParseError{Line: r.line, Column: r.column, Row: r.row, Field: field, Err: err}
}
