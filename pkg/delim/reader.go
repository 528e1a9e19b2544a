// Package delim parses delimited text streams into tables and renders tables
// back out.
//
// The reader is a single sequential pass: it splits quote-aware records,
// collects the raw fields per column, then infers each column's kind by
// trying int, real, bool and time in order across every non-empty value,
// falling back to text. Empty fields become Missing.
package delim

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"github.com/tabkit/tabkit/pkg/errors"
	"github.com/tabkit/tabkit/pkg/logger"
	"github.com/tabkit/tabkit/pkg/table"
)

// Options configures the reader
type Options struct {
	// Delimiter separates fields; defaults to ','
	Delimiter rune
	// Quote encloses fields that contain the delimiter or line breaks, with a
	// doubled quote as escape; defaults to '"'
	Quote rune
	// HasHeader treats the first retained line as column names. Without a
	// header, columns are named col1, col2, ... by position.
	HasHeader bool
	// CommentPrefix skips lines starting with the prefix, when non-empty
	CommentPrefix string
	// SkipRows skips that many physical lines before anything else
	SkipRows int
	// DecimalMark is the locale decimal separator for real numbers; defaults
	// to '.'. It must not collide with Delimiter.
	DecimalMark rune
	// ColumnKinds forces named columns to a declared kind, skipping inference
	ColumnKinds map[string]table.Kind
}

// DefaultOptions returns the reader defaults: comma-delimited, double-quoted,
// with a header row.
func DefaultOptions() Options {
	return Options{
		Delimiter:   ',',
		Quote:       '"',
		HasHeader:   true,
		DecimalMark: '.',
	}
}

func (o Options) normalized() Options {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Quote == 0 {
		o.Quote = '"'
	}
	if o.DecimalMark == 0 {
		o.DecimalMark = '.'
	}
	return o
}

func (o Options) validate() error {
	if o.DecimalMark == o.Delimiter {
		return errors.Newf(errors.ErrorTypeLocaleConflict,
			"decimal mark %q collides with the field delimiter", string(o.DecimalMark))
	}
	if o.Quote == o.Delimiter {
		return errors.New(errors.ErrorTypeConfig, "quote character equals the field delimiter")
	}
	if o.SkipRows < 0 {
		return errors.New(errors.ErrorTypeConfig, "skip_rows must not be negative")
	}
	return nil
}

// Read parses the stream into a table
func Read(r io.Reader, opts Options) (*table.Table, error) {
	opts = opts.normalized()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	sc := &scanner{
		r:       bufio.NewReader(r),
		delim:   opts.Delimiter,
		quote:   opts.Quote,
		comment: opts.CommentPrefix,
	}

	for i := 0; i < opts.SkipRows; i++ {
		if err := sc.skipLine(); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to skip leading rows")
		}
	}

	var header []string
	var records [][]string
	rowIndex := 0
	for {
		fields, err := sc.readRecord()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if header == nil {
			if opts.HasHeader {
				header = fields
				continue
			}
			header = make([]string, len(fields))
			for i := range fields {
				header[i] = "col" + strconv.Itoa(i+1)
			}
		}
		if len(fields) != len(header) {
			return nil, errors.Newf(errors.ErrorTypeMalformedRow,
				"row has %d fields, header has %d", len(fields), len(header)).
				WithRow(rowIndex)
		}
		records = append(records, fields)
		rowIndex++
	}
	if header == nil {
		return nil, errors.New(errors.ErrorTypeParse, "input contains no rows")
	}

	cols := make([]*table.Column, len(header))
	for i, name := range header {
		raw := make([]string, len(records))
		for r, rec := range records {
			raw[r] = rec[i]
		}

		kind, forced := opts.ColumnKinds[name]
		if !forced {
			kind = inferKind(raw, opts)
		}

		vals := make([]table.Value, len(raw))
		for r, s := range raw {
			v, ok := parseAs(s, kind, opts)
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeParse,
					"cannot parse %q as %s", s, kind).WithColumn(name).WithRow(r)
			}
			vals[r] = v
		}

		col, err := table.NewColumn(name, kind, vals)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	t, err := table.New(cols...)
	if err != nil {
		return nil, err
	}

	kinds := make([]string, len(cols))
	for i, c := range cols {
		kinds[i] = c.Name() + ":" + c.Kind().String()
	}
	logger.Debug("parsed delimited input",
		zap.Int("rows", t.RowCount()),
		zap.Strings("columns", kinds))

	return t, nil
}

// inferKind tries int, real, bool and time in order; the first kind that
// parses every non-empty value wins, otherwise the column is text. A column
// with no non-empty values stays all-missing.
func inferKind(raw []string, opts Options) table.Kind {
	empty := true
	for _, s := range raw {
		if s != "" {
			empty = false
			break
		}
	}
	if empty {
		return table.KindMissing
	}

	for _, kind := range []table.Kind{table.KindInt, table.KindReal, table.KindBool, table.KindTime} {
		ok := true
		for _, s := range raw {
			if s == "" {
				continue
			}
			if _, parsed := parseAs(s, kind, opts); !parsed {
				ok = false
				break
			}
		}
		if ok {
			return kind
		}
	}
	return table.KindText
}

func parseAs(s string, kind table.Kind, opts Options) (table.Value, bool) {
	if s == "" {
		return table.Missing(), true
	}
	switch kind {
	case table.KindInt:
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return table.Value{}, false
		}
		return table.Int(i), true
	case table.KindReal:
		str := strings.TrimSpace(s)
		if opts.DecimalMark != '.' {
			if strings.ContainsRune(str, '.') {
				return table.Value{}, false
			}
			str = strings.ReplaceAll(str, string(opts.DecimalMark), ".")
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return table.Value{}, false
		}
		return table.Real(f), true
	case table.KindBool:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return table.Bool(true), true
		case "false":
			return table.Bool(false), true
		default:
			return table.Value{}, false
		}
	case table.KindTime:
		t, err := dateparse.ParseAny(strings.TrimSpace(s))
		if err != nil {
			return table.Value{}, false
		}
		return table.Time(t), true
	case table.KindText:
		return table.Text(s), true
	default:
		return table.Value{}, false
	}
}

// scanner splits a stream into quote-aware records. A quoted field may
// contain the delimiter, line breaks, and doubled quotes as escapes.
type scanner struct {
	r       *bufio.Reader
	delim   rune
	quote   rune
	comment string
}

// skipLine discards one physical line
func (s *scanner) skipLine() error {
	_, err := s.r.ReadString('\n')
	return err
}

// readRecord returns the fields of the next record, skipping blank and
// comment lines. It returns io.EOF when the stream is exhausted.
func (s *scanner) readRecord() ([]string, error) {
	if err := s.skipBlankAndComments(); err != nil {
		return nil, err
	}

	var fields []string
	var field strings.Builder
	inQuotes := false

	for {
		r, _, err := s.r.ReadRune()
		if err == io.EOF {
			if inQuotes {
				return nil, errors.New(errors.ErrorTypeParse, "unterminated quoted field")
			}
			fields = append(fields, field.String())
			return fields, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "read failed")
		}

		if inQuotes {
			if r != s.quote {
				field.WriteRune(r)
				continue
			}
			next, _, err := s.r.ReadRune()
			if err == nil && next == s.quote {
				// doubled quote escape
				field.WriteRune(s.quote)
				continue
			}
			if err == nil {
				_ = s.r.UnreadRune()
			}
			inQuotes = false
			continue
		}

		switch r {
		case s.quote:
			inQuotes = true
		case s.delim:
			fields = append(fields, field.String())
			field.Reset()
		case '\r':
			// swallowed; the record ends at the following '\n'
		case '\n':
			fields = append(fields, field.String())
			return fields, nil
		default:
			field.WriteRune(r)
		}
	}
}

// skipBlankAndComments discards empty lines and comment lines before the
// next record. Comments are line-based and only recognized at record
// boundaries, never inside quoted fields.
func (s *scanner) skipBlankAndComments() error {
	for {
		if s.comment != "" {
			peek, err := s.r.Peek(len(s.comment))
			if err == nil && string(peek) == s.comment {
				if err := s.skipLine(); err != nil {
					return err
				}
				continue
			}
		}

		r, _, err := s.r.ReadRune()
		if err != nil {
			return err
		}
		if r == '\n' || r == '\r' {
			continue
		}
		return s.r.UnreadRune()
	}
}
