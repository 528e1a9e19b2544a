package table

import (
	"strings"

	"github.com/tabkit/tabkit/pkg/errors"
)

// Table is an ordered collection of named, equal-length columns. It is
// immutable after construction; every operation that changes shape returns a
// new Table, possibly sharing column storage with its input.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New constructs a table from the given columns. Column names must be unique
// and lengths equal.
func New(cols ...*Column) (*Table, error) {
	t := &Table{
		cols:  make([]*Column, 0, len(cols)),
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := t.index[c.name]; dup {
			return nil, errors.Newf(errors.ErrorTypeConfig,
				"duplicate column name %q", c.name).WithColumn(c.name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, errors.Newf(errors.ErrorTypeConfig,
				"column %q has %d rows, want %d", c.name, c.Len(), t.rows).
				WithColumn(c.name)
		}
		t.index[c.name] = len(t.cols)
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int { return t.rows }

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int { return len(t.cols) }

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// HasColumn reports whether a column with the given name exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column or a ColumnNotFound error
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.ColumnNotFound(name)
	}
	return t.cols[i], nil
}

// ColumnAt returns the column at position i
func (t *Table) ColumnAt(i int) *Column { return t.cols[i] }

// Row returns a read-only view over row i
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// TakeRows builds a table containing the given rows, in order. Indices may
// repeat. Column storage is freshly allocated; column metadata is shared.
func (t *Table) TakeRows(rows []int) (*Table, error) {
	for _, r := range rows {
		if r < 0 || r >= t.rows {
			return nil, errors.Newf(errors.ErrorTypeInternal,
				"row index %d out of range [0,%d)", r, t.rows).WithRow(r)
		}
	}
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.take(rows)
	}
	return New(cols...)
}

// KeepColumns projects the table onto the named columns, in the given order
func (t *Table) KeepColumns(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

// WithColumn returns a table with the column appended, or replacing the
// existing column of the same name in place. The input table is unchanged.
func (t *Table) WithColumn(col *Column) (*Table, error) {
	if t.ColumnCount() > 0 && col.Len() != t.rows {
		return nil, errors.Newf(errors.ErrorTypeConfig,
			"column %q has %d rows, want %d", col.name, col.Len(), t.rows).
			WithColumn(col.name)
	}
	cols := make([]*Column, len(t.cols))
	copy(cols, t.cols)
	if i, ok := t.index[col.name]; ok {
		cols[i] = col
		return New(cols...)
	}
	return New(append(cols, col)...)
}

// Equal reports structural equality: same column names, kinds and values in
// order. Missing compares equal to missing here; this is metadata equality
// for tests and callers, not three-valued value equality.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.cols) != len(other.cols) || t.rows != other.rows {
		return false
	}
	for i, c := range t.cols {
		oc := other.cols[i]
		if c.name != oc.name || c.kind != oc.kind {
			return false
		}
		for r := 0; r < t.rows; r++ {
			if c.values[r].Key() != oc.values[r].Key() {
				return false
			}
		}
	}
	return true
}

// String renders a compact textual view of the table for debugging
func (t *Table) String() string {
	var b strings.Builder
	for i, c := range t.cols {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(c.name)
		b.WriteString(" <")
		b.WriteString(c.kind.String())
		b.WriteByte('>')
	}
	b.WriteByte('\n')
	for r := 0; r < t.rows; r++ {
		for i, c := range t.cols {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(c.values[r].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Row is a read-only view over one table row, providing late-bound column
// lookup for expressions.
type Row struct {
	t *Table
	i int
}

// Index returns the zero-based row index within the table
func (r Row) Index() int { return r.i }

// Value returns the value of the named column in this row
func (r Row) Value(name string) (Value, error) {
	c, err := r.t.Column(name)
	if err != nil {
		return Value{}, err
	}
	return c.Value(r.i), nil
}
