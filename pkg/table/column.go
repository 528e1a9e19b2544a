package table

import (
	"time"

	"github.com/tabkit/tabkit/pkg/errors"
)

// Column is a named, homogeneously-typed, ordered sequence of values. Every
// non-missing value shares the column's declared kind; missing values are
// permitted anywhere. Columns are immutable once constructed, which lets
// derived tables share their storage safely.
type Column struct {
	name   string
	kind   Kind
	values []Value
}

// NewColumn constructs a column with an explicit declared kind. The values
// slice is copied. A KindMissing declaration requires every value to be
// missing.
func NewColumn(name string, kind Kind, values []Value) (*Column, error) {
	vals := make([]Value, len(values))
	copy(vals, values)
	for i, v := range vals {
		if v.IsMissing() {
			continue
		}
		if kind == KindMissing || v.Kind() != kind {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"column %q declared %s but holds %s", name, kind, v.Kind()).
				WithColumn(name).WithRow(i)
		}
	}
	return &Column{name: name, kind: kind, values: vals}, nil
}

// FromValues constructs a column, inferring the declared kind from the
// values. A mix of int and real promotes the whole column to real; any other
// mix is a type mismatch. An all-missing sequence yields a KindMissing
// column.
func FromValues(name string, values []Value) (*Column, error) {
	kind := KindMissing
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		switch {
		case kind == KindMissing:
			kind = v.Kind()
		case kind == v.Kind():
		case kind.numeric() && v.Kind().numeric():
			kind = KindReal
		default:
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"column %q mixes %s and %s", name, kind, v.Kind()).
				WithColumn(name)
		}
	}

	vals := make([]Value, len(values))
	for i, v := range values {
		if kind == KindReal && v.Kind() == KindInt {
			n, _ := v.Number()
			vals[i] = Real(n)
			continue
		}
		vals[i] = v
	}
	return &Column{name: name, kind: kind, values: vals}, nil
}

// Ints builds an int column without missing values
func Ints(name string, vals ...int64) *Column {
	values := make([]Value, len(vals))
	for i, v := range vals {
		values[i] = Int(v)
	}
	return &Column{name: name, kind: KindInt, values: values}
}

// Reals builds a real column without missing values
func Reals(name string, vals ...float64) *Column {
	values := make([]Value, len(vals))
	for i, v := range vals {
		values[i] = Real(v)
	}
	return &Column{name: name, kind: KindReal, values: values}
}

// Texts builds a text column without missing values
func Texts(name string, vals ...string) *Column {
	values := make([]Value, len(vals))
	for i, v := range vals {
		values[i] = Text(v)
	}
	return &Column{name: name, kind: KindText, values: values}
}

// Bools builds a bool column without missing values
func Bools(name string, vals ...bool) *Column {
	values := make([]Value, len(vals))
	for i, v := range vals {
		values[i] = Bool(v)
	}
	return &Column{name: name, kind: KindBool, values: values}
}

// Times builds a time column without missing values
func Times(name string, vals ...time.Time) *Column {
	values := make([]Value, len(vals))
	for i, v := range vals {
		values[i] = Time(v)
	}
	return &Column{name: name, kind: KindTime, values: values}
}

// Name returns the column name
func (c *Column) Name() string { return c.name }

// Kind returns the declared element kind
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of values
func (c *Column) Len() int { return len(c.values) }

// Value returns the value at index i
func (c *Column) Value(i int) Value { return c.values[i] }

// Values returns a copy of the column's values
func (c *Column) Values() []Value {
	vals := make([]Value, len(c.values))
	copy(vals, c.values)
	return vals
}

// Rename returns a column with the same values under a new name. The value
// storage is shared, which is safe because columns are immutable.
func (c *Column) Rename(name string) *Column {
	return &Column{name: name, kind: c.kind, values: c.values}
}

// take builds a column from the values at the given row indices
func (c *Column) take(rows []int) *Column {
	vals := make([]Value, len(rows))
	for i, r := range rows {
		vals[i] = c.values[r]
	}
	return &Column{name: c.name, kind: c.kind, values: vals}
}
