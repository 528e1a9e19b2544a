// Package verb implements the table verbs: filter, arrange, select and
// rename, mutate and transmute, group-by summarize, and count.
//
// Verbs are pure functions from tables to tables. They never modify their
// input; every call yields a fresh table, or an error and no table at all.
package verb

import (
	"github.com/tabkit/tabkit/pkg/errors"
	"github.com/tabkit/tabkit/pkg/table"
)

// Predicate evaluates one row to a bool or missing value
type Predicate func(table.Row) (table.Value, error)

// Filter retains the rows for which every predicate yields true. Rows
// yielding false or Missing are dropped; the predicates combine with logical
// AND, short-circuiting left to right. Row order and all columns are
// preserved.
func Filter(t *table.Table, preds ...Predicate) (*table.Table, error) {
	keep := make([]int, 0, t.RowCount())

	for r := 0; r < t.RowCount(); r++ {
		row := t.Row(r)
		matched := true
		for _, p := range preds {
			v, err := p(row)
			if err != nil {
				return nil, err
			}
			if v.IsMissing() {
				matched = false
				break
			}
			b, ok := v.Bool()
			if !ok {
				return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
					"filter predicate yielded %s, want bool or missing", v.Kind()).
					WithRow(r)
			}
			if !b {
				matched = false
				break
			}
		}
		if matched {
			keep = append(keep, r)
		}
	}

	return t.TakeRows(keep)
}

// Equals builds a predicate testing a column against a constant
func Equals(column string, v table.Value) Predicate {
	return cmpPredicate(column, v, table.Equal)
}

// Greater builds a predicate testing column > constant
func Greater(column string, v table.Value) Predicate {
	return cmpPredicate(column, v, table.Greater)
}

// Less builds a predicate testing column < constant
func Less(column string, v table.Value) Predicate {
	return cmpPredicate(column, v, table.Less)
}

// In builds a predicate testing column membership in a value set
func In(column string, set ...table.Value) Predicate {
	return func(row table.Row) (table.Value, error) {
		v, err := row.Value(column)
		if err != nil {
			return table.Value{}, err
		}
		return table.In(v, set...)
	}
}

func cmpPredicate(column string, v table.Value,
	cmp func(a, b table.Value) (table.Value, error)) Predicate {
	return func(row table.Row) (table.Value, error) {
		cell, err := row.Value(column)
		if err != nil {
			return table.Value{}, err
		}
		return cmp(cell, v)
	}
}
