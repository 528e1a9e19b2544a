package verb

import (
	"github.com/tabkit/tabkit/pkg/table"
)

// Mutation names a computed column and the per-row expression producing it
type Mutation struct {
	Name string
	Expr func(table.Row) (table.Value, error)
}

// Expr builds a Mutation
func Expr(name string, fn func(table.Row) (table.Value, error)) Mutation {
	return Mutation{Name: name, Expr: fn}
}

// Mutate appends or overwrites computed columns on a copy of the input
// table. Expressions evaluate sequentially: each expression sees the columns
// created by the expressions before it in the same call, not just the
// original column set.
func Mutate(t *table.Table, ms ...Mutation) (*table.Table, error) {
	cur := t
	for _, m := range ms {
		vals := make([]table.Value, cur.RowCount())
		for r := 0; r < cur.RowCount(); r++ {
			v, err := m.Expr(cur.Row(r))
			if err != nil {
				return nil, err
			}
			vals[r] = v
		}
		col, err := table.FromValues(m.Name, vals)
		if err != nil {
			return nil, err
		}
		cur, err = cur.WithColumn(col)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// Transmute evaluates like Mutate but keeps only the computed columns
func Transmute(t *table.Table, ms ...Mutation) (*table.Table, error) {
	full, err := Mutate(t, ms...)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(ms))
	seen := make(map[string]bool, len(ms))
	for _, m := range ms {
		if !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
	}
	return full.KeepColumns(names...)
}
