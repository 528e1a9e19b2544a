package verb

import (
	"github.com/tabkit/tabkit/pkg/agg"
	"github.com/tabkit/tabkit/pkg/table"
)

// Aggregation names one summarize output and how to compute it within a
// group
type Aggregation struct {
	Name    string
	compute func(t *table.Table, rows []int) (table.Value, error)
}

// Agg applies an aggregation function to the named column within each group
func Agg(name, column string, fn agg.Func) Aggregation {
	return Aggregation{Name: name, compute: func(t *table.Table, rows []int) (table.Value, error) {
		vals, err := columnValues(t, column, rows)
		if err != nil {
			return table.Value{}, err
		}
		return fn(vals)
	}}
}

// AggRows applies an arbitrary function to the group's rows; an escape hatch
// for aggregations over more than one column.
func AggRows(name string, fn func(t *table.Table, rows []int) (table.Value, error)) Aggregation {
	return Aggregation{Name: name, compute: fn}
}

// NRows counts the rows in each group, missing values included
func NRows(name string) Aggregation {
	return Aggregation{Name: name, compute: func(_ *table.Table, rows []int) (table.Value, error) {
		return table.Int(int64(len(rows))), nil
	}}
}

// Summarize collapses a grouping to one row per group, in group order. Key
// columns come first, then the aggregation outputs in the order given.
func Summarize(g *table.Grouping, aggs ...Aggregation) (*table.Table, error) {
	base := g.Base()
	nGroups := g.NumGroups()

	cols := make([]*table.Column, 0, len(g.KeyColumns())+len(aggs))

	for j, keyName := range g.KeyColumns() {
		keyCol, err := base.Column(keyName)
		if err != nil {
			return nil, err
		}
		vals := make([]table.Value, nGroups)
		for i := 0; i < nGroups; i++ {
			vals[i] = g.Group(i).Keys()[j]
		}
		col, err := table.NewColumn(keyName, keyCol.Kind(), vals)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	for _, a := range aggs {
		vals := make([]table.Value, nGroups)
		for i := 0; i < nGroups; i++ {
			v, err := a.compute(base, g.Group(i).Rows())
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		col, err := table.FromValues(a.Name, vals)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	return table.New(cols...)
}

// SummarizeTable summarizes an ungrouped table as one implicit group
// spanning all rows, producing exactly one output row.
func SummarizeTable(t *table.Table, aggs ...Aggregation) (*table.Table, error) {
	rows := make([]int, t.RowCount())
	for i := range rows {
		rows[i] = i
	}

	cols := make([]*table.Column, 0, len(aggs))
	for _, a := range aggs {
		v, err := a.compute(t, rows)
		if err != nil {
			return nil, err
		}
		col, err := table.FromValues(a.Name, []table.Value{v})
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return table.New(cols...)
}

// Count tallies rows per distinct combination of the named columns,
// producing the key columns plus an "n" column. With no columns it counts
// the whole table into a single row.
func Count(t *table.Table, cols ...string) (*table.Table, error) {
	if len(cols) == 0 {
		return SummarizeTable(t, NRows("n"))
	}
	g, err := table.GroupBy(t, cols...)
	if err != nil {
		return nil, err
	}
	return Summarize(g, NRows("n"))
}

// CountGrouping tallies the rows of an existing grouping, producing its key
// columns plus an "n" column. Count(t, cols...) is shorthand for grouping
// then calling this.
func CountGrouping(g *table.Grouping) (*table.Table, error) {
	return Summarize(g, NRows("n"))
}

// WeightedCount tallies the sum of the weight column per distinct
// combination of the named columns, into an "n" column.
func WeightedCount(t *table.Table, weight string, cols ...string) (*table.Table, error) {
	sum := Agg("n", weight, agg.Sum(agg.Options{}))
	if len(cols) == 0 {
		return SummarizeTable(t, sum)
	}
	g, err := table.GroupBy(t, cols...)
	if err != nil {
		return nil, err
	}
	return Summarize(g, sum)
}

// Ungroup drops grouping metadata, returning the base table unchanged
func Ungroup(g *table.Grouping) *table.Table {
	return g.Ungroup()
}

func columnValues(t *table.Table, name string, rows []int) ([]table.Value, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	vals := make([]table.Value, len(rows))
	for i, r := range rows {
		vals[i] = c.Value(r)
	}
	return vals, nil
}
