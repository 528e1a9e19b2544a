package reshape

import (
	"github.com/tabkit/tabkit/pkg/errors"
	"github.com/tabkit/tabkit/pkg/table"
)

// WiderSpec configures Wider
type WiderSpec struct {
	// NamesFrom is the column whose values become output column names
	NamesFrom string
	// ValuesFrom is the column whose values populate the generated columns
	ValuesFrom string
}

// Wider pivots a long table into wide layout. Rows group by every column
// except NamesFrom and ValuesFrom, in first-appearance order. Each group
// emits one output row: the identifying columns plus one generated column
// per distinct NamesFrom value (stringified, ordered by first appearance
// across the whole table). A (group, name) cell never observed is Missing; a
// cell observed twice is an AmbiguousPivot error; there is no implicit
// aggregation.
func Wider(t *table.Table, spec WiderSpec) (*table.Table, error) {
	nameCol, err := t.Column(spec.NamesFrom)
	if err != nil {
		return nil, err
	}
	valueCol, err := t.Column(spec.ValuesFrom)
	if err != nil {
		return nil, err
	}

	var identifying []string
	for _, n := range t.Names() {
		if n != spec.NamesFrom && n != spec.ValuesFrom {
			identifying = append(identifying, n)
		}
	}

	g, err := table.GroupBy(t, identifying...)
	if err != nil {
		return nil, err
	}

	// Distinct generated names, first appearance across the whole table
	var genNames []string
	nameIndex := make(map[string]int)
	for r := 0; r < t.RowCount(); r++ {
		n := nameCol.Value(r).String()
		if _, ok := nameIndex[n]; !ok {
			nameIndex[n] = len(genNames)
			genNames = append(genNames, n)
		}
	}

	// rowGroup maps each base row to its group index
	rowGroup := make([]int, t.RowCount())
	for i := 0; i < g.NumGroups(); i++ {
		for _, r := range g.Group(i).Rows() {
			rowGroup[r] = i
		}
	}

	type cell struct {
		val table.Value
		set bool
	}
	cells := make([]cell, g.NumGroups()*len(genNames))
	for r := 0; r < t.RowCount(); r++ {
		n := nameCol.Value(r).String()
		idx := rowGroup[r]*len(genNames) + nameIndex[n]
		if cells[idx].set {
			return nil, errors.Newf(errors.ErrorTypeAmbiguousPivot,
				"more than one %q value for name %q within one group",
				spec.ValuesFrom, n).WithColumn(n).WithRow(r)
		}
		cells[idx] = cell{val: valueCol.Value(r), set: true}
	}

	cols := make([]*table.Column, 0, len(identifying)+len(genNames))

	for j, keyName := range identifying {
		keyCol, err := t.Column(keyName)
		if err != nil {
			return nil, err
		}
		vals := make([]table.Value, g.NumGroups())
		for i := 0; i < g.NumGroups(); i++ {
			vals[i] = g.Group(i).Keys()[j]
		}
		col, err := table.NewColumn(keyName, keyCol.Kind(), vals)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	for nameIdx, genName := range genNames {
		vals := make([]table.Value, g.NumGroups())
		for i := 0; i < g.NumGroups(); i++ {
			c := cells[i*len(genNames)+nameIdx]
			if c.set {
				vals[i] = c.val
			} else {
				vals[i] = table.Missing()
			}
		}
		col, err := table.NewColumn(genName, valueCol.Kind(), vals)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	return table.New(cols...)
}
