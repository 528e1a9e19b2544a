// Package reshape implements the layout transformations between wide and
// long tables: Longer stacks value columns into name/value pairs, Wider
// spreads a name/value pair back into columns.
//
// Like the verbs, reshape operations are pure: the input table is never
// modified.
package reshape

import (
	"github.com/tabkit/tabkit/pkg/errors"
	"github.com/tabkit/tabkit/pkg/table"
)

// LongerSpec configures Longer
type LongerSpec struct {
	// ValueColumns are the columns whose names encode a variable's values
	ValueColumns []string
	// NamesTo names the output column receiving the stacked column names
	NamesTo string
	// ValuesTo names the output column receiving the stacked cells
	ValuesTo string
	// NamesTransform optionally converts a column name into a typed value,
	// e.g. a year column name into an int. When nil the name stays text.
	NamesTransform func(name string) (table.Value, error)
}

// Longer pivots the selected columns into long layout. Each input row emits
// one output row per selected column: the non-selected columns copied, the
// column's (possibly transformed) name under NamesTo, and its cell under
// ValuesTo. Output rows group by original row first, then follow the
// ValueColumns order.
func Longer(t *table.Table, spec LongerSpec) (*table.Table, error) {
	if len(spec.ValueColumns) == 0 || spec.NamesTo == "" || spec.ValuesTo == "" {
		return nil, errors.New(errors.ErrorTypeConfig,
			"pivot longer requires value columns and names_to/values_to")
	}

	valueCols := make([]*table.Column, len(spec.ValueColumns))
	isValue := make(map[string]bool, len(spec.ValueColumns))
	for i, name := range spec.ValueColumns {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		valueCols[i] = c
		isValue[name] = true
	}

	var retained []string
	for _, name := range t.Names() {
		if !isValue[name] {
			retained = append(retained, name)
		}
	}

	nOut := t.RowCount() * len(valueCols)

	names := make([]table.Value, 0, nOut)
	cells := make([]table.Value, 0, nOut)
	repeat := make([]int, 0, nOut)
	for r := 0; r < t.RowCount(); r++ {
		for _, c := range valueCols {
			nameVal := table.Text(c.Name())
			if spec.NamesTransform != nil {
				v, err := spec.NamesTransform(c.Name())
				if err != nil {
					return nil, errors.Wrap(err, errors.ErrorTypeParse,
						"names transform failed").WithColumn(c.Name())
				}
				nameVal = v
			}
			names = append(names, nameVal)
			cells = append(cells, c.Value(r))
			repeat = append(repeat, r)
		}
	}

	nameCol, err := table.FromValues(spec.NamesTo, names)
	if err != nil {
		return nil, err
	}
	valueCol, err := table.FromValues(spec.ValuesTo, cells)
	if err != nil {
		return nil, err
	}

	cols := make([]*table.Column, 0, len(retained)+2)
	for _, name := range retained {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		vals := make([]table.Value, len(repeat))
		for i, r := range repeat {
			vals[i] = c.Value(r)
		}
		rc, err := table.NewColumn(name, c.Kind(), vals)
		if err != nil {
			return nil, err
		}
		cols = append(cols, rc)
	}
	cols = append(cols, nameCol, valueCol)
	return table.New(cols...)
}
