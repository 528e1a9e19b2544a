package verb

import (
	"sort"

	"github.com/tabkit/tabkit/pkg/table"
)

// SortKey names a column to sort by and its direction
type SortKey struct {
	Column     string
	Descending bool
}

// Asc sorts a column ascending
func Asc(column string) SortKey { return SortKey{Column: column} }

// Desc sorts a column descending
func Desc(column string) SortKey { return SortKey{Column: column, Descending: true} }

// Arrange performs a stable multi-key sort: the first key is primary, ties
// break on subsequent keys, and rows equal on every key keep their original
// relative order. Missing values sort after all non-missing values in their
// column regardless of direction.
func Arrange(t *table.Table, keys ...SortKey) (*table.Table, error) {
	cols := make([]*table.Column, len(keys))
	for i, k := range keys {
		c, err := t.Column(k.Column)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}

	order := make([]int, t.RowCount())
	for i := range order {
		order[i] = i
	}

	var sortErr error
	sort.SliceStable(order, func(a, b int) bool {
		if sortErr != nil {
			return false
		}
		ra, rb := order[a], order[b]
		for i, k := range keys {
			va, vb := cols[i].Value(ra), cols[i].Value(rb)
			c, err := table.Compare(va, vb)
			if err != nil {
				sortErr = err
				return false
			}
			// Compare already puts missing last; direction only flips the
			// order of the non-missing values.
			if k.Descending && !va.IsMissing() && !vb.IsMissing() {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}

	return t.TakeRows(order)
}
