package table

import (
	"strconv"
	"strings"
)

// Group is one partition cell: the key values shared by its rows and the row
// indices into the base table, in original order.
type Group struct {
	keys []Value
	rows []int
}

// Keys returns a copy of the group's key values, one per key column
func (g Group) Keys() []Value {
	keys := make([]Value, len(g.keys))
	copy(keys, g.keys)
	return keys
}

// Rows returns a copy of the group's row indices
func (g Group) Rows() []int {
	rows := make([]int, len(g.rows))
	copy(rows, g.rows)
	return rows
}

// Size returns the number of rows in the group
func (g Group) Size() int { return len(g.rows) }

// Grouping partitions a table's row indices by the distinct value tuples of
// its key columns. Groups appear in the order their key tuple is first seen
// scanning rows top to bottom. Missing is a valid, self-equal key value.
//
// A Grouping references its base table and never mutates it.
type Grouping struct {
	base     *Table
	keyNames []string
	groups   []Group
}

// GroupBy builds a grouping over the named key columns
func GroupBy(t *Table, keys ...string) (*Grouping, error) {
	keyCols := make([]*Column, len(keys))
	for i, name := range keys {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		keyCols[i] = c
	}

	g := &Grouping{
		base:     t,
		keyNames: append([]string(nil), keys...),
	}

	seen := make(map[string]int)
	var sb strings.Builder
	for r := 0; r < t.RowCount(); r++ {
		sb.Reset()
		for _, c := range keyCols {
			// Length-prefix each component so the joined tuple key is
			// injective even when a text payload contains the separator.
			part := c.Value(r).Key()
			sb.WriteString(strconv.Itoa(len(part)))
			sb.WriteByte(':')
			sb.WriteString(part)
		}
		key := sb.String()

		idx, ok := seen[key]
		if !ok {
			keyVals := make([]Value, len(keyCols))
			for i, c := range keyCols {
				keyVals[i] = c.Value(r)
			}
			idx = len(g.groups)
			seen[key] = idx
			g.groups = append(g.groups, Group{keys: keyVals})
		}
		g.groups[idx].rows = append(g.groups[idx].rows, r)
	}
	return g, nil
}

// Base returns the underlying table
func (g *Grouping) Base() *Table { return g.base }

// KeyColumns returns the key column names in order
func (g *Grouping) KeyColumns() []string {
	return append([]string(nil), g.keyNames...)
}

// NumGroups returns the number of distinct key tuples
func (g *Grouping) NumGroups() int { return len(g.groups) }

// Group returns the i-th group in first-appearance order
func (g *Grouping) Group(i int) Group { return g.groups[i] }

// Ungroup drops the grouping metadata, returning the base table unchanged
func (g *Grouping) Ungroup() *Table { return g.base }
