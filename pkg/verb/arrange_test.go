package verb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabkit/tabkit/pkg/errors"
	"github.com/tabkit/tabkit/pkg/table"
)

func intCol(t *testing.T, tbl *table.Table, name string) []int64 {
	t.Helper()
	c, err := tbl.Column(name)
	require.NoError(t, err)
	out := make([]int64, c.Len())
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Value(i).Int()
		require.True(t, ok, "row %d of %q is not an int", i, name)
		out[i] = v
	}
	return out
}

func TestArrangeSingleKey(t *testing.T) {
	tbl, err := table.New(table.Ints("x", 3, 1, 2))
	require.NoError(t, err)

	out, err := Arrange(tbl, Asc("x"))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, intCol(t, out, "x"))

	out, err = Arrange(tbl, Desc("x"))
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, intCol(t, out, "x"))
}

func TestArrangeIsStable(t *testing.T) {
	tbl, err := table.New(
		table.Ints("k", 1, 2, 1, 2, 1),
		table.Ints("id", 0, 1, 2, 3, 4),
	)
	require.NoError(t, err)

	out, err := Arrange(tbl, Asc("k"))
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2, 4, 1, 3}, intCol(t, out, "id"),
		"rows equal on the key keep their input order")
}

func TestArrangeMultiKey(t *testing.T) {
	tbl, err := table.New(
		table.Texts("g", "b", "a", "b", "a"),
		table.Ints("v", 1, 2, 3, 4),
	)
	require.NoError(t, err)

	out, err := Arrange(tbl, Asc("g"), Desc("v"))
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2, 3, 1}, intCol(t, out, "v"))
}

func TestArrangeMissingSortsLastBothDirections(t *testing.T) {
	col, err := table.NewColumn("x", table.KindInt,
		[]table.Value{table.Int(2), table.Missing(), table.Int(1)})
	require.NoError(t, err)
	tbl, err := table.New(col, table.Ints("id", 0, 1, 2))
	require.NoError(t, err)

	out, err := Arrange(tbl, Asc("x"))
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 0, 1}, intCol(t, out, "id"))
	xs, _ := out.Column("x")
	assert.True(t, xs.Value(2).IsMissing())

	out, err = Arrange(tbl, Desc("x"))
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2, 1}, intCol(t, out, "id"),
		"missing still sorts last when descending")
}

func TestArrangeUnknownKey(t *testing.T) {
	tbl, _ := table.New(table.Ints("x", 1))
	_, err := Arrange(tbl, Asc("nope"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))
}
