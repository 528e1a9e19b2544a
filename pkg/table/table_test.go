package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabkit/tabkit/pkg/errors"
)

func TestNewColumnValidatesKinds(t *testing.T) {
	_, err := NewColumn("x", KindInt, []Value{Int(1), Missing(), Int(3)})
	require.NoError(t, err)

	_, err = NewColumn("x", KindInt, []Value{Int(1), Text("oops")})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	// all-missing column carries the missing kind
	c, err := NewColumn("x", KindMissing, []Value{Missing(), Missing()})
	require.NoError(t, err)
	assert.Equal(t, KindMissing, c.Kind())
}

func TestFromValuesPromotesNumerics(t *testing.T) {
	c, err := FromValues("x", []Value{Int(1), Real(2.5), Missing()})
	require.NoError(t, err)
	assert.Equal(t, KindReal, c.Kind())
	r, ok := c.Value(0).Real()
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-12)

	_, err = FromValues("x", []Value{Int(1), Text("a")})
	assert.Error(t, err)
}

func TestNewTableInvariants(t *testing.T) {
	_, err := New(Ints("a", 1, 2), Ints("a", 3, 4))
	require.Error(t, err, "duplicate names rejected")

	_, err = New(Ints("a", 1, 2), Ints("b", 3))
	require.Error(t, err, "unequal lengths rejected")

	tbl, err := New(Ints("a", 1, 2), Texts("b", "x", "y"))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
}

func TestColumnLookup(t *testing.T) {
	tbl, err := New(Ints("a", 1))
	require.NoError(t, err)

	c, err := tbl.Column("a")
	require.NoError(t, err)
	assert.Equal(t, "a", c.Name())

	_, err = tbl.Column("nope")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))
}

func TestTakeRows(t *testing.T) {
	tbl, err := New(Ints("a", 10, 20, 30), Texts("b", "x", "y", "z"))
	require.NoError(t, err)

	out, err := tbl.TakeRows([]int{2, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, out.RowCount())
	col, _ := out.Column("a")
	i, _ := col.Value(0).Int()
	assert.Equal(t, int64(30), i)
	i, _ = col.Value(1).Int()
	assert.Equal(t, int64(10), i)

	_, err = tbl.TakeRows([]int{3})
	assert.Error(t, err)
}

func TestWithColumnDoesNotMutateInput(t *testing.T) {
	tbl, err := New(Ints("a", 1, 2))
	require.NoError(t, err)

	out, err := tbl.WithColumn(Ints("b", 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 2, out.ColumnCount())
	assert.Equal(t, 1, tbl.ColumnCount(), "input table unchanged")

	// replacement keeps position
	out2, err := out.WithColumn(Texts("a", "p", "q"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out2.Names())
	c, _ := out2.Column("a")
	assert.Equal(t, KindText, c.Kind())
	c, _ = out.Column("a")
	assert.Equal(t, KindInt, c.Kind(), "input table unchanged")
}

func TestRowLookup(t *testing.T) {
	tbl, err := New(Ints("a", 1, 2), Texts("b", "x", "y"))
	require.NoError(t, err)

	v, err := tbl.Row(1).Value("b")
	require.NoError(t, err)
	s, _ := v.Text()
	assert.Equal(t, "y", s)

	_, err = tbl.Row(0).Value("c")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))
}

func TestTableEqual(t *testing.T) {
	a, _ := New(Ints("x", 1, 2))
	b, _ := New(Ints("x", 1, 2))
	c, _ := New(Ints("x", 1, 3))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}
