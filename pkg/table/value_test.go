package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabkit/tabkit/pkg/errors"
)

func TestValueKinds(t *testing.T) {
	assert.Equal(t, KindInt, Int(3).Kind())
	assert.Equal(t, KindReal, Real(1.5).Kind())
	assert.Equal(t, KindText, Text("a").Kind())
	assert.Equal(t, KindBool, Bool(true).Kind())
	assert.Equal(t, KindTime, Time(time.Unix(0, 0)).Kind())
	assert.True(t, Missing().IsMissing())
	assert.False(t, Int(0).IsMissing())
}

func TestMissingEqualsMissingIsMissing(t *testing.T) {
	eq, err := Equal(Missing(), Missing())
	require.NoError(t, err)
	assert.True(t, eq.IsMissing(), "Missing == Missing must yield Missing, not true")
}

func TestThreeValuedComparison(t *testing.T) {
	eq, err := Equal(Int(2), Int(2))
	require.NoError(t, err)
	b, ok := eq.Bool()
	require.True(t, ok)
	assert.True(t, b)

	lt, err := Less(Int(1), Real(1.5))
	require.NoError(t, err)
	b, _ = lt.Bool()
	assert.True(t, b, "int and real compare numerically")

	m, err := Greater(Missing(), Int(1))
	require.NoError(t, err)
	assert.True(t, m.IsMissing())

	_, err = Equal(Text("a"), Int(1))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestCompareSortsMissingLast(t *testing.T) {
	c, err := Compare(Int(5), Missing())
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(Missing(), Text("z"))
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = Compare(Missing(), Missing())
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}

func TestKleeneLogic(t *testing.T) {
	// false AND missing = false
	v, err := And(Bool(false), Missing())
	require.NoError(t, err)
	b, ok := v.Bool()
	require.True(t, ok)
	assert.False(t, b)

	// true AND missing = missing
	v, err = And(Bool(true), Missing())
	require.NoError(t, err)
	assert.True(t, v.IsMissing())

	// true OR missing = true
	v, err = Or(Missing(), Bool(true))
	require.NoError(t, err)
	b, _ = v.Bool()
	assert.True(t, b)

	// NOT missing = missing
	v, err = Not(Missing())
	require.NoError(t, err)
	assert.True(t, v.IsMissing())

	_, err = And(Int(1), Bool(true))
	assert.Error(t, err)
}

func TestArithmetic(t *testing.T) {
	v, err := Add(Int(2), Int(3))
	require.NoError(t, err)
	i, ok := v.Int()
	require.True(t, ok)
	assert.Equal(t, int64(5), i)

	v, err = Mul(Int(2), Real(1.5))
	require.NoError(t, err)
	r, ok := v.Real()
	require.True(t, ok)
	assert.InDelta(t, 3.0, r, 1e-12)

	// integer division promotes to real
	v, err = Div(Int(3), Int(2))
	require.NoError(t, err)
	r, ok = v.Real()
	require.True(t, ok)
	assert.InDelta(t, 1.5, r, 1e-12)

	v, err = Sub(Int(1), Missing())
	require.NoError(t, err)
	assert.True(t, v.IsMissing())

	_, err = Add(Text("a"), Int(1))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestIn(t *testing.T) {
	v, err := In(Int(11), Int(11), Int(12))
	require.NoError(t, err)
	b, _ := v.Bool()
	assert.True(t, b)

	v, err = In(Int(3), Int(11), Int(12))
	require.NoError(t, err)
	b, _ = v.Bool()
	assert.False(t, b)

	v, err = In(Missing(), Int(11), Int(12))
	require.NoError(t, err)
	assert.True(t, v.IsMissing())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "NA", Missing().String())
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "1.5", Real(1.5).String())
	assert.Equal(t, "true", Bool(true).String())
}
