// Package table provides the in-memory data model for tabkit: typed values
// with an explicit missing marker, homogeneous columns, immutable tables, and
// row groupings.
//
// All operations over these types are pure. A Table is never modified after
// construction; derived tables may share column storage with their inputs,
// which is invisible to callers because columns expose no mutators.
package table

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tabkit/tabkit/pkg/errors"
)

// Kind identifies the element type of a Value or Column.
type Kind int

const (
	// KindMissing tags the explicit "value unknown" marker. A column declared
	// KindMissing contains no observed non-missing value.
	KindMissing Kind = iota
	// KindInt tags 64-bit signed integers
	KindInt
	// KindReal tags 64-bit floating point numbers
	KindReal
	// KindText tags strings
	KindText
	// KindBool tags booleans
	KindBool
	// KindTime tags timestamps
	KindTime
)

// String returns the lowercase kind name
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a tagged union over int, real, text, bool, time and the missing
// marker. Missing is a distinct tag, not a sentinel of another kind.
// Arithmetic and comparisons involving Missing propagate Missing
// (three-valued logic).
type Value struct {
	kind Kind
	i    int64
	r    float64
	s    string
	b    bool
	t    time.Time
}

// Int creates an integer value
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Real creates a floating point value
func Real(v float64) Value { return Value{kind: KindReal, r: v} }

// Text creates a string value
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Bool creates a boolean value
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Time creates a timestamp value
func Time(v time.Time) Value { return Value{kind: KindTime, t: v} }

// Missing returns the missing marker
func Missing() Value { return Value{kind: KindMissing} }

// Kind returns the value's tag
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the value is the missing marker
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Int returns the integer payload. The second result is false when the value
// is not an int.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Real returns the floating point payload
func (v Value) Real() (float64, bool) { return v.r, v.kind == KindReal }

// Text returns the string payload
func (v Value) Text() (string, bool) { return v.s, v.kind == KindText }

// Bool returns the boolean payload
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Time returns the timestamp payload
func (v Value) Time() (time.Time, bool) { return v.t, v.kind == KindTime }

// Number returns the value as a float64, promoting ints. The second result is
// false for non-numeric values.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindReal:
		return v.r, true
	default:
		return 0, false
	}
}

// String renders the value for display. Missing renders as "NA".
func (v Value) String() string {
	switch v.kind {
	case KindMissing:
		return "NA"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.r, 'g', -1, 64)
	case KindText:
		return v.s
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return "?"
	}
}

// Key encodes the value injectively: two values produce the same key exactly
// when they are the same kind and payload. Missing encodes to its own key, so
// it is self-equal as a group key even though three-valued equality would
// make it incomparable. Times encode at nanosecond precision.
func (v Value) Key() string {
	switch v.kind {
	case KindMissing:
		return "m"
	case KindInt:
		return "i" + strconv.FormatInt(v.i, 10)
	case KindReal:
		return "r" + strconv.FormatUint(math.Float64bits(v.r), 16)
	case KindText:
		return "s" + v.s
	case KindBool:
		return "b" + strconv.FormatBool(v.b)
	case KindTime:
		return "t" + strconv.FormatInt(v.t.UnixNano(), 10)
	default:
		return "?"
	}
}

func kindMismatch(a, b Value) *errors.Error {
	return errors.Newf(errors.ErrorTypeTypeMismatch,
		"cannot combine %s with %s", a.kind, b.kind)
}

// numeric reports whether the kind is int or real
func (k Kind) numeric() bool { return k == KindInt || k == KindReal }

// compareNonMissing orders two non-missing values of compatible kinds.
// Ints and reals compare numerically across kinds.
func compareNonMissing(a, b Value) (int, error) {
	if a.kind.numeric() && b.kind.numeric() {
		if a.kind == KindInt && b.kind == KindInt {
			switch {
			case a.i < b.i:
				return -1, nil
			case a.i > b.i:
				return 1, nil
			default:
				return 0, nil
			}
		}
		af, _ := a.Number()
		bf, _ := b.Number()
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}

	if a.kind != b.kind {
		return 0, kindMismatch(a, b)
	}

	switch a.kind {
	case KindText:
		return strings.Compare(a.s, b.s), nil
	case KindBool:
		switch {
		case a.b == b.b:
			return 0, nil
		case b.b:
			return -1, nil
		default:
			return 1, nil
		}
	case KindTime:
		switch {
		case a.t.Before(b.t):
			return -1, nil
		case a.t.After(b.t):
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, errors.Newf(errors.ErrorTypeInternal, "unorderable kind %s", a.kind)
	}
}

// Compare orders values for sorting: -1, 0 or 1. Missing sorts after every
// non-missing value, and equal to itself. This is the total order used by
// arrange; it is distinct from the three-valued comparison operators below.
func Compare(a, b Value) (int, error) {
	switch {
	case a.IsMissing() && b.IsMissing():
		return 0, nil
	case a.IsMissing():
		return 1, nil
	case b.IsMissing():
		return -1, nil
	}
	return compareNonMissing(a, b)
}

func threeValued(a, b Value, keep func(int) bool) (Value, error) {
	if a.IsMissing() || b.IsMissing() {
		return Missing(), nil
	}
	c, err := compareNonMissing(a, b)
	if err != nil {
		return Value{}, err
	}
	return Bool(keep(c)), nil
}

// Equal compares for equality under three-valued logic: any missing operand
// yields Missing, so Missing == Missing is Missing rather than true.
func Equal(a, b Value) (Value, error) {
	return threeValued(a, b, func(c int) bool { return c == 0 })
}

// NotEqual is the three-valued negation of Equal
func NotEqual(a, b Value) (Value, error) {
	return threeValued(a, b, func(c int) bool { return c != 0 })
}

// Less compares under three-valued logic
func Less(a, b Value) (Value, error) {
	return threeValued(a, b, func(c int) bool { return c < 0 })
}

// LessEq compares under three-valued logic
func LessEq(a, b Value) (Value, error) {
	return threeValued(a, b, func(c int) bool { return c <= 0 })
}

// Greater compares under three-valued logic
func Greater(a, b Value) (Value, error) {
	return threeValued(a, b, func(c int) bool { return c > 0 })
}

// GreaterEq compares under three-valued logic
func GreaterEq(a, b Value) (Value, error) {
	return threeValued(a, b, func(c int) bool { return c >= 0 })
}

// In reports whether a equals any member of set, under three-valued logic.
// A missing operand yields Missing unless a non-missing member already
// matched.
func In(a Value, set ...Value) (Value, error) {
	sawMissing := a.IsMissing()
	for _, m := range set {
		eq, err := Equal(a, m)
		if err != nil {
			return Value{}, err
		}
		if eq.IsMissing() {
			sawMissing = true
			continue
		}
		if b, _ := eq.Bool(); b {
			return Bool(true), nil
		}
	}
	if sawMissing {
		return Missing(), nil
	}
	return Bool(false), nil
}

// And combines booleans under Kleene three-valued logic: false dominates
// Missing.
func And(a, b Value) (Value, error) {
	av, aok, err := boolOperand(a)
	if err != nil {
		return Value{}, err
	}
	bv, bok, err := boolOperand(b)
	if err != nil {
		return Value{}, err
	}
	if (aok && !av) || (bok && !bv) {
		return Bool(false), nil
	}
	if !aok || !bok {
		return Missing(), nil
	}
	return Bool(true), nil
}

// Or combines booleans under Kleene three-valued logic: true dominates
// Missing.
func Or(a, b Value) (Value, error) {
	av, aok, err := boolOperand(a)
	if err != nil {
		return Value{}, err
	}
	bv, bok, err := boolOperand(b)
	if err != nil {
		return Value{}, err
	}
	if (aok && av) || (bok && bv) {
		return Bool(true), nil
	}
	if !aok || !bok {
		return Missing(), nil
	}
	return Bool(false), nil
}

// Not negates a boolean; Missing propagates
func Not(a Value) (Value, error) {
	v, ok, err := boolOperand(a)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return Missing(), nil
	}
	return Bool(!v), nil
}

func boolOperand(v Value) (val, ok bool, err error) {
	if v.IsMissing() {
		return false, false, nil
	}
	b, isBool := v.Bool()
	if !isBool {
		return false, false, errors.Newf(errors.ErrorTypeTypeMismatch,
			"expected bool or missing, got %s", v.kind)
	}
	return b, true, nil
}

type arithOp int

const (
	opAdd arithOp = iota
	opSub
	opMul
	opDiv
)

func arith(a, b Value, op arithOp) (Value, error) {
	if a.IsMissing() || b.IsMissing() {
		return Missing(), nil
	}
	if !a.kind.numeric() || !b.kind.numeric() {
		return Value{}, kindMismatch(a, b)
	}

	// Division always promotes; integer operands otherwise stay integral.
	if a.kind == KindInt && b.kind == KindInt && op != opDiv {
		switch op {
		case opAdd:
			return Int(a.i + b.i), nil
		case opSub:
			return Int(a.i - b.i), nil
		case opMul:
			return Int(a.i * b.i), nil
		}
	}

	af, _ := a.Number()
	bf, _ := b.Number()
	switch op {
	case opAdd:
		return Real(af + bf), nil
	case opSub:
		return Real(af - bf), nil
	case opMul:
		return Real(af * bf), nil
	default:
		return Real(af / bf), nil
	}
}

// Add sums two numeric values; Missing propagates
func Add(a, b Value) (Value, error) { return arith(a, b, opAdd) }

// Sub subtracts b from a; Missing propagates
func Sub(a, b Value) (Value, error) { return arith(a, b, opSub) }

// Mul multiplies two numeric values; Missing propagates
func Mul(a, b Value) (Value, error) { return arith(a, b, opMul) }

// Div divides a by b, always producing a real; Missing propagates
func Div(a, b Value) (Value, error) { return arith(a, b, opDiv) }
