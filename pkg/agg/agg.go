// Package agg provides aggregation functions over value sequences.
//
// Every aggregator takes Options controlling missing-value handling. The
// default (SkipMissing=false) never drops missing values silently: a numeric
// aggregation over a sequence containing Missing yields Missing unless the
// caller asked to skip.
package agg

import (
	"github.com/montanaflynn/stats"

	"github.com/tabkit/tabkit/pkg/errors"
	"github.com/tabkit/tabkit/pkg/table"
)

// Options configures missing-value handling for an aggregation
type Options struct {
	// SkipMissing drops missing values before aggregating. When false, any
	// missing input makes numeric aggregations return Missing.
	SkipMissing bool
}

// Func aggregates a sequence of values into one value
type Func func(vals []table.Value) (table.Value, error)

// numbers extracts the numeric payloads. The bool result is false when the
// sequence contains a missing value that must propagate (SkipMissing=false).
func numbers(vals []table.Value, opt Options) ([]float64, bool, error) {
	out := make([]float64, 0, len(vals))
	for i, v := range vals {
		if v.IsMissing() {
			if !opt.SkipMissing {
				return nil, false, nil
			}
			continue
		}
		n, ok := v.Number()
		if !ok {
			return nil, false, errors.Newf(errors.ErrorTypeTypeMismatch,
				"numeric aggregation over %s value", v.Kind()).WithRow(i)
		}
		out = append(out, n)
	}
	return out, true, nil
}

func numericAgg(opt Options, compute func([]float64) (float64, error)) Func {
	return func(vals []table.Value) (table.Value, error) {
		nums, ok, err := numbers(vals, opt)
		if err != nil {
			return table.Value{}, err
		}
		if !ok || len(nums) == 0 {
			return table.Missing(), nil
		}
		res, err := compute(nums)
		if err != nil {
			return table.Value{}, errors.Wrap(err, errors.ErrorTypeInternal, "aggregation failed")
		}
		return table.Real(res), nil
	}
}

// Mean averages numeric values
func Mean(opt Options) Func {
	return numericAgg(opt, func(xs []float64) (float64, error) {
		return stats.Mean(xs)
	})
}

// Median returns the middle numeric value
func Median(opt Options) Func {
	return numericAgg(opt, func(xs []float64) (float64, error) {
		return stats.Median(xs)
	})
}

// Sd returns the sample standard deviation
func Sd(opt Options) Func {
	return numericAgg(opt, func(xs []float64) (float64, error) {
		return stats.StandardDeviationSample(xs)
	})
}

// Sum totals numeric values. An all-int input yields an int.
func Sum(opt Options) Func {
	return func(vals []table.Value) (table.Value, error) {
		allInt := true
		var isum int64
		var rsum float64
		n := 0
		for i, v := range vals {
			if v.IsMissing() {
				if !opt.SkipMissing {
					return table.Missing(), nil
				}
				continue
			}
			f, ok := v.Number()
			if !ok {
				return table.Value{}, errors.Newf(errors.ErrorTypeTypeMismatch,
					"numeric aggregation over %s value", v.Kind()).WithRow(i)
			}
			if iv, isInt := v.Int(); isInt {
				isum += iv
			} else {
				allInt = false
			}
			rsum += f
			n++
		}
		if n == 0 {
			return table.Missing(), nil
		}
		if allInt {
			return table.Int(isum), nil
		}
		return table.Real(rsum), nil
	}
}

func extremum(opt Options, wantGreater bool) Func {
	return func(vals []table.Value) (table.Value, error) {
		best := table.Missing()
		for _, v := range vals {
			if v.IsMissing() {
				if !opt.SkipMissing {
					return table.Missing(), nil
				}
				continue
			}
			if best.IsMissing() {
				best = v
				continue
			}
			c, err := table.Compare(v, best)
			if err != nil {
				return table.Value{}, err
			}
			if (wantGreater && c > 0) || (!wantGreater && c < 0) {
				best = v
			}
		}
		return best, nil
	}
}

// Min returns the smallest value under the column ordering. It works for any
// orderable kind, not only numerics.
func Min(opt Options) Func {
	return extremum(opt, false)
}

// Max returns the largest value under the column ordering
func Max(opt Options) Func {
	return extremum(opt, true)
}

func position(vals []table.Value, opt Options) []table.Value {
	if !opt.SkipMissing {
		return vals
	}
	kept := make([]table.Value, 0, len(vals))
	for _, v := range vals {
		if !v.IsMissing() {
			kept = append(kept, v)
		}
	}
	return kept
}

// First returns the first value; with SkipMissing, the first non-missing one.
// An empty sequence yields Missing.
func First(opt Options) Func {
	return func(vals []table.Value) (table.Value, error) {
		kept := position(vals, opt)
		if len(kept) == 0 {
			return table.Missing(), nil
		}
		return kept[0], nil
	}
}

// Last returns the last value; with SkipMissing, the last non-missing one
func Last(opt Options) Func {
	return func(vals []table.Value) (table.Value, error) {
		kept := position(vals, opt)
		if len(kept) == 0 {
			return table.Missing(), nil
		}
		return kept[len(kept)-1], nil
	}
}

// Nth returns the value at the zero-based position i, after missing values
// are dropped when SkipMissing is set. Out-of-range positions yield Missing.
func Nth(i int, opt Options) Func {
	return func(vals []table.Value) (table.Value, error) {
		kept := position(vals, opt)
		if i < 0 || i >= len(kept) {
			return table.Missing(), nil
		}
		return kept[i], nil
	}
}

// N counts all values, missing included
func N() Func {
	return func(vals []table.Value) (table.Value, error) {
		return table.Int(int64(len(vals))), nil
	}
}

// NDistinct counts distinct values. Missing counts as one distinct value
// equal to itself, a deliberate deviation from three-valued equality that
// keeps the count usable; SkipMissing excludes missing values instead.
func NDistinct(opt Options) Func {
	return func(vals []table.Value) (table.Value, error) {
		seen := make(map[string]struct{}, len(vals))
		for _, v := range vals {
			if v.IsMissing() && opt.SkipMissing {
				continue
			}
			// Key is injective per kind and payload, so Int(1) and Text("1")
			// stay distinct and timestamps keep nanosecond precision.
			seen[v.Key()] = struct{}{}
		}
		return table.Int(int64(len(seen))), nil
	}
}
