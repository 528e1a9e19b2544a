// Package tabkit provides an in-memory engine for grouped tabular
// transformations over typed columnar data.
//
// A Table is an ordered set of named, homogeneously typed columns of equal
// length. Values carry one of five kinds (int, real, text, bool, time) or
// are Missing; comparisons involving Missing follow three-valued logic, so
// a missing operand yields a missing result rather than false.
//
// # Packages
//
//   - pkg/table: the Column/Table/Grouping data model and Value semantics
//   - pkg/verb: row and column verbs (Filter, Arrange, Select, Rename,
//     Mutate, Transmute, Summarize, Count)
//   - pkg/agg: aggregation functions for Summarize (Mean, Median, Sd, Sum,
//     Min, Max, First, Last, Nth, N, NDistinct)
//   - pkg/reshape: Longer and Wider pivots between wide and long layouts
//   - pkg/delim: delimited text reader with kind inference, and the writer
//   - pkg/config: YAML job configuration for the CLI
//
// # Quick Start
//
// Read a CSV, keep November and December rows, and summarize per month:
//
//	import (
//	    "github.com/tabkit/tabkit/pkg/agg"
//	    "github.com/tabkit/tabkit/pkg/delim"
//	    "github.com/tabkit/tabkit/pkg/table"
//	    "github.com/tabkit/tabkit/pkg/verb"
//	)
//
//	t, err := delim.ReadFile("flights.csv", delim.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	late, err := verb.Filter(t, verb.In("month", table.Int(11), table.Int(12)))
//	if err != nil {
//	    return err
//	}
//	g, err := table.GroupBy(late, "month")
//	if err != nil {
//	    return err
//	}
//	out, err := verb.Summarize(g,
//	    verb.NRows("n"),
//	    verb.Agg("mean_delay", "dep_delay", agg.Mean(agg.Options{SkipMissing: true})),
//	)
//
// Tables are immutable: every verb returns a new Table that shares column
// storage with its input where the operation allows it.
package tabkit
