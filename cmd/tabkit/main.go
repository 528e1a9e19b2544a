package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tabkit/tabkit/pkg/agg"
	"github.com/tabkit/tabkit/pkg/config"
	"github.com/tabkit/tabkit/pkg/delim"
	"github.com/tabkit/tabkit/pkg/logger"
	"github.com/tabkit/tabkit/pkg/table"
	"github.com/tabkit/tabkit/pkg/verb"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "tabkit",
		Short: "tabkit - grouped tabular transformations for delimited data",
		Long: `tabkit reads delimited text files into typed columns and applies
grouped transformations: filtering, sorting, column selection, derived
columns, group-wise summaries and pivots.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{
				Level:    viper.GetString("log_level"),
				Encoding: "console",
			})
		},
	}

	root.PersistentFlags().String("log-level", "error", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	viper.SetEnvPrefix("TABKIT")
	viper.AutomaticEnv()

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tabkit v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(newSchemaCmd())
	root.AddCommand(newConvertCmd())
	root.AddCommand(newStatsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readFlags holds the reader options shared by the subcommands
type readFlags struct {
	delimiter   string
	quote       string
	decimalMark string
	comment     string
	skipRows    int
	noHeader    bool
	kinds       []string
}

func (f *readFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.delimiter, "delimiter", "d", ",", "Field delimiter")
	cmd.Flags().StringVarP(&f.quote, "quote", "q", `"`, "Quote character")
	cmd.Flags().StringVar(&f.decimalMark, "decimal-mark", ".", "Locale decimal separator")
	cmd.Flags().StringVar(&f.comment, "comment", "", "Skip lines starting with this prefix")
	cmd.Flags().IntVar(&f.skipRows, "skip-rows", 0, "Physical lines to skip before parsing")
	cmd.Flags().BoolVar(&f.noHeader, "no-header", false, "Input has no header row")
	cmd.Flags().StringArrayVar(&f.kinds, "kind", nil, "Force a column kind, as name=kind (repeatable)")
}

func (f *readFlags) toConfig() (config.ReadConfig, error) {
	rc := config.NewReadConfig()
	rc.Delimiter = f.delimiter
	rc.Quote = f.quote
	rc.DecimalMark = f.decimalMark
	rc.Comment = f.comment
	rc.SkipRows = f.skipRows
	rc.Header = !f.noHeader
	for _, spec := range f.kinds {
		name, kind, ok := strings.Cut(spec, "=")
		if !ok {
			return rc, fmt.Errorf("invalid --kind %q, expected name=kind", spec)
		}
		if rc.Columns == nil {
			rc.Columns = make(map[string]string)
		}
		rc.Columns[name] = kind
	}
	return rc, rc.Validate()
}

func newSchemaCmd() *cobra.Command {
	var flags readFlags

	cmd := &cobra.Command{
		Use:   "schema <file>",
		Short: "Read a delimited file and print its inferred column kinds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := flags.toConfig()
			if err != nil {
				return err
			}
			t, err := delim.ReadFile(args[0], rc.ToOptions())
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d rows, %d columns\n", args[0], t.RowCount(), t.ColumnCount())
			for i := 0; i < t.ColumnCount(); i++ {
				c := t.ColumnAt(i)
				fmt.Printf("  %-20s %s\n", c.Name(), c.Kind())
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newConvertCmd() *cobra.Command {
	var flags readFlags
	var configFile, outDelimiter, missingAs string
	var outNoHeader bool

	cmd := &cobra.Command{
		Use:   "convert [<in> <out>]",
		Short: "Convert a delimited file to another delimiter or to JSON",
		Long: `Convert reads a delimited input and writes it back out. The output
format follows the destination extension: .json emits an array of row
objects, anything else is delimited text. A .gz suffix on either side
selects gzip. With --config, paths and options come from a YAML job file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				jc, err := config.Load(configFile)
				if err != nil {
					return err
				}
				return runConvert(jc)
			}

			if len(args) != 2 {
				return fmt.Errorf("expected <in> <out> arguments or --config")
			}
			rc, err := flags.toConfig()
			if err != nil {
				return err
			}
			jc := config.NewJobConfig("convert")
			jc.Input = args[0]
			jc.Output = args[1]
			jc.Read = rc
			jc.Write = config.WriteConfig{
				Delimiter: outDelimiter,
				NoHeader:  outNoHeader,
				MissingAs: missingAs,
			}
			return runConvert(jc)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML job file with input, output and options")
	cmd.Flags().StringVar(&outDelimiter, "out-delimiter", ",", "Output field delimiter")
	cmd.Flags().StringVar(&missingAs, "missing-as", "", "Output rendering of missing values")
	cmd.Flags().BoolVar(&outNoHeader, "out-no-header", false, "Suppress the output header row")
	return cmd
}

func runConvert(jc *config.JobConfig) error {
	log := logger.With(zap.String("job", jc.Name), zap.String("input", jc.Input))

	t, err := delim.ReadFile(jc.Input, jc.Read.ToOptions())
	if err != nil {
		return err
	}
	log.Info("input parsed",
		zap.Int("rows", t.RowCount()),
		zap.Int("columns", t.ColumnCount()))

	if strings.HasSuffix(jc.Output, ".json") {
		return writeJSON(jc.Output, t)
	}
	if jc.Output == "" {
		return delim.Write(os.Stdout, t, jc.Write.ToOptions())
	}
	return delim.WriteFile(jc.Output, t, jc.Write.ToOptions())
}

// writeJSON renders a table as an array of row objects
func writeJSON(path string, t *table.Table) error {
	rows := make([]map[string]interface{}, t.RowCount())
	names := t.Names()
	for r := 0; r < t.RowCount(); r++ {
		row := make(map[string]interface{}, len(names))
		for i, name := range names {
			row[name] = nativeValue(t.ColumnAt(i).Value(r))
		}
		rows[r] = row
	}

	data, err := gojson.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644) //nolint:gosec
}

func nativeValue(v table.Value) interface{} {
	if i, ok := v.Int(); ok {
		return i
	}
	if f, ok := v.Real(); ok {
		return f
	}
	if s, ok := v.Text(); ok {
		return s
	}
	if b, ok := v.Bool(); ok {
		return b
	}
	if t, ok := v.Time(); ok {
		return t
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	var flags readFlags
	var groupBy, means, sums, mins, maxs, medians []string
	var skipMissing bool

	cmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Group a delimited file and print summary statistics",
		Long: `Stats reads a file, groups it by the --group-by columns, and computes
one summary row per group. Each aggregation flag takes a column name and
may repeat. Without --group-by the whole file is one group. With
--skip-missing, missing values are dropped instead of propagating.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := flags.toConfig()
			if err != nil {
				return err
			}
			t, err := delim.ReadFile(args[0], rc.ToOptions())
			if err != nil {
				return err
			}

			opt := agg.Options{SkipMissing: skipMissing}
			aggs := []verb.Aggregation{verb.NRows("n")}
			for _, c := range means {
				aggs = append(aggs, verb.Agg("mean_"+c, c, agg.Mean(opt)))
			}
			for _, c := range medians {
				aggs = append(aggs, verb.Agg("median_"+c, c, agg.Median(opt)))
			}
			for _, c := range sums {
				aggs = append(aggs, verb.Agg("sum_"+c, c, agg.Sum(opt)))
			}
			for _, c := range mins {
				aggs = append(aggs, verb.Agg("min_"+c, c, agg.Min(opt)))
			}
			for _, c := range maxs {
				aggs = append(aggs, verb.Agg("max_"+c, c, agg.Max(opt)))
			}

			var out *table.Table
			if len(groupBy) == 0 {
				out, err = verb.SummarizeTable(t, aggs...)
			} else {
				var g *table.Grouping
				g, err = table.GroupBy(t, groupBy...)
				if err != nil {
					return err
				}
				out, err = verb.Summarize(g, aggs...)
			}
			if err != nil {
				return err
			}

			fmt.Print(out.String())
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVarP(&groupBy, "group-by", "g", nil, "Columns to group by")
	cmd.Flags().StringArrayVar(&means, "mean", nil, "Column to average (repeatable)")
	cmd.Flags().StringArrayVar(&medians, "median", nil, "Column to take the median of (repeatable)")
	cmd.Flags().StringArrayVar(&sums, "sum", nil, "Column to sum (repeatable)")
	cmd.Flags().StringArrayVar(&mins, "min", nil, "Column to take the minimum of (repeatable)")
	cmd.Flags().StringArrayVar(&maxs, "max", nil, "Column to take the maximum of (repeatable)")
	cmd.Flags().BoolVar(&skipMissing, "skip-missing", false, "Drop missing values before aggregating")
	return cmd
}
