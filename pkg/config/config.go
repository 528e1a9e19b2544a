// Package config defines the configuration structures for tabkit jobs.
// A JobConfig describes one end-to-end run: where to read from, how the
// input is delimited, and where the result goes. The read section maps
// directly onto delim.Options.
package config

import (
	"github.com/tabkit/tabkit/pkg/delim"
	"github.com/tabkit/tabkit/pkg/errors"
	"github.com/tabkit/tabkit/pkg/table"
)

// ReadConfig describes how a delimited input is parsed.
type ReadConfig struct {
	// Delimiter separates fields; defaults to ","
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// Quote encloses fields containing the delimiter; defaults to `"`
	Quote string `yaml:"quote" json:"quote"`
	// Header treats the first retained line as column names
	Header bool `yaml:"header" json:"header"`
	// Comment skips lines starting with the prefix, when non-empty
	Comment string `yaml:"comment" json:"comment"`
	// SkipRows skips that many physical lines before anything else
	SkipRows int `yaml:"skip_rows" json:"skip_rows"`
	// DecimalMark is the locale decimal separator; defaults to "."
	DecimalMark string `yaml:"decimal_mark" json:"decimal_mark"`
	// Columns forces named columns to a declared kind, skipping inference.
	// Kinds are named int, real, text, bool, time.
	Columns map[string]string `yaml:"columns" json:"columns"`
}

// WriteConfig describes how a table is rendered back out.
type WriteConfig struct {
	// Delimiter separates output fields; defaults to ","
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// NoHeader suppresses the column name row
	NoHeader bool `yaml:"no_header" json:"no_header"`
	// MissingAs renders missing values; defaults to the empty field
	MissingAs string `yaml:"missing_as" json:"missing_as"`
}

// JobConfig describes a full CLI run.
type JobConfig struct {
	// Name identifies the job in logs
	Name string `yaml:"name" json:"name"`
	// Input is the path of the delimited input file
	Input string `yaml:"input" json:"input"`
	// Output is the destination path; empty means stdout
	Output string `yaml:"output" json:"output"`

	Read  ReadConfig  `yaml:"read" json:"read"`
	Write WriteConfig `yaml:"write" json:"write"`
}

// NewReadConfig returns the reader defaults: comma-delimited, double-quoted,
// with a header row.
func NewReadConfig() ReadConfig {
	return ReadConfig{
		Delimiter:   ",",
		Quote:       `"`,
		Header:      true,
		DecimalMark: ".",
	}
}

// NewJobConfig creates a JobConfig with default read and write sections.
func NewJobConfig(name string) *JobConfig {
	return &JobConfig{
		Name: name,
		Read: NewReadConfig(),
	}
}

var kindNames = map[string]table.Kind{
	"int":  table.KindInt,
	"real": table.KindReal,
	"text": table.KindText,
	"bool": table.KindBool,
	"time": table.KindTime,
}

// Validate checks the read section for correctness.
func (rc ReadConfig) Validate() error {
	if err := runeField("delimiter", rc.Delimiter); err != nil {
		return err
	}
	if err := runeField("quote", rc.Quote); err != nil {
		return err
	}
	if err := runeField("decimal_mark", rc.DecimalMark); err != nil {
		return err
	}
	if rc.DecimalMark != "" && rc.DecimalMark == rc.Delimiter {
		return errors.Newf(errors.ErrorTypeLocaleConflict,
			"decimal mark %q collides with the field delimiter", rc.DecimalMark)
	}
	if rc.SkipRows < 0 {
		return errors.New(errors.ErrorTypeConfig, "skip_rows must not be negative")
	}
	for col, kind := range rc.Columns {
		if _, ok := kindNames[kind]; !ok {
			return errors.Newf(errors.ErrorTypeConfig,
				"unknown column kind %q for column %q", kind, col)
		}
	}
	return nil
}

// Validate checks the whole job for correctness.
func (jc *JobConfig) Validate() error {
	if jc.Input == "" {
		return errors.New(errors.ErrorTypeConfig, "input is required")
	}
	if err := jc.Read.Validate(); err != nil {
		return err
	}
	return runeField("write delimiter", jc.Write.Delimiter)
}

// ToOptions converts the read section into reader options. The config must
// have been validated first.
func (rc ReadConfig) ToOptions() delim.Options {
	opts := delim.Options{
		Delimiter:     firstRune(rc.Delimiter),
		Quote:         firstRune(rc.Quote),
		HasHeader:     rc.Header,
		CommentPrefix: rc.Comment,
		SkipRows:      rc.SkipRows,
		DecimalMark:   firstRune(rc.DecimalMark),
	}
	if len(rc.Columns) > 0 {
		opts.ColumnKinds = make(map[string]table.Kind, len(rc.Columns))
		for col, kind := range rc.Columns {
			opts.ColumnKinds[col] = kindNames[kind]
		}
	}
	return opts
}

// ToOptions converts the write section into writer options.
func (wc WriteConfig) ToOptions() delim.WriteOptions {
	return delim.WriteOptions{
		Delimiter: firstRune(wc.Delimiter),
		NoHeader:  wc.NoHeader,
		MissingAs: wc.MissingAs,
	}
}

func runeField(name, s string) error {
	if len([]rune(s)) > 1 {
		return errors.Newf(errors.ErrorTypeConfig, "%s must be a single character, got %q", name, s)
	}
	return nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
