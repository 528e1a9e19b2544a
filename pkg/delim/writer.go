package delim

import (
	"encoding/csv"
	"io"

	"github.com/tabkit/tabkit/pkg/errors"
	"github.com/tabkit/tabkit/pkg/table"
)

// WriteOptions configures the writer
type WriteOptions struct {
	// Delimiter separates output fields; defaults to ','
	Delimiter rune
	// NoHeader suppresses the column name row
	NoHeader bool
	// MissingAs renders missing values; defaults to the empty field
	MissingAs string
}

// Write renders a table as delimited text. Fields containing the delimiter,
// quotes or line breaks are quoted per the usual conventions.
func Write(w io.Writer, t *table.Table, opts WriteOptions) error {
	cw := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		cw.Comma = opts.Delimiter
	}

	if !opts.NoHeader {
		if err := cw.Write(t.Names()); err != nil {
			return errors.Wrap(err, errors.ErrorTypeParse, "failed to write header")
		}
	}

	record := make([]string, t.ColumnCount())
	for r := 0; r < t.RowCount(); r++ {
		for i := 0; i < t.ColumnCount(); i++ {
			v := t.ColumnAt(i).Value(r)
			if v.IsMissing() {
				record[i] = opts.MissingAs
			} else {
				record[i] = v.String()
			}
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeParse, "failed to write row").WithRow(r)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeParse, "failed to flush output")
	}
	return nil
}
