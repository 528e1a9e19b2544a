package delim

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/tabkit/tabkit/pkg/errors"
	"github.com/tabkit/tabkit/pkg/logger"
	"github.com/tabkit/tabkit/pkg/table"
)

// ReadFile reads a delimited file into a table. Files ending in .gz are
// decompressed transparently.
func ReadFile(path string, opts Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to open input file").
			WithDetail("file", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeParse, "failed to open gzip stream").
				WithDetail("file", path)
		}
		defer gz.Close()
		r = gz
	}

	logger.Debug("reading delimited file", zap.String("file", path))
	return Read(r, opts)
}

// WriteFile renders a table to a delimited file. Files ending in .gz are
// compressed transparently.
func WriteFile(path string, t *table.Table, opts WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to create output file").
			WithDetail("file", path)
	}
	defer f.Close()

	var w io.Writer = f
	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}

	return Write(w, t, opts)
}
