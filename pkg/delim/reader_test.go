package delim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabkit/tabkit/pkg/errors"
	"github.com/tabkit/tabkit/pkg/table"
)

func TestReadInfersRealColumns(t *testing.T) {
	in := "A,B,C\n1.1,1.3,-2.0\n5,6.3,-1.8\n"

	tbl, err := Read(strings.NewReader(in), DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 2, tbl.RowCount())
	require.Equal(t, []string{"A", "B", "C"}, tbl.Names())
	for i := 0; i < tbl.ColumnCount(); i++ {
		assert.Equal(t, table.KindReal, tbl.ColumnAt(i).Kind(), tbl.ColumnAt(i).Name())
	}

	a, _ := tbl.Column("A")
	v0, _ := a.Value(0).Real()
	v1, _ := a.Value(1).Real()
	assert.Equal(t, 1.1, v0)
	assert.Equal(t, 5.0, v1, "integer-looking field joins the real column")
}

func TestReadInferenceOrder(t *testing.T) {
	in := "n,f,b,s\n1,1.5,true,x\n2,2.5,false,1y\n"

	tbl, err := Read(strings.NewReader(in), DefaultOptions())
	require.NoError(t, err)

	get := func(name string) table.Kind {
		c, err := tbl.Column(name)
		require.NoError(t, err)
		return c.Kind()
	}
	assert.Equal(t, table.KindInt, get("n"))
	assert.Equal(t, table.KindReal, get("f"))
	assert.Equal(t, table.KindBool, get("b"))
	assert.Equal(t, table.KindText, get("s"))
}

func TestReadTimeInference(t *testing.T) {
	in := "d\n2024-01-02\n2024-03-04\n"

	tbl, err := Read(strings.NewReader(in), DefaultOptions())
	require.NoError(t, err)

	d, _ := tbl.Column("d")
	require.Equal(t, table.KindTime, d.Kind())
	tm, ok := d.Value(1).Time()
	require.True(t, ok)
	assert.Equal(t, 2024, tm.Year())
	assert.Equal(t, 3, int(tm.Month()))
}

func TestReadEmptyFieldsBecomeMissing(t *testing.T) {
	in := "a,b\n1,\n,2\n"

	tbl, err := Read(strings.NewReader(in), DefaultOptions())
	require.NoError(t, err)

	a, _ := tbl.Column("a")
	b, _ := tbl.Column("b")
	assert.Equal(t, table.KindInt, a.Kind())
	assert.True(t, a.Value(1).IsMissing())
	assert.True(t, b.Value(0).IsMissing())
}

func TestReadAllEmptyColumnStaysMissing(t *testing.T) {
	in := "a,b\n1,\n2,\n"

	tbl, err := Read(strings.NewReader(in), DefaultOptions())
	require.NoError(t, err)

	b, _ := tbl.Column("b")
	assert.Equal(t, table.KindMissing, b.Kind())
	assert.True(t, b.Value(0).IsMissing())
	assert.True(t, b.Value(1).IsMissing())
}

func TestReadColumnKindOverride(t *testing.T) {
	in := "id,zip\n1,02134\n2,10001\n"

	opts := DefaultOptions()
	opts.ColumnKinds = map[string]table.Kind{"zip": table.KindText}

	tbl, err := Read(strings.NewReader(in), opts)
	require.NoError(t, err)

	zip, _ := tbl.Column("zip")
	require.Equal(t, table.KindText, zip.Kind())
	s, _ := zip.Value(0).Text()
	assert.Equal(t, "02134", s, "leading zero survives the text override")
}

func TestReadOverrideParseFailure(t *testing.T) {
	in := "a\n1\noops\n"

	opts := DefaultOptions()
	opts.ColumnKinds = map[string]table.Kind{"a": table.KindInt}

	_, err := Read(strings.NewReader(in), opts)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "a", e.Details["column"])
	assert.Equal(t, 1, e.Details["row"])
}

func TestReadMalformedRow(t *testing.T) {
	in := "a,b\n1,2\n3,4,5\n"

	_, err := Read(strings.NewReader(in), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedRow))

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 1, e.Details["row"])
}

func TestReadSkipRowsAndComments(t *testing.T) {
	in := "exported 2024-05-01\n# units are km\na,b\n1,2\n# trailing note\n3,4\n"

	opts := DefaultOptions()
	opts.SkipRows = 1
	opts.CommentPrefix = "#"

	tbl, err := Read(strings.NewReader(in), opts)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, []string{"a", "b"}, tbl.Names())
}

func TestReadQuotedFields(t *testing.T) {
	in := "name,note\n\"Smith, Jane\",\"said \"\"hi\"\"\"\n\"two\nlines\",plain\n"

	tbl, err := Read(strings.NewReader(in), DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 2, tbl.RowCount())

	name, _ := tbl.Column("name")
	note, _ := tbl.Column("note")
	s0, _ := name.Value(0).Text()
	s1, _ := note.Value(0).Text()
	s2, _ := name.Value(1).Text()
	assert.Equal(t, "Smith, Jane", s0)
	assert.Equal(t, `said "hi"`, s1)
	assert.Equal(t, "two\nlines", s2)
}

func TestReadCustomQuote(t *testing.T) {
	in := "a,b\n'x,y',2\n"

	opts := DefaultOptions()
	opts.Quote = '\''

	tbl, err := Read(strings.NewReader(in), opts)
	require.NoError(t, err)

	a, _ := tbl.Column("a")
	s, _ := a.Value(0).Text()
	assert.Equal(t, "x,y", s)
}

func TestReadUnterminatedQuote(t *testing.T) {
	in := "a\n\"open\n"

	_, err := Read(strings.NewReader(in), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
}

func TestReadSemicolonWithDecimalComma(t *testing.T) {
	in := "x;y\n1,5;2,5\n3,25;4\n"

	opts := DefaultOptions()
	opts.Delimiter = ';'
	opts.DecimalMark = ','

	tbl, err := Read(strings.NewReader(in), opts)
	require.NoError(t, err)

	x, _ := tbl.Column("x")
	require.Equal(t, table.KindReal, x.Kind())
	v0, _ := x.Value(0).Real()
	v1, _ := x.Value(1).Real()
	assert.Equal(t, 1.5, v0)
	assert.Equal(t, 3.25, v1)
}

func TestReadDecimalCommaRejectsDot(t *testing.T) {
	in := "x\n1.5\n"

	opts := DefaultOptions()
	opts.Delimiter = ';'
	opts.DecimalMark = ','
	opts.ColumnKinds = map[string]table.Kind{"x": table.KindReal}

	// "1.5" is not a real under the comma locale
	_, err := Read(strings.NewReader(in), opts)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
}

func TestReadLocaleConflict(t *testing.T) {
	opts := DefaultOptions()
	opts.DecimalMark = ','

	_, err := Read(strings.NewReader("a,b\n1,2\n"), opts)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeLocaleConflict))
}

func TestReadQuoteEqualsDelimiter(t *testing.T) {
	opts := DefaultOptions()
	opts.Quote = ','

	_, err := Read(strings.NewReader("a,b\n1,2\n"), opts)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestReadNoHeader(t *testing.T) {
	in := "1,hello\n2,world\n"

	opts := DefaultOptions()
	opts.HasHeader = false

	tbl, err := Read(strings.NewReader(in), opts)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, []string{"col1", "col2"}, tbl.Names())
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeParse))
}

func TestReadCRLF(t *testing.T) {
	in := "a,b\r\n1,2\r\n3,4\r\n"

	tbl, err := Read(strings.NewReader(in), DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, 2, tbl.RowCount())

	a, _ := tbl.Column("a")
	assert.Equal(t, table.KindInt, a.Kind())
}
