package cleaning

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sipafcli/internal/dataset"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClassifyColumn(t *testing.T) {
	tests := []struct {
		name   string
		column string
		role   string
	}{
		{"open", "Open", RoleOpen},
		{"high", "High", RoleHigh},
		{"low", "Low", RoleLow},
		{"close", "Close", RoleClose},
		{"adj close", "Adj Close", RoleAdjClose},
		{"adjusted", "AdjClose", RoleAdjClose},
		{"volume", "Volume", RoleVolume},
		{"date", "Date", RoleDate},
		{"fecha", "Fecha", RoleDate},
		{"period", "Period", RoleDate},
		{"unmatched", "Ticker", ""},
		{"whitespace", "  Close  ", RoleClose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.role, ClassifyColumn(tt.column))
		})
	}
}

func TestStandardizeColumnsKeepsAdjCloseDistinct(t *testing.T) {
	d := dataset.New("Date", "Close", "Adj Close", "Volume", "Ticker")
	require.NoError(t, d.AppendRow(
		dataset.Text("2020-01-01"),
		dataset.Text("10"),
		dataset.Text("9.8"),
		dataset.Text("1000"),
		dataset.Text("AAPL"),
	))

	StandardizeColumns(d, testLogger())

	assert.Equal(t, []string{RoleDate, RoleClose, RoleAdjClose, RoleVolume, "Ticker"}, d.Columns)
}

func TestStandardizeColumnsReportsCollision(t *testing.T) {
	// Both raw columns map to cierre; the second must keep its name so no
	// data is shadowed.
	d := dataset.New("Close", "Closing Price")
	require.NoError(t, d.AppendRow(dataset.Text("10"), dataset.Text("11")))

	StandardizeColumns(d, testLogger())

	assert.Equal(t, []string{RoleClose, "Closing Price"}, d.Columns)
}

func TestFindDateColumn(t *testing.T) {
	assert.Equal(t, "Date", FindDateColumn(dataset.New("Open", "Date")))
	assert.Equal(t, "TIMESTAMP", FindDateColumn(dataset.New("TIMESTAMP", "Close")))
	assert.Equal(t, "", FindDateColumn(dataset.New("Open", "Close")))
	// Substring is not enough for the date column: the match is exact.
	assert.Equal(t, "", FindDateColumn(dataset.New("trade_date", "Close")))
}

func TestNormalizeDatesSortsAndDrops(t *testing.T) {
	d := dataset.New("Date", "Close")
	require.NoError(t, d.AppendRow(dataset.Text("2020-01-03"), dataset.Text("3")))
	require.NoError(t, d.AppendRow(dataset.Text("not a date"), dataset.Text("99")))
	require.NoError(t, d.AppendRow(dataset.Text("2020-01-01"), dataset.Text("1")))
	require.NoError(t, d.AppendRow(dataset.Text("2020-01-02"), dataset.Text("2")))

	col := NormalizeDates(d)

	require.Equal(t, "Date", col)
	require.Equal(t, 3, d.Len())
	var got []string
	for _, row := range d.Rows {
		ts, ok := row[0].Time()
		require.True(t, ok)
		got = append(got, ts.Format("2006-01-02"))
	}
	assert.Equal(t, []string{"2020-01-01", "2020-01-02", "2020-01-03"}, got)
}

func TestNormalizeDatesSynthesizesOrdinal(t *testing.T) {
	d := dataset.New("Close")
	require.NoError(t, d.AppendRow(dataset.Text("1")))
	require.NoError(t, d.AppendRow(dataset.Text("2")))

	col := NormalizeDates(d)

	require.Equal(t, RoleDate, col)
	require.True(t, d.HasColumn(RoleDate))
	assert.Equal(t, 2, d.Len())
	first, ok := d.Rows[0][d.ColumnIndex(RoleDate)].Time()
	require.True(t, ok)
	second, ok := d.Rows[1][d.ColumnIndex(RoleDate)].Time()
	require.True(t, ok)
	assert.True(t, first.Before(second))
}

func TestNormalizeDatesSoftFailure(t *testing.T) {
	// A date-named column with no parseable content leaves the dataset
	// untouched instead of dropping every row.
	d := dataset.New("Date", "Close")
	require.NoError(t, d.AppendRow(dataset.Text("n/a"), dataset.Text("1")))
	require.NoError(t, d.AppendRow(dataset.Text("unknown"), dataset.Text("2")))

	col := NormalizeDates(d)

	assert.Equal(t, "", col)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, "n/a", d.Rows[0][0].Render())
}

func TestDeduplicateDatesKeepsFirst(t *testing.T) {
	d := dataset.New("Date", "Close")
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, d.AppendRow(dataset.Date(day), dataset.Text("first")))
	require.NoError(t, d.AppendRow(dataset.Date(day), dataset.Text("second")))
	require.NoError(t, d.AppendRow(dataset.Date(day.AddDate(0, 0, 1)), dataset.Text("third")))

	DeduplicateDates(d, "Date")

	require.Equal(t, 2, d.Len())
	assert.Equal(t, "first", d.Rows[0][1].Render())
}

func TestLooksNumeric(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"123", true},
		{"1.5", true},
		{"1.5.5", false},
		{"", false},
		{".", false},
		{"-5", false}, // signs do not count, by design
		{"1e5", false},
		{"abc", false},
		{" 42 ", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, looksNumeric(tt.value))
		})
	}
}

func TestCoerceNumericMajorityRule(t *testing.T) {
	d := dataset.New("Date", "Close", "Ticker")
	require.NoError(t, d.AppendRow(dataset.Text("2020-01-01"), dataset.Text("10.5"), dataset.Text("AAPL")))
	require.NoError(t, d.AppendRow(dataset.Text("2020-01-02"), dataset.Text("11"), dataset.Text("AAPL")))
	require.NoError(t, d.AppendRow(dataset.Text("2020-01-03"), dataset.Text("bad"), dataset.Text("AAPL")))

	numeric := CoerceNumeric(d, "Date")

	assert.Equal(t, []string{"Close"}, numeric)
	v, ok := d.Rows[0][1].Float()
	require.True(t, ok)
	assert.InDelta(t, 10.5, v, 1e-12)
	// The unparseable cell became explicitly missing
	assert.True(t, d.Rows[2][1].IsMissing())
	// The text column is untouched
	assert.Equal(t, "AAPL", d.Rows[0][2].Render())
}

func TestCoerceNumericBelowThreshold(t *testing.T) {
	d := dataset.New("Mixed")
	require.NoError(t, d.AppendRow(dataset.Text("1")))
	require.NoError(t, d.AppendRow(dataset.Text("x")))
	require.NoError(t, d.AppendRow(dataset.Text("y")))
	require.NoError(t, d.AppendRow(dataset.Text("z")))

	numeric := CoerceNumeric(d, "")

	assert.Empty(t, numeric)
	assert.Equal(t, "1", d.Rows[0][0].Render())
}

func TestFillGaps(t *testing.T) {
	d := dataset.New("Close")
	require.NoError(t, d.AppendRow(dataset.Missing()))
	require.NoError(t, d.AppendRow(dataset.Num(10)))
	require.NoError(t, d.AppendRow(dataset.Missing()))
	require.NoError(t, d.AppendRow(dataset.Num(12)))
	require.NoError(t, d.AppendRow(dataset.Missing()))

	FillGaps(d)

	want := []float64{10, 10, 10, 12, 12}
	for i, expected := range want {
		v, ok := d.Rows[i][0].Float()
		require.True(t, ok, "row %d should be numeric", i)
		assert.InDelta(t, expected, v, 1e-12, "row %d", i)
	}
}

func TestFillGapsAllMissingColumnStaysMissing(t *testing.T) {
	d := dataset.New("Empty")
	require.NoError(t, d.AppendRow(dataset.Missing()))
	require.NoError(t, d.AppendRow(dataset.Missing()))

	FillGaps(d)

	assert.True(t, d.Rows[0][0].IsMissing())
	assert.True(t, d.Rows[1][0].IsMissing())
}

func numColumn(t *testing.T, values ...float64) *dataset.Dataset {
	t.Helper()
	d := dataset.New("Close")
	for _, v := range values {
		require.NoError(t, d.AppendRow(dataset.Num(v)))
	}
	return d
}

func TestFilterOutliersRemovesExtremes(t *testing.T) {
	d := numColumn(t, 10, 11, 12, 10, 11, 1000)

	FilterOutliers(d, []string{"Close"}, testLogger())

	require.Equal(t, 5, d.Len())
	for _, row := range d.Rows {
		v, ok := row[0].Float()
		require.True(t, ok)
		assert.Less(t, v, 100.0)
	}
}

func TestFilterOutliersIdempotent(t *testing.T) {
	d := numColumn(t, 10, 11, 12, 10, 11, 1000)

	FilterOutliers(d, []string{"Close"}, testLogger())
	after := d.Len()
	FilterOutliers(d, []string{"Close"}, testLogger())

	assert.Equal(t, after, d.Len())
}

func TestFilterOutliersSequentialIntersection(t *testing.T) {
	// The second column is filtered against rows surviving the first, so the
	// row extreme in A is gone before B's quartiles are computed.
	d := dataset.New("A", "B")
	values := [][2]float64{
		{10, 5}, {11, 5}, {12, 5}, {10, 5}, {11, 5}, {1000, 5}, {10, 900},
	}
	for _, v := range values {
		require.NoError(t, d.AppendRow(dataset.Num(v[0]), dataset.Num(v[1])))
	}

	FilterOutliers(d, []string{"A", "B"}, testLogger())

	require.Equal(t, 5, d.Len())
	for _, row := range d.Rows {
		a, _ := row[0].Float()
		b, _ := row[1].Float()
		assert.Less(t, a, 100.0)
		assert.Less(t, b, 100.0)
	}
}

func TestFilterOutliersNoNumericColumns(t *testing.T) {
	d := dataset.New("Name")
	require.NoError(t, d.AppendRow(dataset.Text("x")))

	FilterOutliers(d, nil, testLogger())

	assert.Equal(t, 1, d.Len())
}

func TestCleanPricesInvariants(t *testing.T) {
	d := dataset.New("Date", "Open", "High", "Low", "Close", "Adj Close", "Volume", "Ticker")
	rows := [][]string{
		{"2020-01-03", "10", "12", "9", "11", "10.9", "1000", "AAPL"},
		{"2020-01-01", "9", "11", "8", "10", "9.9", "1100", "AAPL"},
		{"2020-01-02", "9.5", "11.5", "8.5", "", "10.4", "1050", "AAPL"},
		{"2020-01-02", "9.6", "11.6", "8.6", "10.6", "10.5", "1060", "AAPL"},
		{"garbage", "1", "1", "1", "1", "1", "1", "AAPL"},
	}
	for _, r := range rows {
		cells := make([]dataset.Cell, len(r))
		for i, v := range r {
			cells[i] = dataset.Text(v)
		}
		require.NoError(t, d.AppendRow(cells...))
	}

	CleanPrices(d, testLogger())

	// Canonical column names
	assert.Equal(t,
		[]string{RoleDate, RoleOpen, RoleHigh, RoleLow, RoleClose, RoleAdjClose, RoleVolume, "Ticker"},
		d.Columns)

	// Dates strictly ascending, no duplicates; the garbage row is gone
	idx := d.ColumnIndex(RoleDate)
	require.Equal(t, 3, d.Len())
	var prev time.Time
	for i, row := range d.Rows {
		ts, ok := row[idx].Time()
		require.True(t, ok)
		if i > 0 {
			assert.True(t, prev.Before(ts), "dates must be strictly ascending")
		}
		prev = ts
	}

	// Gap-filled: no missing cells remain in numeric columns
	for _, col := range []string{RoleOpen, RoleHigh, RoleLow, RoleClose, RoleAdjClose, RoleVolume} {
		for i, cell := range d.Column(col) {
			_, ok := cell.Float()
			assert.True(t, ok, "column %s row %d should be numeric", col, i)
		}
	}
}
