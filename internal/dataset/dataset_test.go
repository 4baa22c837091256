package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellRender(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"text", Text("hello"), "hello"},
		{"number", Num(10.5), "10.5"},
		{"integer number", Num(1000), "1000"},
		{"date", Date(time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC)), "2020-03-04"},
		{"missing", Missing(), ""},
		{"empty text is missing", Text(""), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.Render())
		})
	}
}

func TestReadCSVStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prices.csv")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Close\n2020-01-01,10\n")...)
	require.NoError(t, os.WriteFile(path, content, 0644))

	d, err := ReadCSV(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Close"}, d.Columns)
	require.Equal(t, 1, d.Len())
	assert.Equal(t, "2020-01-01", d.Rows[0][0].Render())
}

func TestReadCSVPadsShortRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.csv")
	require.NoError(t, os.WriteFile(path, []byte("A,B,C\n1,2\n"), 0644))

	d, err := ReadCSV(path)

	require.NoError(t, err)
	require.Equal(t, 1, d.Len())
	assert.Equal(t, "1", d.Rows[0][0].Render())
	assert.True(t, d.Rows[0][2].IsMissing())
}

func TestRecordsRoundTrip(t *testing.T) {
	d := New("Date", "Close")
	require.NoError(t, d.AppendRow(Date(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)), Num(10)))
	require.NoError(t, d.AppendRow(Date(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)), Missing()))

	header, records := d.Records()

	assert.Equal(t, []string{"Date", "Close"}, header)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"2020-01-01", "10"}, records[0])
	assert.Equal(t, []string{"2020-01-02", ""}, records[1])
}

func TestAppendRowLengthMismatch(t *testing.T) {
	d := New("A", "B")
	assert.Error(t, d.AppendRow(Text("x")))
}

func TestAddColumnPadsMissing(t *testing.T) {
	d := New("A")
	require.NoError(t, d.AppendRow(Text("1")))
	require.NoError(t, d.AppendRow(Text("2")))

	d.AddColumn("B", []Cell{Num(9)})

	assert.Equal(t, []string{"A", "B"}, d.Columns)
	v, ok := d.Rows[0][1].Float()
	require.True(t, ok)
	assert.InDelta(t, 9, v, 1e-12)
	assert.True(t, d.Rows[1][1].IsMissing())
}

func TestConcatUnionsColumns(t *testing.T) {
	a := New("Date", "Close")
	require.NoError(t, a.AppendRow(Text("2020-01-01"), Text("10")))
	b := New("Date", "Volume")
	require.NoError(t, b.AppendRow(Text("2020-01-02"), Text("500")))

	got := Concat(a, b)

	assert.Equal(t, []string{"Date", "Close", "Volume"}, got.Columns)
	require.Equal(t, 2, got.Len())
	assert.True(t, got.Rows[0][2].IsMissing())
	assert.Equal(t, "500", got.Rows[1][2].Render())
	assert.True(t, got.Rows[1][1].IsMissing())
}

func TestFilterRows(t *testing.T) {
	d := New("A")
	require.NoError(t, d.AppendRow(Num(1)))
	require.NoError(t, d.AppendRow(Num(2)))
	require.NoError(t, d.AppendRow(Num(3)))

	d.FilterRows(func(row []Cell) bool {
		v, _ := row[0].Float()
		return v != 2
	})

	require.Equal(t, 2, d.Len())
	assert.Equal(t, "1", d.Rows[0][0].Render())
	assert.Equal(t, "3", d.Rows[1][0].Render())
}
