package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sipafcli/internal/config"
)

func TestWriteSimpleCSVAddsBOM(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil)
	path := filepath.Join(dir, "out.csv")

	err := w.WriteSimpleCSV(path,
		[]string{"fecha", "cierre"},
		[][]string{{"2020-01-01", "10"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, "fecha,cierre\n2020-01-01,10\n", string(data[3:]))
}

func TestWriteCSVReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(nil)
	path := filepath.Join(dir, "out.csv")

	require.NoError(t, w.WriteCSV(path, WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}, {"2"}},
	}))
	require.NoError(t, w.WriteCSV(path, WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"3"}},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n3\n", string(data))
}

func TestWriteCSVResolvesAgainstDataDir(t *testing.T) {
	base := t.TempDir()
	paths := config.NewPaths(base)
	w := NewCSVWriter(paths)

	require.NoError(t, w.WriteCSV("relative.csv", WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	}))

	_, err := os.Stat(filepath.Join(paths.DataDir, "relative.csv"))
	assert.NoError(t, err)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	err := WriteWorkbook(path, "Exploratorio",
		[]string{"fecha", "cierre"},
		[][]string{{"2020-01-01", "10"}, {"2020-01-02", "11"}})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
