package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/taxledger/chain"
)

func openTestCSV(t *testing.T) (*CSVJournal, string) {
	t.Helper()
	dir := t.TempDir()
	j, err := NewCSV(
		filepath.Join(dir, "runs.csv"),
		filepath.Join(dir, "gains.csv"),
		filepath.Join(dir, "categories.csv"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j, dir
}

func TestCSVJournalWritesRows(t *testing.T) {
	j, dir := openTestCSV(t)

	require.NoError(t, j.RecordRun(sampleRun()))
	disposed := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordGain(sampleGain("g-1", "run-1", disposed)))

	runs := readAll(t, filepath.Join(dir, "runs.csv"))
	require.Len(t, runs, 2) // header + row
	assert.Equal(t, "run-1", runs[1][0])
	assert.Equal(t, "1100.5", runs[1][4])

	gains := readAll(t, filepath.Join(dir, "gains.csv"))
	require.Len(t, gains, 2)
	assert.Equal(t, "g-1", gains[1][0])
	assert.Equal(t, "long-term", gains[1][9])
}

func TestCSVJournalCategories(t *testing.T) {
	j, _ := openTestCSV(t)

	require.NoError(t, j.SaveCategories("0xabc", "ethereum", map[string]chain.Category{
		"tx-1": chain.CategoryIncome,
	}))
	require.NoError(t, j.SaveCategories("0xabc", "ethereum", map[string]chain.Category{
		"tx-1": chain.CategoryPayment,
		"tx-2": chain.CategoryTrade,
	}))

	got, err := j.Categories("0xabc", "ethereum")
	require.NoError(t, err)
	assert.Equal(t, map[string]chain.Category{
		"tx-1": chain.CategoryPayment,
		"tx-2": chain.CategoryTrade,
	}, got)
}

func TestCSVJournalCategoriesMissingFile(t *testing.T) {
	j, _ := openTestCSV(t)

	got, err := j.Categories("0xabc", "ethereum")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
