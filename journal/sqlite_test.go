package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/taxledger/chain"
	"github.com/rustyeddy/taxledger/classify"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func sampleRun() RunRecord {
	return RunRecord{
		RunID:         "run-1",
		Wallet:        "0xabc",
		Chain:         "ethereum",
		StartedAt:     time.Date(2023, 4, 1, 12, 0, 0, 0, time.UTC),
		TotalRealized: decimal.RequireFromString("1100.5"),
		ShortTerm:     decimal.RequireFromString("100.5"),
		LongTerm:      decimal.RequireFromString("1000"),
		Unrealized:    decimal.RequireFromString("250"),
		SellCount:     2,
		WarningCount:  1,
	}
}

func sampleGain(id, runID string, disposed time.Time) GainRecord {
	return GainRecord{
		RunID: runID,
		RealizedGain: classify.RealizedGain{
			ID:         id,
			Asset:      "ETH",
			Amount:     decimal.RequireFromString("1.5"),
			AcquiredAt: disposed.AddDate(-1, -1, 0),
			DisposedAt: disposed,
			CostBasis:  decimal.RequireFromString("2000"),
			Proceeds:   decimal.RequireFromString("3000"),
			Gain:       decimal.RequireFromString("1000"),
			Term:       classify.LongTerm,
			BuyHash:    "buy-1",
			SellHash:   "sell-1",
		},
	}
}

func TestSQLiteRunRoundTrip(t *testing.T) {
	j := openTestDB(t)

	want := sampleRun()
	require.NoError(t, j.RecordRun(want))

	got, err := j.GetRun("run-1")
	require.NoError(t, err)

	assert.Equal(t, want.Wallet, got.Wallet)
	assert.Equal(t, want.Chain, got.Chain)
	assert.True(t, want.TotalRealized.Equal(got.TotalRealized), "total realized %s", got.TotalRealized)
	assert.True(t, want.ShortTerm.Equal(got.ShortTerm))
	assert.True(t, want.LongTerm.Equal(got.LongTerm))
	assert.Equal(t, want.SellCount, got.SellCount)
	assert.Equal(t, want.WarningCount, got.WarningCount)

	_, err = j.GetRun("missing")
	assert.Error(t, err)
}

func TestSQLiteGainsByRun(t *testing.T) {
	j := openTestDB(t)

	d1 := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordGain(sampleGain("g-1", "run-1", d1)))
	require.NoError(t, j.RecordGain(sampleGain("g-2", "run-1", d2)))
	require.NoError(t, j.RecordGain(sampleGain("g-3", "run-2", d1)))

	gains, err := j.ListGainsByRun("run-1")
	require.NoError(t, err)
	require.Len(t, gains, 2)

	// Oldest disposal first.
	assert.Equal(t, "g-2", gains[0].ID)
	assert.Equal(t, "g-1", gains[1].ID)
	assert.True(t, gains[0].Gain.Equal(decimal.RequireFromString("1000")))
	assert.Equal(t, classify.LongTerm, gains[0].Term)
}

func TestSQLiteGainsDisposedBetween(t *testing.T) {
	j := openTestDB(t)

	for i, disposed := range []time.Time{
		time.Date(2021, 12, 31, 23, 0, 0, 0, time.UTC),
		time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 11, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		g := sampleGain(string(rune('a'+i)), "run-1", disposed)
		require.NoError(t, j.RecordGain(g))
	}

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	gains, err := j.ListGainsDisposedBetween(start, end)
	require.NoError(t, err)

	// Start inclusive, end exclusive.
	require.Len(t, gains, 2)
	assert.Equal(t, "b", gains[0].ID)
	assert.Equal(t, "c", gains[1].ID)
}

func TestSQLiteCategories(t *testing.T) {
	j := openTestDB(t)

	err := j.SaveCategories("0xabc", "ethereum", map[string]chain.Category{
		"tx-1": chain.CategoryIncome,
		"tx-2": chain.CategoryTrade,
	})
	require.NoError(t, err)

	// Upsert overwrites on conflict.
	err = j.SaveCategories("0xabc", "ethereum", map[string]chain.Category{
		"tx-2": chain.CategoryPayment,
	})
	require.NoError(t, err)

	got, err := j.Categories("0xabc", "ethereum")
	require.NoError(t, err)
	assert.Equal(t, map[string]chain.Category{
		"tx-1": chain.CategoryIncome,
		"tx-2": chain.CategoryPayment,
	}, got)

	// Scoped per wallet and chain.
	other, err := j.Categories("0xother", "ethereum")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSQLiteRejectsUnknownCategory(t *testing.T) {
	j := openTestDB(t)

	err := j.SaveCategories("0xabc", "ethereum", map[string]chain.Category{
		"tx-1": "banana",
	})
	assert.Error(t, err)

	got, err := j.Categories("0xabc", "ethereum")
	require.NoError(t, err)
	assert.Empty(t, got, "failed save must not apply partially")
}
