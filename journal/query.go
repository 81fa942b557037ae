package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/taxledger/classify"
)

// GetRun returns a single run record by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var (
		rec                                        RunRecord
		totalRealized, shortTerm, long, unrealized string
	)

	row := j.db.QueryRow(`
		SELECT run_id, wallet, chain, started_at, total_realized, short_term, long_term, unrealized, sell_count, warning_count
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Wallet,
		&rec.Chain,
		&rec.StartedAt,
		&totalRealized,
		&shortTerm,
		&long,
		&unrealized,
		&rec.SellCount,
		&rec.WarningCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	if err := parseDecimals(map[*decimal.Decimal]string{
		&rec.TotalRealized: totalRealized,
		&rec.ShortTerm:     shortTerm,
		&rec.LongTerm:      long,
		&rec.Unrealized:    unrealized,
	}); err != nil {
		return RunRecord{}, err
	}
	return rec, nil
}

// ListGainsByRun returns the realized gains of one run, oldest disposal first.
func (j *SQLite) ListGainsByRun(runID string) ([]GainRecord, error) {
	rows, err := j.db.Query(`
		SELECT gain_id, run_id, asset, amount, acquired_at, disposed_at, cost_basis, proceeds, gain, term, buy_hash, sell_hash, estimated
		FROM gains
		WHERE run_id = ?
		ORDER BY disposed_at ASC`, runID)
	if err != nil {
		return nil, err
	}
	return scanGains(rows)
}

// ListGainsDisposedBetween returns gains whose disposal time is within
// [start, end), across runs.
func (j *SQLite) ListGainsDisposedBetween(start, end time.Time) ([]GainRecord, error) {
	rows, err := j.db.Query(`
		SELECT gain_id, run_id, asset, amount, acquired_at, disposed_at, cost_basis, proceeds, gain, term, buy_hash, sell_hash, estimated
		FROM gains
		WHERE disposed_at >= ? AND disposed_at < ?
		ORDER BY disposed_at ASC`, start, end)
	if err != nil {
		return nil, err
	}
	return scanGains(rows)
}

func scanGains(rows *sql.Rows) ([]GainRecord, error) {
	defer rows.Close()

	var out []GainRecord
	for rows.Next() {
		var (
			rec                                 GainRecord
			amount, costBasis, proceeds, gain   string
			term                                string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.Asset,
			&amount,
			&rec.AcquiredAt,
			&rec.DisposedAt,
			&costBasis,
			&proceeds,
			&gain,
			&term,
			&rec.BuyHash,
			&rec.SellHash,
			&rec.Estimated,
		); err != nil {
			return nil, err
		}
		rec.Term = classify.Term(term)
		if err := parseDecimals(map[*decimal.Decimal]string{
			&rec.Amount:    amount,
			&rec.CostBasis: costBasis,
			&rec.Proceeds:  proceeds,
			&rec.Gain:      gain,
		}); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseDecimals(fields map[*decimal.Decimal]string) error {
	for dst, s := range fields {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("corrupt decimal column %q: %w", s, err)
		}
		*dst = d
	}
	return nil
}
