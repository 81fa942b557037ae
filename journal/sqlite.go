package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/taxledger/chain"
)

// SQLite persists the journal in a local database. Decimal columns are
// stored as text so values round-trip exactly.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, wallet, chain, started_at, total_realized, short_term, long_term, unrealized, sell_count, warning_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Wallet, r.Chain, r.StartedAt,
		r.TotalRealized.String(), r.ShortTerm.String(), r.LongTerm.String(),
		r.Unrealized.String(), r.SellCount, r.WarningCount,
	)
	return err
}

func (j *SQLite) RecordGain(g GainRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO gains
		(gain_id, run_id, asset, amount, acquired_at, disposed_at, cost_basis, proceeds, gain, term, buy_hash, sell_hash, estimated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.RunID, g.Asset, g.Amount.String(), g.AcquiredAt, g.DisposedAt,
		g.CostBasis.String(), g.Proceeds.String(), g.Gain.String(),
		string(g.Term), g.BuyHash, g.SellHash, g.Estimated,
	)
	return err
}

func (j *SQLite) SaveCategories(wallet, chainName string, categories map[string]chain.Category) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO categories (wallet, chain, tx_hash, category)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (wallet, chain, tx_hash) DO UPDATE SET category = excluded.category`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for hash, cat := range categories {
		if !chain.ValidCategory(cat) {
			return fmt.Errorf("save categories: unknown category %q for %s", cat, hash)
		}
		if _, err := stmt.Exec(wallet, chainName, hash, string(cat)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (j *SQLite) Categories(wallet, chainName string) (map[string]chain.Category, error) {
	rows, err := j.db.Query(`
		SELECT tx_hash, category FROM categories
		WHERE wallet = ? AND chain = ?`, wallet, chainName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]chain.Category)
	for rows.Next() {
		var hash, cat string
		if err := rows.Scan(&hash, &cat); err != nil {
			return nil, err
		}
		out[hash] = chain.Category(cat)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
