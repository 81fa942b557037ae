package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/taxledger/chain"
)

// CSVJournal appends runs and gains to flat CSV files, for spreadsheets and
// quick diffing. Category overrides live in a third file that is rewritten
// whole on save.
type CSVJournal struct {
	runs       *csv.Writer
	gains      *csv.Writer
	rf, gf     *os.File
	categories string // path
}

func NewCSV(runsPath, gainsPath, categoriesPath string) (*CSVJournal, error) {
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}
	gf, err := os.Create(gainsPath)
	if err != nil {
		rf.Close()
		return nil, err
	}

	rw := csv.NewWriter(rf)
	gw := csv.NewWriter(gf)

	if err := rw.Write([]string{"run_id", "wallet", "chain", "started_at", "total_realized", "short_term", "long_term", "unrealized", "sell_count", "warning_count"}); err != nil {
		return nil, err
	}
	if err := gw.Write([]string{"gain_id", "run_id", "asset", "amount", "acquired_at", "disposed_at", "cost_basis", "proceeds", "gain", "term", "buy_hash", "sell_hash", "estimated"}); err != nil {
		return nil, err
	}

	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}
	gw.Flush()
	if err := gw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{runs: rw, gains: gw, rf: rf, gf: gf, categories: categoriesPath}, nil
}

func (j *CSVJournal) RecordRun(r RunRecord) error {
	j.runs.Write([]string{
		r.RunID,
		r.Wallet,
		r.Chain,
		r.StartedAt.UTC().Format(time.RFC3339),
		r.TotalRealized.String(),
		r.ShortTerm.String(),
		r.LongTerm.String(),
		r.Unrealized.String(),
		strconv.Itoa(r.SellCount),
		strconv.Itoa(r.WarningCount),
	})
	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordGain(g GainRecord) error {
	j.gains.Write([]string{
		g.ID,
		g.RunID,
		g.Asset,
		g.Amount.String(),
		g.AcquiredAt.UTC().Format(time.RFC3339),
		g.DisposedAt.UTC().Format(time.RFC3339),
		g.CostBasis.String(),
		g.Proceeds.String(),
		g.Gain.String(),
		string(g.Term),
		g.BuyHash,
		g.SellHash,
		strconv.FormatBool(g.Estimated),
	})
	j.gains.Flush()
	return j.gains.Error()
}

func (j *CSVJournal) SaveCategories(wallet, chainName string, categories map[string]chain.Category) error {
	rows, err := j.readCategoryRows()
	if err != nil {
		return err
	}
	for hash, cat := range categories {
		if !chain.ValidCategory(cat) {
			return fmt.Errorf("save categories: unknown category %q for %s", cat, hash)
		}
		rows[categoryKey{wallet, chainName, hash}] = cat
	}

	f, err := os.Create(j.categories)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"wallet", "chain", "tx_hash", "category"}); err != nil {
		return err
	}
	for k, cat := range rows {
		if err := w.Write([]string{k.wallet, k.chain, k.hash, string(cat)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) Categories(wallet, chainName string) (map[string]chain.Category, error) {
	rows, err := j.readCategoryRows()
	if err != nil {
		return nil, err
	}
	out := make(map[string]chain.Category)
	for k, cat := range rows {
		if (wallet == "" || k.wallet == wallet) && (chainName == "" || k.chain == chainName) {
			out[k.hash] = cat
		}
	}
	return out, nil
}

type categoryKey struct {
	wallet, chain, hash string
}

func (j *CSVJournal) readCategoryRows() (map[categoryKey]chain.Category, error) {
	out := make(map[categoryKey]chain.Category)

	f, err := os.Open(j.categories)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		if err == io.EOF {
			return out, nil
		}
		return nil, err
	}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out[categoryKey{row[0], row[1], row[2]}] = chain.Category(row[3])
	}
	return out, nil
}

func (j *CSVJournal) Close() error {
	j.runs.Flush()
	if err := j.runs.Error(); err != nil {
		return err
	}
	j.gains.Flush()
	if err := j.gains.Error(); err != nil {
		return err
	}

	if err := j.rf.Close(); err != nil {
		return err
	}
	if err := j.gf.Close(); err != nil {
		return err
	}
	return nil
}
