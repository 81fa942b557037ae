package chain

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CSV column layout produced by the export side of the wallet pollers.
var csvHeader = []string{
	"hash", "time", "block_index", "log_index", "asset",
	"amount", "direction", "counterparty", "gas_fee", "category",
}

// ReadCSV loads a normalized transaction history from path and returns it
// sorted for processing. Rows with a zero or negative amount are rejected:
// the sign lives in the direction column.
func ReadCSV(path string) ([]Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transactions: %w", err)
	}
	defer f.Close()

	txs, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	SortTransactions(txs)
	return txs, nil
}

func parseCSV(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, want := range csvHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != want {
			return nil, fmt.Errorf("unexpected column %d: got %q want %q", i, header[i], want)
		}
	}

	var txs []Transaction
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		tx, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseRow(row []string) (Transaction, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(row[1]))
	if err != nil {
		return Transaction{}, fmt.Errorf("time: %w", err)
	}
	blockIdx, err := strconv.ParseInt(strings.TrimSpace(row[2]), 10, 64)
	if err != nil {
		return Transaction{}, fmt.Errorf("block_index: %w", err)
	}
	logIdx, err := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 64)
	if err != nil {
		return Transaction{}, fmt.Errorf("log_index: %w", err)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(row[5]))
	if err != nil {
		return Transaction{}, fmt.Errorf("amount: %w", err)
	}
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("amount must be positive, got %s", amount)
	}

	var dir Direction
	switch strings.ToLower(strings.TrimSpace(row[6])) {
	case "in", "received":
		dir = DirectionIn
	case "out", "sent":
		dir = DirectionOut
	default:
		return Transaction{}, fmt.Errorf("unknown direction %q", row[6])
	}

	gas := decimal.Zero
	if g := strings.TrimSpace(row[8]); g != "" {
		gas, err = decimal.NewFromString(g)
		if err != nil {
			return Transaction{}, fmt.Errorf("gas_fee: %w", err)
		}
	}

	cat := Category(strings.ToLower(strings.TrimSpace(row[9])))
	if cat != CategoryUnset && !ValidCategory(cat) {
		return Transaction{}, fmt.Errorf("unknown category %q", row[9])
	}

	return Transaction{
		Hash:         strings.TrimSpace(row[0]),
		Time:         t,
		BlockIndex:   blockIdx,
		LogIndex:     logIdx,
		Asset:        strings.ToUpper(strings.TrimSpace(row[4])),
		Amount:       amount,
		Direction:    dir,
		Counterparty: strings.TrimSpace(row[7]),
		GasFee:       gas,
		Category:     cat,
	}, nil
}
