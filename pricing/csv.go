package pricing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LoadCSV builds a Static oracle from a price-history file with columns
// asset,date,price_usd where date is YYYY-MM-DD.
func LoadCSV(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prices: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3

	if _, err := r.Read(); err != nil { // header
		return nil, fmt.Errorf("read price header: %w", err)
	}

	oracle := NewStatic()
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		day, err := time.Parse("2006-01-02", strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("prices line %d: date: %w", line, err)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("prices line %d: price: %w", line, err)
		}
		oracle.Add(strings.ToUpper(strings.TrimSpace(row[0])), day.UTC(), price)
	}
	return oracle, nil
}
