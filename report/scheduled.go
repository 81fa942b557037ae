package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/taxledger/classify"
)

// Format selects the Schedule D rendering.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
)

// ScheduleDSummary aggregates one tax year's realized gains into the
// short-term/long-term totals Schedule D asks for.
type ScheduleDSummary struct {
	TaxYear            int
	ShortTermProceeds  decimal.Decimal
	ShortTermCostBasis decimal.Decimal
	ShortTermGain      decimal.Decimal
	LongTermProceeds   decimal.Decimal
	LongTermCostBasis  decimal.Decimal
	LongTermGain       decimal.Decimal
	TotalGain          decimal.Decimal
	RecordCount        int
}

// SummarizeScheduleD restricts records to the tax year and totals them. A
// year with no records yields a zero-valued summary, not an error.
func SummarizeScheduleD(records []classify.RealizedGain, taxYear int, now time.Time) (ScheduleDSummary, error) {
	if !ValidYear(taxYear, now) {
		return ScheduleDSummary{}, fmt.Errorf("tax year %d out of supported range %d-%d",
			taxYear, FirstSupportedYear, now.UTC().Year())
	}

	s := ScheduleDSummary{TaxYear: taxYear}
	for _, r := range FilterByYear(records, taxYear) {
		s.RecordCount++
		switch r.Term {
		case classify.LongTerm:
			s.LongTermProceeds = s.LongTermProceeds.Add(r.Proceeds)
			s.LongTermCostBasis = s.LongTermCostBasis.Add(r.CostBasis)
			s.LongTermGain = s.LongTermGain.Add(r.Gain)
		default:
			s.ShortTermProceeds = s.ShortTermProceeds.Add(r.Proceeds)
			s.ShortTermCostBasis = s.ShortTermCostBasis.Add(r.CostBasis)
			s.ShortTermGain = s.ShortTermGain.Add(r.Gain)
		}
	}
	s.TotalGain = s.ShortTermGain.Add(s.LongTermGain)
	return s, nil
}

// ScheduleD renders the yearly summary in the requested format.
func ScheduleD(w io.Writer, records []classify.RealizedGain, taxYear int, format Format, now time.Time) error {
	s, err := SummarizeScheduleD(records, taxYear, now)
	if err != nil {
		return err
	}
	switch format {
	case FormatText:
		return writeScheduleDText(w, s)
	case FormatCSV:
		return writeScheduleDCSV(w, s)
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeScheduleDText(w io.Writer, s ScheduleDSummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "SCHEDULE D - Capital Gains and Losses - Tax Year %d\n", s.TaxYear)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("Part I - Short-Term (held one year or less)\n")
	fmt.Fprintf(&b, "  Proceeds:    %s\n", s.ShortTermProceeds.StringFixed(2))
	fmt.Fprintf(&b, "  Cost basis:  %s\n", s.ShortTermCostBasis.StringFixed(2))
	fmt.Fprintf(&b, "  Gain/loss:   %s\n\n", s.ShortTermGain.StringFixed(2))

	b.WriteString("Part II - Long-Term (held more than one year)\n")
	fmt.Fprintf(&b, "  Proceeds:    %s\n", s.LongTermProceeds.StringFixed(2))
	fmt.Fprintf(&b, "  Cost basis:  %s\n", s.LongTermCostBasis.StringFixed(2))
	fmt.Fprintf(&b, "  Gain/loss:   %s\n\n", s.LongTermGain.StringFixed(2))

	fmt.Fprintf(&b, "Total net gain/loss: %s\n", s.TotalGain.StringFixed(2))
	fmt.Fprintf(&b, "Records included:    %d\n", s.RecordCount)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeScheduleDCSV(w io.Writer, s ScheduleDSummary) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"tax_year", "part", "proceeds", "cost_basis", "gain_loss"},
		{fmt.Sprint(s.TaxYear), "short-term", s.ShortTermProceeds.StringFixed(2),
			s.ShortTermCostBasis.StringFixed(2), s.ShortTermGain.StringFixed(2)},
		{fmt.Sprint(s.TaxYear), "long-term", s.LongTermProceeds.StringFixed(2),
			s.LongTermCostBasis.StringFixed(2), s.LongTermGain.StringFixed(2)},
		{fmt.Sprint(s.TaxYear), "total", "", "", s.TotalGain.StringFixed(2)},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
