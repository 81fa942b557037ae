// Package report renders realized-gain records into IRS-shaped outputs:
// Form 8949 rows and the Schedule D yearly summary.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/taxledger/classify"
)

// TermFilter narrows Form 8949 output by holding period.
type TermFilter string

const (
	FilterAll       TermFilter = "all"
	FilterShortTerm TermFilter = "short-term"
	FilterLongTerm  TermFilter = "long-term"
)

// ValidTermFilter reports whether f is a supported filter value.
func ValidTermFilter(f TermFilter) bool {
	switch f {
	case FilterAll, FilterShortTerm, FilterLongTerm:
		return true
	}
	return false
}

var form8949Header = []string{
	"description", "date_acquired", "date_sold",
	"proceeds", "cost_basis", "gain_loss", "term", "estimated",
}

// Form8949 writes one CSV row per record matching filter. Dollar values are
// rounded to cents here, at the report boundary; the ledger keeps full
// precision. Zero matching records still produce the header, an
// empty-but-valid export.
func Form8949(w io.Writer, records []classify.RealizedGain, filter TermFilter) error {
	if !ValidTermFilter(filter) {
		return fmt.Errorf("unknown term filter %q", filter)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(form8949Header); err != nil {
		return err
	}

	for _, r := range records {
		if filter != FilterAll && TermFilter(r.Term) != filter {
			continue
		}
		row := []string{
			fmt.Sprintf("%s %s", r.Amount.String(), r.Asset),
			r.AcquiredAt.UTC().Format("2006-01-02"),
			r.DisposedAt.UTC().Format("2006-01-02"),
			r.Proceeds.StringFixed(2),
			r.CostBasis.StringFixed(2),
			r.Gain.StringFixed(2),
			string(r.Term),
			fmt.Sprintf("%t", r.Estimated),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// FilterByYear keeps records whose disposal date falls in the given
// calendar year (UTC).
func FilterByYear(records []classify.RealizedGain, year int) []classify.RealizedGain {
	var out []classify.RealizedGain
	for _, r := range records {
		if r.DisposedAt.UTC().Year() == year {
			out = append(out, r)
		}
	}
	return out
}

// FirstSupportedYear is the earliest tax year reports can cover.
const FirstSupportedYear = 2020

// SupportedYears lists the tax years available for Schedule D export,
// FirstSupportedYear through the current year.
func SupportedYears(now time.Time) []int {
	var years []int
	for y := FirstSupportedYear; y <= now.UTC().Year(); y++ {
		years = append(years, y)
	}
	return years
}

// ValidYear reports whether year falls inside the supported range.
func ValidYear(year int, now time.Time) bool {
	return year >= FirstSupportedYear && year <= now.UTC().Year()
}
