package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/taxledger/classify"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func date(y, m, day int) time.Time {
	return time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []classify.RealizedGain {
	return []classify.RealizedGain{
		{
			Asset: "ETH", Amount: d("1"),
			AcquiredAt: date(2021, 1, 1), DisposedAt: date(2022, 2, 5),
			Proceeds: d("2666.666667"), CostBasis: d("2000"), Gain: d("666.666667"),
			Term: classify.LongTerm, SellHash: "sell-1",
		},
		{
			Asset: "ETH", Amount: d("0.5"),
			AcquiredAt: date(2021, 4, 10), DisposedAt: date(2022, 2, 5),
			Proceeds: d("1333.333333"), CostBasis: d("1500"), Gain: d("-166.666667"),
			Term: classify.ShortTerm, SellHash: "sell-1",
		},
		{
			Asset: "BTC", Amount: d("0.1"),
			AcquiredAt: date(2020, 6, 1), DisposedAt: date(2023, 3, 1),
			Proceeds: d("2500"), CostBasis: d("1000"), Gain: d("1500"),
			Term: classify.LongTerm, SellHash: "sell-2", Estimated: true,
		},
	}
}

func TestForm8949Filters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filter   TermFilter
		wantRows int
	}{
		{FilterAll, 3},
		{FilterShortTerm, 1},
		{FilterLongTerm, 2},
	}
	for _, tc := range tests {
		t.Run(string(tc.filter), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Form8949(&buf, sampleRecords(), tc.filter); err != nil {
				t.Fatalf("form 8949: %v", err)
			}
			rows, err := csv.NewReader(&buf).ReadAll()
			if err != nil {
				t.Fatalf("parse output: %v", err)
			}
			if len(rows) != tc.wantRows+1 {
				t.Fatalf("rows: got %d want %d plus header", len(rows)-1, tc.wantRows)
			}
		})
	}
}

func TestForm8949RoundsToCents(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Form8949(&buf, sampleRecords(), FilterAll); err != nil {
		t.Fatalf("form 8949: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	first := rows[1]
	if first[0] != "1 ETH" {
		t.Fatalf("description: %q", first[0])
	}
	if first[3] != "2666.67" || first[5] != "666.67" {
		t.Fatalf("dollar rounding: proceeds %q gain %q", first[3], first[5])
	}
	if first[7] != "false" {
		t.Fatalf("estimated flag: %q", first[7])
	}
}

func TestForm8949RejectsUnknownFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Form8949(&buf, sampleRecords(), TermFilter("weekly")); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

func TestForm8949EmptyStillWritesHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Form8949(&buf, nil, FilterAll); err != nil {
		t.Fatalf("form 8949: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}

func TestSupportedYears(t *testing.T) {
	t.Parallel()

	now := date(2023, 7, 1)
	years := SupportedYears(now)
	want := []int{2020, 2021, 2022, 2023}
	if len(years) != len(want) {
		t.Fatalf("years: %v", years)
	}
	for i, y := range want {
		if years[i] != y {
			t.Fatalf("years: %v", years)
		}
	}

	if ValidYear(2019, now) || ValidYear(2024, now) {
		t.Fatal("out-of-range years accepted")
	}
	if !ValidYear(2020, now) || !ValidYear(2023, now) {
		t.Fatal("boundary years rejected")
	}
}

func TestSummarizeScheduleD(t *testing.T) {
	t.Parallel()

	now := date(2023, 7, 1)
	s, err := SummarizeScheduleD(sampleRecords(), 2022, now)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.RecordCount != 2 {
		t.Fatalf("record count: %d", s.RecordCount)
	}
	if !s.LongTermGain.Equal(d("666.666667")) {
		t.Fatalf("long-term gain: %s", s.LongTermGain)
	}
	if !s.ShortTermGain.Equal(d("-166.666667")) {
		t.Fatalf("short-term gain: %s", s.ShortTermGain)
	}
	if !s.TotalGain.Equal(d("500")) {
		t.Fatalf("total gain: %s", s.TotalGain)
	}
}

func TestSummarizeScheduleDEmptyYear(t *testing.T) {
	t.Parallel()

	s, err := SummarizeScheduleD(sampleRecords(), 2021, date(2023, 7, 1))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.RecordCount != 0 || !s.TotalGain.IsZero() {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestSummarizeScheduleDRejectsBadYear(t *testing.T) {
	t.Parallel()

	if _, err := SummarizeScheduleD(sampleRecords(), 2019, date(2023, 7, 1)); err == nil {
		t.Fatal("expected error for unsupported year")
	}
}

func TestScheduleDText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := ScheduleD(&buf, sampleRecords(), 2022, FormatText, date(2023, 7, 1))
	if err != nil {
		t.Fatalf("schedule d: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Tax Year 2022", "Part I", "Part II", "500.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestScheduleDCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := ScheduleD(&buf, sampleRecords(), 2022, FormatCSV, date(2023, 7, 1))
	if err != nil {
		t.Fatalf("schedule d: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	// header, short-term, long-term, total
	if len(rows) != 4 {
		t.Fatalf("rows: %d", len(rows))
	}
	if rows[3][4] != "500.00" {
		t.Fatalf("total row: %v", rows[3])
	}
}
