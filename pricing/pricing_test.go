package pricing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStaticMostRecentAtOrBefore(t *testing.T) {
	t.Parallel()

	o := NewStatic()
	o.Add("ETH", ts("2021-01-10"), d("1200"))
	o.Add("ETH", ts("2021-01-01"), d("1000")) // out of order on purpose
	o.Add("ETH", ts("2021-01-20"), d("1400"))

	tests := []struct {
		at   string
		want string
	}{
		{"2021-01-01", "1000"}, // exact match
		{"2021-01-05", "1000"}, // between observations
		{"2021-01-10", "1200"},
		{"2021-03-01", "1400"}, // after the last observation
	}
	for _, tc := range tests {
		got, err := o.Price(context.Background(), "ETH", ts(tc.at))
		if err != nil {
			t.Fatalf("price at %s: %v", tc.at, err)
		}
		if !got.Equal(d(tc.want)) {
			t.Fatalf("price at %s: got %s want %s", tc.at, got, tc.want)
		}
	}
}

func TestStaticUnavailable(t *testing.T) {
	t.Parallel()

	o := NewStatic()
	o.Add("ETH", ts("2021-01-10"), d("1200"))

	// Before the first observation.
	_, err := o.Price(context.Background(), "ETH", ts("2020-12-31"))
	if !errors.Is(err, ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable, got %v", err)
	}

	// Unknown asset.
	_, err = o.Price(context.Background(), "DOGE", ts("2021-06-01"))
	if !errors.Is(err, ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable, got %v", err)
	}
}

func TestResolveFallback(t *testing.T) {
	t.Parallel()

	o := NewStatic()
	q, err := Resolve(context.Background(), o, "ETH", ts("2021-01-01"), d("2500"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !q.Estimated || !q.Price.Equal(d("2500")) {
		t.Fatalf("fallback quote: %+v", q)
	}

	o.Add("ETH", ts("2021-01-01"), d("1000"))
	q, err = Resolve(context.Background(), o, "ETH", ts("2021-01-01"), d("2500"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if q.Estimated || !q.Price.Equal(d("1000")) {
		t.Fatalf("direct quote: %+v", q)
	}
}

// countingOracle records how many times the upstream was actually asked.
type countingOracle struct {
	next  Oracle
	calls int
}

func (c *countingOracle) Price(ctx context.Context, asset string, t time.Time) (decimal.Decimal, error) {
	c.calls++
	return c.next.Price(ctx, asset, t)
}

func TestCachedBucketsByDay(t *testing.T) {
	t.Parallel()

	static := NewStatic()
	static.Add("ETH", ts("2021-01-01"), d("1000"))
	upstream := &countingOracle{next: static}
	cached := NewCached(upstream)

	ctx := context.Background()
	morning := ts("2021-01-02").Add(9 * time.Hour)
	evening := ts("2021-01-02").Add(21 * time.Hour)

	for _, at := range []time.Time{morning, evening, morning} {
		got, err := cached.Price(ctx, "ETH", at)
		if err != nil {
			t.Fatalf("price: %v", err)
		}
		if !got.Equal(d("1000")) {
			t.Fatalf("price: %s", got)
		}
	}
	if upstream.calls != 1 {
		t.Fatalf("upstream calls: got %d want 1", upstream.calls)
	}

	// A different day is a different bucket.
	if _, err := cached.Price(ctx, "ETH", ts("2021-01-03")); err != nil {
		t.Fatalf("price: %v", err)
	}
	if upstream.calls != 2 {
		t.Fatalf("upstream calls: got %d want 2", upstream.calls)
	}
}

func TestCachedNegativeResults(t *testing.T) {
	t.Parallel()

	upstream := &countingOracle{next: NewStatic()}
	cached := NewCached(upstream)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := cached.Price(ctx, "ETH", ts("2021-01-01"))
		if !errors.Is(err, ErrPriceUnavailable) {
			t.Fatalf("expected ErrPriceUnavailable, got %v", err)
		}
	}
	if upstream.calls != 1 {
		t.Fatalf("upstream calls: got %d want 1", upstream.calls)
	}
}

func TestThrottledCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	th := NewThrottled(NewStatic(), 100)
	if _, err := th.Price(ctx, "ETH", ts("2021-01-01")); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLoadCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prices.csv")
	data := "asset,date,price_usd\n" +
		"eth,2021-01-01,1000\n" +
		"ETH,2021-06-01,2500.50\n" +
		"btc,2021-01-01,30000\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	o, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got, err := o.Price(context.Background(), "ETH", ts("2021-07-01"))
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if !got.Equal(d("2500.50")) {
		t.Fatalf("price: %s", got)
	}
	if _, err := o.Price(context.Background(), "BTC", ts("2021-02-01")); err != nil {
		t.Fatalf("btc price: %v", err)
	}
}

func TestLoadCSVBadRow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prices.csv")
	data := "asset,date,price_usd\neth,not-a-date,1000\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCSV(path); err == nil {
		t.Fatal("expected parse error")
	}
}
