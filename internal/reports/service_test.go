package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAgingBucketIndexBoundaries(t *testing.T) {
	asOf := day("2026-06-30")

	tests := []struct {
		name string
		due  string
		want int
	}{
		{"due in the future", "2026-07-15", 0},
		{"due today", "2026-06-30", 0},
		{"one day past due", "2026-06-29", 1},
		{"thirty days past due", "2026-05-31", 1},
		{"thirty one days past due", "2026-05-30", 2},
		{"sixty days past due", "2026-05-01", 2},
		{"sixty one days past due", "2026-04-30", 3},
		{"ninety days past due", "2026-04-01", 3},
		{"ninety one days past due", "2026-03-31", 4},
		{"a year past due", "2025-06-30", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agingBucketIndex(asOf, day(tt.due)); got != tt.want {
				t.Fatalf("agingBucketIndex(%s, %s) = %d, want %d", asOf.Format("2006-01-02"), tt.due, got, tt.want)
			}
		})
	}
}

func TestConvertMinorDividesByRate(t *testing.T) {
	// Rates price one base unit in quote units: with EUR base and
	// USD quote at 1.08, a USD amount divides by 1.08.
	rate := decimal.RequireFromString("1.08")

	if got := convertMinor(10800, rate); got != 10000 {
		t.Fatalf("convertMinor(10800, 1.08) = %d, want 10000", got)
	}
	// 100.00 USD / 1.08 = 92.592..., rounds to 9259 minor units.
	if got := convertMinor(10000, rate); got != 9259 {
		t.Fatalf("convertMinor(10000, 1.08) = %d, want 9259", got)
	}
}

func TestBuildSummaryRowsMissingRateStaysUnconverted(t *testing.T) {
	invoiced := map[string]int64{"EUR": 100000, "USD": 10800, "TRY": 500000}
	collected := map[string]int64{"EUR": 40000, "USD": 10800}
	refunded := map[string]int64{"EUR": 20000}
	outstanding := map[string]int64{"EUR": 60000, "TRY": 500000}
	rates := map[string]decimal.Decimal{
		"USD": decimal.RequireFromString("1.08"),
	}

	rows := buildSummaryRows("EUR", invoiced, collected, refunded, outstanding, rates)

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	// Sorted by currency code.
	if rows[0].Currency != "EUR" || rows[1].Currency != "TRY" || rows[2].Currency != "USD" {
		t.Fatalf("unexpected row order: %s, %s, %s", rows[0].Currency, rows[1].Currency, rows[2].Currency)
	}

	eur := rows[0]
	if eur.Base == nil {
		t.Fatal("base currency row must convert at rate one")
	}
	if eur.Base.InvoicedMinor != eur.InvoicedMinor || eur.Base.Currency != "EUR" {
		t.Fatalf("base row conversion changed figures: %+v", eur.Base)
	}

	try := rows[1]
	if try.Base != nil {
		t.Fatal("row without a stored rate must stay unconverted")
	}
	if try.InvoicedMinor != 500000 || try.OutstandingMinor != 500000 {
		t.Fatalf("unconverted row lost figures: %+v", try)
	}

	usd := rows[2]
	if usd.Base == nil {
		t.Fatal("row with a stored rate must convert")
	}
	if usd.Base.InvoicedMinor != 10000 {
		t.Fatalf("converted invoiced = %d, want 10000", usd.Base.InvoicedMinor)
	}
	if usd.Base.CollectedMinor != 10000 {
		t.Fatalf("converted collected = %d, want 10000", usd.Base.CollectedMinor)
	}
	if usd.Base.RefundedMinor != 0 || usd.Base.OutstandingMinor != 0 {
		t.Fatalf("zero figures must convert to zero: %+v", usd.Base)
	}
}

func TestConversionRateRejectsNonPositive(t *testing.T) {
	rates := map[string]decimal.Decimal{
		"USD": decimal.Zero,
		"GBP": decimal.RequireFromString("-1"),
	}
	if _, ok := conversionRate("EUR", "USD", rates); ok {
		t.Fatal("zero rate must not convert")
	}
	if _, ok := conversionRate("EUR", "GBP", rates); ok {
		t.Fatal("negative rate must not convert")
	}
	if rate, ok := conversionRate("EUR", "EUR", rates); !ok || !rate.Equal(decimal.NewFromInt(1)) {
		t.Fatal("base currency must convert at one")
	}
}
