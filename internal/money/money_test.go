package money

import "testing"

func TestComposeAppliesMarkupThenTax(t *testing.T) {
	tests := []struct {
		name      string
		baseMinor int64
		markupBps int32
		taxBps    int32
		want      int64
	}{
		{name: "no markup no tax", baseMinor: 10000, markupBps: 0, taxBps: 0, want: 10000},
		{name: "markup only", baseMinor: 10000, markupBps: 1500, taxBps: 0, want: 11500},
		{name: "tax only", baseMinor: 10000, markupBps: 0, taxBps: 1800, want: 11800},
		{name: "markup and tax compound", baseMinor: 10000, markupBps: 1500, taxBps: 1800, want: 13570},
		{name: "fractional result rounds", baseMinor: 333, markupBps: 1000, taxBps: 1800, want: 432},
		{name: "half rounds away from zero", baseMinor: 5, markupBps: 0, taxBps: 5000, want: 8},
		{name: "zero base", baseMinor: 0, markupBps: 2000, taxBps: 1800, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(tt.baseMinor, tt.markupBps, tt.taxBps)
			if got != tt.want {
				t.Errorf("Compose(%d, %d, %d) = %d, want %d",
					tt.baseMinor, tt.markupBps, tt.taxBps, got, tt.want)
			}
		})
	}
}

func TestComposeMatchesSequentialApplication(t *testing.T) {
	// Composing in one step must equal applying markup then tax in sequence
	// for values that divide evenly; this pins the composition order.
	base := int64(200000)
	markup := int32(2500)
	tax := int32(1000)

	sequential := ApplyBps(ApplyBps(base, markup), tax)
	composed := Compose(base, markup, tax)

	if sequential != composed {
		t.Fatalf("sequential %d != composed %d", sequential, composed)
	}
	if composed != 275000 {
		t.Fatalf("composed = %d, want 275000", composed)
	}
}

func TestPercentBpsRoundTrip(t *testing.T) {
	tests := []struct {
		percent float64
		bps     int32
	}{
		{percent: 0, bps: 0},
		{percent: 18, bps: 1800},
		{percent: 19.5, bps: 1950},
		{percent: 7.25, bps: 725},
		{percent: 100, bps: 10000},
	}

	for _, tt := range tests {
		if got := PercentToBps(tt.percent); got != tt.bps {
			t.Errorf("PercentToBps(%v) = %d, want %d", tt.percent, got, tt.bps)
		}
		if got := BpsToPercent(tt.bps); got != tt.percent {
			t.Errorf("BpsToPercent(%d) = %v, want %v", tt.bps, got, tt.percent)
		}
	}
}

func TestAmountArithmetic(t *testing.T) {
	a := New(100000, "EUR")

	if got := a.Add(40000).AmountMinor; got != 140000 {
		t.Errorf("Add: got %d, want 140000", got)
	}
	if got := a.Sub(20000).AmountMinor; got != 80000 {
		t.Errorf("Sub: got %d, want 80000", got)
	}
	if a.IsZero() {
		t.Error("IsZero on non-zero amount")
	}
	if got := a.String(); got != "1000.00 EUR" {
		t.Errorf("String: got %q, want %q", got, "1000.00 EUR")
	}
}
