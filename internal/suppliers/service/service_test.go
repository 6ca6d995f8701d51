package service

import (
	"reflect"
	"testing"
)

func TestNormalizePlateCollapsesWhitespaceAndUppercases(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "34 abc 123", want: "34 ABC 123"},
		{in: "  07\ttur 07 ", want: "07 TUR 07"},
		{in: "34ABC123", want: "34ABC123"},
	}

	for _, tc := range tests {
		if got := normalizePlate(tc.in); got != tc.want {
			t.Errorf("normalizePlate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeLanguagesDropsEmptiesAndLowercases(t *testing.T) {
	got := normalizeLanguages([]string{" EN ", "de", "", "Tr"})
	want := []string{"en", "de", "tr"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("normalizeLanguages = %v, want %v", got, want)
	}

	if normalizeLanguages(nil) != nil {
		t.Fatal("expected nil languages to stay nil so COALESCE keeps the stored value")
	}
}

func TestNormalizePhoneProducesE164(t *testing.T) {
	raw := "0532 123 45 67"
	got := normalizePhone(&raw)
	if got == nil || *got != "+905321234567" {
		t.Fatalf("normalizePhone(%q) = %v", raw, got)
	}

	if normalizePhone(nil) != nil {
		t.Fatal("expected nil phone to stay nil")
	}
}

func TestNormalizeEmailLowercases(t *testing.T) {
	raw := " Reservations@Hotel.Example "
	got := normalizeEmail(&raw)
	if got == nil || *got != "reservations@hotel.example" {
		t.Fatalf("normalizeEmail(%q) = %v", raw, got)
	}
}
