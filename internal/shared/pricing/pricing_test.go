package pricing

import "testing"

func TestClassifyMatchesLegacyLabels(t *testing.T) {
	tests := []struct {
		label string
		want  Category
	}{
		{label: "Hotel Accommodation", want: CategoryHotel},
		{label: "otel konaklama", want: CategoryHotel},
		{label: "Professional Guide", want: CategoryGuide},
		{label: "Rehberlik hizmeti", want: CategoryGuide},
		{label: "Airport Transfer", want: CategoryVehicle},
		{label: "Transport - Minibus", want: CategoryVehicle},
		{label: "Entrance Fee", want: CategoryEntrance},
		{label: "Müze girişi", want: CategoryEntrance},
		{label: "Museum tickets", want: CategoryEntrance},
		{label: "Daily Tour", want: CategoryTour},
		{label: "Balloon activity", want: CategoryTour},
		{label: "Lunch", want: CategoryGeneric},
		{label: "", want: CategoryGeneric},
	}

	for _, tc := range tests {
		if got := Classify(tc.label); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestClassifyChecksVehicleBeforeTour(t *testing.T) {
	// "return transfer" contains both "tur" and "transfer".
	if got := Classify("Return transfer to airport"); got != CategoryVehicle {
		t.Fatalf("Classify = %q, want %q", got, CategoryVehicle)
	}
}

func TestParseCategoryRejectsFreeText(t *testing.T) {
	if _, ok := ParseCategory("hotel night"); ok {
		t.Fatal("expected free text to be rejected")
	}
	if got, ok := ParseCategory("entrance"); !ok || got != CategoryEntrance {
		t.Fatalf("ParseCategory(entrance) = %q, %v", got, ok)
	}
}
