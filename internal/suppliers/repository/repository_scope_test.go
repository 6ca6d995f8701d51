package repository

import (
	"strings"
	"testing"
)

func TestListQueriesAreTenantScoped(t *testing.T) {
	queries := map[string]string{
		"hotels":       listHotelsBaseQuery,
		"guides":       listGuidesBaseQuery,
		"vehicles":     listVehiclesBaseQuery,
		"restaurants":  listRestaurantsBaseQuery,
		"entranceFees": listEntranceFeesBaseQuery,
		"dailyTours":   listDailyToursBaseQuery,
	}

	for name, query := range queries {
		lowered := strings.ToLower(query)
		if !strings.Contains(lowered, "where organization_id = $1") {
			t.Errorf("%s list query is not tenant scoped", name)
		}
		if !strings.Contains(lowered, "archived_at is null") {
			t.Errorf("%s list query does not hide archived rows by default", name)
		}
	}
}

func TestResolvePageClampsWindow(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantNumber int
		wantSize   int
		wantOffset int
	}{
		{name: "defaults", page: 0, pageSize: 0, wantNumber: 1, wantSize: 20, wantOffset: 0},
		{name: "negative page", page: -3, pageSize: 10, wantNumber: 1, wantSize: 10, wantOffset: 0},
		{name: "size capped", page: 2, pageSize: 500, wantNumber: 2, wantSize: 100, wantOffset: 100},
		{name: "third page", page: 3, pageSize: 25, wantNumber: 3, wantSize: 25, wantOffset: 50},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := resolvePage(tc.page, tc.pageSize)
			if got.Number != tc.wantNumber || got.Size != tc.wantSize || got.Offset != tc.wantOffset {
				t.Fatalf("resolvePage(%d, %d) = %+v", tc.page, tc.pageSize, got)
			}
		})
	}
}

func TestTotalPagesRoundsUp(t *testing.T) {
	if got := totalPages(0, 20); got != 0 {
		t.Fatalf("expected 0 pages for empty result, got %d", got)
	}
	if got := totalPages(41, 20); got != 3 {
		t.Fatalf("expected 3 pages for 41 rows, got %d", got)
	}
}
