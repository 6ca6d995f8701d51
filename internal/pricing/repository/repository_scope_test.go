package repository

import (
	"strings"
	"testing"
)

func TestResolveQueriesPickLatestSeason(t *testing.T) {
	queries := map[string]string{
		"hotel":    resolveHotelRateQuery,
		"guide":    resolveGuideRateQuery,
		"vehicle":  resolveVehicleRateQuery,
		"entrance": resolveEntranceRateQuery,
		"tour":     resolveTourRateQuery,
	}

	for name, query := range queries {
		lowered := strings.ToLower(query)
		if !strings.Contains(lowered, "organization_id = $1") {
			t.Errorf("%s resolve query is not tenant scoped", name)
		}
		if !strings.Contains(lowered, "valid_from <= $3 and valid_to >= $3") {
			t.Errorf("%s resolve query does not bracket the service date", name)
		}
		if !strings.Contains(lowered, "order by valid_from desc") {
			t.Errorf("%s resolve query does not prefer the latest season on overlap", name)
		}
		if !strings.Contains(lowered, "limit 1") {
			t.Errorf("%s resolve query must return a single row", name)
		}
	}
}

func TestHotelResolvePrefersCheapestRoomWithinSeason(t *testing.T) {
	lowered := strings.ToLower(resolveHotelRateQuery)
	if !strings.Contains(lowered, "valid_from desc, cost_minor asc") {
		t.Fatal("expected cheapest-room tiebreak after season recency")
	}
}

func TestListQueriesAreTenantScoped(t *testing.T) {
	queries := map[string]string{
		"hotel":    listHotelRatesBaseQuery,
		"guide":    listGuideRatesBaseQuery,
		"vehicle":  listVehicleRatesBaseQuery,
		"entrance": listEntranceRatesBaseQuery,
		"tour":     listTourRatesBaseQuery,
	}

	for name, query := range queries {
		if !strings.Contains(strings.ToLower(query), "where organization_id = $1") {
			t.Errorf("%s rate list query is not tenant scoped", name)
		}
	}
}
