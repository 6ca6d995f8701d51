package repository

import (
	"strings"
	"testing"
)

func TestListBaseQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listBaseQuery)

	requiredFragments := []string{
		"from td_agents",
		"where organization_id = $1",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected tenant-scoped query fragment %q to be present", fragment)
		}
	}
}

func TestResolveSortByRejectsUnknownColumns(t *testing.T) {
	if _, err := resolveSortBy("name; DROP TABLE td_agents"); err == nil {
		t.Fatal("expected unknown sort field to be rejected")
	}
	if got, err := resolveSortBy(""); err != nil || got != "createdAt" {
		t.Fatalf("expected default sort createdAt, got %q err %v", got, err)
	}
}
