package repository

import (
	"strings"
	"testing"
)

func TestListMembersQueryIsTenantScoped(t *testing.T) {
	query := strings.ToLower(listMembersQuery)

	requiredFragments := []string{
		"from td_users",
		"where organization_id = $1",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected tenant-scoped query fragment %q to be present", fragment)
		}
	}
}
