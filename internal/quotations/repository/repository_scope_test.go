package repository

import (
	"strings"
	"testing"
)

func TestListQueryIsTenantScoped(t *testing.T) {
	lowered := strings.ToLower(listQuotationsBaseQuery)
	if !strings.Contains(lowered, "where organization_id = $1") {
		t.Fatal("quotation list query is not tenant scoped")
	}
	if !strings.Contains(lowered, "archived_at is null") {
		t.Fatal("quotation list query does not hide archived rows by default")
	}
}

func TestLockQueryTakesRowLockWithinTenant(t *testing.T) {
	lowered := strings.ToLower(lockQuotationQuery)
	if !strings.Contains(lowered, "for update") {
		t.Fatal("reprice and replace must lock the quotation row")
	}
	if !strings.Contains(lowered, "organization_id = $2") {
		t.Fatal("the row lock is not tenant scoped")
	}
}

func TestRefreshTotalDerivesFromExpenseRows(t *testing.T) {
	lowered := strings.ToLower(refreshTotalQuery)
	if !strings.Contains(lowered, "sum(total_minor)") {
		t.Fatal("the header total must be derived from the expense rows")
	}
	if !strings.Contains(lowered, "coalesce") {
		t.Fatal("an itinerary without expenses must reset the total to zero")
	}
	if !strings.Contains(lowered, "organization_id = $2") {
		t.Fatal("the total refresh is not tenant scoped")
	}
}
