// Package pricing defines the expense categories and the season-rate
// resolution contract shared by the quotation engine.
package pricing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category tags an expense line with the rate table it prices against.
type Category string

const (
	CategoryHotel    Category = "hotel"
	CategoryGuide    Category = "guide"
	CategoryVehicle  Category = "vehicle"
	CategoryEntrance Category = "entrance"
	CategoryTour     Category = "tour"
	CategoryGeneric  Category = "generic"
)

// ParseCategory accepts only the closed set of category tags.
func ParseCategory(raw string) (Category, bool) {
	switch Category(raw) {
	case CategoryHotel, CategoryGuide, CategoryVehicle, CategoryEntrance, CategoryTour, CategoryGeneric:
		return Category(raw), true
	}
	return "", false
}

// Classify maps free-text expense labels onto a category. Legacy rows carry
// operator-entered labels in English or Turkish, so this stays a substring
// match; newly created expenses store a tagged category and never hit it.
func Classify(raw string) Category {
	text := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case text == "":
		return CategoryGeneric
	case containsAny(text, "hotel", "otel", "accommodation"):
		return CategoryHotel
	case containsAny(text, "guide", "rehber"):
		return CategoryGuide
	case containsAny(text, "vehicle", "transport", "transfer", "araç", "arac"):
		return CategoryVehicle
	case containsAny(text, "entrance", "museum", "müze", "muze"):
		return CategoryEntrance
	case containsAny(text, "tour", "activity", "tur"):
		return CategoryTour
	default:
		return CategoryGeneric
	}
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// ErrNoRate means no season row covers the requested service date.
var ErrNoRate = errors.New("no rate covers the service date")

// Rate is a resolved unit cost in minor units.
type Rate struct {
	ID            uuid.UUID
	UnitCostMinor int64
	Currency      string
}

// Resolver looks up unit costs in the season-rate tables. Resolve picks the
// rate covering a service date; RateByID fetches one exact row so a caller
// can pin it. CategoryGeneric always resolves to ErrNoRate.
type Resolver interface {
	Resolve(ctx context.Context, organizationID uuid.UUID, category Category, supplierID uuid.UUID, serviceDate time.Time) (Rate, error)
	RateByID(ctx context.Context, organizationID uuid.UUID, category Category, rateID uuid.UUID) (Rate, error)
}
