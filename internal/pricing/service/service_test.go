package service

import (
	"errors"
	"testing"
	"time"

	"tourdesk_backend/platform/apperr"
)

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestValidateSeasonRejectsInvertedWindow(t *testing.T) {
	err := validateSeason(date("2026-10-01"), date("2026-04-01"))

	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.HTTPStatus() != 400 {
		t.Fatalf("expected 400 for inverted season, got %v", err)
	}

	if err := validateSeason(date("2026-04-01"), date("2026-04-01")); err != nil {
		t.Fatalf("single-day season should be allowed, got %v", err)
	}
}

func TestEffectiveSeasonMergesPartialUpdate(t *testing.T) {
	newTo := date("2026-12-31")
	from, to := effectiveSeason(date("2026-04-01"), date("2026-10-31"), nil, &newTo)

	if !from.Equal(date("2026-04-01")) {
		t.Fatalf("expected stored start to survive, got %s", from)
	}
	if !to.Equal(newTo) {
		t.Fatalf("expected new end to win, got %s", to)
	}
}
