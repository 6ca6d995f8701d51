package service

import (
	"testing"

	"tourdesk_backend/internal/invoices/repository"
)

func TestValidPayableTransition(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want bool
	}{
		{repository.PayableDraft, repository.PayableApproved, true},
		{repository.PayableApproved, repository.PayablePaid, true},
		{repository.PayableDraft, repository.PayablePaid, false},
		{repository.PayableApproved, repository.PayableDraft, false},
		{repository.PayablePaid, repository.PayableApproved, false},
		{repository.PayablePaid, repository.PayableDraft, false},
	}
	for _, tc := range cases {
		if got := validPayableTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("validPayableTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
