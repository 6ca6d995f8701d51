package service

import (
	"context"
	"testing"

	"tourdesk_backend/internal/agents/repository"

	"github.com/google/uuid"
)

type fakeStore struct {
	created repository.CreateParams
	updated repository.UpdateParams
}

func (f *fakeStore) Create(_ context.Context, p repository.CreateParams) (repository.Agent, error) {
	f.created = p
	return repository.Agent{ID: uuid.New(), Name: p.Name}, nil
}

func (f *fakeStore) GetByID(context.Context, uuid.UUID, uuid.UUID) (repository.Agent, error) {
	return repository.Agent{}, nil
}

func (f *fakeStore) Update(_ context.Context, p repository.UpdateParams) (repository.Agent, error) {
	f.updated = p
	return repository.Agent{}, nil
}

func (f *fakeStore) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func (f *fakeStore) List(context.Context, repository.ListParams) (repository.ListResult, error) {
	return repository.ListResult{}, nil
}

func strPtr(s string) *string { return &s }

func TestCreateNormalizesContactFields(t *testing.T) {
	store := &fakeStore{}
	svc := New(store)

	_, err := svc.Create(context.Background(), repository.CreateParams{
		OrganizationID: uuid.New(),
		Name:           "  Marco Polo Travel  ",
		Email:          strPtr(" Bookings@MarcoPolo.Example "),
		Phone:          strPtr("0532 123 45 67"),
		Notes:          strPtr("<b>VIP</b> partner since 2019"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if store.created.Name != "Marco Polo Travel" {
		t.Errorf("name not trimmed: %q", store.created.Name)
	}
	if got := *store.created.Email; got != "bookings@marcopolo.example" {
		t.Errorf("email not normalized: %q", got)
	}
	if got := *store.created.Phone; got != "+905321234567" {
		t.Errorf("phone not normalized to E.164: %q", got)
	}
	if got := *store.created.Notes; got != "VIP partner since 2019" {
		t.Errorf("notes not sanitized: %q", got)
	}
}

func TestUpdateLeavesAbsentFieldsNil(t *testing.T) {
	store := &fakeStore{}
	svc := New(store)

	_, err := svc.Update(context.Background(), repository.UpdateParams{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Phone:          strPtr("+31 20 794 0800"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if store.updated.Name != nil || store.updated.Email != nil || store.updated.Notes != nil {
		t.Error("absent fields must stay nil so COALESCE keeps stored values")
	}
	if got := *store.updated.Phone; got != "+31207940800" {
		t.Errorf("phone not normalized: %q", got)
	}
}
