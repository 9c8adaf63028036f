package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lodestarhq/lodestar/internal/domain"
	"github.com/lodestarhq/lodestar/internal/domain/company"
	"github.com/lodestarhq/lodestar/internal/port/database"
)

type fakeCompanyStore struct {
	// Embedded so unimplemented methods panic if called.
	database.Store
	companies map[string]*company.Company
}

func (f *fakeCompanyStore) GetCompany(_ context.Context, id string) (*company.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanyStore) UpdateCompany(_ context.Context, c *company.Company) error {
	stored, ok := f.companies[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != c.Version {
		return domain.ErrConflict
	}
	cp := *c
	cp.Version++
	f.companies[c.ID] = &cp
	c.Version++
	return nil
}

func strPtr(s string) *string { return &s }

func newCompanyFixture() (*CompanyService, *fakeCompanyStore) {
	store := &fakeCompanyStore{companies: map[string]*company.Company{
		"c1": {ID: "c1", Name: "Acme", Domain: "acme.test", Notes: "cold lead"},
	}}
	return NewCompanyService(store), store
}

func TestCompanyUpdateAppliesFields(t *testing.T) {
	svc, store := newCompanyFixture()

	c, err := svc.Update(context.Background(), "c1", company.UpdateRequest{
		Name:  strPtr("Acme Corp"),
		Notes: strPtr("warm lead"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if c.Name != "Acme Corp" || c.Notes != "warm lead" {
		t.Fatalf("updated company = %+v", c)
	}
	if c.Domain != "acme.test" {
		t.Errorf("unset field must not change, domain = %q", c.Domain)
	}
	if store.companies["c1"].Name != "Acme Corp" {
		t.Error("update not persisted")
	}
}

func TestCompanyUpdateRejectsEmptyName(t *testing.T) {
	svc, store := newCompanyFixture()

	_, err := svc.Update(context.Background(), "c1", company.UpdateRequest{Name: strPtr("  ")})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if store.companies["c1"].Name != "Acme" {
		t.Error("invalid update must not touch the stored company")
	}
}

func TestCompanyUpdateUnknownID(t *testing.T) {
	svc, _ := newCompanyFixture()

	_, err := svc.Update(context.Background(), "missing", company.UpdateRequest{Name: strPtr("X")})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
