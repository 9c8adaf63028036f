package company

import (
	"errors"
	"testing"

	"github.com/lodestarhq/lodestar/internal/domain"
)

func TestValidateCreateRequestRequiresName(t *testing.T) {
	err := ValidateCreateRequest(&CreateRequest{Domain: "acme.io"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateCreateRequestValid(t *testing.T) {
	err := ValidateCreateRequest(&CreateRequest{Name: "Acme", Domain: "acme.io", Sector: "manufacturing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCreateRequestRejectsURLDomain(t *testing.T) {
	err := ValidateCreateRequest(&CreateRequest{Name: "Acme", Domain: "https://acme.io"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for URL domain, got %v", err)
	}
}

func TestValidateUpdateRequestEmptyName(t *testing.T) {
	empty := "  "
	err := ValidateUpdateRequest(UpdateRequest{Name: &empty})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateUpdateRequestNilFieldsPass(t *testing.T) {
	if err := ValidateUpdateRequest(UpdateRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
