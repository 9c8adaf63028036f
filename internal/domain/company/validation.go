package company

import (
	"fmt"
	"strings"

	"github.com/lodestarhq/lodestar/internal/domain"
)

const (
	maxNameLength   = 200
	maxDomainLength = 253
	maxNotesLength  = 10000
)

// ValidateCreateRequest checks a CreateRequest before it reaches the store.
func ValidateCreateRequest(req *CreateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: company name is required", domain.ErrValidation)
	}
	if len(req.Name) > maxNameLength {
		return fmt.Errorf("%w: company name too long (max %d chars)", domain.ErrValidation, maxNameLength)
	}
	if err := validateDomain(req.Domain); err != nil {
		return err
	}
	if len(req.Notes) > maxNotesLength {
		return fmt.Errorf("%w: notes too long (max %d chars)", domain.ErrValidation, maxNotesLength)
	}
	return nil
}

// ValidateUpdateRequest checks an UpdateRequest.
func ValidateUpdateRequest(req UpdateRequest) error {
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return fmt.Errorf("%w: company name must not be empty", domain.ErrValidation)
		}
		if len(*req.Name) > maxNameLength {
			return fmt.Errorf("%w: company name too long (max %d chars)", domain.ErrValidation, maxNameLength)
		}
	}
	if req.Domain != nil {
		if err := validateDomain(*req.Domain); err != nil {
			return err
		}
	}
	if req.Notes != nil && len(*req.Notes) > maxNotesLength {
		return fmt.Errorf("%w: notes too long (max %d chars)", domain.ErrValidation, maxNotesLength)
	}
	return nil
}

// validateDomain accepts an empty domain or a bare hostname like "acme.io".
func validateDomain(d string) error {
	if d == "" {
		return nil
	}
	if len(d) > maxDomainLength {
		return fmt.Errorf("%w: domain too long", domain.ErrValidation)
	}
	if strings.ContainsAny(d, " /\\") || strings.Contains(d, "://") {
		return fmt.Errorf("%w: domain must be a bare hostname (e.g. acme.io)", domain.ErrValidation)
	}
	if !strings.Contains(d, ".") {
		return fmt.Errorf("%w: domain must contain at least one dot", domain.ErrValidation)
	}
	return nil
}
