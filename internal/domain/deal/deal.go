// Package deal defines the Deal domain entity and its pipeline stage machine.
package deal

import (
	"fmt"
	"strings"
	"time"

	"github.com/lodestarhq/lodestar/internal/domain"
)

// Stage represents a deal's position in the sales pipeline.
type Stage string

const (
	StageLead      Stage = "lead"
	StageQualified Stage = "qualified"
	StageProposal  Stage = "proposal"
	StageWon       Stage = "won"
	StageLost      Stage = "lost"
)

// validTransitions maps each stage to the stages it may move to.
// Won and lost are terminal.
var validTransitions = map[Stage][]Stage{
	StageLead:      {StageQualified, StageLost},
	StageQualified: {StageProposal, StageLost},
	StageProposal:  {StageWon, StageLost},
}

// ValidStages is the set of all pipeline stages.
var ValidStages = map[Stage]bool{
	StageLead:      true,
	StageQualified: true,
	StageProposal:  true,
	StageWon:       true,
	StageLost:      true,
}

// CanTransition reports whether a deal may move from one stage to another.
func CanTransition(from, to Stage) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a stage accepts no further transitions.
func Terminal(s Stage) bool {
	return len(validTransitions[s]) == 0
}

// Deal represents a sales opportunity attached to a company.
type Deal struct {
	ID        string     `json:"id"`
	CompanyID string     `json:"company_id"`
	Title     string     `json:"title"`
	Stage     Stage      `json:"stage"`
	AmountUSD float64    `json:"amount_usd"`
	CloseDate *time.Time `json:"close_date,omitempty"`
	OwnerID   string     `json:"owner_id,omitempty"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateRequest holds the fields needed to create a new deal.
type CreateRequest struct {
	CompanyID string     `json:"company_id"`
	Title     string     `json:"title"`
	AmountUSD float64    `json:"amount_usd"`
	CloseDate *time.Time `json:"close_date"`
}

// UpdateRequest holds partial updates for a deal. Stage changes go through
// ChangeStageRequest instead so the pipeline rules apply.
type UpdateRequest struct {
	Title     *string    `json:"title,omitempty"`
	AmountUSD *float64   `json:"amount_usd,omitempty"`
	CloseDate *time.Time `json:"close_date,omitempty"`
}

// ChangeStageRequest moves a deal to a new pipeline stage.
type ChangeStageRequest struct {
	Stage Stage `json:"stage"`
}

// Validate checks that the CreateRequest is complete.
func (r *CreateRequest) Validate() error {
	if r.CompanyID == "" {
		return fmt.Errorf("%w: company_id is required", domain.ErrValidation)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: deal title is required", domain.ErrValidation)
	}
	if r.AmountUSD < 0 {
		return fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	return nil
}
