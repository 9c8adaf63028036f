package deal

import "testing"

func TestCanTransitionForward(t *testing.T) {
	if !CanTransition(StageLead, StageQualified) {
		t.Error("lead should move to qualified")
	}
	if !CanTransition(StageQualified, StageProposal) {
		t.Error("qualified should move to proposal")
	}
	if !CanTransition(StageProposal, StageWon) {
		t.Error("proposal should move to won")
	}
}

func TestCanTransitionLostFromAnyOpenStage(t *testing.T) {
	for _, from := range []Stage{StageLead, StageQualified, StageProposal} {
		if !CanTransition(from, StageLost) {
			t.Errorf("%s should move to lost", from)
		}
	}
}

func TestCannotSkipStages(t *testing.T) {
	if CanTransition(StageLead, StageWon) {
		t.Error("lead must not jump straight to won")
	}
	if CanTransition(StageLead, StageProposal) {
		t.Error("lead must not skip qualified")
	}
}

func TestTerminalStagesAcceptNoTransitions(t *testing.T) {
	for _, s := range []Stage{StageWon, StageLost} {
		if !Terminal(s) {
			t.Errorf("%s should be terminal", s)
		}
		if CanTransition(s, StageLead) {
			t.Errorf("%s must not transition anywhere", s)
		}
	}
}

func TestCreateRequestValidate(t *testing.T) {
	req := CreateRequest{CompanyID: "c1", Title: "Annual license", AmountUSD: 1200}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := CreateRequest{Title: "no company"}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for missing company_id")
	}

	neg := CreateRequest{CompanyID: "c1", Title: "x", AmountUSD: -5}
	if err := neg.Validate(); err == nil {
		t.Fatal("expected error for negative amount")
	}
}
