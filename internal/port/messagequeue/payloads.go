package messagequeue

// EnrichmentCompletedPayload is the schema for crm.enrichment.completed messages.
type EnrichmentCompletedPayload struct {
	CompanyID     string `json:"company_id"`
	Sector        string `json:"sector"`
	EstimatedSize string `json:"estimated_size"`
}

// EnrichmentFailedPayload is the schema for crm.enrichment.failed messages.
type EnrichmentFailedPayload struct {
	CompanyID string `json:"company_id"`
	ErrorKind string `json:"error_kind"`
}

// DealStageChangedPayload is the schema for crm.deals.stage messages.
type DealStageChangedPayload struct {
	DealID    string `json:"deal_id"`
	CompanyID string `json:"company_id"`
	FromStage string `json:"from_stage"`
	ToStage   string `json:"to_stage"`
}
