// Package enrichment defines the result taxonomy for company enrichment.
//
// Every outcome of an enrichment request is expressed as a Result carrying
// either a status (and data, once enriched) or one member of the closed
// ErrorKind set. Raw provider errors never cross this boundary.
package enrichment

import (
	"net/http"
	"time"
)

// Status is the lifecycle state of a company's enrichment record.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusEnriched   Status = "enriched"
	StatusFailed     Status = "failed"
)

// ErrorKind is the closed set of enrichment failure categories.
type ErrorKind string

const (
	ErrNotFound           ErrorKind = "not_found"
	ErrAPIKeyMissing      ErrorKind = "api_key_missing"
	ErrServiceUnavailable ErrorKind = "service_unavailable"
	ErrTimeout            ErrorKind = "timeout"
	ErrNetwork            ErrorKind = "network_error"
	ErrAlreadyProcessing  ErrorKind = "enrichment_already_processing"
)

// httpStatus maps each ErrorKind to its transport status code.
var httpStatus = map[ErrorKind]int{
	ErrNotFound:           http.StatusNotFound,
	ErrAPIKeyMissing:      http.StatusServiceUnavailable,
	ErrServiceUnavailable: http.StatusServiceUnavailable,
	ErrTimeout:            http.StatusGatewayTimeout,
	ErrNetwork:            http.StatusServiceUnavailable,
	ErrAlreadyProcessing:  http.StatusConflict,
}

// HTTPStatus returns the response status code for this error kind.
// Unknown kinds fall back to 503 so a bug here never produces a blank 500.
func (k ErrorKind) HTTPStatus() int {
	if s, ok := httpStatus[k]; ok {
		return s
	}
	return http.StatusServiceUnavailable
}

// Data is the structured payload returned by the enrichment provider.
type Data struct {
	Description   string   `json:"description"`
	Sector        string   `json:"sector"`
	EstimatedSize string   `json:"estimated_size"`
	PainPoints    []string `json:"pain_points"`
}

// Result is the tagged union returned to callers and the HTTP boundary.
// Exactly one of the success/error branches is populated.
type Result struct {
	Success bool      `json:"success"`
	Status  Status    `json:"status,omitempty"`
	Data    *Data     `json:"data,omitempty"`
	Error   ErrorKind `json:"error,omitempty"`
}

// Enriched builds a success result carrying the enriched payload.
func Enriched(d *Data) Result {
	return Result{Success: true, Status: StatusEnriched, Data: d}
}

// Processing builds a success result signalling accepted, in-flight work.
func Processing() Result {
	return Result{Success: true, Status: StatusProcessing}
}

// Idle builds a success result for a company that was never enriched.
func Idle() Result {
	return Result{Success: true, Status: StatusIdle}
}

// Failure builds a failure result for the given error kind.
func Failure(kind ErrorKind) Result {
	return Result{Success: false, Error: kind}
}

// Record is the per-company enrichment status row. Data is not persisted
// with the row; the status read joins it from the company's enrichment
// columns once the status is enriched.
type Record struct {
	CompanyID string    `json:"company_id"`
	Status    Status    `json:"status"`
	LastError ErrorKind `json:"last_error,omitempty"`
	Data      *Data     `json:"data,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
