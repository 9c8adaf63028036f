// Package settings defines application settings stored as raw JSON values.
package settings

import (
	"encoding/json"
	"time"
)

// Setting is a single keyed configuration value. Value is kept as raw JSON
// so the API can round-trip arbitrary shapes without schema knowledge.
type Setting struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// UpdateRequest carries a batch of settings to upsert in one call.
type UpdateRequest struct {
	Settings map[string]json.RawMessage `json:"settings"`
}
