package api

import (
	"github.com/rgehrsitz/corpusplan/internal/config"
)

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WhatIfRequest carries a plan and the transforms to apply to it, in the
// CLI's "name:key=value" form.
type WhatIfRequest struct {
	Plan       config.PlanFile `json:"plan"`
	Transforms []string        `json:"transforms"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
