package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/hlog"

	"github.com/rgehrsitz/corpusplan/internal/config"
	"github.com/rgehrsitz/corpusplan/internal/domain"
	"github.com/rgehrsitz/corpusplan/internal/output"
	"github.com/rgehrsitz/corpusplan/internal/planner"
	"github.com/rgehrsitz/corpusplan/internal/transform"
)

const maxBodyBytes = 1 << 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Planner    *planner.Planner
	Parser     *config.InputParser
	Transforms *transform.TransformRegistry
	Version    string
}

// NewHandler creates a handler around a planner.
func NewHandler(pl *planner.Planner, version string) *Handler {
	return &Handler{
		Planner:    pl,
		Parser:     config.NewInputParser(),
		Transforms: transform.NewTransformRegistry(),
		Version:    version,
	}
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: h.Version})
}

// RunBasic calibrates the corpus for a flat-expense plan.
// POST /api/v1/plans/basic
func (h *Handler) RunBasic(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodePlan(w, r, domain.ModeBasic)
	if !ok {
		return
	}
	report, err := h.Planner.RunBasic(r.Context(), params)
	h.writeReport(w, r, report, err)
}

// RunAdvanced evaluates an age-based plan.
// POST /api/v1/plans/advanced
func (h *Handler) RunAdvanced(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodePlan(w, r, domain.ModeAdvanced)
	if !ok {
		return
	}
	opts := planner.AdvancedOptions{
		Scenarios: r.URL.Query().Get("scenarios") == "true",
		Track:     r.URL.Query().Get("track") == "true",
	}
	report, err := h.Planner.RunAdvanced(r.Context(), params, opts)
	h.writeReport(w, r, report, err)
}

// RunTrack returns the year-by-year corpus track.
// POST /api/v1/plans/track
func (h *Handler) RunTrack(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodePlan(w, r, domain.ModeAdvanced)
	if !ok {
		return
	}
	report, err := h.Planner.RunTrack(r.Context(), params)
	h.writeReport(w, r, report, err)
}

// RunScenarios returns the lever scenarios for a plan.
// POST /api/v1/plans/scenarios
func (h *Handler) RunScenarios(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodePlan(w, r, domain.ModeAdvanced)
	if !ok {
		return
	}
	report, err := h.Planner.RunScenarios(r.Context(), params)
	h.writeReport(w, r, report, err)
}

// WhatIf applies transforms to a plan and compares success rates.
// POST /api/v1/plans/whatif
func (h *Handler) WhatIf(w http.ResponseWriter, r *http.Request) {
	var req WhatIfRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Plan.Mode == "" {
		req.Plan.Mode = string(domain.ModeAdvanced)
	}
	params, err := h.Parser.ToParameters(req.Plan)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid plan", err)
		return
	}
	transforms, err := h.Transforms.ParseTransformSpecs(req.Transforms)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid transform", err)
		return
	}

	result, err := h.Planner.WhatIf(r.Context(), params, transforms)
	if err != nil {
		h.writeRunError(w, r, err)
		return
	}
	// The result is encoded as is; go-json faults on structs embedding it by pointer.
	writeJSON(w, http.StatusOK, result)
}

// decodePlan reads a plan file from the body. An empty mode takes the
// endpoint's mode; a different mode is rejected.
func (h *Handler) decodePlan(w http.ResponseWriter, r *http.Request, mode domain.Mode) (domain.PlanParameters, bool) {
	var plan config.PlanFile
	if err := decodeBody(w, r, &plan); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return domain.PlanParameters{}, false
	}
	if plan.Mode == "" {
		plan.Mode = string(mode)
	}
	params, err := h.Parser.ToParameters(plan)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid plan", err)
		return domain.PlanParameters{}, false
	}
	if params.Mode != mode {
		writeError(w, http.StatusUnprocessableEntity, "Plan mode does not match endpoint", nil)
		return domain.PlanParameters{}, false
	}
	return params, true
}

func (h *Handler) writeReport(w http.ResponseWriter, r *http.Request, report *domain.PlanReport, err error) {
	if err != nil {
		h.writeRunError(w, r, err)
		return
	}
	body, err := output.JSONFormatter{}.Format(report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode report", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPlan), errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, "Invalid plan", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		hlog.FromRequest(r).Warn().Err(err).Msg("calculation cancelled")
		writeError(w, http.StatusServiceUnavailable, "Calculation cancelled", err)
	default:
		var te *transform.TransformError
		if errors.As(err, &te) {
			writeError(w, http.StatusUnprocessableEntity, "Transform rejected", err)
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("calculation failed")
		writeError(w, http.StatusInternalServerError, "Calculation failed", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
