// Package handlers provides HTTP handlers for factor risk decomposition.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portattr/internal/domain"
	"github.com/aristath/portattr/internal/modules/risk"
	"github.com/aristath/portattr/internal/utils"
)

// Handler handles risk decomposition HTTP requests
type Handler struct {
	service      *risk.Service
	maxBodyBytes int64
	log          zerolog.Logger
}

// NewHandler creates a new risk handler
func NewHandler(service *risk.Service, maxBodyBytes int64, log zerolog.Logger) *Handler {
	return &Handler{
		service:      service,
		maxBodyBytes: maxBodyBytes,
		log:          log.With().Str("handler", "risk").Logger(),
	}
}

// HandleDecompose handles POST /api/risk/decompose
func (h *Handler) HandleDecompose(w http.ResponseWriter, r *http.Request) {
	var req risk.DecomposeRequest
	if !h.decode(w, r, &req) {
		return
	}

	in, err := req.Input(time.Time{})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	d, err := h.service.Decompose(in.Holding, in.Exposure, in.FactorCov, in.SpecificRisk, req.Contribution())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteData(w, r, h.log, http.StatusOK, d.Response())
}

// HandleDecomposeBatch handles POST /api/risk/decompose/batch
func (h *Handler) HandleDecomposeBatch(w http.ResponseWriter, r *http.Request) {
	var req risk.BatchRequest
	if !h.decode(w, r, &req) {
		return
	}

	inputs, err := req.Inputs()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	results, err := h.service.DecomposeBatch(r.Context(), inputs, req.Contribution())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteData(w, r, h.log, http.StatusOK, risk.BatchResponse(results))
}

// HandleExposure handles POST /api/risk/exposure
func (h *Handler) HandleExposure(w http.ResponseWriter, r *http.Request) {
	var req risk.ModelRequest
	if !h.decode(w, r, &req) {
		return
	}

	holding, exposure, err := req.ExposureInput()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.service.Exposure(holding, exposure)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteData(w, r, h.log, http.StatusOK, risk.ExposureResponse(out))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := utils.DecodeRequest(w, r, h.maxBodyBytes, v); err != nil {
		h.log.Debug().Err(err).Msg("Failed to decode request")
		utils.WriteError(w, r, h.log, utils.DecodeStatus(err), err)
		return false
	}
	return true
}

// fail maps input errors to 400 and anything else to 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, risk.ErrDimensionMismatch),
		errors.Is(err, risk.ErrDuplicateSecurity),
		errors.Is(err, risk.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidDate):
		utils.WriteError(w, r, h.log, http.StatusBadRequest, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.log.Warn().Err(err).Msg("Risk request cancelled")
		utils.WriteError(w, r, h.log, http.StatusServiceUnavailable, err)
	default:
		h.log.Error().Err(err).Msg("Risk request failed")
		utils.WriteError(w, r, h.log, http.StatusInternalServerError, err)
	}
}
