// Package handlers provides HTTP handlers for performance statistics.
package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/aristath/portattr/internal/domain"
	"github.com/aristath/portattr/internal/modules/performance"
	"github.com/aristath/portattr/internal/utils"
	"github.com/aristath/portattr/pkg/formulas"
)

// Handler handles performance HTTP requests
type Handler struct {
	service      *performance.Service
	maxBodyBytes int64
	log          zerolog.Logger
}

// NewHandler creates a new performance handler
func NewHandler(service *performance.Service, maxBodyBytes int64, log zerolog.Logger) *Handler {
	return &Handler{
		service:      service,
		maxBodyBytes: maxBodyBytes,
		log:          log.With().Str("handler", "performance").Logger(),
	}
}

// HandleReturns handles POST /api/performance/returns
func (h *Handler) HandleReturns(w http.ResponseWriter, r *http.Request) {
	var req performance.SeriesRequest
	if !h.decode(w, r, &req) {
		return
	}

	nav, err := req.NAVSeries()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ret := h.service.Returns(nav)
	utils.WriteData(w, r, h.log, http.StatusOK, performance.ReturnsResponse{Returns: ret.Observations()})
}

// HandleSummary handles POST /api/performance/summary
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	var req performance.SeriesRequest
	if !h.decode(w, r, &req) {
		return
	}

	ret, period, err := strategyAndPeriod(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	benchmark, err := req.BenchmarkReturns()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	table, err := h.service.Summary(ret, period, req.RiskFree, benchmark)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteData(w, r, h.log, http.StatusOK, table)
}

// HandleYearly handles POST /api/performance/yearly
func (h *Handler) HandleYearly(w http.ResponseWriter, r *http.Request) {
	var req performance.SeriesRequest
	if !h.decode(w, r, &req) {
		return
	}

	ret, period, err := strategyAndPeriod(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	table, err := h.service.Yearly(ret, period, req.RiskFree)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.WriteData(w, r, h.log, http.StatusOK, table)
}

// HandleDrawdown handles POST /api/performance/drawdown
func (h *Handler) HandleDrawdown(w http.ResponseWriter, r *http.Request) {
	var req performance.SeriesRequest
	if !h.decode(w, r, &req) {
		return
	}

	ret, err := req.StrategyReturns()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	report := h.service.Drawdown(ret)
	utils.WriteData(w, r, h.log, http.StatusOK, report.Response())
}

func strategyAndPeriod(req performance.SeriesRequest) (domain.Series, formulas.Period, error) {
	period, err := req.SamplingPeriod()
	if err != nil {
		return domain.Series{}, "", err
	}
	ret, err := req.StrategyReturns()
	if err != nil {
		return domain.Series{}, "", err
	}
	return ret, period, nil
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
	case errors.Is(err, performance.ErrInvalidRequest),
		errors.Is(err, formulas.ErrInvalidPeriod),
		errors.Is(err, domain.ErrUnorderedDates),
		errors.Is(err, domain.ErrLengthMismatch),
		errors.Is(err, domain.ErrInvalidDate):
		utils.WriteError(w, r, h.log, http.StatusBadRequest, err)
	default:
		h.log.Error().Err(err).Msg("Performance request failed")
		utils.WriteError(w, r, h.log, http.StatusInternalServerError, err)
	}
}
