package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/portattr/internal/modules/performance"
	testingpkg "github.com/aristath/portattr/internal/testing"
	"github.com/aristath/portattr/internal/utils"
)

var strategyJSON = testingpkg.MustJSON(testingpkg.StrategyReturns())

func setupRouter() *chi.Mux {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	h := NewHandler(performance.NewService(log), 1<<20, log)
	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

func post(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type tableEnvelope struct {
	Data     performance.Table      `json:"data" msgpack:"data"`
	Metadata map[string]interface{} `json:"metadata" msgpack:"metadata"`
}

func TestHandleSummary(t *testing.T) {
	w := post(t, setupRouter(), "/api/performance/summary", `{"returns":`+strategyJSON+`,"period":"daily"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp tableEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{performance.ColumnStrategy}, resp.Data.Columns)
	cell, ok := resp.Data.Get(performance.MetricSharpeRatio, performance.ColumnStrategy)
	require.True(t, ok)
	assert.Equal(t, "8.74", cell)
	assert.NotEmpty(t, resp.Metadata["timestamp"])
}

func TestHandleSummary_WithBenchmarkMsgpack(t *testing.T) {
	req := testingpkg.StrategyRequest()
	req.Benchmark = testingpkg.BenchmarkReturns()
	body := testingpkg.MustJSON(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/api/performance/summary", bytes.NewBufferString(body))
	httpReq.Header.Set("Accept", utils.ContentTypeMsgpack)
	w := httptest.NewRecorder()
	setupRouter().ServeHTTP(w, httpReq)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, utils.ContentTypeMsgpack, w.Header().Get("Content-Type"))

	var resp tableEnvelope
	require.NoError(t, msgpack.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{performance.ColumnStrategy, performance.ColumnBenchmark, performance.ColumnActive}, resp.Data.Columns)
}

func TestHandleYearly(t *testing.T) {
	w := post(t, setupRouter(), "/api/performance/yearly", `{"returns":`+strategyJSON+`,"period":"daily"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp tableEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"2023"}, resp.Data.Columns)
}

func TestHandleDrawdown(t *testing.T) {
	body := `{"returns":[
		{"date":"2024-01-01","value":0.1},
		{"date":"2024-01-02","value":0.05},
		{"date":"2024-01-03","value":-0.2},
		{"date":"2024-01-04","value":0.05},
		{"date":"2024-01-05","value":-0.1}
	]}`
	w := post(t, setupRouter(), "/api/performance/drawdown", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data performance.DrawdownResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.MaxDrawdown)
	assert.InDelta(t, -0.244, *resp.Data.MaxDrawdown, 1e-9)
	assert.Equal(t, "2024-01-05", resp.Data.MaxEnd)
	assert.Equal(t, "2024-01-02", resp.Data.LongestStart)
	assert.Len(t, resp.Data.Daily, 5)
}

func TestHandleReturns(t *testing.T) {
	body := `{"nav":[
		{"date":"2024-01-01","value":1.0},
		{"date":"2024-01-02","value":1.1},
		{"date":"2024-01-03","value":0.99}
	]}`
	w := post(t, setupRouter(), "/api/performance/returns", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data performance.ReturnsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Returns, 3)
	assert.Nil(t, resp.Data.Returns[0].Value, "first return is missing")
	require.NotNil(t, resp.Data.Returns[1].Value)
	assert.InDelta(t, 0.1, *resp.Data.Returns[1].Value, 1e-12)
}

func TestHandlers_BadRequests(t *testing.T) {
	router := setupRouter()
	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed json", "/api/performance/summary", `{"returns":`},
		{"unknown field", "/api/performance/summary", `{"rets":[]}`},
		{"no series", "/api/performance/summary", `{"period":"daily"}`},
		{"both series", "/api/performance/summary", `{"returns":` + strategyJSON + `,"nav":` + strategyJSON + `}`},
		{"missing period", "/api/performance/summary", `{"returns":` + strategyJSON + `}`},
		{"missing period yearly", "/api/performance/yearly", `{"returns":` + strategyJSON + `}`},
		{"invalid period", "/api/performance/summary", `{"returns":` + strategyJSON + `,"period":"hourly"}`},
		{"invalid period yearly", "/api/performance/yearly", `{"returns":` + strategyJSON + `,"period":"quarterly"}`},
		{"unordered dates", "/api/performance/drawdown", `{"returns":[{"date":"2024-01-02","value":0.1},{"date":"2024-01-01","value":0.1}]}`},
		{"bad date", "/api/performance/drawdown", `{"returns":[{"date":"02/01/2024","value":0.1}]}`},
		{"returns without nav", "/api/performance/returns", `{"returns":` + strategyJSON + `}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, router, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var resp utils.ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandlers_BodyTooLarge(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	h := NewHandler(performance.NewService(log), 64, log)
	router := chi.NewRouter()
	router.Route("/api", h.RegisterRoutes)

	w := post(t, router, "/api/performance/summary", testingpkg.MustJSON(testingpkg.StrategyRequest()))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())

	var resp utils.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "too large")
}
