package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aristath/portattr/internal/modules/performance"
	"github.com/aristath/portattr/internal/modules/risk"
	testingpkg "github.com/aristath/portattr/internal/testing"
)

var (
	returnsRequest = testingpkg.MustJSON(testingpkg.StrategyRequest())
	modelRequest   = testingpkg.MustJSON(testingpkg.ThreeSecurityModel())
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummary_Text(t *testing.T) {
	out, err := run(t, returnsRequest, "summary")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 15)
	assert.Equal(t, []string{"metric", performance.ColumnStrategy}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"sharpe_ratio", "8.74"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"annual_return", "227.9%"}, strings.Fields(lines[3]))
}

func TestSummary_JSONWithRiskFreeOverride(t *testing.T) {
	out, err := run(t, returnsRequest, "summary", "-o", "json", "--risk-free", "0.02")
	require.NoError(t, err)

	var table performance.Table
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	cell, ok := table.Get(performance.MetricSharpeRatio, performance.ColumnStrategy)
	require.True(t, ok)
	assert.Equal(t, "8.66", cell)
}

func TestSummary_InvalidPeriodFlag(t *testing.T) {
	_, err := run(t, returnsRequest, "summary", "--period", "hourly")
	assert.Error(t, err)
}

func TestSummary_PeriodRequired(t *testing.T) {
	noPeriod := testingpkg.MustJSON(performance.SeriesRequest{Returns: testingpkg.StrategyReturns()})

	_, err := run(t, noPeriod, "summary")
	assert.ErrorIs(t, err, performance.ErrInvalidRequest)

	out, err := run(t, noPeriod, "summary", "--period", "daily")
	require.NoError(t, err)
	assert.Contains(t, out, "8.74")
}

func TestYearly_YAML(t *testing.T) {
	out, err := run(t, returnsRequest, "yearly", "-o", "yaml")
	require.NoError(t, err)

	var table performance.Table
	require.NoError(t, yaml.Unmarshal([]byte(out), &table))
	assert.Equal(t, []string{"2023"}, table.Columns)
	assert.Len(t, table.Index, 14)
}

func TestDrawdown_JSON(t *testing.T) {
	out, err := run(t, returnsRequest, "drawdown", "-o", "json")
	require.NoError(t, err)

	var resp performance.DrawdownResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Daily, 8)
	assert.Equal(t, "2023-01-02", resp.MaxStart)
	assert.Equal(t, "2023-01-03", resp.MaxEnd)
}

func TestReturns_Text(t *testing.T) {
	out, err := run(t, `{"nav":[{"date":"2024-01-01","value":1.0},{"date":"2024-01-02","value":1.1}]}`, "returns")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"2024-01-01", "nan"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2024-01-02", "0.100000"}, strings.Fields(lines[2]))
}

func TestDecompose_FromYAMLFile(t *testing.T) {
	var model map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(modelRequest), &model))
	payload, err := yaml.Marshal(model)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	out, err := run(t, "", "decompose", "-i", path, "-o", "json")
	require.NoError(t, err)

	var resp risk.DecompositionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, risk.ContributionToRisk, resp.Measure)
	require.Len(t, resp.Contributions, 2)
	assert.InDelta(t, 0.26657081610709, *resp.TotalStd, 1e-12)
}

func TestDecompose_MarginalText(t *testing.T) {
	out, err := run(t, modelRequest, "decompose", "--marginal")
	require.NoError(t, err)

	assert.Contains(t, out, "measure: marginal_contribution_to_risk")
	assert.Contains(t, out, "CCC")
}

func TestDecomposeBatch_Text(t *testing.T) {
	body := testingpkg.MustJSON(risk.BatchRequest{Dates: []risk.DatedModel{
		{Date: "2024-01-02", ModelRequest: testingpkg.ThreeSecurityModel()},
	}})
	out, err := run(t, body, "decompose-batch", "--workers", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "date: 2024-01-02\n"))
}

func TestExposure_Text(t *testing.T) {
	out, err := run(t, modelRequest, "exposure")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"market", "0.920000"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"size", "0.220000"}, strings.Fields(lines[2]))
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"unknown output", returnsRequest, []string{"summary", "-o", "xml"}},
		{"malformed json", `{"returns":`, []string{"summary"}},
		{"missing series", `{}`, []string{"drawdown"}},
		{"dimension mismatch", `{"holding":{"A":1},"exposure":{"securities":["A"],"factors":["m"],"loadings":[[1]]},"factor_covariance":[[1,0],[0,1]]}`, []string{"decompose"}},
		{"missing file", "", []string{"summary", "-i", "/nonexistent/request.json"}},
		{"unexpected argument", returnsRequest, []string{"summary", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			assert.Error(t, err)
		})
	}
}
