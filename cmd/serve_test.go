package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/schedsim/sim"
)

func newTestServer() *schedulerTestServer {
	return &schedulerTestServer{newServer(serverConfig{
		Params:    sim.DefaultParams(),
		Timeout:   2 * time.Second,
		Criterion: sim.CriterionWait,
	})}
}

type schedulerTestServer struct {
	app *fiber.App
}

func (s *schedulerTestServer) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

const textbookBody = `"processes": [
	{"pid": "A", "arrival_time": 0, "burst_time": 5, "priority": 0},
	{"pid": "B", "arrival_time": 1, "burst_time": 3, "priority": 0}
]`

func assertRunID(t *testing.T, id string) {
	t.Helper()
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "run_id %q is not a uuid", id)
}

func TestServer_Policies(t *testing.T) {
	status, body := newTestServer().do(t, http.MethodGet, "/api/v1/policies", "")
	require.Equal(t, http.StatusOK, status)

	var got struct {
		RunID    string   `json:"run_id"`
		Policies []string `json:"policies"`
		Builtin  []string `json:"builtin"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assertRunID(t, got.RunID)
	assert.Equal(t, sim.BuiltinPolicyNames(), got.Builtin)
	assert.Subset(t, got.Policies, got.Builtin)
}

func TestServer_Schedule(t *testing.T) {
	// GIVEN the textbook workload posted for round robin on two cores
	body := `{"policy": "RR", "params": {"quantum": 2, "core_count": 2}, ` + textbookBody + `}`

	// WHEN scheduled
	status, data := newTestServer().do(t, http.MethodPost, "/api/v1/schedule", body)

	// THEN the run report comes back with a run id
	require.Equal(t, http.StatusOK, status, string(data))
	var got runReport
	require.NoError(t, json.Unmarshal(data, &got))
	assertRunID(t, got.RunID)
	assert.Equal(t, "RR", got.Policy)
	assert.Equal(t, "Round Robin (Multi-Core)", got.Result.Label)
	assert.True(t, got.Result.Converged)
	assert.Len(t, got.Result.Completed, 2)
	assert.NoError(t, got.Result.Timeline.Validate())
}

func TestServer_Schedule_DefaultsToFCFS(t *testing.T) {
	status, data := newTestServer().do(t, http.MethodPost, "/api/v1/schedule", `{`+textbookBody+`}`)
	require.Equal(t, http.StatusOK, status, string(data))
	var got runReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "|A 0-5|B 5-8|", got.Gantt)
	assert.InDelta(t, 2.0, got.Metrics.AvgWait, 1e-9)
}

func TestServer_Schedule_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"malformed json", `{"policy": `, "invalid request format"},
		{"invalid process", `{"processes": [{"pid": "A", "arrival_time": 0, "burst_time": 0}]}`, "burst_time"},
		{"unknown policy", `{"policy": "LOTTERY", ` + textbookBody + `}`, "unknown policy"},
		{"invalid params", `{"policy": "FCFS", "params": {"core_count": -2}, ` + textbookBody + `}`, "core count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := newTestServer().do(t, http.MethodPost, "/api/v1/schedule", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			var got struct {
				RunID string `json:"run_id"`
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(data, &got))
			assertRunID(t, got.RunID)
			assert.Contains(t, got.Error, tt.contains)
		})
	}
}

func TestServer_Schedule_NonConvergenceIsStillOK(t *testing.T) {
	body := `{"policy": "MLFQ", "params": {"quanta": [0]}, ` + textbookBody + `}`
	status, data := newTestServer().do(t, http.MethodPost, "/api/v1/schedule", body)
	require.Equal(t, http.StatusOK, status)

	var got runReport
	require.NoError(t, json.Unmarshal(data, &got))
	assert.False(t, got.Result.Converged)
	assert.Len(t, got.Result.Unfinished, 2)
	assert.NotEmpty(t, got.Result.Warnings)
}

func TestServer_Compare(t *testing.T) {
	status, data := newTestServer().do(t, http.MethodPost, "/api/v1/compare", `{`+textbookBody+`}`)
	require.Equal(t, http.StatusOK, status, string(data))

	var got comparisonReport
	require.NoError(t, json.Unmarshal(data, &got))
	assertRunID(t, got.RunID)
	assert.Equal(t, sim.CriterionWait, got.Criterion)
	assert.Equal(t, sim.PolicySJFPreemptive, got.Best)
	require.Len(t, got.Entries, len(sim.BuiltinPolicyNames()))
	for _, e := range got.Entries {
		assert.Equal(t, "ok", e.Status, e.Policy)
		assert.NotNil(t, e.Metrics, e.Policy)
	}
}

func TestServer_Compare_Errors(t *testing.T) {
	s := newTestServer()

	status, _ := s.do(t, http.MethodPost, "/api/v1/compare", `{"criterion": "fairness", `+textbookBody+`}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPost, "/api/v1/compare", `{"processes": [{"pid": "", "burst_time": 1}]}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestServer_Predict(t *testing.T) {
	status, data := newTestServer().do(t, http.MethodPost, "/api/v1/predict", `{`+textbookBody+`}`)
	require.Equal(t, http.StatusOK, status)

	var got prediction
	require.NoError(t, json.Unmarshal(data, &got))
	assertRunID(t, got.RunID)
	assert.Equal(t, sim.PolicySJFPreemptive, got.Policy)
	assert.Equal(t, sim.PolicySJFPreemptive, got.Intelligent)
	assert.Equal(t, 2, got.Processes)
	assert.InDelta(t, 4.0, got.MeanBurst, 1e-9)
}

func TestServer_Predict_EmptyWorkload(t *testing.T) {
	status, data := newTestServer().do(t, http.MethodPost, "/api/v1/predict", `{"processes": []}`)
	require.Equal(t, http.StatusOK, status)
	var got prediction
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sim.PolicyFCFS, got.Policy)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(sim.ErrInvalidParams))
	assert.Equal(t, http.StatusBadRequest, statusFor(&sim.InvalidProcessError{Field: "pid"}))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.EOF))
}
