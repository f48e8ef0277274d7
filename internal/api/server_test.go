package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"statkit/adapters/memory"
	"statkit/app"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	service := app.NewAnalysisService(memory.NewResultRepository(), app.ServiceConfig{Workers: 2, BatchSize: 2})
	s := NewServer(service, gin.TestMode)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	out := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, body := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestFrequencyAndViews(t *testing.T) {
	s := newTestServer(t)

	code, body := do(t, s, http.MethodPost, "/api/v1/analyses/frequency", `{"data": [1, 1, 2, 3, 3, 3]}`)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Fréquence", body["kind"])

	report := body["report"].(map[string]interface{})
	assert.Equal(t, []interface{}{3.0, 2.0, 1.0}, report["Fréquence"])
	assert.Equal(t, []interface{}{3.0, 5.0, 6.0}, report["Fréquence Cumulée"])

	id := body["id"].(string)

	code, body = do(t, s, http.MethodGet, "/api/v1/results/"+id+"/frequencies/absolute", "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, []interface{}{3.0, 2.0, 1.0}, body["counts"])

	code, body = do(t, s, http.MethodGet, "/api/v1/results/"+id+"/frequencies/relative", "")
	require.Equal(t, http.StatusOK, code, body)
	counts := body["counts"].([]interface{})
	require.Len(t, counts, 3)
	assert.InDelta(t, 0.5, counts[0], 1e-12)

	code, body = do(t, s, http.MethodGet, "/api/v1/results/"+id+"/frequencies/sideways", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "UNSUPPORTED_METHOD", body["code"])
}

func TestRelativeFrequencyMethod(t *testing.T) {
	s := newTestServer(t)
	code, body := do(t, s, http.MethodPost, "/api/v1/analyses/frequency",
		`{"data": ["a", "b", "a", "a"], "method": "relative"}`)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Fréquence Relative", body["kind"])

	code, body = do(t, s, http.MethodPost, "/api/v1/analyses/frequency",
		`{"data": [1, 2], "method": "geometric"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "UNSUPPORTED_METHOD", body["code"])
}

func TestRejections(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"scalar data", "/api/v1/analyses/frequency", `{"data": "hello"}`, http.StatusBadRequest, "TYPE_MISMATCH"},
		{"mixed array", "/api/v1/analyses/timeseries", `{"data": [1, "a"]}`, http.StatusBadRequest, "TYPE_MISMATCH"},
		{"missing data", "/api/v1/analyses/timeseries", `{}`, http.StatusUnprocessableEntity, "EMPTY_INPUT"},
		{"malformed body", "/api/v1/analyses/timeseries", `{"data": [1,`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown frequency method", "/api/v1/analyses/frequency", `{"method": "cumulee", "data": [1, "a"]}`, http.StatusUnprocessableEntity, "UNSUPPORTED_METHOD"},
		{"unknown frequency method with scalar data", "/api/v1/analyses/frequency", `{"method": "cumulee", "data": "x"}`, http.StatusUnprocessableEntity, "UNSUPPORTED_METHOD"},
		{"unknown test", "/api/v1/analyses/variance", `{"test": "chi2", "data": "not even checked"}`, http.StatusUnprocessableEntity, "UNSUPPORTED_METHOD"},
		{"unknown regression", "/api/v1/analyses/regression", `{"method": "ridge", "data": []}`, http.StatusUnprocessableEntity, "UNSUPPORTED_METHOD"},
		{"missing column", "/api/v1/analyses/regression",
			`{"method": "lineaire", "data": {"x": [1, 2, 3]}, "x_cols": ["x"], "y_col": "y"}`,
			http.StatusUnprocessableEntity, "MISSING_COLUMN"},
		{"missing values", "/api/v1/analyses/timeseries", `{"data": [1, null, 3]}`, http.StatusUnprocessableEntity, "MISSING_VALUES"},
		{"bad timestamp", "/api/v1/analyses/timeseries", `{"data": [1, 2], "timestamps": ["yesterday", "today"]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"window too large", "/api/v1/analyses/descriptive",
			`{"method": "moyenne_glissante", "data": [1, 2, 3], "window": 5}`,
			http.StatusUnprocessableEntity, "INVALID_PARAMETER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, code, body)
			assert.Equal(t, tt.code, body["code"])
			assert.NotEmpty(t, body["error"])
		})
	}

	code, body := do(t, s, http.MethodGet, "/api/v1/results", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, body["count"], "rejected analyses must not be stored")
}

func TestVarianceEffectSize(t *testing.T) {
	s := newTestServer(t)

	payload := `{
		"test": "anova",
		"group_col": "group",
		"value_col": "score",
		"data": {
			"group": ["a", "a", "a", "b", "b", "b", "c", "c", "c"],
			"score": [1, 2, 3, 4, 5, 6, 7, 8, 9]
		}
	}`
	code, body := do(t, s, http.MethodPost, "/api/v1/analyses/variance", payload)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "ANOVA", body["kind"])

	report := body["report"].(map[string]interface{})
	assert.InDelta(t, 27.0, report["Statistique F"], 1e-9)
	postHoc := report["Test post-hoc"].(map[string]interface{})
	assert.Len(t, postHoc["Résultats"], 3)

	code, effect := do(t, s, http.MethodGet, "/api/v1/results/"+body["id"].(string)+"/effect-size", "")
	require.Equal(t, http.StatusOK, code, effect)
	assert.Equal(t, "Eta-carré", effect["Taille d'effet"])
	assert.InDelta(t, 54.0/60.0, effect["Valeur"], 1e-9)
	assert.Equal(t, "Grand effet", effect["Interprétation"])

	code, body = do(t, s, http.MethodPost, "/api/v1/analyses/frequency", `{"data": [1, 2]}`)
	require.Equal(t, http.StatusCreated, code)
	code, body = do(t, s, http.MethodGet, "/api/v1/results/"+body["id"].(string)+"/effect-size", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "UNSUPPORTED_FOR_KIND", body["code"])
}

func TestRegressionLine(t *testing.T) {
	s := newTestServer(t)
	payload := `{
		"method": "lineaire",
		"x_cols": ["x"],
		"y_col": "y",
		"data": {"x": [0, 1, 2, 3, 4], "y": [1, 3, 5, 7, 9]}
	}`
	code, body := do(t, s, http.MethodPost, "/api/v1/analyses/regression", payload)
	require.Equal(t, http.StatusCreated, code, body)

	report := body["report"].(map[string]interface{})
	assert.Equal(t, "Régression linéaire", report["Méthode"])
	coef := report["Coefficients"].([]interface{})
	require.Len(t, coef, 1)
	assert.InDelta(t, 2.0, coef[0], 1e-6)
	assert.InDelta(t, 1.0, report["Intercept"], 1e-6)
}

func TestResultLifecycle(t *testing.T) {
	s := newTestServer(t)

	code, created := do(t, s, http.MethodPost, "/api/v1/analyses/descriptive", `{"method": "resume", "data": [1, 2, 3, 4, 5]}`)
	require.Equal(t, http.StatusCreated, code, created)
	id := created["id"].(string)

	code, body := do(t, s, http.MethodGet, "/api/v1/results/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, body["id"])

	code, body = do(t, s, http.MethodGet, "/api/v1/results?kind=R%C3%A9sum%C3%A9&limit=5", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, body["count"])

	code, body = do(t, s, http.MethodGet, "/api/v1/results?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_INPUT", body["code"])

	code, _ = do(t, s, http.MethodDelete, "/api/v1/results/"+id, "")
	assert.Equal(t, http.StatusNoContent, code)

	code, body = do(t, s, http.MethodGet, "/api/v1/results/"+id, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", body["code"])

	code, body = do(t, s, http.MethodGet, "/api/v1/results/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_INPUT", body["code"])
}

func TestTimeSeriesEndpoints(t *testing.T) {
	s := newTestServer(t)

	code, body := do(t, s, http.MethodPost, "/api/v1/timeseries/trend", `{"data": [1, 3, 5, 7]}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.InDelta(t, 2.0, body["slope"], 1e-9)
	assert.InDelta(t, 1.0, body["intercept"], 1e-9)

	code, body = do(t, s, http.MethodPost, "/api/v1/timeseries/seasonality", `{"data": [1, 2, 3], "period": 12}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, 12.0, body["period"])

	code, body = do(t, s, http.MethodPost, "/api/v1/timeseries/trend", `{"data": [1]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "INSUFFICIENT_DATA", body["code"])

	code, body = do(t, s, http.MethodPost, "/api/v1/timeseries/autocorrelation", `{"data": [1, 2, 1, 2, 1, 2], "lag": 2}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.InDelta(t, 1.0, body["autocorrelation"], 1e-9)

	code, body = do(t, s, http.MethodPost, "/api/v1/analyses/timeseries/batch", `{"series": [[1, 2, 3], [4, 5, 6, 7]]}`)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Len(t, body["results"], 2)
}

func TestSummaryByColumn(t *testing.T) {
	s := newTestServer(t)
	code, body := do(t, s, http.MethodPost, "/api/v1/analyses/summary",
		`{"data": {"label": ["a", "b", "c"], "x": [1, 2, 3], "y": [2, 4, 6]}}`)
	require.Equal(t, http.StatusOK, code, body)

	columns := body["columns"].([]interface{})
	require.Len(t, columns, 2)
	first := columns[0].(map[string]interface{})
	assert.Equal(t, "x", first["column"])
	assert.InDelta(t, 2.0, first["mean"], 1e-12)
}
