package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"Minerva_1.0/internal/codegen"
	"Minerva_1.0/internal/config"
	"Minerva_1.0/internal/enrich"
	"Minerva_1.0/internal/models"
	"Minerva_1.0/internal/sandbox"
	"Minerva_1.0/internal/source"
	"Minerva_1.0/internal/visualizer"
	"Minerva_1.0/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type fakeLLM struct {
	script string
}

func (f *fakeLLM) Generate(_ context.Context, req *models.GenerateRequest) (string, error) {
	if req.JSONResponse {
		return "{}", nil
	}
	return f.script, nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{0, 0}, nil
}

func (fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i % 2), 0}
	}
	return out, nil
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", "Observations")
	cells := [][]any{
		{"Id", "Division", "Description"},
		{"1", "North", "slipped on wet floor"},
		{"2", "South", "minor cut"},
		{"3", "North", "fall from ladder"},
	}
	for r, row := range cells {
		for c, v := range row {
			name, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue("Observations", name, v); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "observations.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func newTestRouter(t *testing.T, script string, mw config.MiddlewareConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("api_test", "trace-test", "tester")
	llmClient := &fakeLLM{script: script}
	enricher := enrich.NewEnricher(fakeEmbedder{}, llmClient, log, enrich.Config{Clusters: 2})
	gen := codegen.NewGenerator(llmClient, log, codegen.Config{})
	exec := sandbox.NewExecutor(log)
	svc := visualizer.NewService(enricher, gen, exec, log, visualizer.Config{EnrichMode: visualizer.EnrichOff})

	store, err := source.OpenWorkbook(writeWorkbook(t))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	prompts := map[string]string{"Observations": "Show observations by Division"}
	return SetupRouter(NewAPI(svc, store, prompts, log), mw)
}

const goodScript = `plot_data = df.groupby('Division').count().reset_index('Count')
fig = bar(plot_data, x='Division', y='Count')
chart_type = 'bar'`

func TestListSheets(t *testing.T) {
	router := newTestRouter(t, goodScript, config.MiddlewareConfig{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sheets", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Sheets []struct {
			Name          string `json:"name"`
			DefaultPrompt string `json:"default_prompt"`
		} `json:"sheets"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Sheets) != 1 || resp.Sheets[0].Name != "Observations" {
		t.Errorf("unexpected sheets: %+v", resp.Sheets)
	}
	if resp.Sheets[0].DefaultPrompt != "Show observations by Division" {
		t.Errorf("default prompt missing: %+v", resp.Sheets[0])
	}
}

func TestVisualize_Success(t *testing.T) {
	router := newTestRouter(t, goodScript, config.MiddlewareConfig{})

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"sheet": "Observations", "query": "observations by division"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/visualize", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Result  models.Result `json:"result"`
		TraceID string        `json:"trace_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Result.Success || resp.Result.ChartType != "bar" {
		t.Errorf("unexpected result: %+v", resp.Result)
	}
	if resp.Result.PlotData == nil || resp.Result.PlotData.Len() != 2 {
		t.Errorf("unexpected plot data: %+v", resp.Result.PlotData)
	}
	if resp.TraceID == "" {
		t.Error("response has no trace id")
	}
}

func TestVisualize_EmptyQueryUsesDefaultPrompt(t *testing.T) {
	router := newTestRouter(t, goodScript, config.MiddlewareConfig{})

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"sheet": "Observations"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/visualize", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", w.Code, w.Body.String())
	}
}

func TestVisualize_BadRequests(t *testing.T) {
	router := newTestRouter(t, goodScript, config.MiddlewareConfig{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"sheet": `, http.StatusBadRequest},
		{"no query and no default", `{"sheet": "Unknown"}`, http.StatusBadRequest},
		{"missing sheet", `{"sheet": "Unknown", "query": "q"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/visualize", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d; body = %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestVisualize_PipelineFailureReturns500(t *testing.T) {
	router := newTestRouter(t, `raise('no way to chart this')`, config.MiddlewareConfig{})

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"sheet": "Observations", "query": "q"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/visualize", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no way to chart this") {
		t.Errorf("error detail missing from response: %s", w.Body.String())
	}
}

func TestVisualize_RateLimited(t *testing.T) {
	mw := config.MiddlewareConfig{
		RateLimiter: config.RateLimiterConfig{
			Enabled:     true,
			TokenBucket: config.TokenBucketConfig{Rate: 0.001, Capacity: 1},
		},
	}
	router := newTestRouter(t, goodScript, mw)

	send := func() int {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"sheet": "Observations", "query": "q"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/visualize", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := send(); code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", code)
	}

	// The sheets route is not behind the limiter.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sheets", nil))
	if w.Code != http.StatusOK {
		t.Errorf("sheets route should not be rate limited, got %d", w.Code)
	}
}
