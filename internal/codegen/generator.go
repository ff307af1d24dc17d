// Package codegen builds a schema- and sample-aware prompt and asks the LLM
// for a chart-plan script satisfying the three-binding output contract.
package codegen

import (
	"context"
	"fmt"
	"strings"

	"Minerva_1.0/internal/llm"
	"Minerva_1.0/internal/models"
	"Minerva_1.0/pkg/logger"
)

// ColumnHint documents the semantic meaning of a column the caller considers
// significant. Hints for columns absent from the dataset are skipped.
type ColumnHint struct {
	Name        string
	Description string
}

// Config carries the tunables of the generation stage.
type Config struct {
	Temperature float32      // sampling temperature; 0 favors contract adherence
	SampleRows  int          // literal rows embedded in the prompt
	Language    string       // working language for chart labels; empty follows the query
	ColumnHints []ColumnHint // semantics of designated significant columns
}

// Generator asks the LLM for a chart-plan script. The LLM handle is long-lived
// and read-only. An LLM failure propagates to the caller unretried.
type Generator struct {
	llm llm.LLM
	log *logger.Logger
	cfg Config
}

// NewGenerator creates a Generator.
func NewGenerator(llmClient llm.LLM, log *logger.Logger, cfg Config) *Generator {
	if cfg.SampleRows <= 0 {
		cfg.SampleRows = 3
	}
	return &Generator{llm: llmClient, log: log, cfg: cfg}
}

// Generate builds the generation prompt against the live dataset schema and
// returns the produced script with any fence markup stripped.
func (g *Generator) Generate(ctx context.Context, query string, ds *models.Dataset) (string, error) {
	g.log.Info(fmt.Sprintf("Generating chart plan for query %q over columns %v", query, ds.ColumnNames()))

	resp, err := g.llm.Generate(ctx, &models.GenerateRequest{
		System:      g.systemPrompt(ds),
		User:        g.userMessage(query, ds),
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chart plan generation failed: %w", err)
	}

	code := StripFences(resp)
	g.log.Debug("Generated chart plan:\n" + code)
	return code, nil
}

// StripFences removes markdown code fences a model may wrap around code.
func StripFences(code string) string {
	code = strings.ReplaceAll(code, "```python", "")
	code = strings.ReplaceAll(code, "```", "")
	return strings.TrimSpace(code)
}
