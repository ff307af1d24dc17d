// Package visualizer sequences the three pipeline stages: semantic
// enrichment, chart-plan generation and sandboxed execution.
package visualizer

import (
	"context"
	"errors"
	"fmt"

	"Minerva_1.0/internal/codegen"
	"Minerva_1.0/internal/enrich"
	"Minerva_1.0/internal/models"
	"Minerva_1.0/internal/sandbox"
	"Minerva_1.0/pkg/logger"
)

// Enrichment modes selectable through configuration.
const (
	EnrichClusters = "clusters"
	EnrichRules    = "rules"
	EnrichOff      = "off"
)

// Config carries the orchestrator's stage selection parameters.
type Config struct {
	EnrichMode string // "clusters", "rules" or "off"
	TextColumn string // the column enrichment works on; must exist when enrichment is on
	Clusters   int    // fixed cluster count for the clusters mode
}

// Service is the visualize entry point. Every invocation re-runs all three
// stages from scratch: no retries, no caching between calls, so a repeated
// query always reflects the current dataset and model behavior.
type Service struct {
	enricher *enrich.Enricher
	gen      *codegen.Generator
	exec     *sandbox.Executor
	log      *logger.Logger
	cfg      Config
}

// NewService creates a visualization Service.
func NewService(enricher *enrich.Enricher, gen *codegen.Generator, exec *sandbox.Executor, log *logger.Logger, cfg Config) *Service {
	return &Service{enricher: enricher, gen: gen, exec: exec, log: log, cfg: cfg}
}

// Visualize processes one query: enrich -> generate -> execute. Enrichment
// failures never stop the pipeline; generation and execution failures do and
// are surfaced as a single wrapped error. The caller's dataset is never
// mutated.
func (s *Service) Visualize(ctx context.Context, query string, ds *models.Dataset) (*models.Result, error) {
	working := s.enrichStage(ctx, query, ds)

	code, err := s.gen.Generate(ctx, query, working)
	if err != nil {
		return nil, fmt.Errorf("visualization failed: %w", err)
	}

	result := s.exec.Execute(code, working)
	result.Code = code
	if !result.Success {
		return nil, fmt.Errorf("visualization failed: %s", result.Error)
	}
	return result, nil
}

// enrichStage runs the configured enrichment variant best-effort. A missing
// text column is a configuration problem worth logging loudly, but even that
// does not block answering the query on raw data.
func (s *Service) enrichStage(ctx context.Context, query string, ds *models.Dataset) *models.Dataset {
	var (
		enriched *models.Dataset
		err      error
	)
	switch s.cfg.EnrichMode {
	case EnrichClusters:
		enriched, err = s.enricher.EnrichClusters(ctx, ds, s.cfg.TextColumn, s.cfg.Clusters)
	case EnrichRules:
		enriched, err = s.enricher.EnrichRules(ctx, ds, s.cfg.TextColumn, query)
	default:
		return ds
	}
	if err != nil {
		level := s.log.Warn
		if errors.Is(err, enrich.ErrMissingColumn) {
			level = s.log.Error
		}
		level(fmt.Sprintf("Enrichment skipped: %v", err))
		return ds
	}
	return enriched
}
