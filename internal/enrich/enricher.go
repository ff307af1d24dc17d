// Package enrich adds semantically derived category columns to a dataset
// before analysis, either by embedding + clustering or by LLM-proposed
// keyword classification rules.
//
// Enrichment is a best-effort stage: apart from a missing text column (a
// configuration error), every failure degrades to returning a copy of the
// unmodified input so the rest of the pipeline can still run on raw data.
package enrich

import (
	"context"
	"errors"
	"fmt"

	"Minerva_1.0/internal/cluster"
	"Minerva_1.0/internal/embedding"
	"Minerva_1.0/internal/llm"
	"Minerva_1.0/internal/models"
	"Minerva_1.0/pkg/logger"
)

// Column names added by cluster enrichment, kept stable because the
// generation prompt refers to them by name.
const (
	ClusterIDColumn   = "Cluster_ID"
	ClusterNameColumn = "Semantic_Cluster"
)

// ErrMissingColumn reports that the requested text column does not exist in
// the dataset. This is a configuration error and is never degraded.
var ErrMissingColumn = errors.New("text column not found in dataset")

// Config carries the tunables of the enrichment stage.
type Config struct {
	Clusters          int     // fixed cluster count k
	NamingTemperature float32 // sampling temperature for the cluster naming call
	SamplesPerCluster int     // texts shown to the LLM per cluster when naming
}

// Enricher augments datasets with semantic category columns. The embedding
// and LLM handles are long-lived and read-only; one Enricher serves many calls.
type Enricher struct {
	embedder embedding.Embedding
	llm      llm.LLM
	log      *logger.Logger
	cfg      Config
}

// NewEnricher creates an Enricher.
func NewEnricher(embedder embedding.Embedding, llmClient llm.LLM, log *logger.Logger, cfg Config) *Enricher {
	if cfg.Clusters <= 0 {
		cfg.Clusters = 6
	}
	if cfg.SamplesPerCluster <= 0 {
		cfg.SamplesPerCluster = 5
	}
	if cfg.NamingTemperature == 0 {
		cfg.NamingTemperature = 0.5
	}
	return &Enricher{embedder: embedder, llm: llmClient, log: log, cfg: cfg}
}

// EnrichClusters embeds the text column, partitions the vectors into k groups
// and appends a Cluster_ID column plus a human-named Semantic_Cluster column.
// The caller's dataset is never mutated; the result is always a new value.
//
// Failure policy: a missing text column fails hard; an embedding or clustering
// failure returns a copy of the unmodified input; a naming failure keeps the
// cluster ids and falls back to generic "Group N" names.
func (e *Enricher) EnrichClusters(ctx context.Context, ds *models.Dataset, textColumn string, k int) (*models.Dataset, error) {
	if !ds.HasColumn(textColumn) {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, textColumn)
	}
	if k <= 0 {
		k = e.cfg.Clusters
	}

	texts, err := ds.ColumnStrings(textColumn)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, textColumn)
	}
	if len(texts) == 0 {
		return ds.Clone(), nil
	}

	e.log.Info(fmt.Sprintf("Embedding column %q (%d rows)", textColumn, len(texts)))
	vectors, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		e.log.WithError(models.ErrorInfo{Message: err.Error(), Type: "upstream_error"}).
			Warn("Embedding failed, returning dataset unenriched")
		return ds.Clone(), nil
	}

	assign, err := cluster.KMeans(vectors, k)
	if err != nil {
		e.log.WithError(models.ErrorInfo{Message: err.Error()}).
			Warn("Clustering failed, returning dataset unenriched")
		return ds.Clone(), nil
	}

	ids := make([]any, len(assign))
	for i, c := range assign {
		ids[i] = float64(c)
	}
	out, err := ds.AddColumn(models.Column{Name: ClusterIDColumn, Type: models.ColumnNumeric}, ids)
	if err != nil {
		return nil, err
	}

	names := e.nameClusters(ctx, texts, assign, k)
	labels := make([]any, len(assign))
	for i, c := range assign {
		labels[i] = names[c]
	}
	out, err = out.AddColumn(models.Column{Name: ClusterNameColumn, Type: models.ColumnCategorical}, labels)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EnrichRules asks the LLM to induce keyword classification rules from the
// text column and the user's question, then applies them row by row. Any LLM
// or parse failure degrades to a copy of the unmodified input.
func (e *Enricher) EnrichRules(ctx context.Context, ds *models.Dataset, textColumn, query string) (*models.Dataset, error) {
	if !ds.HasColumn(textColumn) {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, textColumn)
	}

	texts, err := ds.ColumnStrings(textColumn)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, textColumn)
	}

	spec, err := e.induceRules(ctx, texts, query)
	if err != nil {
		e.log.WithError(models.ErrorInfo{Message: err.Error(), Type: "upstream_error"}).
			Warn("Rule induction failed, returning dataset unenriched")
		return ds.Clone(), nil
	}

	out := ds.Clone()
	for _, col := range spec.Columns {
		values := make([]any, len(texts))
		for i, text := range texts {
			values[i] = col.Classify(text)
		}
		out, err = out.AddColumn(models.Column{Name: col.Name, Type: models.ColumnCategorical}, values)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
