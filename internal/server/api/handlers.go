package api

import (
	"net/http"

	"Minerva_1.0/internal/models"
	"Minerva_1.0/internal/source"
	"Minerva_1.0/internal/visualizer"
	"Minerva_1.0/pkg/logger"
	"Minerva_1.0/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// API provides handlers for the visualization service. It owns the caller
// side of the pipeline: sheet loading, default prompt lookup and result
// delivery. Loaded sheets are cached so repeated queries reuse the same
// dataset value; the pipeline never mutates it.
type API struct {
	service *visualizer.Service
	store   *source.WorkbookStore
	prompts map[string]string
	logger  *logger.Logger
	sheets  *util.LRUCache[string, *models.Dataset]
}

// NewAPI creates a new API handler.
func NewAPI(service *visualizer.Service, store *source.WorkbookStore, prompts map[string]string, logger *logger.Logger) *API {
	cache, _ := util.NewWithConfig(util.CacheConfig[string, *models.Dataset]{Capacity: 16})
	return &API{
		service: service,
		store:   store,
		prompts: prompts,
		logger:  logger,
		sheets:  cache,
	}
}

// ListSheetsHandler returns the available sheets and their default prompts.
func (a *API) ListSheetsHandler(c *gin.Context) {
	type sheetInfo struct {
		Name          string `json:"name"`
		DefaultPrompt string `json:"default_prompt,omitempty"`
	}
	var out []sheetInfo
	for _, name := range a.store.Sheets() {
		out = append(out, sheetInfo{Name: name, DefaultPrompt: a.prompts[name]})
	}
	c.JSON(http.StatusOK, gin.H{"sheets": out})
}

// VisualizeHandler runs one visualization query against a sheet. An empty
// query falls back to the sheet's default prompt.
func (a *API) VisualizeHandler(c *gin.Context) {
	var payload struct {
		Sheet string `json:"sheet"`
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		a.logger.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	traceID := uuid.New().String()
	log := logger.New("visualizer", traceID, "")

	query := payload.Query
	if query == "" {
		query = a.prompts[payload.Sheet]
	}
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No query given and no default prompt for this sheet"})
		return
	}

	ds, err := a.loadSheet(payload.Sheet)
	if err != nil {
		log.WithError(models.ErrorInfo{Message: err.Error()}).Error("Failed to load sheet")
		c.JSON(http.StatusNotFound, gin.H{"error": "Sheet not found"})
		return
	}

	result, err := a.service.Visualize(c.Request.Context(), query, ds)
	if err != nil {
		// The pipeline already logged the detailed error; the caller gets
		// a single human-readable message and no partial chart.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "trace_id": traceID})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "trace_id": traceID})
}

func (a *API) loadSheet(name string) (*models.Dataset, error) {
	if ds, ok := a.sheets.Get(name); ok {
		return ds, nil
	}
	ds, err := a.store.LoadSheet(name)
	if err != nil {
		return nil, err
	}
	a.sheets.Put(name, ds, ds.Len())
	return ds, nil
}
