package main

import (
	"log"

	"Minerva_1.0/internal/codegen"
	"Minerva_1.0/internal/config"
	"Minerva_1.0/internal/embedding"
	"Minerva_1.0/internal/enrich"
	"Minerva_1.0/internal/llm"
	"Minerva_1.0/internal/sandbox"
	"Minerva_1.0/internal/server/api"
	"Minerva_1.0/internal/source"
	"Minerva_1.0/internal/visualizer"
	"Minerva_1.0/pkg/logger"
)

// defaultColumnHints documents the schema of the HSE observation workbook the
// service ships with. Hints for columns missing from a sheet are skipped, so
// these are safe defaults for other workbooks too.
var defaultColumnHints = []codegen.ColumnHint{
	{Name: "Id", Description: "Unique identifier. Use count for volume/frequency."},
	{Name: "Created", Description: "Timestamp. Use for trend analysis (line charts)."},
	{Name: "Name", Description: "Name of the record."},
	{Name: "Description", Description: "Detailed free text."},
	{Name: "Status", Description: "Current status (e.g. 'Open', 'Closed'). Useful for pie charts."},
	{Name: "Division", Description: "Department associated with the record. Useful for bar charts."},
	{Name: "Observationtype", Description: "Type of observation. Useful for bar charts."},
	{Name: enrich.ClusterNameColumn, Description: "AI-generated category based on the text column. USE THIS if the user asks for topics, themes or groups."},
}

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize Logger
	logger.InitFromLevelName(cfg.Logger.Level)
	appLogger := logger.New("VisualizerService", "", "")
	appLogger.Info("Starting Visualizer Service...")

	// 3. Initialize LLM and embedding handles. Both are stateless and shared
	// across all requests for the lifetime of the process.
	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}
	embedder, err := embedding.NewEmdModel(cfg.Embedding)
	if err != nil {
		log.Fatalf("Failed to create embedding client: %v", err)
	}

	// 4. Assemble the pipeline
	enricher := enrich.NewEnricher(embedder, llmClient, appLogger, enrich.Config{
		Clusters:          cfg.Pipeline.Clusters,
		NamingTemperature: cfg.Pipeline.NamingTemperature,
	})
	generator := codegen.NewGenerator(llmClient, appLogger, codegen.Config{
		Temperature: cfg.Pipeline.GenerationTemperature,
		SampleRows:  cfg.Pipeline.SampleRows,
		Language:    cfg.Pipeline.Language,
		ColumnHints: defaultColumnHints,
	})
	executor := sandbox.NewExecutor(appLogger)
	service := visualizer.NewService(enricher, generator, executor, appLogger, visualizer.Config{
		EnrichMode: cfg.Pipeline.EnrichMode,
		TextColumn: cfg.Pipeline.TextColumn,
		Clusters:   cfg.Pipeline.Clusters,
	})

	// 5. Open the data source
	store, err := source.OpenWorkbook(cfg.Source.WorkbookPath)
	if err != nil {
		log.Fatalf("Failed to open workbook: %v", err)
	}
	defer store.Close()

	prompts, err := source.LoadPrompts(cfg.Source.PromptsPath)
	if err != nil {
		appLogger.Warn("No default prompts loaded: " + err.Error())
		prompts = map[string]string{}
	}

	// 6. Start the HTTP server
	handler := api.NewAPI(service, store, prompts, appLogger)
	router := api.SetupRouter(handler, cfg.Middleware)

	addr := cfg.Server.Address
	if addr == "" {
		addr = ":8080"
	}
	appLogger.Info("Visualizer service listening on " + addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
