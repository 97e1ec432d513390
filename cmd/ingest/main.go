package main

import (
	"context"
	"log"
	"os"

	"hr-assistant-be/internal/config"
	"hr-assistant-be/internal/repository/implementation"
	"hr-assistant-be/pkg/database"
	"hr-assistant-be/pkg/embedding"
	"hr-assistant-be/pkg/rag/corpus"

	"github.com/fatih/color"
)

// Rebuilds the document corpus from the HR tables. Run whenever
// announcements, holidays, leave types or trainings change materially.
func main() {
	cfg := config.Load()

	color.Cyan("→ Rebuilding assistant document corpus")

	appDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		color.Red("✗ Unable to connect to database: %v", err)
		os.Exit(1)
	}

	readOnlyDB, err := database.NewReadOnlyGormDB(cfg.Database.ReadOnlyConnection)
	if err != nil {
		color.Red("✗ Unable to connect to read-only database: %v", err)
		os.Exit(1)
	}

	embedder := embedding.NewOllamaProvider(cfg.Ai.EmbeddingBaseURL, cfg.Ai.EmbeddingModel)
	color.White("  embedding model: %s", cfg.Ai.EmbeddingModel)

	sink := implementation.NewDocumentEmbeddingRepository(appDB)
	loaders := []corpus.Loader{
		corpus.NewAnnouncementLoader(readOnlyDB),
		corpus.NewHolidayLoader(readOnlyDB),
		corpus.NewLeaveTypeLoader(readOnlyDB),
		corpus.NewTrainingLoader(readOnlyDB),
	}

	builder := corpus.NewBuilder(loaders, embedder, sink, 0, log.New(os.Stdout, "", log.LstdFlags))

	ctx := context.Background()
	total, err := builder.Build(ctx)
	if err != nil {
		color.Red("✗ Corpus rebuild failed: %v", err)
		os.Exit(1)
	}

	color.Green("✓ Corpus rebuilt: %d chunks stored", total)

	counts, err := sink.CountBySource(ctx)
	if err == nil {
		for table, n := range counts {
			color.White("  %-16s %d", table, n)
		}
	}
}
