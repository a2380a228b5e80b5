package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"muckraker/db"
	"muckraker/internal/ingest"
	"muckraker/internal/model"
	"muckraker/internal/repository"
	"muckraker/pkg/feed"
	"muckraker/pkg/llm"
)

// One-shot ingestion run. Pass "reset" to replace today's edition.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	mode := model.IngestNormal
	if len(os.Args) > 1 && os.Args[1] == string(model.IngestReset) {
		mode = model.IngestReset
	}

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	jobRepo := repository.NewJobRepository(db.DB)
	editionRepo := repository.NewEditionRepository(db.DB)

	orchestrator := ingest.NewOrchestrator(
		feed.NewRSSClient(feedURL()),
		newWriter(),
		jobRepo,
		editionRepo,
		db.NewIngestLock(db.Redis),
		maxItems(),
	)

	jobID, started, err := orchestrator.Trigger(mode)
	if err != nil {
		log.Fatalf("error triggering ingestion: %v", err)
	}

	if !started {
		slog.Info("ingestion already running, coalesced", "job_id", jobID)
		return
	}

	slog.Info("ingestion started", "job_id", jobID, "mode", mode)
	orchestrator.Execute(jobID, mode)

	job, err := jobRepo.GetJob(jobID)
	if err != nil || job == nil {
		log.Fatalf("error reading job result: %v", err)
	}

	if job.Status != model.StatusCompleted {
		slog.Error("ingestion failed", "job_id", jobID, "error", job.Error)
		os.Exit(1)
	}

	slog.Info("ingestion completed",
		"job_id", jobID,
		"articles", job.Result.ArticlesProcessed,
		"failures", job.Result.Failures,
	)
}

func newWriter() llm.ArticleWriter {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return llm.NewAnthropicClient(key)
	}
	return llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"))
}

func feedURL() string {
	if url := os.Getenv("FEED_URL"); url != "" {
		return url
	}
	return "https://feeds.bbci.co.uk/news/world/rss.xml"
}

func maxItems() int {
	if raw := os.Getenv("INGEST_MAX_ITEMS"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return ingest.DefaultMaxItems
}
