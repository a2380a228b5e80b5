package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"muckraker/db"
	"muckraker/internal/ingest"
	"muckraker/internal/repository"
	"muckraker/pkg/feed"
	"muckraker/pkg/llm"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

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

	orchestrator := ingest.NewOrchestrator(
		feed.NewRSSClient(feedURL()),
		newWriter(),
		repository.NewJobRepository(db.DB),
		repository.NewEditionRepository(db.DB),
		db.NewIngestLock(db.Redis),
		maxItems(),
	)

	scheduler := ingest.NewScheduler(orchestrator, interval())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("scheduler starting", "interval", interval().String())
	scheduler.Start(ctx)
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

func interval() time.Duration {
	if raw := os.Getenv("INGEST_INTERVAL_MINUTES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
		slog.Warn("invalid INGEST_INTERVAL_MINUTES, using default", "value", raw)
	}
	return 6 * time.Hour
}
