package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"muckraker/db"
	"muckraker/internal/achievement"
	"muckraker/internal/handler"
	"muckraker/internal/ingest"
	"muckraker/internal/publish"
	"muckraker/internal/repository"
	"muckraker/internal/scoring"
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

	editionRepo := repository.NewEditionRepository(db.DB)
	jobRepo := repository.NewJobRepository(db.DB)
	gameRepo := repository.NewGameRepository(db.DB)
	achievementRepo := repository.NewAchievementRepository(db.DB)

	source := feed.NewRSSClient(feedURL())
	orchestrator := ingest.NewOrchestrator(
		source,
		newWriter(),
		jobRepo,
		editionRepo,
		db.NewIngestLock(db.Redis),
		maxItems(),
	)

	evaluator := achievement.NewEvaluator(achievementRepo)
	guard := publish.NewGuard(gameRepo, editionRepo, evaluator, scoring.V1)

	ingestHandler := handler.NewIngestHandler(orchestrator, jobRepo)
	gameHandler := handler.NewGameHandler(editionRepo, guard, gameRepo, achievementRepo)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-User-ID"},
	}))

	r.POST("/ingest", ingestHandler.TriggerIngest)
	r.GET("/job/:id", ingestHandler.GetJobStatus)
	r.GET("/edition/today", gameHandler.GetTodayEdition)
	r.POST("/submit", gameHandler.Submit)
	r.POST("/publish", gameHandler.Publish)
	r.GET("/state", gameHandler.GetState)
	r.GET("/archive", gameHandler.GetArchive)
	r.GET("/achievements", gameHandler.GetAchievements)
	r.GET("/health", gameHandler.GetHealth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	err = r.Run(":" + port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
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
		slog.Warn("invalid INGEST_MAX_ITEMS, using default", "value", raw)
	}
	return ingest.DefaultMaxItems
}
