package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"muckraker/internal/achievement"
	"muckraker/internal/model"
	"muckraker/internal/publish"
)

type ContentStore interface {
	GetEditionByDate(date string) (*model.DailyEdition, error)
	GetAllAds() ([]model.Ad, error)
}

type Publisher interface {
	Preview(grid []model.GridPlacement) (model.SubmissionResult, error)
	Publish(userID string, grid []model.GridPlacement, newspaperName string) (*model.PublishedEdition, error)
}

type GameStore interface {
	GetOrCreateState(userID string) (*model.UserGameState, error)
	ListArchive(userID string, limit, offset int) ([]model.PublishedEdition, error)
}

type AchievementStore interface {
	ListUnlocked(userID string) ([]model.UserAchievement, error)
}

type GameHandler struct {
	content      ContentStore
	publisher    Publisher
	games        GameStore
	achievements AchievementStore
	now          func() time.Time
}

func NewGameHandler(content ContentStore, publisher Publisher, games GameStore, achievements AchievementStore) *GameHandler {
	return &GameHandler{
		content:      content,
		publisher:    publisher,
		games:        games,
		achievements: achievements,
		now:          time.Now,
	}
}

// userID reads the identity the auth layer forwarded. Auth itself is an
// external collaborator; an absent header is simply an unauthenticated
// request.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

func (h *GameHandler) GetTodayEdition(c *gin.Context) {
	date := model.DayKey(h.now())

	edition, err := h.content.GetEditionByDate(date)
	if err != nil {
		slog.Error("error fetching edition", "error", err, "date", date)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if edition == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No edition for today"})
		return
	}

	ads, err := h.content.GetAllAds()
	if err != nil {
		slog.Error("error fetching ads", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := EditionResponse{
		Date:       edition.Date,
		GlobalMood: edition.GlobalMood,
		Articles:   make([]ArticleResponse, 0, len(edition.Articles)),
		Ads:        make([]AdResponse, 0, len(ads)),
	}
	for _, a := range edition.Articles {
		res.Articles = append(res.Articles, ArticleResponse{
			ID:             a.ID,
			OriginalTitle:  a.OriginalTitle,
			Variants:       a.Variants,
			TopicTags:      a.TopicTags,
			Sentiment:      a.Sentiment,
			LocationCity:   a.LocationCity,
			CountryCode:    a.CountryCode,
			AudienceScores: a.AudienceScores,
		})
	}
	for _, ad := range ads {
		res.Ads = append(res.Ads, AdResponse{ID: ad.ID, Name: ad.Name, Slogan: ad.Slogan, Revenue: ad.Revenue})
	}

	c.JSON(http.StatusOK, res)
}

func (h *GameHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.publisher.Preview(toGrid(req.Grid))
	if err != nil {
		slog.Error("error computing preview", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) Publish(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	edition, err := h.publisher.Publish(userID(c), toGrid(req.Grid), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, publish.ErrUnauthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		case errors.Is(err, publish.ErrInvalidGrid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, publish.ErrAlreadyPublished):
			c.JSON(http.StatusConflict, gin.H{"error": "Already published today"})
		default:
			slog.Error("error publishing edition", "error", err, "user_id", userID(c))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusCreated, PublishResponse{
		ID:    edition.ID,
		Date:  edition.Date,
		Stats: edition.Stats,
		Score: edition.Result,
	})
}

func (h *GameHandler) GetState(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	state, err := h.games.GetOrCreateState(uid)
	if err != nil {
		slog.Error("error fetching game state", "error", err, "user_id", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, StateResponse{
		Treasury:          state.Treasury,
		Credibility:       state.Credibility,
		Readers:           state.Readers,
		PurchasedUpgrades: state.PurchasedUpgrades,
		PublishStreak:     state.PublishStreak,
		LastPublishDate:   state.LastPublishDate,
		TotalPublished:    state.TotalPublished,
		BestScore:         state.BestScore,
	})
}

func (h *GameHandler) GetArchive(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	editions, err := h.games.ListArchive(uid, limit, offset)
	if err != nil {
		slog.Error("error fetching archive", "error", err, "user_id", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := ArchiveResponse{
		Editions: make([]ArchiveEntryResponse, 0, len(editions)),
		Limit:    limit,
		Offset:   offset,
	}
	for _, e := range editions {
		res.Editions = append(res.Editions, ArchiveEntryResponse{
			ID:            e.ID,
			Date:          e.Date,
			NewspaperName: e.NewspaperName,
			Layout:        e.Layout,
			Result:        e.Result,
			Stats:         e.Stats,
			PublishedAt:   e.PublishedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, res)
}

func (h *GameHandler) GetAchievements(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}

	unlocked, err := h.achievements.ListUnlocked(uid)
	if err != nil {
		slog.Error("error fetching achievements", "error", err, "user_id", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	defs := make(map[string]achievement.Def, len(achievement.Catalog))
	for _, def := range achievement.Catalog {
		defs[def.Key] = def
	}

	var res []AchievementResponse
	for _, ua := range unlocked {
		def := defs[ua.AchievementKey]
		res = append(res, AchievementResponse{
			Key:         ua.AchievementKey,
			Name:        def.Name,
			Description: def.Description,
			UnlockedAt:  ua.UnlockedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, res)
}

func (h *GameHandler) GetHealth(c *gin.Context) {
	_, err := h.content.GetAllAds()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func toGrid(placements []GridPlacementRequest) []model.GridPlacement {
	grid := make([]model.GridPlacement, 0, len(placements))
	for _, p := range placements {
		grid = append(grid, model.GridPlacement{
			ArticleID: p.ArticleID,
			Variant:   model.Variant(p.Variant),
			AdID:      p.AdID,
		})
	}
	return grid
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)
	if param == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}
	return parsed
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		return 0
	}
	return offset
}
