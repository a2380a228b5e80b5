package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"muckraker/internal/model"
	"muckraker/internal/publish"
)

type fakeContentStore struct {
	edition *model.DailyEdition
	ads     []model.Ad
	err     error
}

func (f *fakeContentStore) GetEditionByDate(date string) (*model.DailyEdition, error) {
	return f.edition, f.err
}

func (f *fakeContentStore) GetAllAds() ([]model.Ad, error) {
	return f.ads, f.err
}

type fakePublisher struct {
	result     model.SubmissionResult
	edition    *model.PublishedEdition
	publishErr error
	lastGrid   []model.GridPlacement
	lastName   string
	lastUser   string
}

func (f *fakePublisher) Preview(grid []model.GridPlacement) (model.SubmissionResult, error) {
	f.lastGrid = grid
	return f.result, f.publishErr
}

func (f *fakePublisher) Publish(userID string, grid []model.GridPlacement, name string) (*model.PublishedEdition, error) {
	f.lastUser = userID
	f.lastGrid = grid
	f.lastName = name
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	return f.edition, nil
}

type fakeGameStore struct {
	state    *model.UserGameState
	archive  []model.PublishedEdition
	err      error
	lastUser string
}

func (f *fakeGameStore) GetOrCreateState(userID string) (*model.UserGameState, error) {
	f.lastUser = userID
	return f.state, f.err
}

func (f *fakeGameStore) ListArchive(userID string, limit, offset int) ([]model.PublishedEdition, error) {
	f.lastUser = userID
	return f.archive, f.err
}

type fakeAchievementStore struct {
	unlocked []model.UserAchievement
	err      error
}

func (f *fakeAchievementStore) ListUnlocked(userID string) ([]model.UserAchievement, error) {
	return f.unlocked, f.err
}

type gameFixtures struct {
	content      *fakeContentStore
	publisher    *fakePublisher
	games        *fakeGameStore
	achievements *fakeAchievementStore
}

func newGameRouter(f gameFixtures) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewGameHandler(f.content, f.publisher, f.games, f.achievements)
	r.GET("/edition/today", h.GetTodayEdition)
	r.POST("/submit", h.Submit)
	r.POST("/publish", h.Publish)
	r.GET("/state", h.GetState)
	r.GET("/archive", h.GetArchive)
	r.GET("/achievements", h.GetAchievements)
	r.GET("/health", h.GetHealth)
	return r
}

func defaultFixtures() gameFixtures {
	return gameFixtures{
		content:      &fakeContentStore{},
		publisher:    &fakePublisher{},
		games:        &fakeGameStore{},
		achievements: &fakeAchievementStore{},
	}
}

func TestGetTodayEdition_ReturnsArticlesAndAds(t *testing.T) {
	f := defaultFixtures()
	f.content.edition = &model.DailyEdition{
		Date:       "2026-03-10",
		GlobalMood: "negative",
		Articles: []model.GeneratedArticle{
			{ID: 1, OriginalTitle: "minister denies everything", Sentiment: "negative"},
		},
	}
	f.content.ads = []model.Ad{{ID: 7, Name: "Tonic", Slogan: "cures blame", Revenue: 100}}
	r := newGameRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/edition/today", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res EditionResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "2026-03-10", res.Date)
	assert.Equal(t, 1, len(res.Articles))
	assert.Equal(t, "minister denies everything", res.Articles[0].OriginalTitle)
	assert.Equal(t, 1, len(res.Ads))
	assert.Equal(t, 100, res.Ads[0].Revenue)
}

func TestGetTodayEdition_NoEdition(t *testing.T) {
	r := newGameRouter(defaultFixtures())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/edition/today", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmit_ReturnsPreview(t *testing.T) {
	f := defaultFixtures()
	f.publisher.result = model.SubmissionResult{
		Score: 480, Sales: 1060, OutrageMeter: 26,
		FactionBalance: map[string]int{"workers": 7},
	}
	r := newGameRouter(f)

	body := `{"grid":[{"article_id":1,"variant":"factual"},{"ad_id":7}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/submit", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res model.SubmissionResult
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 480, res.Score)
	assert.Equal(t, 26, res.OutrageMeter)

	// Grid passed through verbatim.
	assert.Equal(t, 2, len(f.publisher.lastGrid))
	assert.Equal(t, model.VariantFactual, f.publisher.lastGrid[0].Variant)
	assert.Equal(t, int64(7), f.publisher.lastGrid[1].AdID)
}

func TestSubmit_InvalidBody(t *testing.T) {
	r := newGameRouter(defaultFixtures())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/submit", strings.NewReader("not json"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func publishBody() string {
	return `{"name":"The Daily Wail","grid":[` +
		`{"article_id":1,"variant":"factual"},` +
		`{"article_id":2,"variant":"sensationalist"},` +
		`{"ad_id":7},` +
		`{"article_id":1,"variant":"propaganda"},` +
		`{"article_id":2,"variant":"factual"},` +
		`{"ad_id":7}]}`
}

func TestPublish_Created(t *testing.T) {
	f := defaultFixtures()
	f.publisher.edition = &model.PublishedEdition{
		ID:   42,
		Date: "2026-03-10",
		Stats: model.EditionStats{
			Cash: 1072, Credibility: 49, Readers: 155,
		},
		Result: model.SubmissionResult{Score: 488},
	}
	r := newGameRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/publish", strings.NewReader(publishBody()))
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "u1", f.publisher.lastUser)
	assert.Equal(t, "The Daily Wail", f.publisher.lastName)

	var res PublishResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(42), res.ID)
	assert.Equal(t, 488, res.Score.Score)
	assert.Equal(t, 1072, res.Stats.Cash)
}

func TestPublish_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unauthenticated", publish.ErrUnauthenticated, http.StatusUnauthorized},
		{"invalid grid", publish.ErrInvalidGrid, http.StatusBadRequest},
		{"already published", publish.ErrAlreadyPublished, http.StatusConflict},
		{"database", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := defaultFixtures()
			f.publisher.publishErr = tt.err
			r := newGameRouter(f)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/publish", strings.NewReader(publishBody()))
			req.Header.Set("X-User-ID", "u1")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestGetState_ReturnsState(t *testing.T) {
	f := defaultFixtures()
	f.games.state = &model.UserGameState{
		UserID: "u1", Treasury: 900, Credibility: 48, Readers: 220,
		PublishStreak: 3, LastPublishDate: "2026-03-10", TotalPublished: 3, BestScore: 488,
	}
	r := newGameRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/state", nil)
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", f.games.lastUser)

	var res StateResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 900, res.Treasury)
	assert.Equal(t, 3, res.PublishStreak)
	assert.Equal(t, "2026-03-10", res.LastPublishDate)
}

func TestGetState_RequiresIdentity(t *testing.T) {
	r := newGameRouter(defaultFixtures())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/state", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetArchive_ClampsPagination(t *testing.T) {
	f := defaultFixtures()
	f.games.archive = []model.PublishedEdition{
		{ID: 2, Date: "2026-03-10", NewspaperName: "The Daily Wail", PublishedAt: time.Now()},
	}
	r := newGameRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/archive?limit=9999&offset=-4", nil)
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res ArchiveResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 100, res.Limit)
	assert.Equal(t, 0, res.Offset)
	assert.Equal(t, 1, len(res.Editions))
	assert.Equal(t, "The Daily Wail", res.Editions[0].NewspaperName)
}

func TestGetAchievements_JoinsCatalog(t *testing.T) {
	f := defaultFixtures()
	f.achievements.unlocked = []model.UserAchievement{
		{UserID: "u1", AchievementKey: "first_edition", UnlockedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
	}
	r := newGameRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/achievements", nil)
	req.Header.Set("X-User-ID", "u1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res []AchievementResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, "Stop the Presses", res[0].Name)
	assert.Equal(t, "2026-03-10T09:00:00Z", res[0].UnlockedAt)
}

func TestGetHealth(t *testing.T) {
	r := newGameRouter(defaultFixtures())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetHealth_DatabaseDown(t *testing.T) {
	f := defaultFixtures()
	f.content.err = errors.New("connection refused")
	r := newGameRouter(f)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
