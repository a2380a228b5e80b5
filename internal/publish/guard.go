// Package publish applies a finalized layout to persistent game state under
// the once-per-day rule.
package publish

import (
	"errors"
	"fmt"
	"time"

	"muckraker/internal/achievement"
	"muckraker/internal/model"
	"muckraker/internal/scoring"
)

var (
	ErrAlreadyPublished = errors.New("already published today")
	ErrInvalidGrid      = errors.New("invalid grid")
	ErrUnauthenticated  = errors.New("unauthenticated")
)

type GameStore interface {
	GetOrCreateState(userID string) (*model.UserGameState, error)
	SavePublish(edition *model.PublishedEdition, state *model.UserGameState) (bool, error)
}

type ContentStore interface {
	GetArticlesByIDs(ids []int64) (map[int64]model.GeneratedArticle, error)
	GetAdsByIDs(ids []int64) (map[int64]model.Ad, error)
}

type Unlocker interface {
	Evaluate(userID string, stats achievement.Stats) []string
}

type Guard struct {
	games    GameStore
	content  ContentStore
	unlocker Unlocker
	coeffs   scoring.Coefficients
	now      func() time.Time
}

func NewGuard(games GameStore, content ContentStore, unlocker Unlocker, c scoring.Coefficients) *Guard {
	return &Guard{
		games:    games,
		content:  content,
		unlocker: unlocker,
		coeffs:   c,
		now:      time.Now,
	}
}

// DayOf is the daily cutoff rule for publishing: the UTC calendar date.
func DayOf(t time.Time) string {
	return model.DayKey(t)
}

// Preview resolves and scores a layout without side effects. Partial grids
// are allowed here; unresolved references score as empty slots.
func (g *Guard) Preview(grid []model.GridPlacement) (model.SubmissionResult, error) {
	articles, ads, err := g.resolve(grid)
	if err != nil {
		return model.SubmissionResult{}, err
	}
	return scoring.ComputePreview(grid, articles, ads, g.coeffs), nil
}

// Publish validates the grid, scores it with the same engine the preview
// uses, persists the archival record and the state deltas, and evaluates
// achievements. A second publish for the same user and UTC day fails with
// ErrAlreadyPublished and mutates nothing.
func (g *Guard) Publish(userID string, grid []model.GridPlacement, newspaperName string) (*model.PublishedEdition, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	articles, ads, err := g.resolve(grid)
	if err != nil {
		return nil, err
	}
	if err := validateGrid(grid, articles, ads); err != nil {
		return nil, err
	}

	result := scoring.ComputePreview(grid, articles, ads, g.coeffs)

	state, err := g.games.GetOrCreateState(userID)
	if err != nil {
		return nil, fmt.Errorf("loading game state: %w", err)
	}

	now := g.now()
	today := DayOf(now)
	if state.LastPublishDate == today {
		return nil, ErrAlreadyPublished
	}

	yesterday := DayOf(now.AddDate(0, 0, -1))
	if state.LastPublishDate == yesterday {
		state.PublishStreak++
	} else {
		state.PublishStreak = 1
	}

	state.Treasury += result.Sales
	state.Credibility = clamp(state.Credibility+result.CredibilityDelta, 0, 100)
	state.Readers += result.ReaderDelta
	state.TotalPublished++
	state.LastPublishDate = today
	if result.Score > state.BestScore {
		state.BestScore = result.Score
	}

	edition := &model.PublishedEdition{
		UserID:        userID,
		Date:          today,
		NewspaperName: newspaperName,
		Layout:        snapshotLayout(grid, articles, ads),
		Result:        result,
		Stats: model.EditionStats{
			Cash:        state.Treasury,
			Credibility: state.Credibility,
			Readers:     state.Readers,
		},
		PublishedAt: now.UTC(),
	}

	created, err := g.games.SavePublish(edition, state)
	if err != nil {
		return nil, fmt.Errorf("saving publish: %w", err)
	}
	if !created {
		// Lost the race against a concurrent publish; the uniqueness
		// constraint rolled everything back.
		return nil, ErrAlreadyPublished
	}

	g.unlocker.Evaluate(userID, achievement.Stats{State: *state, LastResult: result})

	return edition, nil
}

func (g *Guard) resolve(grid []model.GridPlacement) (map[int64]model.GeneratedArticle, map[int64]model.Ad, error) {
	var articleIDs, adIDs []int64
	for _, p := range grid {
		if p.ArticleID != 0 {
			articleIDs = append(articleIDs, p.ArticleID)
		}
		if p.AdID != 0 {
			adIDs = append(adIDs, p.AdID)
		}
	}

	articles := map[int64]model.GeneratedArticle{}
	if len(articleIDs) > 0 {
		var err error
		articles, err = g.content.GetArticlesByIDs(articleIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving articles: %w", err)
		}
	}

	ads := map[int64]model.Ad{}
	if len(adIDs) > 0 {
		var err error
		ads, err = g.content.GetAdsByIDs(adIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving ads: %w", err)
		}
	}

	return articles, ads, nil
}

// validateGrid enforces the publish-time shape: exactly six slots, every
// slot filled with either a resolvable article+valid variant or a
// resolvable ad, never both.
func validateGrid(grid []model.GridPlacement, articles map[int64]model.GeneratedArticle, ads map[int64]model.Ad) error {
	if len(grid) != model.GridSize {
		return fmt.Errorf("%w: expected %d slots, got %d", ErrInvalidGrid, model.GridSize, len(grid))
	}

	for i, p := range grid {
		switch {
		case p.Empty():
			return fmt.Errorf("%w: slot %d is empty", ErrInvalidGrid, i)
		case p.ArticleID != 0 && p.AdID != 0:
			return fmt.Errorf("%w: slot %d holds both an article and an ad", ErrInvalidGrid, i)
		case p.ArticleID != 0:
			if !p.Variant.Valid() {
				return fmt.Errorf("%w: slot %d has invalid variant %q", ErrInvalidGrid, i, p.Variant)
			}
			if _, ok := articles[p.ArticleID]; !ok {
				return fmt.Errorf("%w: slot %d references unknown article %d", ErrInvalidGrid, i, p.ArticleID)
			}
		default:
			if _, ok := ads[p.AdID]; !ok {
				return fmt.Errorf("%w: slot %d references unknown ad %d", ErrInvalidGrid, i, p.AdID)
			}
		}
	}

	return nil
}

func snapshotLayout(grid []model.GridPlacement, articles map[int64]model.GeneratedArticle, ads map[int64]model.Ad) []model.SlotSnapshot {
	layout := make([]model.SlotSnapshot, 0, len(grid))
	for i, p := range grid {
		snap := model.SlotSnapshot{Kind: model.SlotKindAt(i)}

		if p.ArticleID != 0 {
			article := articles[p.ArticleID]
			snap.ArticleID = p.ArticleID
			snap.Variant = p.Variant
			snap.Headline = article.OriginalTitle
			snap.Body = article.Variants.Body(p.Variant)
		} else if p.AdID != 0 {
			ad := ads[p.AdID]
			snap.AdID = p.AdID
			snap.Headline = ad.Name
			snap.Body = ad.Slogan
		}

		layout = append(layout, snap)
	}
	return layout
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
