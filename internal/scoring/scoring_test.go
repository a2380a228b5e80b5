package scoring

import (
	"reflect"
	"testing"

	"github.com/go-playground/assert/v2"

	"muckraker/internal/model"
)

func fixtureArticles() map[int64]model.GeneratedArticle {
	return map[int64]model.GeneratedArticle{
		1: {
			ID:        1,
			Sentiment: "negative",
			AudienceScores: model.AudienceScores{
				"workers": 5, "industrialists": -3, "military": 0, "clergy": 2,
				"students": 4, "nationalists": -1, "anarchists": 3, "aristocrats": -2,
			},
		},
		2: {
			ID:        2,
			Sentiment: "positive",
			AudienceScores: model.AudienceScores{
				"workers": -4, "industrialists": 6, "military": 2, "clergy": 0,
				"students": -5, "nationalists": 3, "anarchists": -6, "aristocrats": 7,
			},
		},
	}
}

func fixtureAds() map[int64]model.Ad {
	return map[int64]model.Ad{
		7: {ID: 7, Name: "Dr. Fizz Tonic", Revenue: 150},
	}
}

func fixtureGrid() []model.GridPlacement {
	return []model.GridPlacement{
		{ArticleID: 1, Variant: model.VariantFactual},
		{AdID: 7},
		{ArticleID: 2, Variant: model.VariantPropaganda},
		{}, {}, {},
	}
}

// Regression fixture: these exact numbers are the contract between preview
// and publish under the v1 coefficient table.
func TestComputePreview_PinnedFixture(t *testing.T) {
	result := ComputePreview(fixtureGrid(), fixtureArticles(), fixtureAds(), V1)

	assert.Equal(t, 1072, result.Sales)
	assert.Equal(t, 26, result.OutrageMeter)
	assert.Equal(t, 488, result.Score)
	assert.Equal(t, -1, result.CredibilityDelta)
	assert.Equal(t, 55, result.ReaderDelta)

	want := map[string]int{
		"workers": 7, "industrialists": 3, "military": 4, "clergy": 6,
		"students": 2, "nationalists": 3, "anarchists": -3, "aristocrats": 8,
	}
	assert.Equal(t, want, result.FactionBalance)
}

func TestComputePreview_Pure(t *testing.T) {
	first := ComputePreview(fixtureGrid(), fixtureArticles(), fixtureAds(), V1)
	second := ComputePreview(fixtureGrid(), fixtureArticles(), fixtureAds(), V1)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different results:\n%+v\n%+v", first, second)
	}
}

// The reported faction balance must equal the sum of per-slot contributions,
// whatever the coefficient values are.
func TestComputePreview_BalanceIsSumOfSlotContributions(t *testing.T) {
	grid := fixtureGrid()
	articles := fixtureArticles()

	result := ComputePreview(grid, articles, fixtureAds(), V1)

	for _, key := range model.FactionKeys {
		sum := 0
		for i, p := range grid {
			if p.ArticleID == 0 {
				continue
			}
			sum += SlotWeight(V1, i) * articles[p.ArticleID].AudienceScores[key]
		}
		assert.Equal(t, sum, result.FactionBalance[key])
	}
}

func TestComputePreview_EmptyGrid(t *testing.T) {
	grid := make([]model.GridPlacement, model.GridSize)

	result := ComputePreview(grid, nil, nil, V1)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.Sales)
	assert.Equal(t, 0, result.OutrageMeter)
	assert.Equal(t, 0, result.CredibilityDelta)
	assert.Equal(t, 0, result.ReaderDelta)
	for _, key := range model.FactionKeys {
		assert.Equal(t, 0, result.FactionBalance[key])
	}
}

func TestComputePreview_AdOnlyGrid(t *testing.T) {
	grid := []model.GridPlacement{
		{AdID: 7}, {AdID: 7}, {AdID: 7}, {AdID: 7}, {AdID: 7}, {AdID: 7},
	}

	result := ComputePreview(grid, nil, fixtureAds(), V1)

	// Ads carry no audience scores.
	for _, key := range model.FactionKeys {
		assert.Equal(t, 0, result.FactionBalance[key])
	}

	// Base economics still apply: full base readership plus ad revenue.
	assert.Equal(t, V1.BaseReadership+6*150, result.Sales)
	assert.Equal(t, 0, result.OutrageMeter)
	assert.Equal(t, 0, result.CredibilityDelta)
}

// Swapping any slot to a higher-credibility variant can never lower the
// credibility delta.
func TestComputePreview_CredibilityMonotonicity(t *testing.T) {
	grid := fixtureGrid()
	base := ComputePreview(grid, fixtureArticles(), fixtureAds(), V1)

	upgraded := fixtureGrid()
	upgraded[2].Variant = model.VariantFactual
	better := ComputePreview(upgraded, fixtureArticles(), fixtureAds(), V1)

	if better.CredibilityDelta < base.CredibilityDelta {
		t.Errorf("factual swap lowered credibility delta: %d -> %d", base.CredibilityDelta, better.CredibilityDelta)
	}
}

func TestComputePreview_OutrageClamped(t *testing.T) {
	articles := fixtureArticles()
	grid := []model.GridPlacement{
		{ArticleID: 1, Variant: model.VariantPropaganda},
		{ArticleID: 1, Variant: model.VariantPropaganda},
		{ArticleID: 1, Variant: model.VariantPropaganda},
		{ArticleID: 1, Variant: model.VariantPropaganda},
		{ArticleID: 1, Variant: model.VariantPropaganda},
		{ArticleID: 1, Variant: model.VariantPropaganda},
	}

	result := ComputePreview(grid, articles, nil, V1)

	// 6 propaganda slots with negative sentiment exceed 100 raw points.
	assert.Equal(t, 100, result.OutrageMeter)
}

func TestComputePreview_UnknownReferencesScoreAsEmpty(t *testing.T) {
	grid := []model.GridPlacement{
		{ArticleID: 999, Variant: model.VariantFactual},
		{AdID: 888},
		{}, {}, {}, {},
	}

	result := ComputePreview(grid, fixtureArticles(), fixtureAds(), V1)

	assert.Equal(t, 0, result.Sales)
	assert.Equal(t, 0, result.Score)
}
