package model

import "time"

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Variant is one of the three tonal rewrites of a source item.
type Variant string

const (
	VariantFactual        Variant = "factual"
	VariantSensationalist Variant = "sensationalist"
	VariantPropaganda     Variant = "propaganda"
)

func (v Variant) Valid() bool {
	switch v {
	case VariantFactual, VariantSensationalist, VariantPropaganda:
		return true
	}
	return false
}

// FactionKeys is the fixed set of audience segments. Every audience score
// map carries exactly these keys.
var FactionKeys = []string{
	"workers",
	"industrialists",
	"military",
	"clergy",
	"students",
	"nationalists",
	"anarchists",
	"aristocrats",
}

const (
	AudienceScoreMin = -10
	AudienceScoreMax = 10
)

// AudienceScores maps faction key to approval in [-10, 10].
type AudienceScores map[string]int

// Normalized returns a copy containing exactly the fixed faction keys,
// with every value clamped to the allowed range. Unknown keys are dropped,
// missing keys become zero.
func (s AudienceScores) Normalized() AudienceScores {
	out := make(AudienceScores, len(FactionKeys))
	for _, key := range FactionKeys {
		v := s[key]
		if v < AudienceScoreMin {
			v = AudienceScoreMin
		}
		if v > AudienceScoreMax {
			v = AudienceScoreMax
		}
		out[key] = v
	}
	return out
}

// DayKey is the pinned calendar-day rule used everywhere a date keys a
// record: the UTC date, formatted YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

type ArticleVariants struct {
	Factual        string `json:"factual"`
	Sensationalist string `json:"sensationalist"`
	Propaganda     string `json:"propaganda"`
}

func (v ArticleVariants) Body(variant Variant) string {
	switch variant {
	case VariantSensationalist:
		return v.Sensationalist
	case VariantPropaganda:
		return v.Propaganda
	default:
		return v.Factual
	}
}

type GeneratedArticle struct {
	ID             int64
	EditionID      int64
	OriginalTitle  string
	Variants       ArticleVariants
	TopicTags      []string
	Sentiment      string
	LocationCity   string
	CountryCode    string
	AudienceScores AudienceScores
	Date           string
	PublishedAt    time.Time
}

type DailyEdition struct {
	ID         int64
	Date       string
	GlobalMood string
	Articles   []GeneratedArticle
}

// Ad fills a grid slot instead of an article. Static catalog rows.
type Ad struct {
	ID      int64
	Name    string
	Slogan  string
	Revenue int
}
