package model

import "time"

// SlotKind is the importance class of a grid position.
type SlotKind string

const (
	SlotHeadline SlotKind = "headline"
	SlotSubLead  SlotKind = "sublead"
	SlotBrief    SlotKind = "brief"
)

// GridSize is the fixed layout size: 1 headline + 2 sub-leads + 3 briefs.
const GridSize = 6

// SlotKindAt maps a slot index to its kind. Index 0 is the headline,
// 1-2 are sub-leads, 3-5 are briefs.
func SlotKindAt(i int) SlotKind {
	switch {
	case i == 0:
		return SlotHeadline
	case i <= 2:
		return SlotSubLead
	default:
		return SlotBrief
	}
}

// GridPlacement is one slot of a submitted layout. A slot holds either an
// article+variant or an ad, never both. A zero placement is an empty slot.
type GridPlacement struct {
	ArticleID int64   `json:"article_id,omitempty"`
	Variant   Variant `json:"variant,omitempty"`
	AdID      int64   `json:"ad_id,omitempty"`
}

func (p GridPlacement) Empty() bool {
	return p.ArticleID == 0 && p.AdID == 0
}

// SubmissionResult is the preview outcome for a layout. Ephemeral unless the
// layout is published.
type SubmissionResult struct {
	Score            int            `json:"score"`
	Sales            int            `json:"sales"`
	OutrageMeter     int            `json:"outrage_meter"`
	FactionBalance   map[string]int `json:"faction_balance"`
	CredibilityDelta int            `json:"credibility_delta"`
	ReaderDelta      int            `json:"reader_delta"`
}

// SlotSnapshot is the denormalized content of one published slot. The
// archive must survive deletion of the source article, so headline and body
// are copied at publish time.
type SlotSnapshot struct {
	Kind      SlotKind `json:"kind"`
	ArticleID int64    `json:"article_id,omitempty"`
	Variant   Variant  `json:"variant,omitempty"`
	AdID      int64    `json:"ad_id,omitempty"`
	Headline  string   `json:"headline"`
	Body      string   `json:"body"`
}

type EditionStats struct {
	Cash        int `json:"cash"`
	Credibility int `json:"credibility"`
	Readers     int `json:"readers"`
}

type PublishedEdition struct {
	ID            int64
	UserID        string
	Date          string
	NewspaperName string
	Layout        []SlotSnapshot
	Result        SubmissionResult
	Stats         EditionStats
	PublishedAt   time.Time
}

// UserGameState is mutated only by the publish path.
type UserGameState struct {
	UserID            string
	Treasury          int
	Credibility       int
	Readers           int
	PurchasedUpgrades []string
	PublishStreak     int
	LastPublishDate   string
	TotalPublished    int
	BestScore         int
}

type UserAchievement struct {
	ID             int64
	UserID         string
	AchievementKey string
	UnlockedAt     time.Time
}
