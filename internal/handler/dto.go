package handler

import "muckraker/internal/model"

type TriggerIngestResponse struct {
	JobID string `json:"job_id"`
}

type JobStepResponse struct {
	TS      string `json:"ts"`
	Message string `json:"message"`
}

type JobStatusResponse struct {
	Status   string            `json:"status"`
	Progress string            `json:"progress"`
	Steps    []JobStepResponse `json:"steps"`
	Result   *model.JobResult  `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}

type GridPlacementRequest struct {
	ArticleID int64  `json:"article_id"`
	Variant   string `json:"variant"`
	AdID      int64  `json:"ad_id"`
}

type SubmitRequest struct {
	Grid []GridPlacementRequest `json:"grid"`
}

type PublishRequest struct {
	Grid []GridPlacementRequest `json:"grid"`
	Name string                 `json:"name"`
	// Stats is part of the wire contract but never trusted; the server's
	// own game state is authoritative.
	Stats *model.EditionStats `json:"stats"`
}

type PublishResponse struct {
	ID    int64                  `json:"id"`
	Date  string                 `json:"date"`
	Stats model.EditionStats     `json:"stats"`
	Score model.SubmissionResult `json:"result"`
}

type ArticleResponse struct {
	ID             int64                 `json:"id"`
	OriginalTitle  string                `json:"original_title"`
	Variants       model.ArticleVariants `json:"variants"`
	TopicTags      []string              `json:"topic_tags"`
	Sentiment      string                `json:"sentiment"`
	LocationCity   string                `json:"location_city"`
	CountryCode    string                `json:"country_code"`
	AudienceScores model.AudienceScores  `json:"audience_scores"`
}

type AdResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Slogan  string `json:"slogan"`
	Revenue int    `json:"revenue"`
}

type EditionResponse struct {
	Date       string            `json:"date"`
	GlobalMood string            `json:"global_mood"`
	Articles   []ArticleResponse `json:"articles"`
	Ads        []AdResponse      `json:"ads"`
}

type StateResponse struct {
	Treasury          int      `json:"treasury"`
	Credibility       int      `json:"credibility"`
	Readers           int      `json:"readers"`
	PurchasedUpgrades []string `json:"purchased_upgrades"`
	PublishStreak     int      `json:"publish_streak"`
	LastPublishDate   string   `json:"last_publish_date"`
	TotalPublished    int      `json:"total_published"`
	BestScore         int      `json:"best_score"`
}

type ArchiveEntryResponse struct {
	ID            int64                  `json:"id"`
	Date          string                 `json:"date"`
	NewspaperName string                 `json:"newspaper_name"`
	Layout        []model.SlotSnapshot   `json:"grid_layout"`
	Result        model.SubmissionResult `json:"result"`
	Stats         model.EditionStats     `json:"stats"`
	PublishedAt   string                 `json:"published_at"`
}

type ArchiveResponse struct {
	Editions []ArchiveEntryResponse `json:"editions"`
	Limit    int                    `json:"limit"`
	Offset   int                    `json:"offset"`
}

type AchievementResponse struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnlockedAt  string `json:"unlocked_at"`
}
