package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError marks a malformed model response. Callers recover from it with
// safe defaults or by skipping the item; it never aborts an ingestion run.
type ParseError struct {
	Reason  string
	Content string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed model response: %s", e.Reason)
}

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

const UnknownCountry = "XX"

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

type generationEnvelope struct {
	Variants struct {
		Factual        string `json:"factual"`
		Sensationalist string `json:"sensationalist"`
		Propaganda     string `json:"propaganda"`
	} `json:"variants"`
	TopicTags      []string       `json:"topic_tags"`
	Sentiment      string         `json:"sentiment"`
	LocationCity   string         `json:"location_city"`
	CountryCode    string         `json:"country_code"`
	AudienceScores map[string]int `json:"audience_scores"`
}

// parseGeneration decodes a model response. The three variants are parsed
// strictly: a missing or empty variant fails the item. Metadata is parsed
// leniently: anything malformed degrades to a safe default instead of
// failing.
func parseGeneration(raw string) (*Generation, error) {
	content := cleanJSONResponse(raw)

	var env generationEnvelope
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return nil, &ParseError{Reason: err.Error(), Content: content}
	}

	if env.Variants.Factual == "" || env.Variants.Sensationalist == "" || env.Variants.Propaganda == "" {
		return nil, &ParseError{Reason: "missing variant", Content: content}
	}

	return &Generation{
		Variants: Variants{
			Factual:        env.Variants.Factual,
			Sensationalist: env.Variants.Sensationalist,
			Propaganda:     env.Variants.Propaganda,
		},
		Metadata: sanitizeMetadata(env),
	}, nil
}

func sanitizeMetadata(env generationEnvelope) Metadata {
	tags := env.TopicTags
	if tags == nil {
		tags = []string{}
	}

	return Metadata{
		TopicTags:      tags,
		Sentiment:      normalizeSentiment(env.Sentiment),
		LocationCity:   strings.TrimSpace(env.LocationCity),
		CountryCode:    normalizeCountryCode(env.CountryCode),
		AudienceScores: normalizeAudienceScores(env.AudienceScores),
	}
}

// DefaultMetadata is the graceful-degradation fallback when metadata cannot
// be trusted at all: unknown country, no tags, neutral sentiment, all-zero
// audience scores.
func DefaultMetadata() Metadata {
	return sanitizeMetadata(generationEnvelope{})
}

func normalizeSentiment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// normalizeCountryCode accepts an ISO 3166-1 alpha-2 code or "GLOBAL";
// anything else (country names included) becomes "XX".
func normalizeCountryCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "GLOBAL" {
		return code
	}
	if len(code) != 2 {
		return UnknownCountry
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return UnknownCountry
		}
	}
	return code
}

func normalizeAudienceScores(raw map[string]int) map[string]int {
	out := make(map[string]int, len(promptFactions))
	for _, key := range promptFactions {
		v := raw[key]
		if v < -10 {
			v = -10
		}
		if v > 10 {
			v = 10
		}
		out[key] = v
	}
	return out
}
