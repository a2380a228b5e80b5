// Package ingest coordinates one ingestion run: fetch the feed, generate
// satirical variants per item, persist the day's edition, and track the
// whole thing as a pollable job.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"muckraker/internal/model"
	"muckraker/pkg/feed"
	"muckraker/pkg/llm"
)

const (
	// DefaultMaxItems caps how many feed items one run processes.
	DefaultMaxItems = 10

	// generateConcurrency bounds parallel model calls within a run.
	generateConcurrency = 4

	// fetchAttempts and generateAttempts bound retries against the
	// unreliable external collaborators. Malformed model output is never
	// retried, only transport failures are.
	fetchAttempts    = 3
	generateAttempts = 2

	retryBackoff = 2 * time.Second
)

type JobStore interface {
	CreateJob(id string) (bool, error)
	StartJob(id string) (bool, error)
	AppendStep(id, message string) error
	CompleteJob(id string, result model.JobResult) error
	FailJob(id, errMsg string) error
	GetJob(id string) (*model.IngestionJob, error)
	GetActiveJob() (*model.IngestionJob, error)
}

type EditionStore interface {
	ReplaceDailyEdition(date, mood string, articles []model.GeneratedArticle) (*model.DailyEdition, error)
	DeleteEditionByDate(date string) error
}

// Locker is the cross-instance single-flight guard. The held value is the
// owning job id.
type Locker interface {
	Acquire(jobID string) (bool, error)
	Holder() (string, error)
	Release(jobID string) error
}

type Orchestrator struct {
	source   feed.Source
	writer   llm.ArticleWriter
	jobs     JobStore
	editions EditionStore
	lock     Locker
	maxItems int
	now      func() time.Time
	backoff  time.Duration
}

func NewOrchestrator(source feed.Source, writer llm.ArticleWriter, jobs JobStore, editions EditionStore, lock Locker, maxItems int) *Orchestrator {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Orchestrator{
		source:   source,
		writer:   writer,
		jobs:     jobs,
		editions: editions,
		lock:     lock,
		maxItems: maxItems,
		now:      time.Now,
		backoff:  retryBackoff,
	}
}

// Trigger claims the single-flight lock and creates a pending job. When a
// run is already active the existing job id is returned with started=false,
// so concurrent triggers coalesce instead of racing over the same edition.
// Trigger does not execute the run; callers follow up with Execute.
func (o *Orchestrator) Trigger(mode model.IngestMode) (jobID string, started bool, err error) {
	jobID = uuid.NewString()

	acquired, err := o.lock.Acquire(jobID)
	if err != nil {
		return "", false, fmt.Errorf("acquiring ingest lock: %w", err)
	}

	if !acquired {
		return o.activeJobID()
	}

	created, err := o.jobs.CreateJob(jobID)
	if err != nil {
		o.lock.Release(jobID)
		return "", false, fmt.Errorf("creating job: %w", err)
	}
	if !created {
		// A previous run left a non-terminal job behind (crash between
		// lock expiry and job completion). Coalesce onto it.
		o.lock.Release(jobID)
		return o.activeJobID()
	}

	return jobID, true, nil
}

// TriggerAsync is Trigger plus background execution, for request handlers.
func (o *Orchestrator) TriggerAsync(mode model.IngestMode) (string, error) {
	jobID, started, err := o.Trigger(mode)
	if err != nil {
		return "", err
	}
	if started {
		go o.Execute(jobID, mode)
	}
	return jobID, nil
}

func (o *Orchestrator) activeJobID() (string, bool, error) {
	active, err := o.jobs.GetActiveJob()
	if err != nil {
		return "", false, fmt.Errorf("looking up active job: %w", err)
	}
	if active != nil {
		return active.ID, false, nil
	}

	holder, err := o.lock.Holder()
	if err != nil {
		return "", false, fmt.Errorf("reading ingest lock: %w", err)
	}
	if holder != "" {
		return holder, false, nil
	}

	return "", false, fmt.Errorf("ingestion already in flight")
}

// Execute runs the pipeline for a job claimed by Trigger. A single item's
// generation failure is logged and skipped; the run only fails when the
// feed is unreachable, every generation fails, or persistence fails.
func (o *Orchestrator) Execute(jobID string, mode model.IngestMode) {
	defer o.lock.Release(jobID)

	started, err := o.jobs.StartJob(jobID)
	if err != nil {
		slog.Error("error starting job", "error", err, "job_id", jobID)
		return
	}
	if !started {
		slog.Warn("job not in pending state, skipping", "job_id", jobID)
		return
	}

	date := model.DayKey(o.now())

	if mode == model.IngestReset {
		o.step(jobID, "clearing today's edition")
		if err := o.editions.DeleteEditionByDate(date); err != nil {
			o.fail(jobID, fmt.Sprintf("clearing edition: %v", err))
			return
		}
	}

	o.step(jobID, fmt.Sprintf("fetching %s feed", o.source.Name()))
	items, err := o.fetchItems()
	if err != nil {
		o.fail(jobID, fmt.Sprintf("feed unreachable: %v", err))
		return
	}
	o.step(jobID, fmt.Sprintf("fetched %d items", len(items)))

	articles, failures := o.generateAll(jobID, items)
	o.step(jobID, fmt.Sprintf("generated %d of %d articles", len(articles), len(items)))

	if len(items) > 0 && len(articles) == 0 {
		o.fail(jobID, "generation failed for every item")
		return
	}

	edition, err := o.editions.ReplaceDailyEdition(date, dominantMood(articles), articles)
	if err != nil {
		o.fail(jobID, fmt.Sprintf("persisting edition: %v", err))
		return
	}
	o.step(jobID, fmt.Sprintf("persisted edition %s with %d articles", edition.Date, len(edition.Articles)))

	result := model.JobResult{
		Date:              date,
		ArticlesProcessed: len(articles),
		ItemsFetched:      len(items),
		Failures:          failures,
	}
	if err := o.jobs.CompleteJob(jobID, result); err != nil {
		slog.Error("error completing job", "error", err, "job_id", jobID)
	}

	slog.Info("ingestion run finished", "job_id", jobID, "date", date, "articles", len(articles), "failures", failures)
}

func (o *Orchestrator) fetchItems() ([]feed.Item, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		items, err := o.source.Fetch(o.maxItems)
		if err == nil {
			return items, nil
		}
		lastErr = err
		slog.Warn("feed fetch failed", "error", err, "attempt", attempt)
		if attempt < fetchAttempts {
			time.Sleep(o.backoff)
		}
	}
	return nil, lastErr
}

// generate retries transport failures; a ParseError means the model answered
// and retrying the same content buys nothing, so the item is given up on.
func (o *Orchestrator) generate(item feed.Item) (*llm.Generation, error) {
	var lastErr error
	for attempt := 1; attempt <= generateAttempts; attempt++ {
		gen, err := o.writer.Generate(llm.GenerateInput{Title: item.Title, Body: item.Body})
		if err == nil {
			return gen, nil
		}
		lastErr = err

		var parseErr *llm.ParseError
		if errors.As(err, &parseErr) {
			break
		}
		slog.Warn("generation failed", "error", err, "title", item.Title, "attempt", attempt)
		if attempt < generateAttempts {
			time.Sleep(o.backoff)
		}
	}
	return nil, lastErr
}

// generateAll fans the items out to the model with bounded concurrency.
// Feed order is preserved in the returned slice.
func (o *Orchestrator) generateAll(jobID string, items []feed.Item) ([]model.GeneratedArticle, int) {
	results := make([]*model.GeneratedArticle, len(items))

	var g errgroup.Group
	g.SetLimit(generateConcurrency)

	for i, item := range items {
		g.Go(func() error {
			gen, err := o.generate(item)
			if err != nil {
				slog.Error("error generating article", "error", err, "title", item.Title)
				o.step(jobID, fmt.Sprintf("item failed: %s", item.Title))
				return nil
			}
			results[i] = toArticle(item, gen)
			return nil
		})
	}
	g.Wait()

	articles := make([]model.GeneratedArticle, 0, len(items))
	for _, r := range results {
		if r != nil {
			articles = append(articles, *r)
		}
	}
	return articles, len(items) - len(articles)
}

func (o *Orchestrator) step(jobID, message string) {
	if err := o.jobs.AppendStep(jobID, message); err != nil {
		slog.Error("error appending job step", "error", err, "job_id", jobID)
	}
}

func (o *Orchestrator) fail(jobID, reason string) {
	slog.Error("ingestion run failed", "job_id", jobID, "reason", reason)
	if err := o.jobs.FailJob(jobID, reason); err != nil {
		slog.Error("error failing job", "error", err, "job_id", jobID)
	}
}

func toArticle(item feed.Item, gen *llm.Generation) *model.GeneratedArticle {
	return &model.GeneratedArticle{
		OriginalTitle: item.Title,
		Variants: model.ArticleVariants{
			Factual:        gen.Variants.Factual,
			Sensationalist: gen.Variants.Sensationalist,
			Propaganda:     gen.Variants.Propaganda,
		},
		TopicTags:      gen.Metadata.TopicTags,
		Sentiment:      gen.Metadata.Sentiment,
		LocationCity:   gen.Metadata.LocationCity,
		CountryCode:    gen.Metadata.CountryCode,
		AudienceScores: model.AudienceScores(gen.Metadata.AudienceScores).Normalized(),
		PublishedAt:    item.PublishedAt,
	}
}

// dominantMood is the most common article sentiment, neutral when empty
// or tied.
func dominantMood(articles []model.GeneratedArticle) string {
	counts := map[string]int{}
	for _, a := range articles {
		counts[a.Sentiment]++
	}

	mood := "neutral"
	best := counts["neutral"]
	for _, s := range []string{"positive", "negative"} {
		if counts[s] > best {
			mood, best = s, counts[s]
		}
	}
	return mood
}
