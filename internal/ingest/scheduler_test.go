package ingest

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"muckraker/internal/model"
)

func TestScheduler_RunOnceRecordsSuccess(t *testing.T) {
	source := &fakeSource{items: feedItems(3)}
	orch, _, _, _ := newTestOrchestrator(source, &fakeWriter{})
	sched := NewScheduler(orch, time.Hour)

	sched.runOnce()

	history := sched.History()
	assert.Equal(t, 1, len(history))
	assert.Equal(t, true, history[0].Success)
	assert.Equal(t, false, history[0].Coalesced)
	assert.Equal(t, 3, history[0].ArticlesProcessed)
}

func TestScheduler_RunOnceRecordsFailure(t *testing.T) {
	source := &fakeSource{err: fmt.Errorf("connection refused")}
	orch, _, _, _ := newTestOrchestrator(source, &fakeWriter{})
	sched := NewScheduler(orch, time.Hour)

	sched.runOnce()

	history := sched.History()
	assert.Equal(t, 1, len(history))
	assert.Equal(t, false, history[0].Success)
	assert.NotEqual(t, "", history[0].Error)
}

func TestScheduler_RunOnceCoalesces(t *testing.T) {
	source := &fakeSource{items: feedItems(1)}
	orch, _, _, _ := newTestOrchestrator(source, &fakeWriter{})
	sched := NewScheduler(orch, time.Hour)

	// Something else holds the run already.
	jobID, started, err := orch.Trigger(model.IngestNormal)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, started)

	sched.runOnce()

	history := sched.History()
	assert.Equal(t, 1, len(history))
	assert.Equal(t, true, history[0].Coalesced)
	assert.Equal(t, jobID, history[0].JobID)
}

func TestScheduler_HistoryNewestFirstAndBounded(t *testing.T) {
	source := &fakeSource{items: feedItems(1)}
	orch, _, _, _ := newTestOrchestrator(source, &fakeWriter{})
	sched := NewScheduler(orch, time.Hour)

	for i := 0; i < historySize+5; i++ {
		sched.record(RunSummary{JobID: fmt.Sprintf("job-%d", i)})
	}

	history := sched.History()
	assert.Equal(t, historySize, len(history))
	assert.Equal(t, fmt.Sprintf("job-%d", historySize+4), history[0].JobID)
}
