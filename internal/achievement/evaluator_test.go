package achievement

import (
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"muckraker/internal/model"
)

type fakeStore struct {
	held    map[string]bool
	failKey string
	calls   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{held: map[string]bool{}}
}

func (f *fakeStore) Unlock(userID, key string) (bool, error) {
	f.calls++
	if key == f.failKey {
		return false, errors.New("connection reset")
	}
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func firstPublishStats() Stats {
	return Stats{
		State: model.UserGameState{
			UserID:         "u1",
			TotalPublished: 1,
			PublishStreak:  1,
			Treasury:       900,
			Readers:        150,
			Credibility:    50,
			BestScore:      400,
		},
		LastResult: model.SubmissionResult{Score: 400, OutrageMeter: 30},
	}
}

func TestEvaluate_UnlocksSatisfiedPredicates(t *testing.T) {
	store := newFakeStore()
	unlocked := NewEvaluator(store).Evaluate("u1", firstPublishStats())

	assert.Equal(t, []string{"first_edition"}, unlocked)
	assert.Equal(t, true, store.held["first_edition"])
	assert.Equal(t, false, store.held["big_score"])
}

func TestEvaluate_AlreadyHeldNotReturned(t *testing.T) {
	store := newFakeStore()
	eval := NewEvaluator(store)

	first := eval.Evaluate("u1", firstPublishStats())
	assert.Equal(t, []string{"first_edition"}, first)

	// Same stats again: everything satisfied is already held.
	second := eval.Evaluate("u1", firstPublishStats())
	assert.Equal(t, 0, len(second))
}

func TestEvaluate_ThresholdCrossedOnce(t *testing.T) {
	store := newFakeStore()
	eval := NewEvaluator(store)

	stats := firstPublishStats()
	eval.Evaluate("u1", stats)

	stats.State.TotalPublished = 10
	stats.State.BestScore = 1200
	unlocked := eval.Evaluate("u1", stats)
	assert.Equal(t, []string{"seasoned_editor", "big_score"}, unlocked)
}

func TestEvaluate_StoreErrorIsolated(t *testing.T) {
	store := newFakeStore()
	store.failKey = "first_edition"
	eval := NewEvaluator(store)

	stats := firstPublishStats()
	stats.State.Treasury = 20000

	// first_edition fails to persist but tycoon still unlocks.
	unlocked := eval.Evaluate("u1", stats)
	assert.Equal(t, []string{"tycoon"}, unlocked)
}

func TestEvaluate_FactionDarling(t *testing.T) {
	store := newFakeStore()
	stats := firstPublishStats()
	stats.LastResult.FactionBalance = map[string]int{"anarchists": 55}

	unlocked := NewEvaluator(store).Evaluate("u1", stats)
	assert.Equal(t, []string{"first_edition", "faction_darling"}, unlocked)
}

func TestEvaluate_PredicatePanicIsolated(t *testing.T) {
	original := Catalog
	defer func() { Catalog = original }()

	Catalog = append([]Def{{
		Key:       "broken",
		Name:      "Broken",
		Satisfied: func(Stats) bool { panic("nil map") },
	}}, original...)

	store := newFakeStore()
	unlocked := NewEvaluator(store).Evaluate("u1", firstPublishStats())
	assert.Equal(t, []string{"first_edition"}, unlocked)
}
