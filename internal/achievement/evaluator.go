package achievement

import "log/slog"

// Store is the persistence surface the evaluator needs. Unlock must be
// idempotent: it reports false when the achievement was already held.
type Store interface {
	Unlock(userID, key string) (bool, error)
}

type Evaluator struct {
	store Store
}

func NewEvaluator(store Store) *Evaluator {
	return &Evaluator{store: store}
}

// Evaluate runs every catalog predicate against the stats and unlocks the
// newly satisfied ones. Returns the keys unlocked by this call. A failure
// on one predicate is logged and does not block the others.
func (e *Evaluator) Evaluate(userID string, stats Stats) []string {
	var unlocked []string

	for _, def := range Catalog {
		if !satisfied(def, stats) {
			continue
		}

		created, err := e.store.Unlock(userID, def.Key)
		if err != nil {
			slog.Error("error unlocking achievement", "error", err, "user_id", userID, "achievement", def.Key)
			continue
		}

		if created {
			slog.Info("achievement unlocked", "user_id", userID, "achievement", def.Key)
			unlocked = append(unlocked, def.Key)
		}
	}

	return unlocked
}

func satisfied(def Def, stats Stats) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("achievement predicate panicked", "achievement", def.Key, "panic", r)
			ok = false
		}
	}()
	return def.Satisfied(stats)
}
