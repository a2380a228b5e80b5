package achievement

import "muckraker/internal/model"

// Stats is the snapshot predicates evaluate against: the user's state after
// a publish plus the result that produced it.
type Stats struct {
	State      model.UserGameState
	LastResult model.SubmissionResult
}

type Predicate func(Stats) bool

type Def struct {
	Key         string
	Name        string
	Description string
	Satisfied   Predicate
}

// Catalog is the static achievement set. Predicates are independent of each
// other; evaluation order never matters.
var Catalog = []Def{
	{
		Key:         "first_edition",
		Name:        "Stop the Presses",
		Description: "Publish your first edition.",
		Satisfied:   func(s Stats) bool { return s.State.TotalPublished >= 1 },
	},
	{
		Key:         "seasoned_editor",
		Name:        "Seasoned Editor",
		Description: "Publish ten editions.",
		Satisfied:   func(s Stats) bool { return s.State.TotalPublished >= 10 },
	},
	{
		Key:         "week_streak",
		Name:        "Daily Grind",
		Description: "Publish seven days in a row.",
		Satisfied:   func(s Stats) bool { return s.State.PublishStreak >= 7 },
	},
	{
		Key:         "big_score",
		Name:        "Front Page Material",
		Description: "Reach a score of 1000 with a single edition.",
		Satisfied:   func(s Stats) bool { return s.State.BestScore >= 1000 },
	},
	{
		Key:         "full_outrage",
		Name:        "Torches and Pitchforks",
		Description: "Publish an edition with an outrage meter of 90 or more.",
		Satisfied:   func(s Stats) bool { return s.LastResult.OutrageMeter >= 90 },
	},
	{
		Key:         "tycoon",
		Name:        "Press Baron",
		Description: "Hold a treasury of 10000.",
		Satisfied:   func(s Stats) bool { return s.State.Treasury >= 10000 },
	},
	{
		Key:         "mass_readership",
		Name:        "Household Name",
		Description: "Reach 5000 readers.",
		Satisfied:   func(s Stats) bool { return s.State.Readers >= 5000 },
	},
	{
		Key:         "faction_darling",
		Name:        "Faction Darling",
		Description: "Push one faction's approval to 50 in a single edition.",
		Satisfied: func(s Stats) bool {
			for _, key := range model.FactionKeys {
				if s.LastResult.FactionBalance[key] >= 50 {
					return true
				}
			}
			return false
		},
	},
	{
		Key:         "upgrade_collector",
		Name:        "Modern Newsroom",
		Description: "Own three upgrades.",
		Satisfied:   func(s Stats) bool { return len(s.State.PurchasedUpgrades) >= 3 },
	},
}
