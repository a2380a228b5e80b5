package repository

import (
	"database/sql"
	"encoding/json"
	"muckraker/internal/model"
)

type GameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

const (
	startingCredibility = 50
	startingReaders     = 100
)

// GetOrCreateState returns the user's game state, initializing a fresh row
// on first sight.
func (r *GameRepository) GetOrCreateState(userID string) (*model.UserGameState, error) {
	_, err := r.db.Exec(`
		INSERT INTO user_game_state(user_id, credibility, readers)
		VALUES($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, startingCredibility, startingReaders)
	if err != nil {
		return nil, err
	}

	var state model.UserGameState
	var upgrades []byte
	err = r.db.QueryRow(`
		SELECT user_id, treasury, credibility, readers, purchased_upgrades, publish_streak, last_publish_date, total_published, best_score
		FROM user_game_state
		WHERE user_id = $1
	`, userID).Scan(&state.UserID, &state.Treasury, &state.Credibility, &state.Readers, &upgrades, &state.PublishStreak, &state.LastPublishDate, &state.TotalPublished, &state.BestScore)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(upgrades, &state.PurchasedUpgrades); err != nil || state.PurchasedUpgrades == nil {
		state.PurchasedUpgrades = []string{}
	}

	return &state, nil
}

// SavePublish writes the archival record and the updated game state in one
// transaction. The UNIQUE (user_id, date) constraint is the serialization
// point for the once-per-day rule: a second publish for the same day hits
// ON CONFLICT DO NOTHING, returns no id, and nothing is committed.
func (r *GameRepository) SavePublish(edition *model.PublishedEdition, state *model.UserGameState) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	layout, err := json.Marshal(edition.Layout)
	if err != nil {
		return false, err
	}
	result, err := json.Marshal(edition.Result)
	if err != nil {
		return false, err
	}
	stats, err := json.Marshal(edition.Stats)
	if err != nil {
		return false, err
	}

	var id int64
	err = tx.QueryRow(`
		INSERT INTO published_edition(user_id, date, newspaper_name, grid_layout, result, stats, published_at)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, date) DO NOTHING
		RETURNING id
	`, edition.UserID, edition.Date, edition.NewspaperName, layout, result, stats, edition.PublishedAt).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	edition.ID = id

	upgrades, err := json.Marshal(state.PurchasedUpgrades)
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(`
		UPDATE user_game_state
		SET treasury = $1, credibility = $2, readers = $3, purchased_upgrades = $4,
			publish_streak = $5, last_publish_date = $6, total_published = $7, best_score = $8
		WHERE user_id = $9
	`, state.Treasury, state.Credibility, state.Readers, upgrades,
		state.PublishStreak, state.LastPublishDate, state.TotalPublished, state.BestScore, state.UserID)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func (r *GameRepository) ListArchive(userID string, limit, offset int) ([]model.PublishedEdition, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, date, newspaper_name, grid_layout, result, stats, published_at
		FROM published_edition
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var editions []model.PublishedEdition
	for rows.Next() {
		var e model.PublishedEdition
		var layout, result, stats []byte
		err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.NewspaperName, &layout, &result, &stats, &e.PublishedAt)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(layout, &e.Layout); err != nil {
			e.Layout = nil
		}
		if err := json.Unmarshal(result, &e.Result); err != nil {
			e.Result = model.SubmissionResult{}
		}
		if err := json.Unmarshal(stats, &e.Stats); err != nil {
			e.Stats = model.EditionStats{}
		}

		editions = append(editions, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return editions, nil
}
