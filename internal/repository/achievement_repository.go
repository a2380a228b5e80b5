package repository

import (
	"database/sql"
	"muckraker/internal/model"
)

type AchievementRepository struct {
	db *sql.DB
}

func NewAchievementRepository(db *sql.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// Unlock records an achievement for a user. Idempotent: the UNIQUE
// (user_id, achievement_key) constraint turns a repeat unlock into a no-op,
// reported as false.
func (r *AchievementRepository) Unlock(userID, key string) (bool, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO user_achievement(user_id, achievement_key)
		VALUES($1, $2)
		ON CONFLICT (user_id, achievement_key) DO NOTHING
		RETURNING id
	`, userID, key).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *AchievementRepository) ListUnlocked(userID string) ([]model.UserAchievement, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, achievement_key, unlocked_at
		FROM user_achievement
		WHERE user_id = $1
		ORDER BY unlocked_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocked []model.UserAchievement
	for rows.Next() {
		var ua model.UserAchievement
		if err := rows.Scan(&ua.ID, &ua.UserID, &ua.AchievementKey, &ua.UnlockedAt); err != nil {
			return nil, err
		}
		unlocked = append(unlocked, ua)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return unlocked, nil
}
