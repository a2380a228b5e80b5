package repository

import (
	"database/sql"
	"encoding/json"
	"muckraker/internal/model"

	"github.com/lib/pq"
)

type EditionRepository struct {
	db *sql.DB
}

func NewEditionRepository(db *sql.DB) *EditionRepository {
	return &EditionRepository{db: db}
}

// ReplaceDailyEdition deletes any edition already stored for the date
// (articles cascade with it) and writes the new one with all its articles
// in a single transaction.
func (r *EditionRepository) ReplaceDailyEdition(date, mood string, articles []model.GeneratedArticle) (*model.DailyEdition, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM daily_edition WHERE date = $1`, date)
	if err != nil {
		return nil, err
	}

	edition := &model.DailyEdition{Date: date, GlobalMood: mood}
	err = tx.QueryRow(`
		INSERT INTO daily_edition(date, global_mood)
		VALUES($1, $2)
		RETURNING id
	`, date, mood).Scan(&edition.ID)
	if err != nil {
		return nil, err
	}

	for i := range articles {
		a := &articles[i]
		a.EditionID = edition.ID
		a.Date = date

		variants, err := json.Marshal(a.Variants)
		if err != nil {
			return nil, err
		}
		tags, err := json.Marshal(a.TopicTags)
		if err != nil {
			return nil, err
		}
		scores, err := json.Marshal(a.AudienceScores)
		if err != nil {
			return nil, err
		}

		err = tx.QueryRow(`
			INSERT INTO generated_article(edition_id, original_title, variants, topic_tags, sentiment, location_city, country_code, audience_scores, date, published_at)
			VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, edition.ID, a.OriginalTitle, variants, tags, a.Sentiment, a.LocationCity, a.CountryCode, scores, date, a.PublishedAt).Scan(&a.ID)
		if err != nil {
			return nil, err
		}
	}

	edition.Articles = articles
	return edition, tx.Commit()
}

// DeleteEditionByDate removes the edition and its articles. Safe no-op when
// none exists.
func (r *EditionRepository) DeleteEditionByDate(date string) error {
	_, err := r.db.Exec(`DELETE FROM daily_edition WHERE date = $1`, date)
	return err
}

func (r *EditionRepository) GetEditionByDate(date string) (*model.DailyEdition, error) {
	var edition model.DailyEdition
	err := r.db.QueryRow(`
		SELECT id, date, global_mood
		FROM daily_edition
		WHERE date = $1
	`, date).Scan(&edition.ID, &edition.Date, &edition.GlobalMood)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT id, edition_id, original_title, variants, topic_tags, sentiment, location_city, country_code, audience_scores, date, published_at
		FROM generated_article
		WHERE edition_id = $1
		ORDER BY id
	`, edition.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		edition.Articles = append(edition.Articles, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &edition, nil
}

func (r *EditionRepository) GetArticlesByIDs(ids []int64) (map[int64]model.GeneratedArticle, error) {
	rows, err := r.db.Query(`
		SELECT id, edition_id, original_title, variants, topic_tags, sentiment, location_city, country_code, audience_scores, date, published_at
		FROM generated_article
		WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]model.GeneratedArticle)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		result[a.ID] = *a
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *EditionRepository) GetAdsByIDs(ids []int64) (map[int64]model.Ad, error) {
	rows, err := r.db.Query(`
		SELECT id, name, slogan, revenue FROM ad WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[int64]model.Ad)
	for rows.Next() {
		var ad model.Ad
		if err := rows.Scan(&ad.ID, &ad.Name, &ad.Slogan, &ad.Revenue); err != nil {
			return nil, err
		}
		result[ad.ID] = ad
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *EditionRepository) GetAllAds() ([]model.Ad, error) {
	rows, err := r.db.Query(`
		SELECT id, name, slogan, revenue FROM ad ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ads []model.Ad
	for rows.Next() {
		var ad model.Ad
		if err := rows.Scan(&ad.ID, &ad.Name, &ad.Slogan, &ad.Revenue); err != nil {
			return nil, err
		}
		ads = append(ads, ad)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ads, nil
}

func scanArticle(rows *sql.Rows) (*model.GeneratedArticle, error) {
	var a model.GeneratedArticle
	var variants, tags, scores []byte

	err := rows.Scan(&a.ID, &a.EditionID, &a.OriginalTitle, &variants, &tags, &a.Sentiment, &a.LocationCity, &a.CountryCode, &scores, &a.Date, &a.PublishedAt)
	if err != nil {
		return nil, err
	}

	// Stored JSON is parse-or-default on read; a corrupt blob degrades to
	// zero values instead of failing the whole query.
	if err := json.Unmarshal(variants, &a.Variants); err != nil {
		a.Variants = model.ArticleVariants{}
	}
	if err := json.Unmarshal(tags, &a.TopicTags); err != nil || a.TopicTags == nil {
		a.TopicTags = []string{}
	}
	var raw model.AudienceScores
	if err := json.Unmarshal(scores, &raw); err != nil {
		raw = nil
	}
	a.AudienceScores = raw.Normalized()

	return &a, nil
}
