package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ai-green-advisor/backend/internal/models"
)

type RecommendationRepository struct {
	db *pgxpool.Pool
}

// NewRecommendationRepository создает репозиторий рекомендаций.
func NewRecommendationRepository(db *pgxpool.Pool) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Save сохраняет запись рекомендации и возвращает ее идентификатор и время.
func (r *RecommendationRepository) Save(ctx context.Context, record models.RecommendationRecord) (models.RecommendationRecord, error) {
	city := strings.TrimSpace(record.City)
	if city == "" {
		return models.RecommendationRecord{}, ErrInvalid
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO recommendations (city, aqi, source, provider, model, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		city,
		record.AQI,
		string(record.Source),
		record.Provider,
		record.Model,
		record.Payload,
	)

	saved := record
	saved.City = city
	if err := row.Scan(&saved.ID, &saved.CreatedAt); err != nil {
		return models.RecommendationRecord{}, err
	}

	return saved, nil
}

// LatestByCity возвращает последнюю рекомендацию для города.
func (r *RecommendationRepository) LatestByCity(ctx context.Context, city string) (models.RecommendationRecord, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, city, aqi, source, provider, model, payload, created_at
		 FROM recommendations
		 WHERE lower(city) = lower($1)
		 ORDER BY created_at DESC
		 LIMIT 1`,
		strings.TrimSpace(city),
	)

	record, err := scanRecommendation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RecommendationRecord{}, ErrNotFound
		}
		return models.RecommendationRecord{}, err
	}

	return record, nil
}

// HistoryByCity возвращает последние рекомендации для города.
func (r *RecommendationRepository) HistoryByCity(ctx context.Context, city string, limit int) ([]models.RecommendationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, city, aqi, source, provider, model, payload, created_at
		 FROM recommendations
		 WHERE lower(city) = lower($1)
		 ORDER BY created_at DESC
		 LIMIT $2`,
		strings.TrimSpace(city),
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.RecommendationRecord, 0, limit)
	for rows.Next() {
		record, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row rowScanner) (models.RecommendationRecord, error) {
	var record models.RecommendationRecord
	var source string

	err := row.Scan(
		&record.ID,
		&record.City,
		&record.AQI,
		&source,
		&record.Provider,
		&record.Model,
		&record.Payload,
		&record.CreatedAt,
	)
	if err != nil {
		return models.RecommendationRecord{}, err
	}

	record.Source = models.RecommendationSource(source)
	return record, nil
}
