package repository

import (
	"context"
	"fmt"

	"compass-api/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the property repository for PostgreSQL
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListProperties returns every property, in insertion order. Rows without
// coordinates come back with a nil Location; the engine's visibility filter
// drops them from the map while list views still count them.
func (r *Repository) ListProperties(ctx context.Context) ([]models.Property, error) {
	sql := `
		SELECT
			id,
			title,
			latitude,
			longitude,
			price_type,
			amount,
			min_amount,
			max_amount
		FROM properties
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		var lat, lng *float64
		var priceType string
		err := rows.Scan(
			&p.ID,
			&p.Title,
			&lat,
			&lng,
			&priceType,
			&p.Price.Amount,
			&p.Price.MinAmount,
			&p.Price.MaxAmount,
		)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan property: %w", err)
		}

		p.Price.Type = models.PriceType(priceType)
		if lat != nil && lng != nil {
			p.Location = &models.Coordinate{Latitude: *lat, Longitude: *lng}
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return properties, nil
}
