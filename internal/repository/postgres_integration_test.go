//go:build integration

package repository

import (
	"context"
	"testing"

	"compass-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	// Start PostgreSQL container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections"),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		postgresC.Terminate(ctx)
	})

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)

	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"

	// Connect to database
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	// Create test schema
	_, err = pool.Exec(ctx, `
		CREATE TABLE properties (
			id VARCHAR(64) PRIMARY KEY,
			title VARCHAR(255) NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			price_type VARCHAR(16) NOT NULL DEFAULT 'contact',
			amount NUMERIC,
			min_amount NUMERIC,
			max_amount NUMERIC,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		-- Insert test data
		INSERT INTO properties (id, title, latitude, longitude, price_type, amount, min_amount, max_amount, created_at) VALUES
		('prop-1', 'Bondi apartment', -33.8915, 151.2767, 'fixed', 1250000, NULL, NULL, '2024-01-01T00:00:00Z'),
		('prop-2', 'Surry Hills terrace', -33.8860, 151.2110, 'range', NULL, 1400000, 1600000, '2024-01-02T00:00:00Z'),
		('prop-3', 'Off-plan penthouse', NULL, NULL, 'contact', NULL, NULL, NULL, '2024-01-03T00:00:00Z');
	`)
	require.NoError(t, err)

	return pool
}

func TestRepository_ListProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	properties, err := repo.ListProperties(ctx)
	require.NoError(t, err)
	require.Len(t, properties, 3)

	// Insertion order is preserved.
	assert.Equal(t, "prop-1", properties[0].ID)
	assert.Equal(t, "prop-2", properties[1].ID)
	assert.Equal(t, "prop-3", properties[2].ID)

	// Fixed price with coordinates.
	first := properties[0]
	assert.Equal(t, "Bondi apartment", first.Title)
	require.NotNil(t, first.Location)
	assert.Equal(t, models.Coordinate{Latitude: -33.8915, Longitude: 151.2767}, *first.Location)
	assert.Equal(t, models.PriceTypeFixed, first.Price.Type)
	require.NotNil(t, first.Price.Amount)
	assert.Equal(t, 1250000.0, *first.Price.Amount)

	// Range price.
	second := properties[1]
	assert.Equal(t, models.PriceTypeRange, second.Price.Type)
	assert.Nil(t, second.Price.Amount)
	require.NotNil(t, second.Price.MinAmount)
	require.NotNil(t, second.Price.MaxAmount)
	assert.Equal(t, 1400000.0, *second.Price.MinAmount)
	assert.Equal(t, 1600000.0, *second.Price.MaxAmount)

	// Ungeocoded row surfaces with a nil location and no amounts.
	third := properties[2]
	assert.Nil(t, third.Location)
	assert.Equal(t, models.PriceTypeContact, third.Price.Type)
	assert.Nil(t, third.Price.Amount)
}
