package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"compass-api/internal/config"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PropertyRecord is one CSV row of the listing export:
// id,title,latitude,longitude,price_type,amount,min_amount,max_amount
// id and the coordinate/amount columns may be empty.
type PropertyRecord struct {
	ID        string
	Title     string
	Lat       *float64
	Lon       *float64
	PriceType string
	Amount    *float64
	MinAmount *float64
	MaxAmount *float64
}

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: --file flag is required")
		os.Exit(1)
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	records, err := parseCSV(*file)
	if err != nil {
		fmt.Printf("Error parsing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(records))

	// Load config
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Connect to DB
	conn, err := pgx.Connect(context.Background(), cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	// Ensure table exists
	err = createTableIfNotExists(conn)
	if err != nil {
		fmt.Printf("Error creating table: %v\n", err)
		os.Exit(1)
	}

	// Insert records
	err = insertRecords(conn, records)
	if err != nil {
		fmt.Printf("Error inserting records: %v\n", err)
		os.Exit(1)
	}

	// Verify data
	err = verifyImport(conn, len(records))
	if err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d records\n", len(records))
}

func parseCSV(filePath string) ([]PropertyRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Skip header
	_, err = reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []PropertyRecord
	for {
		record, err := reader.Read()
		if err != nil {
			if err.Error() == "EOF" {
				break
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(record) < 8 {
			return nil, fmt.Errorf("invalid record length: %d, expected at least 8 columns", len(record))
		}

		lat, err := parseOptionalFloat(record[2])
		if err != nil {
			return nil, fmt.Errorf("invalid latitude: %s", record[2])
		}

		lon, err := parseOptionalFloat(record[3])
		if err != nil {
			return nil, fmt.Errorf("invalid longitude: %s", record[3])
		}

		amount, err := parseOptionalFloat(record[5])
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %s", record[5])
		}

		minAmount, err := parseOptionalFloat(record[6])
		if err != nil {
			return nil, fmt.Errorf("invalid min amount: %s", record[6])
		}

		maxAmount, err := parseOptionalFloat(record[7])
		if err != nil {
			return nil, fmt.Errorf("invalid max amount: %s", record[7])
		}

		id := record[0]
		if id == "" {
			id = uuid.NewString()
		}

		records = append(records, PropertyRecord{
			ID:        id,
			Title:     record[1],
			Lat:       lat,
			Lon:       lon,
			PriceType: record[4],
			Amount:    amount,
			MinAmount: minAmount,
			MaxAmount: maxAmount,
		})
	}

	return records, nil
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func createTableIfNotExists(conn *pgx.Conn) error {
	query := `
	CREATE TABLE IF NOT EXISTS properties (
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
	`
	_, err := conn.Exec(context.Background(), query)
	return err
}

func insertRecords(conn *pgx.Conn, records []PropertyRecord) error {
	// Use CopyFrom for bulk insert
	_, err := conn.CopyFrom(
		context.Background(),
		pgx.Identifier{"properties"},
		[]string{"id", "title", "latitude", "longitude", "price_type", "amount", "min_amount", "max_amount"},
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			r := records[i]
			return []interface{}{r.ID, r.Title, r.Lat, r.Lon, r.PriceType, r.Amount, r.MinAmount, r.MaxAmount}, nil
		}),
	)
	return err
}

func verifyImport(conn *pgx.Conn, expectedCount int) error {
	var count int
	err := conn.QueryRow(context.Background(), "SELECT COUNT(*) FROM properties").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if count != expectedCount {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expectedCount, count)
	}

	var located int
	err = conn.QueryRow(context.Background(), "SELECT COUNT(*) FROM properties WHERE latitude IS NOT NULL AND longitude IS NOT NULL").Scan(&located)
	if err != nil {
		return fmt.Errorf("failed to count located records: %w", err)
	}

	fmt.Printf("Located records: %d of %d\n", located, count)
	return nil
}
