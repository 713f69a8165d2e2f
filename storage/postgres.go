package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"krisha_importer/models"
)

// PostgresStore holds the reference data (cities, districts, complexes,
// the characteristic vocabularies) and the imported property drafts.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("PostgreSQL store initialized")
	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cities (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS districts (
			id BIGSERIAL PRIMARY KEY,
			city_id BIGINT NOT NULL REFERENCES cities(id),
			name TEXT NOT NULL,
			UNIQUE (city_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS complexes (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			details JSONB NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS properties (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			city_id BIGINT REFERENCES cities(id),
			district TEXT NOT NULL DEFAULT '',
			district_id BIGINT REFERENCES districts(id),
			complex TEXT NOT NULL DEFAULT '',
			complex_id BIGINT REFERENCES complexes(id),
			address TEXT NOT NULL DEFAULT '',
			street TEXT NOT NULL DEFAULT '',
			house_number TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			area DOUBLE PRECISION NOT NULL DEFAULT 0,
			kitchen_area DOUBLE PRECISION NOT NULL DEFAULT 0,
			rooms INTEGER NOT NULL DEFAULT 0,
			floor INTEGER NOT NULL DEFAULT 0,
			total_floors INTEGER NOT NULL DEFAULT 0,
			year_built INTEGER NOT NULL DEFAULT 1800,
			ceiling DOUBLE PRECISION NOT NULL DEFAULT 0,
			price DOUBLE PRECISION NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT '₸',
			building_type TEXT NOT NULL DEFAULT '',
			condition TEXT NOT NULL DEFAULT '',
			building_type_code TEXT NOT NULL DEFAULT '',
			renovation_code TEXT NOT NULL DEFAULT '',
			parking_code TEXT NOT NULL DEFAULT '',
			furniture_code TEXT NOT NULL DEFAULT '',
			toilet_code TEXT NOT NULL DEFAULT '',
			balcony_code TEXT NOT NULL DEFAULT '',
			security_codes TEXT[] NOT NULL DEFAULT '{}',
			photos TEXT[] NOT NULL DEFAULT '{}',
			owner_id BIGINT NOT NULL DEFAULT 0,
			agency_id BIGINT NOT NULL DEFAULT 0,
			is_published BOOLEAN NOT NULL DEFAULT FALSE,
			import_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_properties_import_url
			ON properties (import_url) WHERE import_url <> ''`,
	}

	for _, dict := range models.Dictionaries {
		statements = append(statements, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			code TEXT PRIMARY KEY,
			form_id INTEGER NOT NULL,
			name TEXT NOT NULL
		)`, dict))
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// CityByName finds a city whose stored name contains the scraped name,
// case-insensitively. Returns (nil, nil) when no city matches.
func (s *PostgresStore) CityByName(ctx context.Context, name string) (*models.City, error) {
	var city models.City
	err := s.pool.QueryRow(ctx,
		`SELECT id, name FROM cities WHERE name ILIKE '%' || $1 || '%' ORDER BY id LIMIT 1`,
		name).Scan(&city.ID, &city.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query city %q: %w", name, err)
	}
	return &city, nil
}

// DistrictByName finds a district by fuzzy name, optionally scoped to a city.
func (s *PostgresStore) DistrictByName(ctx context.Context, cityID *int64, name string) (*models.District, error) {
	var district models.District
	err := s.pool.QueryRow(ctx,
		`SELECT id, city_id, name FROM districts
		 WHERE name ILIKE '%' || $1 || '%' AND ($2::BIGINT IS NULL OR city_id = $2)
		 ORDER BY id LIMIT 1`,
		name, cityID).Scan(&district.ID, &district.CityID, &district.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query district %q: %w", name, err)
	}
	return &district, nil
}

// ComplexByName finds a residential complex by fuzzy name, including its
// details payload for coordinate extraction.
func (s *PostgresStore) ComplexByName(ctx context.Context, name string) (*models.Complex, error) {
	var cx models.Complex
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, address, details FROM complexes
		 WHERE name ILIKE '%' || $1 || '%' ORDER BY id LIMIT 1`,
		name).Scan(&cx.ID, &cx.Name, &cx.Address, &cx.Details)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query complex %q: %w", name, err)
	}
	return &cx, nil
}

// VocabularyByName finds an entry of the given dictionary whose stored name
// contains the scraped value.
func (s *PostgresStore) VocabularyByName(ctx context.Context, dict models.Dictionary, name string) (*models.VocabEntry, error) {
	if err := validateDictionary(dict); err != nil {
		return nil, err
	}
	var entry models.VocabEntry
	query := fmt.Sprintf(
		`SELECT code, form_id, name FROM %s WHERE name ILIKE '%%' || $1 || '%%' ORDER BY code LIMIT 1`, dict)
	err := s.pool.QueryRow(ctx, query, name).Scan(&entry.Code, &entry.FormID, &entry.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %s for %q: %w", dict, name, err)
	}
	return &entry, nil
}

// Vocabulary returns the full contents of one dictionary table.
func (s *PostgresStore) Vocabulary(ctx context.Context, dict models.Dictionary) ([]models.VocabEntry, error) {
	if err := validateDictionary(dict); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT code, form_id, name FROM %s ORDER BY code`, dict))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", dict, err)
	}
	defer rows.Close()

	var entries []models.VocabEntry
	for rows.Next() {
		var e models.VocabEntry
		if err := rows.Scan(&e.Code, &e.FormID, &e.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", dict, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SeedVocabulary replaces the contents of one dictionary table inside a
// single transaction. Seeding is idempotent: re-running with the same
// entries yields the same table.
func (s *PostgresStore) SeedVocabulary(ctx context.Context, dict models.Dictionary, entries []models.VocabEntry) error {
	if err := validateDictionary(dict); err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`TRUNCATE %s`, dict)); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", dict, err)
	}
	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (code, form_id, name) VALUES ($1, $2, $3)`, dict),
			e.Code, e.FormID, e.Name); err != nil {
			return fmt.Errorf("failed to seed %s entry %s: %w", dict, e.Code, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed of %s: %w", dict, err)
	}
	return nil
}

// CreateDraft inserts a property draft and returns its id.
func (s *PostgresStore) CreateDraft(ctx context.Context, d *models.PropertyDraft) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO properties (
			title, description,
			city, city_id, district, district_id, complex, complex_id,
			address, street, house_number, latitude, longitude,
			area, kitchen_area, rooms, floor, total_floors, year_built, ceiling,
			price, currency,
			building_type, condition,
			building_type_code, renovation_code, parking_code,
			furniture_code, toilet_code, balcony_code, security_codes,
			photos, owner_id, agency_id, is_published, import_url,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38
		) RETURNING id`,
		d.Title, d.Description,
		d.City, d.CityID, d.District, d.DistrictID, d.Complex, d.ComplexID,
		d.Address, d.Street, d.HouseNumber, d.Latitude, d.Longitude,
		d.Area, d.KitchenArea, d.Rooms, d.Floor, d.TotalFloors, d.YearBuilt, d.Ceiling,
		d.Price, d.Currency,
		d.BuildingType, d.Condition,
		d.BuildingTypeCode, d.RenovationCode, d.ParkingCode,
		d.FurnitureCode, d.ToiletCode, d.BalconyCode, d.SecurityCodes,
		d.Photos, d.OwnerID, d.AgencyID, d.IsPublished, d.ImportURL,
		d.CreatedAt, d.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert property draft: %w", err)
	}
	return id, nil
}

// DraftByImportURL looks up an existing draft by its canonical import URL.
// Returns (nil, nil) when none exists.
func (s *PostgresStore) DraftByImportURL(ctx context.Context, importURL string) (*models.PropertyDraft, error) {
	var d models.PropertyDraft
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, description,
			city, city_id, district, district_id, complex, complex_id,
			address, street, house_number, latitude, longitude,
			area, kitchen_area, rooms, floor, total_floors, year_built, ceiling,
			price, currency,
			building_type, condition,
			building_type_code, renovation_code, parking_code,
			furniture_code, toilet_code, balcony_code, security_codes,
			photos, owner_id, agency_id, is_published, import_url,
			created_at, updated_at
		FROM properties WHERE import_url = $1`,
		importURL,
	).Scan(
		&d.ID, &d.Title, &d.Description,
		&d.City, &d.CityID, &d.District, &d.DistrictID, &d.Complex, &d.ComplexID,
		&d.Address, &d.Street, &d.HouseNumber, &d.Latitude, &d.Longitude,
		&d.Area, &d.KitchenArea, &d.Rooms, &d.Floor, &d.TotalFloors, &d.YearBuilt, &d.Ceiling,
		&d.Price, &d.Currency,
		&d.BuildingType, &d.Condition,
		&d.BuildingTypeCode, &d.RenovationCode, &d.ParkingCode,
		&d.FurnitureCode, &d.ToiletCode, &d.BalconyCode, &d.SecurityCodes,
		&d.Photos, &d.OwnerID, &d.AgencyID, &d.IsPublished, &d.ImportURL,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query draft for %s: %w", importURL, err)
	}
	return &d, nil
}

func validateDictionary(dict models.Dictionary) error {
	for _, known := range models.Dictionaries {
		if dict == known {
			return nil
		}
	}
	return fmt.Errorf("unknown dictionary %q", dict)
}
