package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/powderlines/resort-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite, for local
// development without a Postgres instance.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: sqlDB}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS resorts (
	id          TEXT PRIMARY KEY,
	slug        TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	country     TEXT NOT NULL DEFAULT '',
	state_slug  TEXT NOT NULL DEFAULT '',
	latitude    REAL NOT NULL DEFAULT 0,
	longitude   REAL NOT NULL DEFAULT 0,
	is_open     INTEGER NOT NULL DEFAULT 0,
	is_visible  INTEGER NOT NULL DEFAULT 1,
	is_active   INTEGER NOT NULL DEFAULT 1,
	is_lost     INTEGER NOT NULL DEFAULT 0,
	lifts_total INTEGER NOT NULL DEFAULT 0,
	runs_total  INTEGER NOT NULL DEFAULT 0,
	vertical_m  INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	tagline     TEXT NOT NULL DEFAULT '',
	asset_path  TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resorts_state_slug ON resorts(state_slug);
CREATE INDEX IF NOT EXISTS idx_resorts_country ON resorts(country);

CREATE TABLE IF NOT EXISTS resort_conditions (
	resort_id         TEXT PRIMARY KEY REFERENCES resorts(id),
	lifts_open        INTEGER NOT NULL DEFAULT 0,
	lifts_total       INTEGER NOT NULL DEFAULT 0,
	weather_summary   TEXT NOT NULL DEFAULT '',
	temperature_c     REAL NOT NULL DEFAULT 0,
	snowfall_cm       REAL NOT NULL DEFAULT 0,
	snow_depth_cm     REAL NOT NULL DEFAULT 0,
	wind_kph          REAL NOT NULL DEFAULT 0,
	liftie_synced_at  DATETIME,
	weather_synced_at DATETIME,
	updated_at        DATETIME NOT NULL
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertResort(ctx context.Context, r model.Resort) (*model.Resort, error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	if r.AssetPath == "" {
		r.AssetPath = r.DefaultAssetPath()
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO resorts (id, slug, name, country, state_slug, latitude, longitude,
			is_open, is_visible, is_active, is_lost, lifts_total, runs_total, vertical_m,
			description, tagline, asset_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (slug) DO UPDATE SET
			name = excluded.name, country = excluded.country, state_slug = excluded.state_slug,
			latitude = excluded.latitude, longitude = excluded.longitude,
			is_open = excluded.is_open, is_visible = excluded.is_visible,
			is_active = excluded.is_active, is_lost = excluded.is_lost,
			lifts_total = excluded.lifts_total, runs_total = excluded.runs_total,
			vertical_m = excluded.vertical_m, description = excluded.description,
			tagline = excluded.tagline, asset_path = excluded.asset_path,
			updated_at = excluded.updated_at
		 RETURNING id, created_at`,
		r.ID, r.Slug, r.Name, r.Country, r.StateSlug, r.Latitude, r.Longitude,
		r.IsOpen, r.IsVisible, r.IsActive, r.IsLost, r.LiftsTotal, r.RunsTotal, r.VerticalM,
		r.Description, r.Tagline, r.AssetPath, r.CreatedAt, r.UpdatedAt,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: upsert resort %s", r.Slug)
	}
	return &r, nil
}

func (s *SQLiteStore) BulkUpsertResorts(ctx context.Context, resorts []model.Resort) (int64, error) {
	if len(resorts) == 0 {
		return 0, nil
	}

	// No COPY protocol here; a plain loop is fine at local-dev scale.
	var n int64
	for _, r := range resorts {
		if _, err := s.UpsertResort(ctx, r); err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

func (s *SQLiteStore) GetResortBySlug(ctx context.Context, slug string) (*model.Resort, error) {
	var r model.Resort
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, name, country, state_slug, latitude, longitude,
			is_open, is_visible, is_active, is_lost, lifts_total, runs_total, vertical_m,
			description, tagline, asset_path, created_at, updated_at
		 FROM resorts WHERE slug = ?`,
		slug,
	).Scan(&r.ID, &r.Slug, &r.Name, &r.Country, &r.StateSlug, &r.Latitude, &r.Longitude,
		&r.IsOpen, &r.IsVisible, &r.IsActive, &r.IsLost, &r.LiftsTotal, &r.RunsTotal, &r.VerticalM,
		&r.Description, &r.Tagline, &r.AssetPath, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get resort %s", slug)
	}
	return &r, nil
}

func (s *SQLiteStore) ListResorts(ctx context.Context, filter ListFilter) ([]model.Resort, error) {
	query := `SELECT id, slug, name, country, state_slug, latitude, longitude,
		is_open, is_visible, is_active, is_lost, lifts_total, runs_total, vertical_m,
		description, tagline, asset_path, created_at, updated_at
	 FROM resorts WHERE 1=1`
	args := []any{}

	if !filter.IncludeLost {
		query += ` AND is_lost = 0`
	}
	if filter.Slug != "" {
		query += ` AND slug LIKE '%' || ? || '%'`
		args = append(args, filter.Slug)
	}
	if filter.Country != "" {
		query += ` AND country = ?`
		args = append(args, filter.Country)
	}
	if filter.StateSlug != "" {
		query += ` AND state_slug = ?`
		args = append(args, filter.StateSlug)
	}
	query += ` ORDER BY name ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list resorts")
	}
	defer rows.Close()

	var resorts []model.Resort
	for rows.Next() {
		var r model.Resort
		if err := rows.Scan(&r.ID, &r.Slug, &r.Name, &r.Country, &r.StateSlug, &r.Latitude, &r.Longitude,
			&r.IsOpen, &r.IsVisible, &r.IsActive, &r.IsLost, &r.LiftsTotal, &r.RunsTotal, &r.VerticalM,
			&r.Description, &r.Tagline, &r.AssetPath, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan resort")
		}
		resorts = append(resorts, r)
	}
	return resorts, eris.Wrap(rows.Err(), "sqlite: list resorts iterate")
}

func (s *SQLiteStore) MarkLost(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE resorts SET is_lost = 1, updated_at = ? WHERE slug = ?`,
		time.Now().UTC(), slug,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark lost %s", slug)
	}
	return checkRowsAffected(res, "resort", slug)
}

func (s *SQLiteStore) UpsertConditions(ctx context.Context, c model.Conditions) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resort_conditions (resort_id, lifts_open, lifts_total, weather_summary,
			temperature_c, snowfall_cm, snow_depth_cm, wind_kph,
			liftie_synced_at, weather_synced_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (resort_id) DO UPDATE SET
			lifts_open = excluded.lifts_open, lifts_total = excluded.lifts_total,
			weather_summary = excluded.weather_summary, temperature_c = excluded.temperature_c,
			snowfall_cm = excluded.snowfall_cm, snow_depth_cm = excluded.snow_depth_cm,
			wind_kph = excluded.wind_kph, liftie_synced_at = excluded.liftie_synced_at,
			weather_synced_at = excluded.weather_synced_at, updated_at = excluded.updated_at`,
		c.ResortID, c.LiftsOpen, c.LiftsTotal, c.WeatherSummary,
		c.TemperatureC, c.SnowfallCM, c.SnowDepthCM, c.WindKPH,
		c.LiftieSyncedAt, c.WeatherSyncedAt, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert conditions %s", c.ResortID)
}

func (s *SQLiteStore) UpsertLiftConditions(ctx context.Context, c model.Conditions) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resort_conditions (resort_id, lifts_open, lifts_total, liftie_synced_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (resort_id) DO UPDATE SET
			lifts_open = excluded.lifts_open, lifts_total = excluded.lifts_total,
			liftie_synced_at = excluded.liftie_synced_at, updated_at = excluded.updated_at`,
		c.ResortID, c.LiftsOpen, c.LiftsTotal, c.LiftieSyncedAt, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert lift conditions %s", c.ResortID)
}

func (s *SQLiteStore) UpsertWeatherConditions(ctx context.Context, c model.Conditions) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resort_conditions (resort_id, weather_summary, temperature_c,
			snowfall_cm, snow_depth_cm, wind_kph, weather_synced_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (resort_id) DO UPDATE SET
			weather_summary = excluded.weather_summary, temperature_c = excluded.temperature_c,
			snowfall_cm = excluded.snowfall_cm, snow_depth_cm = excluded.snow_depth_cm,
			wind_kph = excluded.wind_kph, weather_synced_at = excluded.weather_synced_at,
			updated_at = excluded.updated_at`,
		c.ResortID, c.WeatherSummary, c.TemperatureC,
		c.SnowfallCM, c.SnowDepthCM, c.WindKPH, c.WeatherSyncedAt, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: upsert weather conditions %s", c.ResortID)
}

func (s *SQLiteStore) GetConditions(ctx context.Context, resortID string) (*model.Conditions, error) {
	var c model.Conditions
	err := s.db.QueryRowContext(ctx,
		`SELECT resort_id, lifts_open, lifts_total, weather_summary, temperature_c,
			snowfall_cm, snow_depth_cm, wind_kph, liftie_synced_at, weather_synced_at, updated_at
		 FROM resort_conditions WHERE resort_id = ?`,
		resortID,
	).Scan(&c.ResortID, &c.LiftsOpen, &c.LiftsTotal, &c.WeatherSummary, &c.TemperatureC,
		&c.SnowfallCM, &c.SnowDepthCM, &c.WindKPH, &c.LiftieSyncedAt, &c.WeatherSyncedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "sqlite: get conditions %s", resortID)
	}
	return &c, nil
}

func (s *SQLiteStore) DeleteConditions(ctx context.Context, resortID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM resort_conditions WHERE resort_id = ?`,
		resortID,
	)
	return eris.Wrapf(err, "sqlite: delete conditions %s", resortID)
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "sqlite: rows affected for %s %s", entity, id)
	}
	if n == 0 {
		return eris.New(fmt.Sprintf("%s not found: %s", entity, id))
	}
	return nil
}
