package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/powderlines/resort-cli/internal/db"
	"github.com/powderlines/resort-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for use by subsystems that
// need direct query access (e.g., bulk imports).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS resorts (
	id          TEXT PRIMARY KEY,
	slug        TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	country     TEXT NOT NULL DEFAULT '',
	state_slug  TEXT NOT NULL DEFAULT '',
	latitude    DOUBLE PRECISION NOT NULL DEFAULT 0,
	longitude   DOUBLE PRECISION NOT NULL DEFAULT 0,
	is_open     BOOLEAN NOT NULL DEFAULT false,
	is_visible  BOOLEAN NOT NULL DEFAULT true,
	is_active   BOOLEAN NOT NULL DEFAULT true,
	is_lost     BOOLEAN NOT NULL DEFAULT false,
	lifts_total INTEGER NOT NULL DEFAULT 0,
	runs_total  INTEGER NOT NULL DEFAULT 0,
	vertical_m  INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT '',
	tagline     TEXT NOT NULL DEFAULT '',
	asset_path  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_resorts_state_slug ON resorts(state_slug);
CREATE INDEX IF NOT EXISTS idx_resorts_country ON resorts(country);
CREATE INDEX IF NOT EXISTS idx_resorts_is_lost ON resorts(is_lost);

CREATE TABLE IF NOT EXISTS resort_conditions (
	resort_id         TEXT PRIMARY KEY REFERENCES resorts(id),
	lifts_open        INTEGER NOT NULL DEFAULT 0,
	lifts_total       INTEGER NOT NULL DEFAULT 0,
	weather_summary   TEXT NOT NULL DEFAULT '',
	temperature_c     DOUBLE PRECISION NOT NULL DEFAULT 0,
	snowfall_cm       DOUBLE PRECISION NOT NULL DEFAULT 0,
	snow_depth_cm     DOUBLE PRECISION NOT NULL DEFAULT 0,
	wind_kph          DOUBLE PRECISION NOT NULL DEFAULT 0,
	liftie_synced_at  TIMESTAMPTZ,
	weather_synced_at TIMESTAMPTZ,
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const resortColumns = `id, slug, name, country, state_slug, latitude, longitude,
	is_open, is_visible, is_active, is_lost, lifts_total, runs_total, vertical_m,
	description, tagline, asset_path, created_at, updated_at`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertResort(ctx context.Context, r model.Resort) (*model.Resort, error) {
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

	// Conflict target is the slug; the existing row keeps its id and
	// created_at so external references stay stable.
	err := s.pool.QueryRow(ctx,
		`INSERT INTO resorts (id, slug, name, country, state_slug, latitude, longitude,
			is_open, is_visible, is_active, is_lost, lifts_total, runs_total, vertical_m,
			description, tagline, asset_path, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 ON CONFLICT (slug) DO UPDATE SET
			name = $3, country = $4, state_slug = $5, latitude = $6, longitude = $7,
			is_open = $8, is_visible = $9, is_active = $10, is_lost = $11,
			lifts_total = $12, runs_total = $13, vertical_m = $14,
			description = $15, tagline = $16, asset_path = $17, updated_at = $19
		 RETURNING id, created_at`,
		r.ID, r.Slug, r.Name, r.Country, r.StateSlug, r.Latitude, r.Longitude,
		r.IsOpen, r.IsVisible, r.IsActive, r.IsLost, r.LiftsTotal, r.RunsTotal, r.VerticalM,
		r.Description, r.Tagline, r.AssetPath, r.CreatedAt, r.UpdatedAt,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert resort %s", r.Slug)
	}
	return &r, nil
}

func (s *PostgresStore) BulkUpsertResorts(ctx context.Context, resorts []model.Resort) (int64, error) {
	if len(resorts) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(resorts))
	for _, r := range resorts {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if r.AssetPath == "" {
			r.AssetPath = r.DefaultAssetPath()
		}
		rows = append(rows, []any{
			r.ID, r.Slug, r.Name, r.Country, r.StateSlug, r.Latitude, r.Longitude,
			r.IsOpen, r.IsVisible, r.IsActive, r.IsLost, r.LiftsTotal, r.RunsTotal, r.VerticalM,
			r.Description, r.Tagline, r.AssetPath, r.CreatedAt, now,
		})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table: "resorts",
		Columns: []string{
			"id", "slug", "name", "country", "state_slug", "latitude", "longitude",
			"is_open", "is_visible", "is_active", "is_lost", "lifts_total", "runs_total",
			"vertical_m", "description", "tagline", "asset_path", "created_at", "updated_at",
		},
		ConflictKeys: []string{"slug"},
		UpdateCols: []string{
			"name", "country", "state_slug", "latitude", "longitude",
			"is_open", "is_visible", "is_active", "is_lost", "lifts_total", "runs_total",
			"vertical_m", "description", "tagline", "asset_path", "updated_at",
		},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: bulk upsert resorts")
	}
	return n, nil
}

func (s *PostgresStore) GetResortBySlug(ctx context.Context, slug string) (*model.Resort, error) {
	var r model.Resort
	err := s.pool.QueryRow(ctx,
		`SELECT `+resortColumns+` FROM resorts WHERE slug = $1`,
		slug,
	).Scan(&r.ID, &r.Slug, &r.Name, &r.Country, &r.StateSlug, &r.Latitude, &r.Longitude,
		&r.IsOpen, &r.IsVisible, &r.IsActive, &r.IsLost, &r.LiftsTotal, &r.RunsTotal, &r.VerticalM,
		&r.Description, &r.Tagline, &r.AssetPath, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get resort %s", slug)
	}
	return &r, nil
}

func (s *PostgresStore) ListResorts(ctx context.Context, filter ListFilter) ([]model.Resort, error) {
	query := `SELECT ` + resortColumns + ` FROM resorts WHERE true`
	args := []any{}
	argIdx := 1

	if !filter.IncludeLost {
		query += ` AND is_lost = false`
	}
	if filter.Slug != "" {
		query += fmt.Sprintf(` AND slug LIKE '%%' || $%d || '%%'`, argIdx)
		args = append(args, filter.Slug)
		argIdx++
	}
	if filter.Country != "" {
		query += fmt.Sprintf(` AND country = $%d`, argIdx)
		args = append(args, filter.Country)
		argIdx++
	}
	if filter.StateSlug != "" {
		query += fmt.Sprintf(` AND state_slug = $%d`, argIdx)
		args = append(args, filter.StateSlug)
		argIdx++
	}
	query += ` ORDER BY name ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 500
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list resorts")
	}
	defer rows.Close()

	var resorts []model.Resort
	for rows.Next() {
		var r model.Resort
		if err := rows.Scan(&r.ID, &r.Slug, &r.Name, &r.Country, &r.StateSlug, &r.Latitude, &r.Longitude,
			&r.IsOpen, &r.IsVisible, &r.IsActive, &r.IsLost, &r.LiftsTotal, &r.RunsTotal, &r.VerticalM,
			&r.Description, &r.Tagline, &r.AssetPath, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan resort")
		}
		resorts = append(resorts, r)
	}
	return resorts, eris.Wrap(rows.Err(), "postgres: list resorts iterate")
}

func (s *PostgresStore) MarkLost(ctx context.Context, slug string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE resorts SET is_lost = true, updated_at = $1 WHERE slug = $2`,
		time.Now().UTC(), slug,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark lost %s", slug)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("resort not found: %s", slug)
	}
	return nil
}

func (s *PostgresStore) UpsertConditions(ctx context.Context, c model.Conditions) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO resort_conditions (resort_id, lifts_open, lifts_total, weather_summary,
			temperature_c, snowfall_cm, snow_depth_cm, wind_kph,
			liftie_synced_at, weather_synced_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (resort_id) DO UPDATE SET
			lifts_open = $2, lifts_total = $3, weather_summary = $4,
			temperature_c = $5, snowfall_cm = $6, snow_depth_cm = $7, wind_kph = $8,
			liftie_synced_at = $9, weather_synced_at = $10, updated_at = $11`,
		c.ResortID, c.LiftsOpen, c.LiftsTotal, c.WeatherSummary,
		c.TemperatureC, c.SnowfallCM, c.SnowDepthCM, c.WindKPH,
		c.LiftieSyncedAt, c.WeatherSyncedAt, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert conditions %s", c.ResortID)
}

func (s *PostgresStore) UpsertLiftConditions(ctx context.Context, c model.Conditions) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO resort_conditions (resort_id, lifts_open, lifts_total, liftie_synced_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (resort_id) DO UPDATE SET
			lifts_open = $2, lifts_total = $3, liftie_synced_at = $4, updated_at = $5`,
		c.ResortID, c.LiftsOpen, c.LiftsTotal, c.LiftieSyncedAt, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert lift conditions %s", c.ResortID)
}

func (s *PostgresStore) UpsertWeatherConditions(ctx context.Context, c model.Conditions) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO resort_conditions (resort_id, weather_summary, temperature_c,
			snowfall_cm, snow_depth_cm, wind_kph, weather_synced_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (resort_id) DO UPDATE SET
			weather_summary = $2, temperature_c = $3, snowfall_cm = $4,
			snow_depth_cm = $5, wind_kph = $6, weather_synced_at = $7, updated_at = $8`,
		c.ResortID, c.WeatherSummary, c.TemperatureC,
		c.SnowfallCM, c.SnowDepthCM, c.WindKPH, c.WeatherSyncedAt, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: upsert weather conditions %s", c.ResortID)
}

func (s *PostgresStore) GetConditions(ctx context.Context, resortID string) (*model.Conditions, error) {
	var c model.Conditions
	err := s.pool.QueryRow(ctx,
		`SELECT resort_id, lifts_open, lifts_total, weather_summary, temperature_c,
			snowfall_cm, snow_depth_cm, wind_kph, liftie_synced_at, weather_synced_at, updated_at
		 FROM resort_conditions WHERE resort_id = $1`,
		resortID,
	).Scan(&c.ResortID, &c.LiftsOpen, &c.LiftsTotal, &c.WeatherSummary, &c.TemperatureC,
		&c.SnowfallCM, &c.SnowDepthCM, &c.WindKPH, &c.LiftieSyncedAt, &c.WeatherSyncedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get conditions %s", resortID)
	}
	return &c, nil
}

func (s *PostgresStore) DeleteConditions(ctx context.Context, resortID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM resort_conditions WHERE resort_id = $1`,
		resortID,
	)
	return eris.Wrapf(err, "postgres: delete conditions %s", resortID)
}
