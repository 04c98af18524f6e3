package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powderlines/resort-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetResortBySlug_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM resorts WHERE slug = \$1`).
		WithArgs("no-such-resort").
		WillReturnError(pgx.ErrNoRows)

	r, err := s.GetResortBySlug(context.Background(), "no-such-resort")
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertResort_ConflictOnSlug(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	createdAt := time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC)
	args := make([]interface{}, 19)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	mock.ExpectQuery(`(?s)INSERT INTO resorts .+ ON CONFLICT \(slug\) DO UPDATE SET .+ RETURNING id, created_at`).
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).
			AddRow("existing-id", createdAt))

	got, err := s.UpsertResort(context.Background(), model.Resort{
		Slug:      "vail",
		Name:      "Vail",
		Country:   "usa",
		StateSlug: "colorado",
	})
	require.NoError(t, err)
	// The row that already held the slug keeps its identity.
	assert.Equal(t, "existing-id", got.ID)
	assert.Equal(t, createdAt, got.CreatedAt)
	assert.Equal(t, "resorts/usa/colorado/vail", got.AssetPath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertLiftConditions_Idempotent(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	syncedAt := time.Now().UTC()
	c := model.Conditions{
		ResortID:       "r-1",
		LiftsOpen:      7,
		LiftsTotal:     31,
		LiftieSyncedAt: &syncedAt,
	}

	// Same statement, same args, twice: the second run converges on the
	// same row rather than inserting a duplicate.
	for i := 0; i < 2; i++ {
		mock.ExpectExec(`(?s)INSERT INTO resort_conditions .+ ON CONFLICT \(resort_id\) DO UPDATE SET`).
			WithArgs("r-1", 7, 31, &syncedAt, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	require.NoError(t, s.UpsertLiftConditions(context.Background(), c))
	require.NoError(t, s.UpsertLiftConditions(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteConditions(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM resort_conditions WHERE resort_id = \$1`).
		WithArgs("r-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, s.DeleteConditions(context.Background(), "r-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_MarkLost_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE resorts SET is_lost = true`).
		WithArgs(pgxmock.AnyArg(), "ghost-mountain").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.MarkLost(context.Background(), "ghost-mountain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resort not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListResorts_ExcludesLostByDefault(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{
		"id", "slug", "name", "country", "state_slug", "latitude", "longitude",
		"is_open", "is_visible", "is_active", "is_lost", "lifts_total", "runs_total",
		"vertical_m", "description", "tagline", "asset_path", "created_at", "updated_at",
	}).AddRow(
		"r-1", "vail", "Vail", "usa", "colorado", 39.6, -106.4,
		true, true, true, false, 31, 195,
		1052, "", "", "resorts/usa/colorado/vail", time.Now(), time.Now(),
	)

	mock.ExpectQuery(`(?s)SELECT .+ FROM resorts WHERE true AND is_lost = false.+ORDER BY name ASC`).
		WithArgs(500).
		WillReturnRows(rows)

	resorts, err := s.ListResorts(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, resorts, 1)
	assert.Equal(t, "vail", resorts[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetConditions_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM resort_conditions WHERE resort_id = \$1`).
		WithArgs("r-unknown").
		WillReturnError(pgx.ErrNoRows)

	c, err := s.GetConditions(context.Background(), "r-unknown")
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}
