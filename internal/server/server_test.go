package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powderlines/resort-cli/internal/model"
	"github.com/powderlines/resort-cli/internal/store"
)

const testToken = "test-admin-token"

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	srv := httptest.NewServer(New(st, Options{AdminToken: testToken}).Router())
	t.Cleanup(srv.Close)
	return srv, st
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeData[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env.Data
}

func seed(t *testing.T, st store.Store, r model.Resort) *model.Resort {
	t.Helper()
	r.IsActive = true
	r.IsVisible = true
	created, err := st.UpsertResort(context.Background(), r)
	require.NoError(t, err)
	return created
}

func TestHealth_Unauthenticated(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuth_MissingHeader(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/resorts", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var env struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, http.StatusUnauthorized, env.Error.Code)
}

func TestAuth_WrongToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/resorts", "wrong", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestResorts_CreateAndGet(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/resorts", testToken, model.Resort{
		Name: "Val-d'Isère", Country: "france", StateSlug: "savoie", IsActive: true, IsVisible: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeData[model.Resort](t, resp)
	// The slug is derived from the name when absent.
	assert.Equal(t, "val-d-isere", created.Slug)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/resorts/val-d-isere", testToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeData[model.Resort](t, resp)
	assert.Equal(t, created.ID, got.ID)
}

func TestResorts_GetMissing(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/resorts/nope", testToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResorts_DeleteIsSoft(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st, model.Resort{Slug: "vail", Name: "Vail", Country: "usa", StateSlug: "colorado"})

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/resorts/vail", testToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The row survives; default listing just no longer shows it.
	r, err := st.GetResortBySlug(context.Background(), "vail")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, model.StatusLost, r.Status())

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/resorts", testToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decodeData[[]model.Resort](t, resp)
	assert.Empty(t, listed)
}

func TestConditions_PutAndGet(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st, model.Resort{Slug: "vail", Name: "Vail", Country: "usa", StateSlug: "colorado"})

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/resorts/vail/conditions", testToken, model.Conditions{
		LiftsOpen: 12, LiftsTotal: 31, WeatherSummary: "snow",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/resorts/vail/conditions", testToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeData[model.Conditions](t, resp)
	assert.Equal(t, 12, got.LiftsOpen)
	assert.Equal(t, "snow", got.WeatherSummary)
}

func TestConditions_GetMissing(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st, model.Resort{Slug: "vail", Name: "Vail", Country: "usa", StateSlug: "colorado"})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/resorts/vail/conditions", testToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNearby_SortedByDistance(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st, model.Resort{Slug: "vail", Name: "Vail", Country: "usa", StateSlug: "colorado",
		Latitude: 39.6403, Longitude: -106.3742})
	seed(t, st, model.Resort{Slug: "beaver-creek", Name: "Beaver Creek", Country: "usa", StateSlug: "colorado",
		Latitude: 39.6042, Longitude: -106.5165})
	seed(t, st, model.Resort{Slug: "alta", Name: "Alta", Country: "usa", StateSlug: "utah",
		Latitude: 40.5884, Longitude: -111.6386})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/resorts/vail/nearby?max_miles=50", testToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	neighbors := decodeData[[]struct {
		Resort model.Resort `json:"resort"`
		Miles  float64      `json:"miles"`
	}](t, resp)
	require.Len(t, neighbors, 1)
	assert.Equal(t, "beaver-creek", neighbors[0].Resort.Slug)
	assert.Less(t, neighbors[0].Miles, 50.0)
}

func TestNearby_BadParams(t *testing.T) {
	srv, st := newTestServer(t)
	seed(t, st, model.Resort{Slug: "vail", Name: "Vail", Country: "usa", StateSlug: "colorado"})

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/resorts/vail/nearby?max_miles=-2", testToken, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
