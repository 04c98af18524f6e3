package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func testFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		Timeout:      5 * time.Second,
		MaxRetries:   3,
		RateLimiters: map[string]*rate.Limiter{},
	})
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "resort-cli/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"name":"Vail","open":7}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
		Open int    `json:"open"`
	}
	err := testFetcher().GetJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, "Vail", out.Name)
	assert.Equal(t, 7, out.Open)
}

func TestGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testFetcher().Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetNotFoundNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testFetcher().Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, err := testFetcher().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetJSONMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := testFetcher().GetJSON(context.Background(), srv.URL, &out)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDefaultRateLimitersMediaWikiSpacing(t *testing.T) {
	lims := DefaultRateLimiters()
	wiki, ok := lims["en.wikipedia.org"]
	require.True(t, ok)

	// 2 rps with burst 1 enforces >=500 ms between successive calls.
	assert.Equal(t, rate.Limit(2), wiki.Limit())
	assert.Equal(t, 1, wiki.Burst())
}
