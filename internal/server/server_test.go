package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-weeks/internal/config"
	"github.com/tartampluch/go-weeks/internal/engine"
)

var testBirth = time.Date(1993, 6, 12, 0, 0, 0, 0, time.UTC)

func testSnapshot(t *testing.T, now time.Time) *engine.Snapshot {
	t.Helper()
	events := []engine.MilestoneEvent{
		{Date: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), Title: "Started college", Based: "Massachusetts"},
	}
	weeks := engine.GenerateWeeks(testBirth, events, now)
	stats, err := engine.ComputeStats(weeks, now)
	require.NoError(t, err)

	return &engine.Snapshot{
		Profile:     engine.DefaultProfile(testBirth),
		Events:      events,
		Weeks:       weeks,
		Stats:       stats,
		Calendar:    []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n"),
		GeneratedAt: now,
	}
}

func get(t *testing.T, h http.Handler, method, route string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, route, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// -----------------------------------------------------------------------------
// Handler Tests
// -----------------------------------------------------------------------------

func TestHandler_Routes(t *testing.T) {
	srv := NewWeeksServer("0")
	snap := testSnapshot(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, srv.Update(snap))
	h := srv.Handler()

	t.Run("weeks", func(t *testing.T) {
		resp := get(t, h, http.MethodGet, config.RouteWeeks, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))

		var body struct {
			Weeks []engine.Week `json:"weeks"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Weeks, config.TotalWeeks)
		assert.Equal(t, "Massachusetts", body.Weeks[2000].CurrentBased)
		assert.True(t, body.Weeks[0].IsPast)
	})

	t.Run("stats", func(t *testing.T) {
		resp := get(t, h, http.MethodGet, config.RouteStats, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body statsPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, snap.Stats, body.Stats)
		assert.Equal(t, config.DefaultProfileName, body.Profile.Name)
	})

	t.Run("calendar", func(t *testing.T) {
		resp := get(t, h, http.MethodGet, config.RouteCalendar, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
		assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
		assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
		assert.NotEmpty(t, resp.Header.Get(config.HeaderLastModified))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, snap.Calendar, body)
	})

	t.Run("head has no body", func(t *testing.T) {
		resp := get(t, h, http.MethodHead, config.RouteStats, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Empty(t, body)
	})

	t.Run("unknown route", func(t *testing.T) {
		resp := get(t, h, http.MethodGet, "/nope", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

// TestHandler_Caching covers both conditional request headers.
func TestHandler_Caching(t *testing.T) {
	srv := NewWeeksServer("0")
	require.NoError(t, srv.Update(testSnapshot(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))))
	h := srv.Handler()

	first := get(t, h, http.MethodGet, config.RouteWeeks, nil)
	etag := first.Header.Get(config.HeaderETag)
	lastMod := first.Header.Get(config.HeaderLastModified)
	require.NotEmpty(t, etag)

	resp := get(t, h, http.MethodGet, config.RouteWeeks, map[string]string{config.HeaderIfNoneMatch: etag})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body, "body must be empty on 304")

	resp = get(t, h, http.MethodGet, config.RouteWeeks, map[string]string{config.HeaderIfNoneMatch: `"stale"`})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, h, http.MethodGet, config.RouteWeeks, map[string]string{config.HeaderIfModifiedSince: lastMod})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)

	// Each route has its own validator.
	other := get(t, h, http.MethodGet, config.RouteStats, nil)
	assert.NotEqual(t, etag, other.Header.Get(config.HeaderETag))
}

func TestHandler_ETagChangesWithContent(t *testing.T) {
	srv := NewWeeksServer("0")
	h := srv.Handler()

	require.NoError(t, srv.Update(testSnapshot(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))))
	before := get(t, h, http.MethodGet, config.RouteStats, nil).Header.Get(config.HeaderETag)

	require.NoError(t, srv.Update(testSnapshot(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))))
	after := get(t, h, http.MethodGet, config.RouteStats, nil).Header.Get(config.HeaderETag)

	assert.NotEqual(t, before, after)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewWeeksServer("0")

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		resp := get(t, srv.Handler(), method, config.RouteCalendar, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
		assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
	}
}

// TestHandler_Initializing verifies the 503 before the first snapshot.
func TestHandler_Initializing(t *testing.T) {
	srv := NewWeeksServer("0")

	resp := get(t, srv.Handler(), http.MethodGet, config.RouteWeeks, nil)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

// -----------------------------------------------------------------------------
// Concurrency Tests
// -----------------------------------------------------------------------------

// TestServer_ConcurrentUpdates runs writers and readers together; meaningful
// under `go test -race`.
func TestServer_ConcurrentUpdates(t *testing.T) {
	srv := NewWeeksServer("0")
	h := srv.Handler()

	snaps := []*engine.Snapshot{
		testSnapshot(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		testSnapshot(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	var wg sync.WaitGroup
	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 3; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				if err := srv.Update(snaps[(id+i)%len(snaps)]); err != nil {
					t.Errorf("update failed: %v", err)
					return
				}
			}
		}(w)
	}

	for r := 0; r < 10; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteStats, nil))
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("unexpected status during concurrent updates: %d", w.Code)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests
// -----------------------------------------------------------------------------

func TestServer_StartRequiresPort(t *testing.T) {
	err := NewWeeksServer("").Start(context.Background())
	assert.EqualError(t, err, config.ErrPortRequired)
}

// TestServer_Lifecycle binds a real listener and checks graceful shutdown.
func TestServer_Lifecycle(t *testing.T) {
	const port = "18097"

	srv := NewWeeksServer(port)
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	url := "http://127.0.0.1:" + port + config.RouteCalendar

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 50*time.Millisecond, "server failed to listen in time")

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, srv.Update(testSnapshot(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))))

	resp, err = http.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "server should shut down gracefully")
	case <-time.After(5 * time.Second):
		t.Fatal("server shutdown timed out")
	}
}
