package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type dbPingerMock struct {
	err error
}

func (m *dbPingerMock) Ping(_ context.Context) error {
	return m.err
}

type cacheStatsMock struct {
	n int
}

func (m *cacheStatsMock) Len() int { return m.n }

type searchStatsMock struct {
	count uint64
	err   error
}

func (m *searchStatsMock) DocCount(_ context.Context) (uint64, error) {
	return m.count, m.err
}

func newHealthHandler(dbErr, searchErr error) *HealthHandler {
	return NewHealthHandler(
		&dbPingerMock{err: dbErr},
		&cacheStatsMock{n: 3},
		&searchStatsMock{count: 12, err: searchErr},
		"test-version",
	)
}

func TestLive_Always200(t *testing.T) {
	t.Parallel()

	h := newHealthHandler(errors.New("db down"), nil)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	rec := httptest.NewRecorder()

	h.Live(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
	if resp.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestReady_DBUp(t *testing.T) {
	t.Parallel()

	h := newHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()

	h.Ready(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestReady_DBDown(t *testing.T) {
	t.Parallel()

	h := newHealthHandler(errors.New("connection refused"), nil)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()

	h.Ready(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestHealth_AllComponents(t *testing.T) {
	t.Parallel()

	h := newHealthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Version != "test-version" {
		t.Errorf("expected version, got %q", resp.Version)
	}
	for _, name := range []string{"database", "cache", "search"} {
		if resp.Components[name].Status != "ok" {
			t.Errorf("expected component %s ok, got %q", name, resp.Components[name].Status)
		}
	}
}

func TestHealth_SearchDownStaysUp(t *testing.T) {
	t.Parallel()

	h := newHealthHandler(nil, errors.New("index closed"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("search is advisory, expected status 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Components["search"].Status != "down" {
		t.Errorf("expected search component down, got %q", resp.Components["search"].Status)
	}
}

func TestHealth_DBDown503(t *testing.T) {
	t.Parallel()

	h := newHealthHandler(errors.New("connection refused"), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}
