// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/dataset"
	"github.com/tomtom215/resonance/internal/middleware"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/recommend/algorithms"
)

// stubSource serves fixed records, or err when set.
type stubSource struct {
	mu      sync.Mutex
	records *dataset.Records
	err     error
}

func (s *stubSource) Load(context.Context) (*dataset.Records, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubSource) set(records *dataset.Records, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records, s.err = records, err
}

func scenarioRecords() *dataset.Records {
	return &dataset.Records{
		Items: []recommend.ItemRecord{
			{ID: "1", Title: "Space Adventure", Genre: "Sci-Fi", UpvoteCount: 10, Metadata: map[string]string{"thumbnail_url": "https://img/1.png"}},
			{ID: "2", Title: "Space Odyssey", Genre: "Sci-Fi", UpvoteCount: 5},
			{ID: "3", Title: "Cooking Basics", Genre: "Food"},
		},
		Viewed: []recommend.InteractionRecord{
			{Username: "alice", ItemID: "1"}, {Username: "alice", ItemID: "2"},
			{Username: "bob", ItemID: "1"}, {Username: "bob", ItemID: "2"},
			{Username: "carol", ItemID: "3"},
		},
	}
}

type testServer struct {
	handler http.Handler
	engine  *recommend.Engine
	store   *dataset.Store
	source  *stubSource
}

// newTestServer builds the full router over a real engine and store. The
// dataset is loaded unless load is false.
func newTestServer(t *testing.T, load bool) *testServer {
	t.Helper()

	cfg := recommend.DefaultConfig()
	content, err := algorithms.NewContentBased(cfg.Content, cfg.Workers)
	if err != nil {
		t.Fatalf("NewContentBased() error = %v", err)
	}
	engine, err := recommend.NewEngine(cfg, zerolog.Nop(), content, algorithms.NewUserBasedCF(cfg.Collaborative, cfg.Workers))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	source := &stubSource{records: scenarioRecords()}
	store := dataset.NewStore(source, engine, dataset.StoreConfig{
		Breaker: dataset.BreakerConfig{MaxFailures: 100, Timeout: time.Minute},
	}, zerolog.Nop())
	if load {
		if _, err := store.Reload(context.Background(), dataset.TriggerStartup); err != nil {
			t.Fatalf("Reload() error = %v", err)
		}
	}

	handler := NewHandler(engine, store, middleware.NewPerformanceMonitor(100, time.Minute), "test")
	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitDisabled:  true,
	})
	return &testServer{
		handler: NewRouter(handler, mw, 5*time.Second).Setup(),
		engine:  engine,
		store:   store,
		source:  source,
	}
}

func (s *testServer) do(t *testing.T, method, target string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var resp models.APIResponse
	if rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode %s %s: %v\n%s", method, target, err, rec.Body.String())
		}
	}
	return rec, resp
}

// decodeData re-decodes the envelope data field into out.
func decodeData(t *testing.T, resp models.APIResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func itemIDs(items []models.RecommendedItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRecommendationEndpoints(t *testing.T) {
	srv := newTestServer(t, true)

	tests := []struct {
		name     string
		target   string
		strategy string
		want     []string
		noSignal bool
		topN     int
	}{
		{"content", "/api/v1/recommendations/content/1", "content", []string{"2", "3"}, false, 5},
		{"content top_n", "/api/v1/recommendations/content/1?top_n=1", "content", []string{"2"}, false, 1},
		{"collaborative", "/api/v1/recommendations/collaborative/alice?top_n=1", "collaborative", []string{"1"}, false, 1},
		{"collaborative no signal", "/api/v1/recommendations/collaborative/dave", "collaborative", []string{}, true, 5},
		{"hybrid falls back to content", "/api/v1/recommendations/hybrid?username=dave&item_id=1", "hybrid", []string{"2", "3"}, false, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := srv.do(t, http.MethodGet, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}
			if resp.Status != "success" {
				t.Errorf("envelope status = %q", resp.Status)
			}
			if resp.Metadata.DatasetKey == "" {
				t.Error("metadata.dataset_key is empty")
			}
			if resp.Metadata.RequestID == "" || rec.Header().Get("X-Request-ID") != resp.Metadata.RequestID {
				t.Errorf("request id header %q != metadata %q", rec.Header().Get("X-Request-ID"), resp.Metadata.RequestID)
			}

			var data models.RecommendationsResponse
			decodeData(t, resp, &data)
			if data.Strategy != tt.strategy {
				t.Errorf("strategy = %q, want %q", data.Strategy, tt.strategy)
			}
			if got := itemIDs(data.Items); !equalIDs(got, tt.want) {
				t.Errorf("items = %v, want %v", got, tt.want)
			}
			if data.Count != len(tt.want) {
				t.Errorf("count = %d, want %d", data.Count, len(tt.want))
			}
			if data.NoSignal != tt.noSignal {
				t.Errorf("no_signal = %v, want %v", data.NoSignal, tt.noSignal)
			}
			if data.TopN != tt.topN {
				t.Errorf("top_n = %d, want %d", data.TopN, tt.topN)
			}
		})
	}
}

func TestContentRecommendations_ItemPayload(t *testing.T) {
	srv := newTestServer(t, true)

	_, resp := srv.do(t, http.MethodGet, "/api/v1/recommendations/content/2?top_n=1")
	var data models.RecommendationsResponse
	decodeData(t, resp, &data)

	if len(data.Items) != 1 {
		t.Fatalf("items = %+v, want one item", data.Items)
	}
	got := data.Items[0]
	if got.ID != "1" || got.Title != "Space Adventure" || got.Genre != "Sci-Fi" {
		t.Errorf("item = %+v", got)
	}
	if got.Signals.Upvotes != 1 {
		t.Errorf("signals.upvotes = %v, want 1", got.Signals.Upvotes)
	}
	if got.Metadata["thumbnail_url"] != "https://img/1.png" {
		t.Errorf("metadata = %v", got.Metadata)
	}
}

func TestRecommendationEndpoints_Errors(t *testing.T) {
	srv := newTestServer(t, true)

	tests := []struct {
		name   string
		target string
		status int
		code   string
	}{
		{"unknown item", "/api/v1/recommendations/content/42", http.StatusNotFound, models.ErrCodeNotFound},
		{"non-numeric top_n", "/api/v1/recommendations/content/1?top_n=abc", http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"negative top_n", "/api/v1/recommendations/collaborative/alice?top_n=-1", http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"top_n above max", "/api/v1/recommendations/content/1?top_n=101", http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"hybrid missing username", "/api/v1/recommendations/hybrid?item_id=1", http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"hybrid blank item", "/api/v1/recommendations/hybrid?username=alice&item_id=%20", http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"hybrid unknown item", "/api/v1/recommendations/hybrid?username=alice&item_id=42", http.StatusNotFound, models.ErrCodeNotFound},
		{"unknown route", "/api/v1/nothing", http.StatusNotFound, models.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := srv.do(t, http.MethodGet, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if resp.Status != "error" || resp.Error == nil {
				t.Fatalf("envelope = %+v, want error", resp)
			}
			if resp.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.code)
			}
		})
	}
}

func TestRespondDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid input", &recommend.InvalidInputError{Field: "top_n", Reason: "must be positive"}, http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"not found", &recommend.NotFoundError{ItemID: "42"}, http.StatusNotFound, models.ErrCodeNotFound},
		{"not loaded", dataset.ErrNotLoaded, http.StatusServiceUnavailable, models.ErrCodeDatasetUnavailable},
		{"deadline", fmt.Errorf("build snapshot: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, models.ErrCodeRequestTimeout},
		{"canceled", fmt.Errorf("build snapshot: %w", context.Canceled), http.StatusServiceUnavailable, models.ErrCodeRequestCanceled},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, models.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/content/1", nil)
			rec := httptest.NewRecorder()

			respondDomainError(rec, req, tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var resp models.APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %q", resp.Error, tt.code)
			}
		})
	}
}

func TestRecommendationEndpoints_DatasetNotLoaded(t *testing.T) {
	srv := newTestServer(t, false)

	for _, target := range []string{
		"/api/v1/recommendations/content/1",
		"/api/v1/recommendations/collaborative/alice",
		"/api/v1/recommendations/hybrid?username=alice&item_id=1",
	} {
		rec, resp := srv.do(t, http.MethodGet, target)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: status = %d, want 503", target, rec.Code)
			continue
		}
		if resp.Error == nil || resp.Error.Code != models.ErrCodeDatasetUnavailable {
			t.Errorf("%s: error = %+v", target, resp.Error)
		}
	}
}

func TestRecommendationStatus(t *testing.T) {
	srv := newTestServer(t, true)
	srv.do(t, http.MethodGet, "/api/v1/recommendations/content/1")
	srv.do(t, http.MethodGet, "/api/v1/recommendations/collaborative/dave")

	rec, resp := srv.do(t, http.MethodGet, "/api/v1/recommendations/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var data models.StatusResponse
	decodeData(t, resp, &data)

	if !data.Dataset.Loaded || data.Dataset.Items != 3 || data.Dataset.Users != 3 || data.Dataset.Viewed != 5 {
		t.Errorf("dataset = %+v", data.Dataset)
	}
	if data.Dataset.BreakerState != "closed" {
		t.Errorf("breaker_state = %q, want closed", data.Dataset.BreakerState)
	}
	if data.Engine.Requests != 2 || data.Engine.NoSignal != 1 || data.Engine.Builds != 1 {
		t.Errorf("engine = %+v", data.Engine)
	}
	if data.Engine.DefaultTopN != recommend.DefaultTopN {
		t.Errorf("default_top_n = %d", data.Engine.DefaultTopN)
	}
	if data.Engine.Content == "" || data.Engine.Collaborative == "" {
		t.Errorf("algorithm names missing: %+v", data.Engine)
	}

	found := false
	for _, route := range data.Routes {
		if route.Route == "/api/v1/recommendations/content/{itemID}" && route.Requests == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("routes = %+v, want content route with 1 request", data.Routes)
	}
}

func TestReloadDataset(t *testing.T) {
	srv := newTestServer(t, true)
	before := srv.store.Current().Key()

	t.Run("unchanged", func(t *testing.T) {
		rec, resp := srv.do(t, http.MethodPost, "/api/v1/dataset/reload")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		var data models.ReloadResponse
		decodeData(t, resp, &data)
		if data.Changed || data.Key != before.String() {
			t.Errorf("reload = %+v, want unchanged %s", data, before)
		}
	})

	t.Run("changed", func(t *testing.T) {
		records := scenarioRecords()
		records.Items = append(records.Items, recommend.ItemRecord{ID: "4", Title: "Space Cooking", Genre: "Food"})
		srv.source.set(records, nil)

		rec, resp := srv.do(t, http.MethodPost, "/api/v1/dataset/reload")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		var data models.ReloadResponse
		decodeData(t, resp, &data)
		if !data.Changed || data.PreviousKey != before.String() || data.Items != 4 {
			t.Errorf("reload = %+v", data)
		}

		_, resp = srv.do(t, http.MethodGet, "/api/v1/recommendations/content/4")
		var recs models.RecommendationsResponse
		decodeData(t, resp, &recs)
		if recs.Count != 3 {
			t.Errorf("new item recommendations = %v, want 3 items", itemIDs(recs.Items))
		}
	})

	t.Run("invalid content", func(t *testing.T) {
		records := scenarioRecords()
		records.Items = append(records.Items, recommend.ItemRecord{ID: "1", Title: "Duplicate"})
		srv.source.set(records, nil)

		rec, resp := srv.do(t, http.MethodPost, "/api/v1/dataset/reload")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
		}
		if resp.Error == nil || resp.Error.Code != models.ErrCodeInvalidInput {
			t.Errorf("error = %+v", resp.Error)
		}
	})

	t.Run("source failure keeps serving", func(t *testing.T) {
		srv.source.set(nil, errors.New("disk gone"))
		current := srv.store.Current().Key()

		rec, resp := srv.do(t, http.MethodPost, "/api/v1/dataset/reload")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
		if resp.Error == nil || resp.Error.Code != models.ErrCodeDatasetUnavailable {
			t.Errorf("error = %+v", resp.Error)
		}
		if srv.store.Current().Key() != current {
			t.Error("failed reload replaced the dataset")
		}
	})

	t.Run("GET not allowed", func(t *testing.T) {
		rec, _ := srv.do(t, http.MethodGet, "/api/v1/dataset/reload")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("not loaded", func(t *testing.T) {
		srv := newTestServer(t, false)

		rec, _ := srv.do(t, http.MethodGet, "/api/v1/health/live")
		if rec.Code != http.StatusOK {
			t.Errorf("live status = %d, want 200", rec.Code)
		}

		rec, resp := srv.do(t, http.MethodGet, "/api/v1/health/ready")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("ready status = %d, want 503", rec.Code)
		}
		if resp.Error == nil || resp.Error.Code != models.ErrCodeDatasetUnavailable {
			t.Errorf("ready error = %+v", resp.Error)
		}
	})

	t.Run("loaded", func(t *testing.T) {
		srv := newTestServer(t, true)

		rec, resp := srv.do(t, http.MethodGet, "/api/v1/health/ready")
		if rec.Code != http.StatusOK {
			t.Fatalf("ready status = %d, want 200", rec.Code)
		}
		var health models.HealthResponse
		decodeData(t, resp, &health)
		if health.Status != "ready" || !health.DatasetLoaded || health.Version != "test" {
			t.Errorf("health = %+v", health)
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Error("security headers missing")
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, true)
	srv.do(t, http.MethodGet, "/api/v1/recommendations/content/1")

	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"resonance_api_requests_total", "resonance_recommend_requests_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("/metrics missing %s", name)
		}
	}
}
