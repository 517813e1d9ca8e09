// MoodMirror - Emotion Reaction Statistics for Interactive Installations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmirror

package api

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmirror/internal/ingest"
	"github.com/tomtom215/moodmirror/internal/models"
	"github.com/tomtom215/moodmirror/internal/rankings"
	"github.com/tomtom215/moodmirror/internal/ratelimit"
	"github.com/tomtom215/moodmirror/internal/rotation"
	"github.com/tomtom215/moodmirror/internal/store"
)

const frogReaction = `{"content_id":"frog01","session_id":"kiosk-1","happy":0.8,"sad":0.05,"angry":0.05,"disgusted":0,"fearful":0,"surprised":0.1,"dominant_emotion":"happy","user_confirmed":true}`

type testEnv struct {
	mem     *store.Memory
	handler http.Handler
}

func testManifest() *models.ContentManifest {
	return &models.ContentManifest{
		Version: 1,
		Items: []models.ContentItem{
			{ID: "frog01", Filename: "frog01.gif", Type: models.ContentTypeAnimated},
			{ID: "cat02", Filename: "cat02.png", Type: models.ContentTypeImage},
			{ID: "owl03", Filename: "owl03.webp", Type: models.ContentTypeImage},
		},
	}
}

func newTestEnv(t *testing.T, manifest *models.ContentManifest) *testEnv {
	t.Helper()
	mem := store.NewMemory()
	h := NewHandler(HandlerDeps{
		Gateway:  ingest.NewGateway(mem, ratelimit.NewFixedWindow(10, time.Minute)),
		Rankings: rankings.NewService(mem, manifest),
		Selector: rotation.NewSelector(rand.NewPCG(1, 2)),
		Manifest: manifest,
		Store:    mem,
	})
	return &testEnv{mem: mem, handler: NewRouter(h, nil).SetupChi()}
}

func (e *testEnv) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) APIResponse {
	t.Helper()
	var raw struct {
		APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("decode data %s: %v", raw.Data, err)
		}
	}
	return raw.APIResponse
}

func TestSubmitReactionResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"accepted", http.MethodPost, frogReaction, http.StatusOK, `{"success":true}`},
		{"bad json", http.MethodPost, `{"content_id":`, http.StatusBadRequest, `{"error":"Invalid JSON"}`},
		{"unknown emotion", http.MethodPost, strings.Replace(frogReaction, `"dominant_emotion":"happy"`, `"dominant_emotion":"ecstatic"`, 1), http.StatusBadRequest, `{"error":"Invalid dominant_emotion"}`},
		{"bad score", http.MethodPost, strings.Replace(frogReaction, `"sad":0.05`, `"sad":7`, 1), http.StatusBadRequest, `{"error":"Invalid score: sad"}`},
		{"get", http.MethodGet, "", http.StatusMethodNotAllowed, `{"error":"Method not allowed"}`},
		{"oversized", http.MethodPost, `{"content_id":"` + strings.Repeat("x", 70<<10) + `"}`, http.StatusBadRequest, `{"error":"Invalid JSON"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)
			rec := env.do(tt.method, ReactionsPath, tt.body)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Errorf("Access-Control-Allow-Origin = %q", got)
			}
			if got := rec.Header().Get("Content-Type"); got != "application/json" {
				t.Errorf("Content-Type = %q", got)
			}
		})
	}
}

func TestSubmitReactionPreflight(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	for _, path := range []string{ReactionsPath, LegacyReactionPath} {
		rec := env.do(http.MethodOptions, path, "",
			"Origin", "https://kiosk.example",
			"Access-Control-Request-Method", "POST")

		if rec.Code != http.StatusNoContent {
			t.Errorf("%s: status = %d", path, rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("%s: body = %q", path, rec.Body.String())
		}
		want := map[string]string{
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "POST, OPTIONS",
			"Access-Control-Allow-Headers": "Content-Type, Authorization",
		}
		for k, v := range want {
			if got := rec.Header().Get(k); got != v {
				t.Errorf("%s: %s = %q, want %q", path, k, got, v)
			}
		}
	}
}

func TestSubmitReactionRateLimit(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	for i := 1; i <= 10; i++ {
		if rec := env.do(http.MethodPost, ReactionsPath, frogReaction, "X-Forwarded-For", "203.0.113.5"); rec.Code != http.StatusOK {
			t.Fatalf("submission %d: status %d", i, rec.Code)
		}
	}
	rec := env.do(http.MethodPost, LegacyReactionPath, frogReaction, "X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	if rec.Code != http.StatusTooManyRequests || !strings.Contains(rec.Body.String(), "Rate limit exceeded") {
		t.Errorf("11th submission: %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(http.MethodPost, ReactionsPath, frogReaction, "X-Forwarded-For", "198.51.100.1"); rec.Code != http.StatusOK {
		t.Errorf("other source: status %d", rec.Code)
	}
}

func TestSubmitReactionStorageFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.mem.FailWith(errors.New("disk full"))

	rec := env.do(http.MethodPost, ReactionsPath, frogReaction)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"Failed to save reaction"}` {
		t.Errorf("body = %s", got)
	}
}

func TestSubmitThenStats(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testManifest())
	if rec := env.do(http.MethodPost, ReactionsPath, frogReaction); rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}

	rec := env.do(http.MethodGet, "/api/v1/content/frog01/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: %d", rec.Code)
	}
	var stats models.RankingAggregate
	resp := decodeEnvelope(t, rec, &stats)
	if !resp.Success || stats.TotalReactions != 1 || stats.AvgHappy <= 0 {
		t.Errorf("stats = %+v (success=%v)", stats, resp.Success)
	}

	rec = env.do(http.MethodGet, "/api/v1/content/ghost/stats", "")
	if !strings.Contains(rec.Body.String(), `"data":null`) {
		t.Errorf("unknown item body = %s", rec.Body.String())
	}
}

func TestContentRank(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testManifest())
	env.do(http.MethodPost, ReactionsPath, frogReaction)

	rec := env.do(http.MethodGet, "/api/v1/content/frog01/rank?emotion=happy", "")
	var res models.CollectiveResult
	decodeEnvelope(t, rec, &res)
	if rec.Code != http.StatusOK || res.Rank != 1 || res.First {
		t.Errorf("rank = %d %+v", rec.Code, res)
	}

	rec = env.do(http.MethodGet, "/api/v1/content/owl03/rank?emotion=sad", "")
	res = models.CollectiveResult{}
	decodeEnvelope(t, rec, &res)
	if !res.First {
		t.Errorf("owl03 = %+v, want first", res)
	}

	rec = env.do(http.MethodGet, "/api/v1/content/frog01/rank?emotion=ecstatic", "")
	resp := decodeEnvelope(t, rec, nil)
	if rec.Code != http.StatusBadRequest || resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("invalid emotion: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRankingsEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testManifest())
	env.do(http.MethodPost, ReactionsPath, frogReaction)
	env.do(http.MethodPost, ReactionsPath, strings.Replace(frogReaction, `"user_confirmed":true`, `"user_confirmed":false`, 1))
	env.do(http.MethodPost, ReactionsPath, strings.Replace(strings.Replace(frogReaction, "frog01", "cat02", 1), `"user_confirmed":true`, `"user_confirmed":null`, 1))

	var weighted []models.DashboardEntry
	rec := env.do(http.MethodGet, "/api/v1/rankings", "")
	resp := decodeEnvelope(t, rec, &weighted)
	if rec.Code != http.StatusOK || len(weighted) != 2 {
		t.Fatalf("weighted: %d %s", rec.Code, rec.Body.String())
	}
	if weighted[0].ContentID != "frog01" || weighted[0].TotalReactions != 2 || weighted[0].Filename != "frog01.gif" {
		t.Errorf("weighted[0] = %+v", weighted[0])
	}
	if resp.Meta == nil || resp.Meta.Count == nil || *resp.Meta.Count != 2 {
		t.Errorf("meta = %+v", resp.Meta)
	}

	var confirmed []models.DashboardEntry
	decodeEnvelope(t, env.do(http.MethodGet, "/api/v1/rankings?mode=confirmed&sort=happy", ""), &confirmed)
	if len(confirmed) != 1 || confirmed[0].TotalReactions != 1 {
		t.Errorf("confirmed = %+v", confirmed)
	}

	for _, q := range []string{"mode=everything", "sort=ecstatic", "sort=unsure"} {
		rec := env.do(http.MethodGet, "/api/v1/rankings?"+q, "")
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), ErrCodeValidationFailed) {
			t.Errorf("%s: %d %s", q, rec.Code, rec.Body.String())
		}
	}
}

func TestNextContentCycles(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testManifest())
	seen := map[string]bool{}
	shown := []string{}
	for i := 0; i < 3; i++ {
		body, _ := json.Marshal(NextContentRequest{Shown: shown})
		rec := env.do(http.MethodPost, "/api/v1/content/next", string(body))
		if rec.Code != http.StatusOK {
			t.Fatalf("next %d: %d %s", i, rec.Code, rec.Body.String())
		}
		var next NextContentResponse
		decodeEnvelope(t, rec, &next)
		if seen[next.Item.ID] {
			t.Fatalf("item %s repeated before exhaustion", next.Item.ID)
		}
		seen[next.Item.ID] = true
		shown = next.Shown
	}
	if len(shown) != 3 {
		t.Errorf("shown = %v", shown)
	}

	rec := env.do(http.MethodPost, "/api/v1/content/next", `{"shown":["frog01","cat02","owl03"]}`)
	var next NextContentResponse
	decodeEnvelope(t, rec, &next)
	if len(next.Shown) != 1 || next.Shown[0] != next.Item.ID {
		t.Errorf("after reset shown = %v, item = %s", next.Shown, next.Item.ID)
	}
}

func TestNextContentErrors(t *testing.T) {
	t.Parallel()

	empty := newTestEnv(t, nil)
	rec := empty.do(http.MethodPost, "/api/v1/content/next", "")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), ErrCodeNoContent) {
		t.Errorf("no manifest: %d %s", rec.Code, rec.Body.String())
	}

	env := newTestEnv(t, testManifest())
	if rec := env.do(http.MethodPost, "/api/v1/content/next", `{"shown":`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad json: %d", rec.Code)
	}
}

func TestManifestEndpoint(t *testing.T) {
	t.Parallel()

	if rec := newTestEnv(t, nil).do(http.MethodGet, "/api/v1/manifest", ""); rec.Code != http.StatusNotFound {
		t.Errorf("nil manifest: %d", rec.Code)
	}

	var m models.ContentManifest
	rec := newTestEnv(t, testManifest()).do(http.MethodGet, "/api/v1/manifest", "")
	decodeEnvelope(t, rec, &m)
	if rec.Code != http.StatusOK || m.Len() != 3 {
		t.Errorf("manifest: %d, %d items", rec.Code, m.Len())
	}
}

func TestHealthProbes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	if rec := env.do(http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("live: %d", rec.Code)
	}
	if rec := env.do(http.MethodGet, "/api/v1/health/ready", ""); rec.Code != http.StatusOK {
		t.Errorf("ready: %d", rec.Code)
	}

	env.mem.FailWith(errors.New("down"))
	if rec := env.do(http.MethodGet, "/api/v1/health/ready", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready with failing store: %d", rec.Code)
	}
	if rec := env.do(http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("live with failing store: %d", rec.Code)
	}
}

func TestReadRoutesHeaders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testManifest())
	rec := env.do(http.MethodGet, "/api/v1/rankings", "", "X-Request-ID", "abc-123")
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	resp := decodeEnvelope(t, rec, nil)
	if resp.Meta == nil || resp.Meta.RequestID != "abc-123" {
		t.Errorf("meta = %+v", resp.Meta)
	}

	preflight := env.do(http.MethodOptions, "/api/v1/rankings", "",
		"Origin", "https://dashboard.example",
		"Access-Control-Request-Method", "GET")
	if got := preflight.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Errorf("read preflight not answered: %d %v", preflight.Code, preflight.Header())
	}
}

func TestReadRateLimit(t *testing.T) {
	t.Parallel()

	mem := store.NewMemory()
	h := NewHandler(HandlerDeps{
		Gateway:  ingest.NewGateway(mem, ratelimit.NewFixedWindow(10, time.Minute)),
		Rankings: rankings.NewService(mem, nil),
		Selector: rotation.NewSelector(rand.NewPCG(1, 2)),
		Store:    mem,
	})
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	srv := NewRouter(h, NewChiMiddleware(cfg)).SetupChi()

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rankings", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		last = httptest.NewRecorder()
		srv.ServeHTTP(last, req)
	}
	if last.Code != http.StatusTooManyRequests || !strings.Contains(last.Body.String(), ErrCodeTooManyRequests) {
		t.Errorf("third read: %d %s", last.Code, last.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.do(http.MethodPost, ReactionsPath, frogReaction)
	rec := env.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "reactions_accepted_total") {
		t.Errorf("metrics: %d", rec.Code)
	}
}
