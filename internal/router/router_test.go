package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rccc/rccc-search/internal/config"
	"github.com/rccc/rccc-search/internal/models"
	"github.com/rccc/rccc-search/internal/render"
	"github.com/rccc/rccc-search/internal/testutil"
	"github.com/rccc/rccc-search/internal/ws"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func testConfig() *config.Config {
	return &config.Config{
		EnvVars: config.EnvVars{
			PageSize:     10,
			RateLimitRPS: 100,
		},
		Sources: config.DefaultSources(),
	}
}

func setupTestRouter(t *testing.T, cfg *config.Config, cache Pinger) *gin.Engine {
	t.Helper()
	renderer, err := render.New(cfg.Sources, nil)
	if err != nil {
		t.Fatalf("render.New error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := ws.NewHub()
	go hub.Run(ctx.Done())

	fetcher := &testutil.MockFetcher{FetchFunc: func(ctx context.Context, q string) (models.ResultSet, error) {
		return models.ResultSet{testutil.TestSermon()}, nil
	}}
	return SetupRouter(ctx, cfg, Deps{
		Fetcher:    fetcher,
		Normalizer: testutil.SimplifiedToTraditional(),
		Renderer:   renderer,
		Hub:        hub,
		Cache:      cache,
	})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	r := setupTestRouter(t, testConfig(), nil)
	w := serve(r, httptest.NewRequest("GET", "/ping", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "pong") {
		t.Errorf("GET /ping = %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name   string
		cache  Pinger
		status string
	}{
		{"no cache", nil, "ok"},
		{"cache up", fakePinger{}, "ok"},
		{"cache down", fakePinger{err: errors.New("refused")}, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupTestRouter(t, testConfig(), tt.cache)
			w := serve(r, httptest.NewRequest("GET", "/healthz", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["status"] != tt.status {
				t.Errorf("status = %v, want %s", body["status"], tt.status)
			}
		})
	}
}

func TestSearchPageRoute(t *testing.T) {
	r := setupTestRouter(t, testConfig(), nil)
	w := serve(r, httptest.NewRequest("GET", "/?s=%E7%88%B1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `<mark class="keyword">愛</mark>`) {
		t.Error("page should render highlighted results")
	}
}

func TestSearchRoute_NoStore(t *testing.T) {
	r := setupTestRouter(t, testConfig(), nil)
	w := serve(r, httptest.NewRequest("GET", "/search?s=x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", w.Header().Get("Cache-Control"))
	}
}

func TestStaticRoute(t *testing.T) {
	r := setupTestRouter(t, testConfig(), nil)
	w := serve(r, httptest.NewRequest("GET", "/static/style.css", nil))
	if w.Code != http.StatusOK {
		t.Errorf("GET /static/style.css = %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.EnvVars.RateLimitRPS = 1
	r := setupTestRouter(t, cfg, nil)

	serve(r, httptest.NewRequest("GET", "/search?s=x", nil))
	w := serve(r, httptest.NewRequest("GET", "/search?s=x", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", w.Code)
	}
}

func TestCORS(t *testing.T) {
	cfg := testConfig()
	cfg.EnvVars.AllowedOrigins = []string{"https://www.rccc.org"}
	r := setupTestRouter(t, cfg, nil)

	req := httptest.NewRequest("GET", "/search?s=x", nil)
	req.Header.Set("Origin", "https://www.rccc.org")
	w := serve(r, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://www.rccc.org" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	req = httptest.NewRequest("GET", "/search?s=x", nil)
	req.Header.Set("Origin", "https://evil.example")
	if w := serve(r, req); w.Code != http.StatusForbidden {
		t.Errorf("disallowed origin status = %d, want 403", w.Code)
	}
}

func TestCheckOrigin(t *testing.T) {
	if checkOrigin(nil) != nil {
		t.Error("no allowed origins should keep the default check")
	}
	check := checkOrigin([]string{"https://www.rccc.org"})

	req := httptest.NewRequest("GET", "http://search.rccc.org/ws", nil)
	for origin, want := range map[string]bool{
		"":                       true,
		"https://www.rccc.org":   true,
		"http://search.rccc.org": true,
		"https://evil.example":   false,
	} {
		req.Header.Set("Origin", origin)
		if got := check(req); got != want {
			t.Errorf("checkOrigin(%q) = %v, want %v", origin, got, want)
		}
	}
}
