package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/MrSnakeDoc/navdeck/internal/catalog"
	"github.com/MrSnakeDoc/navdeck/internal/config"
	"github.com/MrSnakeDoc/navdeck/internal/httpserver/deps"
	"github.com/MrSnakeDoc/navdeck/internal/logger"
	"github.com/MrSnakeDoc/navdeck/internal/scheduler"
	"github.com/MrSnakeDoc/navdeck/internal/sources/notion"
)

const (
	linkID   = "aaaaaaaa-0000-0000-0000-000000000001"
	configID = "aaaaaaaa-0000-0000-0000-000000000002"
)

const linkPages = `{
	"results": [
		{"id": "l1", "last_edited_time": "2024-01-01T00:00:00.000Z", "properties": {
			"Name":     {"type": "title", "title": [{"plain_text": "Wiki"}]},
			"URL":      {"type": "url", "url": "https://wiki.lan"},
			"Category": {"type": "select", "select": {"name": "Docs"}},
			"Roles":    {"type": "multi_select", "multi_select": [{"name": "admin"}, {"name": "guest"}]}
		}},
		{"id": "l2", "last_edited_time": "2024-01-02T00:00:00.000Z", "properties": {
			"Name":     {"type": "title", "title": [{"plain_text": "Vault"}]},
			"URL":      {"type": "url", "url": "https://vault.lan"},
			"Category": {"type": "select", "select": {"name": "Ops"}},
			"Roles":    {"type": "multi_select", "multi_select": [{"name": "admin"}]}
		}},
		{"id": "l3", "object": "page"}
	],
	"has_more": false,
	"next_cursor": null
}`

const linkDatabase = `{
	"id": "` + linkID + `",
	"title": [{"plain_text": "Home Lab"}],
	"icon": {"type": "emoji", "emoji": "🏠"},
	"properties": {
		"Category": {"id": "c", "name": "Category", "type": "select",
			"select": {"options": [{"name": "Ops"}, {"name": "Docs"}]}}
	}
}`

const configPages = `{
	"results": [
		{"id": "s1", "properties": {
			"Name":  {"type": "title", "title": [{"plain_text": "siteTitle"}]},
			"Type":  {"type": "select", "select": {"name": "site"}},
			"Value": {"type": "rich_text", "rich_text": [{"plain_text": "My Deck"}]}
		}},
		{"id": "c1", "properties": {
			"Name":  {"type": "title", "title": [{"plain_text": "Docs"}]},
			"Type":  {"type": "select", "select": {"name": "category"}},
			"Order": {"type": "number", "number": 1}
		}}
	],
	"has_more": false,
	"next_cursor": null
}`

// upstream fakes the two databases of the Notion API.
func upstream(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/databases/"+linkID+"/query":
			_, _ = io.WriteString(w, linkPages)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/databases/"+configID+"/query":
			_, _ = io.WriteString(w, configPages)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/databases/"+linkID:
			_, _ = io.WriteString(w, linkDatabase)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"object":"error","code":"object_not_found","message":"not found"}`)
		}
	}
}

type testEnv struct {
	router  http.Handler
	trigger chan struct{}
}

func newTestEnv(t *testing.T, api http.HandlerFunc, mutate func(*config.Config)) testEnv {
	t.Helper()

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Environment:            "development",
		NotionToken:            "secret-token",
		NotionDatabaseID:       linkID,
		NotionConfigDatabaseID: configID,
		FetchTimeout:           5 * time.Second,
		RateLimitBurst:         1000,
		RateLimitPerMin:        1000,
	}
	if mutate != nil {
		mutate(cfg)
	}

	log := logger.NewNop()
	trigger := make(chan struct{}, 1)
	schemas := scheduler.NewSchemaReloader("", log, 0, trigger)
	if err := schemas.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	client := notion.NewClient(notion.ClientOptions{
		BaseURL:    srv.URL,
		Token:      cfg.NotionToken,
		HTTPClient: srv.Client(),
	}, log)
	svc := catalog.New(
		notion.NewFetcher(client, notion.RetryPolicy{}, log),
		schemas,
		nil,
		catalog.Options{
			LinkSourceID:   cfg.LinkSourceID(),
			ConfigSourceID: cfg.NotionConfigDatabaseID,
			Timeout:        cfg.FetchTimeout,
		},
		log,
	)

	d := deps.Deps{
		Logger:        log,
		StartTime:     time.Now(),
		Version:       "test",
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		Config:        cfg,
		Catalog:       svc,
		Schemas:       schemas,
		ReloadTrigger: trigger,
	}
	return testEnv{router: NewRouter(cfg, log, d), trigger: trigger}
}

func (e testEnv) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, r)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: invalid JSON %q: %v", method, target, rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func TestMenuRoute(t *testing.T) {
	env := newTestEnv(t, upstream(t), nil)

	code, body := env.do(t, http.MethodGet, "/menu", "")
	if code != http.StatusOK {
		t.Fatalf("GET /menu status = %d, body = %v", code, body)
	}

	items, _ := body["menuItems"].([]any)
	if len(items) != 2 {
		t.Errorf("menuItems = %d entries, want 2 (partial record skipped)", len(items))
	}
	wantMeta := map[string]any{"title": "Home Lab", "icon": "🏠", "cover": ""}
	if diff := cmp.Diff(wantMeta, body["databaseMetadata"]); diff != "" {
		t.Errorf("databaseMetadata mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"Ops", "Docs"}, body["categoryOrder"]); diff != "" {
		t.Errorf("categoryOrder mismatch (-want +got):\n%s", diff)
	}
}

func TestMenuRouteErrors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		mutate   func(*config.Config)
		wantCode int
		wantErr  string
	}{
		{"no source", "/menu", func(c *config.Config) { c.NotionDatabaseID = "" }, http.StatusBadRequest, "Database ID is required"},
		{"malformed source", "/menu?databaseId=not_an_id", nil, http.StatusBadRequest, "Database ID is required"},
		{"short hex source", "/menu?databaseId=deadbeef", nil, http.StatusBadRequest, "Database ID is required"},
		{"unknown source", "/menu?pageId=" + configID[:35] + "9", nil, http.StatusInternalServerError, "Failed to fetch data from Notion"},
		{"config missing", "/config", func(c *config.Config) { c.NotionConfigDatabaseID = "" }, http.StatusBadRequest, "Config database ID is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, upstream(t), tt.mutate)
			code, body := env.do(t, http.MethodGet, tt.target, "")
			if code != tt.wantCode {
				t.Errorf("status = %d, want %d", code, tt.wantCode)
			}
			if body["error"] != tt.wantErr {
				t.Errorf("error = %v, want %q", body["error"], tt.wantErr)
			}
		})
	}
}

func TestConfigRoute(t *testing.T) {
	env := newTestEnv(t, upstream(t), nil)

	code, body := env.do(t, http.MethodGet, "/config", "")
	if code != http.StatusOK {
		t.Fatalf("GET /config status = %d, body = %v", code, body)
	}
	if diff := cmp.Diff(map[string]any{"siteTitle": "My Deck"}, body["siteConfig"]); diff != "" {
		t.Errorf("siteConfig mismatch (-want +got):\n%s", diff)
	}
	if cats, _ := body["categories"].([]any); len(cats) != 1 {
		t.Errorf("categories = %v, want 1 entry", body["categories"])
	}
}

func TestRolesAndAuthRoutes(t *testing.T) {
	env := newTestEnv(t, upstream(t), nil)

	code, body := env.do(t, http.MethodGet, "/roles", "")
	if code != http.StatusOK {
		t.Fatalf("GET /roles status = %d", code)
	}
	if diff := cmp.Diff([]any{"admin", "guest"}, body["roles"]); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
	if body["totalCount"] != float64(2) {
		t.Errorf("totalCount = %v, want 2", body["totalCount"])
	}

	tests := []struct {
		body     string
		wantCode int
		wantErr  string
	}{
		{`{"password":"admin"}`, http.StatusOK, ""},
		{`{"password":"Admin"}`, http.StatusUnauthorized, "Invalid password"},
		{`{}`, http.StatusBadRequest, "Password is required"},
		{`not json`, http.StatusBadRequest, "Invalid request body"},
	}
	for _, tt := range tests {
		code, body := env.do(t, http.MethodPost, "/auth", tt.body)
		if code != tt.wantCode {
			t.Errorf("POST /auth %s status = %d, want %d", tt.body, code, tt.wantCode)
		}
		if tt.wantErr != "" && body["error"] != tt.wantErr {
			t.Errorf("POST /auth %s error = %v, want %q", tt.body, body["error"], tt.wantErr)
		}
		if tt.wantCode == http.StatusOK && (body["role"] != "admin" || body["success"] != true) {
			t.Errorf("POST /auth %s body = %v", tt.body, body)
		}
	}
}

func TestViewRoute(t *testing.T) {
	env := newTestEnv(t, upstream(t), nil)

	code, body := env.do(t, http.MethodGet, "/view?role=admin", "")
	if code != http.StatusOK {
		t.Fatalf("GET /view status = %d, body = %v", code, body)
	}
	if body["mode"] != "hierarchical" {
		t.Errorf("mode = %v, want hierarchical", body["mode"])
	}
	// Vault sits in "Ops", which the config source does not declare.
	unmatched, _ := body["unmatchedItems"].([]any)
	if len(unmatched) != 1 {
		t.Errorf("unmatchedItems = %v, want 1 entry", body["unmatchedItems"])
	}

	code, body = env.do(t, http.MethodGet, "/view", "")
	if code != http.StatusOK {
		t.Fatalf("GET /view status = %d", code)
	}
	if _, ok := body["unmatchedItems"]; ok {
		t.Errorf("guest view has unmatched items: %v", body["unmatchedItems"])
	}
}

func TestOpsRoutes(t *testing.T) {
	env := newTestEnv(t, upstream(t), nil)

	if code, body := env.do(t, http.MethodGet, "/healthz", ""); code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("GET /healthz = %d %v", code, body)
	}
	if code, body := env.do(t, http.MethodGet, "/readyz", ""); code != http.StatusOK || body["ready"] != true {
		t.Errorf("GET /readyz = %d %v", code, body)
	}

	code, body := env.do(t, http.MethodGet, "/infra", "")
	if code != http.StatusOK {
		t.Fatalf("GET /infra status = %d", code)
	}
	if body["status"] != "degraded" {
		t.Errorf("infra status = %v, want degraded without redis", body["status"])
	}

	code, body = env.do(t, http.MethodGet, "/env-check", "")
	if code != http.StatusOK {
		t.Fatalf("GET /env-check status = %d", code)
	}
	raw, _ := json.Marshal(body)
	if strings.Contains(string(raw), "secret-token") || strings.Contains(string(raw), linkID) {
		t.Errorf("env-check leaks configuration values: %s", raw)
	}
}

func TestReadyzNotReady(t *testing.T) {
	env := newTestEnv(t, upstream(t), func(c *config.Config) { c.NotionToken = "" })

	code, body := env.do(t, http.MethodGet, "/readyz", "")
	if code != http.StatusServiceUnavailable || body["ready"] != false {
		t.Errorf("GET /readyz = %d %v, want 503 not ready", code, body)
	}
}

func TestReloadRoute(t *testing.T) {
	env := newTestEnv(t, upstream(t), nil)

	if code, _ := env.do(t, http.MethodPost, "/reload", ""); code != http.StatusAccepted {
		t.Errorf("first POST /reload = %d, want %d", code, http.StatusAccepted)
	}
	if code, _ := env.do(t, http.MethodPost, "/reload", ""); code != http.StatusTooManyRequests {
		t.Errorf("second POST /reload = %d, want %d", code, http.StatusTooManyRequests)
	}
	<-env.trigger
}

func TestOpsRoutesCIDRGated(t *testing.T) {
	env := newTestEnv(t, upstream(t), func(c *config.Config) {
		c.AllowedCIDRS = []string{"10.0.0.0/8"}
	})

	// httptest requests come from 192.0.2.1.
	for _, path := range []string{"/healthz", "/readyz", "/infra", "/env-check"} {
		if code, _ := env.do(t, http.MethodGet, path, ""); code != http.StatusForbidden {
			t.Errorf("GET %s = %d, want %d", path, code, http.StatusForbidden)
		}
	}
	if code, _ := env.do(t, http.MethodGet, "/roles", ""); code != http.StatusOK {
		t.Errorf("GET /roles = %d, want %d", code, http.StatusOK)
	}
}
