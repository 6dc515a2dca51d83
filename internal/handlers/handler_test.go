// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Every test works on its own catalog file in a temporary directory; the
// Valkey-backed tests are skipped when Valkey is unavailable.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"partsbin/internal/cache"
	"partsbin/internal/export"
	"partsbin/internal/models"
	"partsbin/internal/render"
	"partsbin/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// sampleCatalog returns the catalog every handler test starts from.
func sampleCatalog() models.Catalog {
	return models.Catalog{
		{Name: "Kondensatory", Items: []models.Part{
			{ID: "3", Name: "100nF", Quantity: "50", Category: "Kondensatory", Description: "ceramic"},
			{ID: "7", Name: "10uF", Quantity: "12", Category: "Kondensatory"},
		}},
		{Name: "Rezystory", Items: []models.Part{
			{ID: "1", Name: "10k", Quantity: "100", Category: "Rezystory", Description: "1/4W", Image: "rezystor_10k.jpg"},
		}},
	}
}

// testEnv bundles a catalog handler with the store behind it.
type testEnv struct {
	dir     string
	store   *store.CatalogStore
	handler *Catalog
	csvPath string
}

// newTestEnv writes sampleCatalog to a temp file and wires a Catalog
// handler without a page cache.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCache(t, nil)
}

func newTestEnvWithCache(t *testing.T, pc *cache.PageCache) *testEnv {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "parts.json")
	if err := store.WriteCatalog(path, sampleCatalog()); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	rn, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	s := store.NewCatalogStore(path, store.DefaultLocale)
	csvPath := filepath.Join(dir, "ElectronicParts.csv")
	job := export.NewJob(s, csvPath, nil)

	return &testEnv{
		dir:     dir,
		store:   s,
		handler: NewCatalog(s, rn, pc, job),
		csvPath: csvPath,
	}
}

// testPageCache returns a page cache on Valkey DB 15.
// Skips if Valkey is unavailable.
func testPageCache(t *testing.T) *cache.PageCache {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	pc := cache.NewPageCache(client, time.Minute)
	pc.InvalidateAll(ctx)
	t.Cleanup(func() {
		pc.InvalidateAll(ctx)
		client.Close()
	})
	return pc
}

// mustLoad reads the catalog the handler persisted.
func (e *testEnv) mustLoad(t *testing.T) models.Catalog {
	t.Helper()
	c, err := e.store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

// findPart returns the persisted part with the given ID.
func (e *testEnv) findPart(t *testing.T, id string) (models.Part, bool) {
	t.Helper()
	c := e.mustLoad(t)
	ci, ii, ok := store.FindPart(c, id)
	if !ok {
		return models.Part{}, false
	}
	return c[ci].Items[ii], true
}

// withChiURLParam adds a chi URL parameter to the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request carrying a raw JSON body.
func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeJSON parses a JSON response body into a generic map.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return out
}
