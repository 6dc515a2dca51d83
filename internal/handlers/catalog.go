// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"path/filepath"
	"strconv"

	"partsbin/internal/cache"
	"partsbin/internal/export"
	"partsbin/internal/models"
	"partsbin/internal/render"
	"partsbin/internal/store"
)

// Catalog groups the page and JSON API handlers over the parts catalog.
// Rendered pages are kept in the Valkey page cache under the revision of the
// document they were rendered from; every successful mutation also clears it.
type Catalog struct {
	store     *store.CatalogStore
	renderer  *render.Renderer
	pageCache *cache.PageCache
	exporter  *export.Job
}

// NewCatalog creates a new Catalog handler group. pageCache may be nil.
func NewCatalog(s *store.CatalogStore, renderer *render.Renderer, pageCache *cache.PageCache, exporter *export.Job) *Catalog {
	return &Catalog{
		store:     s,
		renderer:  renderer,
		pageCache: pageCache,
		exporter:  exporter,
	}
}

// Index renders the category listing with part counts.
func (h *Catalog) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Without a revision the cache is bypassed and Load reports the error.
	rev, revErr := h.store.Revision()
	if revErr == nil {
		if cached, ok := h.pageCache.Get(ctx, cache.IndexKey(rev)); ok {
			writeHTML(w, http.StatusOK, cached)
			return
		}
	}

	c, err := h.store.Load()
	if err != nil {
		slog.Error("load catalog failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	links := make([]render.CategoryLink, 0, len(c))
	for _, cat := range c {
		links = append(links, render.CategoryLink{Name: cat.Name, Count: len(cat.Items)})
	}

	html, err := h.renderer.Index(render.IndexView{
		Categories:    links,
		CategoryNames: c.Names(),
		ExportName:    filepath.Base(h.exporter.Path()),
	})
	if err != nil {
		slog.Error("render index failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if revErr == nil {
		h.cachePage(ctx, rev, cache.IndexKey(rev), html)
	}
	writeHTML(w, http.StatusOK, html)
}

// CategoryPage renders every part of one category. Unknown and empty
// categories get the not-found page.
func (h *Catalog) CategoryPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := pathParam(r, "name")

	rev, revErr := h.store.Revision()
	if revErr == nil {
		if cached, ok := h.pageCache.Get(ctx, cache.CategoryKey(rev, name)); ok {
			writeHTML(w, http.StatusOK, cached)
			return
		}
	}

	c, err := h.store.Load()
	if err != nil {
		slog.Error("load catalog failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	i := c.Index(name)
	if i < 0 || len(c[i].Items) == 0 {
		html, err := h.renderer.NotFound(render.NotFoundView{Name: name})
		if err != nil {
			slog.Error("render not found page failed", "error", err)
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		writeHTML(w, http.StatusNotFound, html)
		return
	}

	html, err := h.renderer.Category(render.CategoryView{
		Name:          c[i].Name,
		Items:         c[i].Items,
		CategoryNames: c.Names(),
	})
	if err != nil {
		slog.Error("render category failed", "category", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if revErr == nil {
		h.cachePage(ctx, rev, cache.CategoryKey(rev, name), html)
	}
	writeHTML(w, http.StatusOK, html)
}

// cachePage stores a page rendered from revision rev unless the document
// has been rewritten since, so a render that raced a write is never kept.
func (h *Catalog) cachePage(ctx context.Context, rev, key string, html []byte) {
	if h.pageCache == nil {
		return
	}
	if now, err := h.store.Revision(); err != nil || now != rev {
		return
	}
	h.pageCache.Set(ctx, key, html)
}

// categoryItemsResponse is the JSON shape of GET /api/category/{name}.
type categoryItemsResponse struct {
	CategoryName string        `json:"categoryName"`
	Items        []models.Part `json:"items"`
}

// CategoryItems returns the parts of one category as JSON.
func (h *Catalog) CategoryItems(w http.ResponseWriter, r *http.Request) {
	cat, err := h.store.Category(pathParam(r, "name"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryItemsResponse{CategoryName: cat.Name, Items: cat.Items})
}

// CategoryRows returns the table rows of one category for a live refresh.
// Unknown and empty categories answer 404 with an empty body.
func (h *Catalog) CategoryRows(w http.ResponseWriter, r *http.Request) {
	cat, err := h.store.Category(pathParam(r, "name"))
	if errors.Is(err, store.ErrCategoryNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("load catalog failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := h.renderer.Rows(cat.Items)
	if err != nil {
		slog.Error("render rows failed", "category", cat.Name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

type quantityRequest struct {
	ID       flexString `json:"id"`
	Quantity flexString `json:"quantity"`
}

// SetQuantity stores a new quantity for a part.
func (h *Catalog) SetQuantity(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[quantityRequest](r)

	qty, ok := parseQuantity(trimmed(req.Quantity))
	if trimmed(req.ID) == "" || !ok {
		writeAPIError(w, "Invalid part id or quantity", http.StatusBadRequest)
		return
	}

	if err := h.store.SetQuantity(req.ID.String(), qty); err != nil {
		writeStoreError(w, err)
		return
	}

	h.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "quantity": qty})
}

// maxQuantity is the largest integer a JSON number holds exactly.
const maxQuantity = 1<<53 - 1

// parseQuantity accepts any numeric text with a non-negative integral
// value, so "5", "5.0" and "1e2" are all valid.
func parseQuantity(s string) (int, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < 0 || f > maxQuantity || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

type updatePartRequest struct {
	ID          flexString `json:"id"`
	Description flexString `json:"description"`
	Image       flexString `json:"image"`
	Category    flexString `json:"category"`
}

// UpdatePart edits a part's description or image, or moves it to another
// category.
func (h *Catalog) UpdatePart(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[updatePartRequest](r)
	if msg := validatePartFields("", req.Category.String(), req.Description.String(), req.Image.String()); msg != "" {
		writeAPIError(w, msg, http.StatusBadRequest)
		return
	}

	err := h.store.UpdatePart(req.ID.String(), store.PartPatch{
		Description: req.Description.Ptr(),
		Image:       req.Image.Ptr(),
		Category:    req.Category.Ptr(),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type deletePartRequest struct {
	ID flexString `json:"id"`
}

// DeletePart removes a part; a category left empty disappears with it.
func (h *Catalog) DeletePart(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[deletePartRequest](r)

	if err := h.store.DeletePart(req.ID.String()); err != nil {
		writeStoreError(w, err)
		return
	}

	h.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type createPartRequest struct {
	Name        flexString `json:"name"`
	Category    flexString `json:"category"`
	Description flexString `json:"description"`
	Image       flexString `json:"image"`
}

// CreatePart adds a new part with quantity zero.
func (h *Catalog) CreatePart(w http.ResponseWriter, r *http.Request) {
	req := decodeBody[createPartRequest](r)
	if msg := validatePartFields(req.Name.String(), req.Category.String(), req.Description.String(), req.Image.String()); msg != "" {
		writeAPIError(w, msg, http.StatusBadRequest)
		return
	}

	part, err := h.store.CreatePart(store.NewPart{
		Name:        req.Name.String(),
		Category:    req.Category.String(),
		Description: req.Description.String(),
		Image:       req.Image.String(),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.Info("part created", "id", part.ID, "name", part.Name, "category", part.Category)
	h.pageCache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": part.ID, "category": part.Category})
}

type exportResponse struct {
	OK   bool   `json:"ok"`
	Path string `json:"path"`
	URL  string `json:"url,omitempty"`
}

// GenerateCSV writes the export file and, when storage is configured,
// publishes it.
func (h *Catalog) GenerateCSV(w http.ResponseWriter, r *http.Request) {
	res, err := h.exporter.Run(r.Context())
	if err != nil {
		slog.Error("export failed", "error", err)
		writeAPIError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, exportResponse{OK: true, Path: res.Path, URL: res.URL})
}

// writeHTML writes an HTML response body.
func writeHTML(w http.ResponseWriter, status int, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(html)
}
