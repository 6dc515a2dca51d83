// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides access to the parts catalog document on disk.
// The catalog is read in full for every operation, mutated in memory and
// written back in full; nothing is retained between calls.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"partsbin/internal/models"
)

// DefaultLocale orders category names when no locale is configured.
var DefaultLocale = language.Polish

// CatalogStore manages the catalog document at a fixed path. A single mutex
// serializes load-mutate-save cycles so concurrent requests in one process
// cannot lose each other's writes.
type CatalogStore struct {
	mu     sync.Mutex
	path   string
	locale language.Tag
}

// NewCatalogStore returns a CatalogStore for the document at path.
func NewCatalogStore(path string, locale language.Tag) *CatalogStore {
	return &CatalogStore{path: path, locale: locale}
}

// Path returns the location of the catalog document.
func (s *CatalogStore) Path() string {
	return s.path
}

// Revision identifies the document version on disk by modification time
// and size. It changes on every rewrite, including rewrites by partsctl or
// any other process.
func (s *CatalogStore) Revision() (string, error) {
	fi, err := os.Stat(s.path)
	if err != nil {
		return "", fmt.Errorf("stat catalog: %w", err)
	}
	return strconv.FormatInt(fi.ModTime().UnixNano(), 36) + "-" + strconv.FormatInt(fi.Size(), 36), nil
}

// Load reads and parses the catalog document.
func (s *CatalogStore) Load() (models.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ReadCatalog(s.path)
}

// Save overwrites the catalog document with c.
func (s *CatalogStore) Save(c models.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteCatalog(s.path, c)
}

// Update loads the catalog, applies fn, drops empty categories and persists
// the result. Nothing is written when fn returns an error.
func (s *CatalogStore) Update(fn func(c *models.Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := ReadCatalog(s.path)
	if err != nil {
		return err
	}
	if err := fn(&c); err != nil {
		return err
	}
	c = RemoveEmptyCategories(c)
	return WriteCatalog(s.path, c)
}

// SortCategories orders categories by name using the store's locale.
func (s *CatalogStore) SortCategories(c models.Catalog) {
	SortCategories(c, s.locale)
}

// ReadCatalog reads and parses the catalog document at path. A missing or
// malformed document is an error.
func ReadCatalog(path string) (models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c models.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// WriteCatalog serializes c with two-space indentation and replaces the
// document at path.
func WriteCatalog(path string, c models.Catalog) error {
	if c == nil {
		c = models.Catalog{}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// SortCategories orders categories by name with a collator for locale.
// The sort is stable so equal names keep their relative order.
func SortCategories(c models.Catalog, locale language.Tag) {
	col := collate.New(locale)
	sort.SliceStable(c, func(i, j int) bool {
		return col.CompareString(c[i].Name, c[j].Name) < 0
	})
}

// RemoveEmptyCategories drops categories that have no items.
func RemoveEmptyCategories(c models.Catalog) models.Catalog {
	kept := c[:0]
	for _, cat := range c {
		if len(cat.Items) > 0 {
			kept = append(kept, cat)
		}
	}
	return kept
}
