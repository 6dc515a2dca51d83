// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export flattens the parts catalog into a fixed-column CSV file.
// Image references are not exported.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"partsbin/internal/models"
	"partsbin/internal/store"
)

// Header is the first row of every export, in column order.
var Header = []string{"ID", "Name", "Quantity", "Category", "Description"}

// keyPrefix is where published exports are stored in the bucket.
const keyPrefix = "exports/"

// Publisher uploads a finished export to remote storage.
type Publisher interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
}

// Write encodes one row per part, in catalog traversal order.
func Write(w io.Writer, c models.Catalog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, cat := range c {
		for _, p := range cat.Items {
			row := []string{p.ID, p.Name, p.Quantity, p.Category, p.Description}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write part %s: %w", p.ID, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Result describes a completed export.
type Result struct {
	Path string // local file name
	URL  string // public URL when the export was published
}

// Job exports the catalog held by a store to a file, replacing any
// previous export.
type Job struct {
	store     *store.CatalogStore
	path      string
	publisher Publisher
}

// NewJob creates an export job writing to path. publisher may be nil.
func NewJob(s *store.CatalogStore, path string, publisher Publisher) *Job {
	return &Job{store: s, path: path, publisher: publisher}
}

// Path returns the output file location.
func (j *Job) Path() string {
	return j.path
}

// Run loads the catalog and writes the CSV file. Publishing failures are
// logged and do not fail the export.
func (j *Job) Run(ctx context.Context) (Result, error) {
	c, err := j.store.Load()
	if err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		return Result{}, fmt.Errorf("encode export: %w", err)
	}
	if err := store.WriteFileAtomic(j.path, buf.Bytes()); err != nil {
		return Result{}, fmt.Errorf("write export: %w", err)
	}

	res := Result{Path: filepath.Base(j.path)}
	slog.Info("catalog exported", "path", j.path, "parts", len(c.Parts()))

	if j.publisher == nil {
		return res, nil
	}
	key := keyPrefix + res.Path
	if err := j.publisher.Upload(ctx, key, "text/csv; charset=utf-8", bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != nil {
		slog.Warn("export publish failed", "key", key, "error", err)
		return res, nil
	}
	res.URL = j.publisher.FileURL(key)
	return res, nil
}
