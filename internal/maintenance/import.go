// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package maintenance holds the offline catalog transforms run by partsctl:
// building the catalog from a CSV file and linking part photos.
package maintenance

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/language"

	"partsbin/internal/models"
	"partsbin/internal/store"
)

// DefaultCategory labels parts imported without a category.
const DefaultCategory = "Inne"

// utf8BOM is written by spreadsheet exports ahead of the header row.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// columnAliases maps accepted header names to the field they fill.
var columnAliases = map[string]string{
	"id":          "id",
	"xx":          "id",
	"name":        "name",
	"quantity":    "quantity",
	"category":    "category",
	"rodzaj":      "category",
	"description": "description",
}

// ReadCatalog parses CSV with a header row into a catalog grouped by
// category. Groups keep input order until sorted by the caller.
func ReadCatalog(r io.Reader) (models.Catalog, error) {
	br := bufio.NewReader(r)
	if b, _ := br.Peek(len(utf8BOM)); bytes.Equal(b, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int)
	for i, h := range header {
		if field, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, errors.New("csv header has no Name column")
	}

	var c models.Catalog
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if blankRecord(rec) {
			continue
		}

		cell := func(field string) string {
			i, ok := cols[field]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		category := cell("category")
		if category == "" {
			category = DefaultCategory
		}
		part := models.Part{
			ID:          cell("id"),
			Name:        cell("name"),
			Quantity:    cell("quantity"),
			Category:    category,
			Description: cell("description"),
		}

		i := c.Index(category)
		if i < 0 {
			c = append(c, models.Category{Name: category})
			i = len(c) - 1
		}
		c[i].Items = append(c[i].Items, part)
	}

	return c, nil
}

// blankRecord reports whether every cell is empty after trimming.
func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Import builds a catalog from the CSV file at csvPath, sorts categories
// with the locale collator and writes the document to outPath. It returns
// the number of imported parts.
func Import(csvPath, outPath string, locale language.Tag) (int, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	c, err := ReadCatalog(f)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", csvPath, err)
	}
	store.SortCategories(c, locale)

	if err := store.WriteCatalog(outPath, c); err != nil {
		return 0, err
	}

	n := len(c.Parts())
	slog.Info("catalog imported", "csv", csvPath, "out", outPath, "categories", len(c), "parts", n)
	return n, nil
}
