// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures persisted in the parts catalog
// document and passed between the store, renderer and handlers.
package models

import (
	"strconv"
	"strings"
)

// Part is a single inventory record. Quantity is kept as a decimal string
// because that is how the catalog document stores it.
type Part struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// NumericID returns the part ID parsed as an integer. ok is false for IDs
// that are not numeric, which are skipped when assigning new IDs.
func (p Part) NumericID() (id int, ok bool) {
	n, err := strconv.Atoi(strings.TrimSpace(p.ID))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Category is a named group of parts. Categories with no items are removed
// from the catalog after every mutation.
type Category struct {
	Name  string `json:"name"`
	Items []Part `json:"items"`
}

// Catalog is the full persisted document: categories ordered by name.
type Catalog []Category

// Index returns the position of the named category, or -1.
func (c Catalog) Index(name string) int {
	for i := range c {
		if c[i].Name == name {
			return i
		}
	}
	return -1
}

// Names returns the category names in document order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, cat := range c {
		names = append(names, cat.Name)
	}
	return names
}

// Parts flattens the catalog into one slice in traversal order.
func (c Catalog) Parts() []Part {
	var parts []Part
	for _, cat := range c {
		parts = append(parts, cat.Items...)
	}
	return parts
}
