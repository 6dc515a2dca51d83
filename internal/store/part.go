// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"partsbin/internal/models"
)

// imageDirPrefix matches a leading "img/" or "img\" that users paste in
// front of image file names.
var imageDirPrefix = regexp.MustCompile(`^img[/\\]+`)

// NewPart holds the fields accepted when creating a part.
type NewPart struct {
	Name        string
	Category    string
	Description string
	Image       string
}

// PartPatch lists the fields to change on an existing part. Nil fields are
// left untouched.
type PartPatch struct {
	Description *string
	Image       *string
	Category    *string
}

// FindPart locates the part with the given ID. It returns the category and
// item indexes, or ok=false when no part matches.
func FindPart(c models.Catalog, id string) (catIdx, itemIdx int, ok bool) {
	id = strings.TrimSpace(id)
	for i := range c {
		for j := range c[i].Items {
			if strings.TrimSpace(c[i].Items[j].ID) == id {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

// NextID returns one more than the largest numeric part ID, or "1" for a
// catalog without numeric IDs. Gaps left by deletion are not filled.
func NextID(c models.Catalog) string {
	maxID := 0
	for _, cat := range c {
		for _, p := range cat.Items {
			if n, ok := p.NumericID(); ok && n > maxID {
				maxID = n
			}
		}
	}
	return strconv.Itoa(maxID + 1)
}

// CleanImage trims an image reference and strips a leading image
// directory prefix.
func CleanImage(s string) string {
	return imageDirPrefix.ReplaceAllString(strings.TrimSpace(s), "")
}

// Category returns the named category. Unknown and empty categories both
// yield ErrCategoryNotFound.
func (s *CatalogStore) Category(name string) (*models.Category, error) {
	c, err := s.Load()
	if err != nil {
		return nil, err
	}
	i := c.Index(name)
	if i < 0 || len(c[i].Items) == 0 {
		return nil, ErrCategoryNotFound
	}
	return &c[i], nil
}

// CreatePart validates in, assigns the next ID and appends the part to its
// category, creating the category in sorted position if needed.
func (s *CatalogStore) CreatePart(in NewPart) (models.Part, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	if name == "" {
		return models.Part{}, invalid("Name is required")
	}
	if category == "" {
		return models.Part{}, invalid("Category is required")
	}

	var created models.Part
	err := s.Update(func(c *models.Catalog) error {
		for _, p := range c.Parts() {
			if strings.EqualFold(strings.TrimSpace(p.Name), name) {
				return invalid("A part with this name already exists")
			}
		}

		created = models.Part{
			ID:          NextID(*c),
			Name:        name,
			Quantity:    "0",
			Category:    category,
			Description: strings.TrimSpace(in.Description),
			Image:       CleanImage(in.Image),
		}
		s.appendToCategory(c, created)
		return nil
	})
	if err != nil {
		return models.Part{}, err
	}
	return created, nil
}

// UpdatePart applies patch to the part with the given ID. A non-blank
// category different from the current one moves the part to the end of the
// target category.
func (s *CatalogStore) UpdatePart(id string, patch PartPatch) error {
	if strings.TrimSpace(id) == "" {
		return invalid("Missing part id")
	}

	return s.Update(func(c *models.Catalog) error {
		ci, ii, ok := FindPart(*c, id)
		if !ok {
			return ErrPartNotFound
		}
		part := &(*c)[ci].Items[ii]

		if patch.Description != nil {
			part.Description = *patch.Description
		}
		if patch.Image != nil {
			part.Image = CleanImage(*patch.Image)
		}

		if patch.Category == nil {
			return nil
		}
		target := strings.TrimSpace(*patch.Category)
		if target == "" || target == (*c)[ci].Name {
			return nil
		}

		moved := *part
		moved.Category = target
		(*c)[ci].Items = slices.Delete((*c)[ci].Items, ii, ii+1)
		s.appendToCategory(c, moved)
		return nil
	})
}

// DeletePart removes the part with the given ID from its category.
func (s *CatalogStore) DeletePart(id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("Missing part id")
	}

	return s.Update(func(c *models.Catalog) error {
		ci, ii, ok := FindPart(*c, id)
		if !ok {
			return ErrPartNotFound
		}
		(*c)[ci].Items = slices.Delete((*c)[ci].Items, ii, ii+1)
		return nil
	})
}

// SetQuantity stores qty as the part's quantity.
func (s *CatalogStore) SetQuantity(id string, qty int) error {
	if strings.TrimSpace(id) == "" || qty < 0 {
		return invalid("Invalid part id or quantity")
	}

	return s.Update(func(c *models.Catalog) error {
		ci, ii, ok := FindPart(*c, id)
		if !ok {
			return ErrPartNotFound
		}
		(*c)[ci].Items[ii].Quantity = strconv.Itoa(qty)
		return nil
	})
}

// appendToCategory adds p to the end of its category, inserting a new
// category and re-sorting when none exists yet.
func (s *CatalogStore) appendToCategory(c *models.Catalog, p models.Part) {
	i := c.Index(p.Category)
	if i < 0 {
		*c = append(*c, models.Category{Name: p.Category})
		s.SortCategories(*c)
		i = c.Index(p.Category)
	}
	(*c)[i].Items = append((*c)[i].Items, p)
}
