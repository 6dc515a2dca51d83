// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the catalog pages and
// the table row fragment used for live refreshes. All catalog text passes
// through html/template contextual escaping.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"strings"

	"partsbin/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PlaceholderImage is shown for parts without a photo.
const PlaceholderImage = "/img/placeholder.png"

// CategoryLink is one entry of the index page navigation.
type CategoryLink struct {
	Name  string
	Count int
}

// IndexView holds the data for the category listing page.
type IndexView struct {
	Categories    []CategoryLink
	CategoryNames []string // suggestions for the add-part form
	ExportName    string   // file name shown on the export button
}

// CategoryView holds the data for a single category page.
type CategoryView struct {
	Name          string
	Items         []models.Part
	CategoryNames []string // suggestions for the edit form
}

// NotFoundView holds the data for the unknown category page.
type NotFoundView struct {
	Name string
}

// sharedTemplates are parsed into every page; they are not pages themselves.
var sharedTemplates = map[string]bool{
	"base.html": true,
	"rows.html": true,
}

// Renderer handles template parsing and execution.
type Renderer struct {
	pages map[string]*template.Template
	rows  *template.Template
}

// Funcs returns the template helpers shared by every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"attr":        Attr,
		"thumbURL":    ThumbURL,
		"categoryURL": CategoryURL,
	}
}

// Attr prepares a value for a data attribute: carriage returns are dropped
// and newlines become spaces. Escaping is left to html/template.
func Attr(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}

// ThumbURL returns the thumbnail URL for an image file name, or the
// placeholder when the part has no image.
func ThumbURL(image string) string {
	if image == "" {
		return PlaceholderImage
	}
	return "/thumb/" + url.PathEscape(image)
}

// CategoryURL returns the page URL for a category name.
func CategoryURL(name string) string {
	return "/category/" + url.PathEscape(name)
}

// New parses every page template from the embedded filesystem, each paired
// with the base layout and the row fragment.
func New() (*Renderer, error) {
	rn := &Renderer{pages: make(map[string]*template.Template)}

	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || sharedTemplates[name] {
			continue
		}

		tmpl, err := template.New(name).Funcs(Funcs()).ParseFS(
			templateFS, "templates/base.html", "templates/rows.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		rn.pages[strings.TrimSuffix(name, ".html")] = tmpl
	}

	rn.rows, err = template.New("rows.html").Funcs(Funcs()).ParseFS(templateFS, "templates/rows.html")
	if err != nil {
		return nil, fmt.Errorf("parse template rows.html: %w", err)
	}

	return rn, nil
}

// Index renders the category listing page.
func (rn *Renderer) Index(v IndexView) ([]byte, error) {
	return rn.page("index", v)
}

// Category renders a category page with its full parts table.
func (rn *Renderer) Category(v CategoryView) ([]byte, error) {
	return rn.page("category", v)
}

// NotFound renders the page shown for an unknown or empty category.
func (rn *Renderer) NotFound(v NotFoundView) ([]byte, error) {
	return rn.page("notfound", v)
}

// Rows renders only the table rows for the given parts.
func (rn *Renderer) Rows(items []models.Part) ([]byte, error) {
	var buf bytes.Buffer
	if err := rn.rows.ExecuteTemplate(&buf, "rows", items); err != nil {
		return nil, fmt.Errorf("render rows: %w", err)
	}
	return buf.Bytes(), nil
}

// page executes the base layout of a parsed page into a buffer, so a
// template error never leaves a half-written response.
func (rn *Renderer) page(name string, data any) ([]byte, error) {
	tmpl, ok := rn.pages[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
