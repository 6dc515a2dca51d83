// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"unicode/utf8"
)

// Length limits for part fields accepted by the API.
const (
	maxNameLen        = 200
	maxCategoryLen    = 200
	maxDescriptionLen = 5_000
	maxImageLen       = 255
)

// validatePartFields checks field lengths and returns the first error found.
// Required fields are checked by the store.
func validatePartFields(name, category, description, image string) string {
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 200 characters)"
	}
	if utf8.RuneCountInString(category) > maxCategoryLen {
		return "Category is too long (max 200 characters)"
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 5,000 characters)"
	}
	if utf8.RuneCountInString(image) > maxImageLen {
		return "Image file name is too long (max 255 characters)"
	}
	return ""
}
