// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns part names into filesystem-safe base names used to
// match photos in the image directory.
package slug

import (
	"regexp"
	"strings"
)

// MaxLen caps the length of a generated file name.
const MaxLen = 80

// Unnamed is returned when nothing usable is left of the input.
const Unnamed = "unnamed"

// polishFold maps Polish letters with diacritics to their ASCII base letter.
var polishFold = strings.NewReplacer(
	"ą", "a", "Ą", "A",
	"ć", "c", "Ć", "C",
	"ę", "e", "Ę", "E",
	"ł", "l", "Ł", "L",
	"ń", "n", "Ń", "N",
	"ó", "o", "Ó", "O",
	"ś", "s", "Ś", "S",
	"ź", "z", "Ź", "Z",
	"ż", "z", "Ż", "Z",
)

var (
	// whitespace matches runs of ASCII and Unicode spaces.
	whitespace = regexp.MustCompile(`[\s\p{Z}\x{FEFF}]+`)
	// disallowed matches anything outside letters, digits, underscore and hyphen.
	disallowed = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)
	// multipleUnderscores collapses consecutive underscores into one.
	multipleUnderscores = regexp.MustCompile(`_+`)
)

// Filename converts a part name into a base file name.
// Example: "Dioda Zenera 5,1V" → "Dioda_Zenera_51V"
func Filename(name string) string {
	s := strings.TrimSpace(name)
	s = polishFold.Replace(s)
	s = whitespace.ReplaceAllString(s, "_")
	s = disallowed.ReplaceAllString(s, "")
	s = multipleUnderscores.ReplaceAllString(s, "_")
	s = strings.TrimPrefix(s, "_")
	s = strings.TrimSuffix(s, "_")
	if len(s) > MaxLen {
		s = s[:MaxLen]
	}
	if s == "" {
		return Unnamed
	}
	return s
}
