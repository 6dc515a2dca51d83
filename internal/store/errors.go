// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import "errors"

var (
	// ErrPartNotFound is returned when no part has the requested ID.
	ErrPartNotFound = errors.New("part not found")
	// ErrCategoryNotFound is returned for unknown or empty categories.
	ErrCategoryNotFound = errors.New("category not found")
)

// ValidationError reports input that was rejected before touching the
// catalog. Its message is safe to show to the user.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}
