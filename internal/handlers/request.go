// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"partsbin/internal/store"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 20

// flexString accepts a JSON string or number and keeps its text. Null and
// absent fields leave it unset.
type flexString struct {
	value string
	set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = flexString{}
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString{value: s, set: true}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*f = flexString{value: n.String(), set: true}
		return nil
	}
}

// String returns the text, or "" when unset.
func (f flexString) String() string {
	return f.value
}

// Ptr returns nil when the field was absent or null.
func (f flexString) Ptr() *string {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

// decodeBody parses a JSON request body into T. A malformed body yields
// the zero value, so it fails the same validation as an empty one.
func decodeBody[T any](r *http.Request) T {
	var v T
	if r.Body == nil {
		return v
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&v); err != nil {
		if !errors.Is(err, io.EOF) {
			slog.Debug("ignoring malformed request body", "path", r.URL.Path, "error", err)
		}
		var zero T
		return zero
	}
	return v
}

// pathParam returns a decoded URL parameter. chi matches against the raw
// path when the request carries escaped slashes or similar, in which case
// the captured value is still percent-encoded.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeAPIError writes a JSON error response for API operations.
func writeAPIError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

// writeStoreError maps a catalog error to its HTTP status.
func writeStoreError(w http.ResponseWriter, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		writeAPIError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, store.ErrPartNotFound):
		writeAPIError(w, "Part not found", http.StatusNotFound)
	case errors.Is(err, store.ErrCategoryNotFound):
		writeAPIError(w, "Category not found", http.StatusNotFound)
	default:
		slog.Error("catalog operation failed", "error", err)
		writeAPIError(w, err.Error(), http.StatusInternalServerError)
	}
}

// trimmed is a shorthand used when comparing request identifiers.
func trimmed(f flexString) string {
	return strings.TrimSpace(f.value)
}
