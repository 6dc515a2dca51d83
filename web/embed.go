// Package web provides the embedded static assets (stylesheet and client
// script) served at /style.css and /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed static
var StaticFS embed.FS

// StylePath is the stylesheet location inside StaticFS.
const StylePath = "static/style.css"
