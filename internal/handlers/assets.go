// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"partsbin/internal/imaging"
	"partsbin/web"
)

// Assets serves the stylesheet and part photo thumbnails.
type Assets struct {
	imageDir string
}

// NewAssets creates an Assets handler reading photos from imageDir.
func NewAssets(imageDir string) *Assets {
	return &Assets{imageDir: imageDir}
}

// Style serves the embedded stylesheet.
func (a *Assets) Style(w http.ResponseWriter, r *http.Request) {
	css, err := fs.ReadFile(web.StaticFS, web.StylePath)
	if err != nil {
		slog.Error("read stylesheet failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(css)
}

// Images serves photo files from the image directory. Directories are
// reported as missing, so the folder contents are never listed.
func (a *Assets) Images() http.Handler {
	return http.FileServer(filesOnly{http.Dir(a.imageDir)})
}

// filesOnly hides directories of the wrapped file system.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if fi.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

// Thumbnail serves a downscaled JPEG of a part photo. Photos that are
// already small, or that cannot be decoded, redirect to the original file.
func (a *Assets) Thumbnail(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "file")
	if !validImageName(name) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	f, err := os.Open(filepath.Join(a.imageDir, name))
	if errors.Is(err, fs.ErrNotExist) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("open image failed", "file", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	thumb, err := imaging.Thumbnail(f, imaging.ThumbWidth)
	if err != nil {
		slog.Warn("thumbnail generation failed", "file", name, "error", err)
	}
	if thumb == nil {
		http.Redirect(w, r, "/img/"+url.PathEscape(name), http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(thumb)
}

// validImageName accepts a bare file name with an image extension.
func validImageName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return false
	}
	return imaging.IsImage(name)
}
