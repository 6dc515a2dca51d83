// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package maintenance

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"partsbin/internal/imaging"
	"partsbin/internal/models"
	"partsbin/internal/slug"
	"partsbin/internal/store"
)

// diodeAlias rewrites a leading "1N" (1N4148) to "IN", the spelling often
// used in part names and photo file names.
func diodeAlias(base string) string {
	if rest, ok := strings.CutPrefix(base, "1N"); ok {
		return "IN" + rest
	}
	return base
}

// ImageIndex maps photo base names to file names. Non-image files are
// ignored; each base also registers its 1N/IN alias.
func ImageIndex(files []string) map[string]string {
	index := make(map[string]string)
	for _, f := range files {
		if !imaging.IsImage(f) {
			continue
		}
		base := strings.TrimSuffix(f, filepath.Ext(f))
		index[base] = f
		if alt := diodeAlias(base); alt != base {
			index[alt] = f
		}
	}
	return index
}

// LinkImages clears every part's image and sets it to the photo whose base
// name matches the part's sanitized name, or its 1N/IN alias. It returns
// the number of parts linked.
func LinkImages(c models.Catalog, index map[string]string) int {
	linked := 0
	for ci := range c {
		for ii := range c[ci].Items {
			part := &c[ci].Items[ii]
			part.Image = ""

			base := slug.Filename(part.Name)
			file, ok := index[base]
			if !ok {
				file, ok = index[diodeAlias(base)]
			}
			if ok {
				part.Image = file
				linked++
			}
		}
	}
	return linked
}

// LinkCatalogImages links photos from imageDir into the catalog document at
// catalogPath. A missing image directory links nothing.
func LinkCatalogImages(catalogPath, imageDir string) (int, error) {
	c, err := store.ReadCatalog(catalogPath)
	if err != nil {
		return 0, err
	}

	files, err := listFiles(imageDir)
	if err != nil {
		return 0, err
	}

	linked := LinkImages(c, ImageIndex(files))
	if err := store.WriteCatalog(catalogPath, c); err != nil {
		return 0, err
	}

	slog.Info("images linked", "catalog", catalogPath, "images", imageDir, "linked", linked)
	return linked, nil
}

// listFiles returns the regular file names in dir, sorted by name.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("image directory not found", "dir", dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	return files, nil
}
