package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// pngOf encodes a solid-colour PNG of the given size.
func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestThumbnail_Downscales(t *testing.T) {
	out, err := Thumbnail(bytes.NewReader(pngOf(t, 640, 320)), ThumbWidth)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if out == nil {
		t.Fatal("expected thumbnail bytes")
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("thumbnail is not a JPEG: %v", err)
	}
	if cfg.Width != ThumbWidth || cfg.Height != 80 {
		t.Errorf("thumbnail size = %dx%d, want %dx80", cfg.Width, cfg.Height, ThumbWidth)
	}
}

func TestThumbnail_SmallImageSkipped(t *testing.T) {
	out, err := Thumbnail(bytes.NewReader(pngOf(t, 100, 100)), ThumbWidth)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if out != nil {
		t.Error("image narrower than the limit should not be re-encoded")
	}
}

func TestThumbnail_NotAnImage(t *testing.T) {
	if _, err := Thumbnail(bytes.NewReader([]byte("plain text")), ThumbWidth); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestIsImage(t *testing.T) {
	tests := map[string]bool{
		"NE555.jpg":    true,
		"NE555.JPEG":   true,
		"led.png":      true,
		"anim.gif":     true,
		"photo.WebP":   true,
		"notes.txt":    false,
		"archive.jpg.": false,
		"noext":        false,
	}
	for name, want := range tests {
		if got := IsImage(name); got != want {
			t.Errorf("IsImage(%q) = %v, want %v", name, got, want)
		}
	}
}
