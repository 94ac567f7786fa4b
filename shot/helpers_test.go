package shot

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// gradient returns a small image whose pixels vary along one axis
func gradient(w, h int, vertical bool) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / w)
			if vertical {
				v = uint8(y * 255 / h)
			}
			img.Set(x, y, color.RGBA{R: v, G: v, B: 255 - v, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func writeJPEG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

// setupFolders creates source and destination roots with the given files
// holding fake image bytes
func setupFolders(t *testing.T, files ...string) (string, string) {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	for _, d := range []string{src, dst} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", d, err)
		}
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(src, f), []byte("content of "+f), 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", f, err)
		}
	}
	return src, dst
}
