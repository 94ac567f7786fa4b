package shot

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
)

// DecodeImage decodes a png, jpeg, gif or bmp file
func DecodeImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// convertToPNG decodes src and writes it to dst as a real PNG
func convertToPNG(src, dst string) error {
	img, _, err := DecodeImage(src)
	if err != nil {
		return err
	}

	fi, err := os.Stat(src)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}
