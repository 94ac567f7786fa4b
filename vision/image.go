package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
)

// DefaultMaxEdge is the longest image edge uploaded by default
const DefaultMaxEdge = 1024

// prepareImage returns the bytes and MIME type to upload for path.
// PNG and JPEG files that already fit are sent as-is; everything else is
// decoded, shrunk to fit maxEdge and re-encoded as PNG.
func prepareImage(path string, maxEdge int) ([]byte, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image header: %w", err)
	}

	fits := maxEdge <= 0 || (cfg.Width <= maxEdge && cfg.Height <= maxEdge)
	if fits {
		switch format {
		case "png":
			return raw, "image/png", nil
		case "jpeg":
			return raw, "image/jpeg", nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if !fits {
		img = resize.Thumbnail(uint(maxEdge), uint(maxEdge), img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), "image/png", nil
}
