// Package imaging turns browser snapshots into image bytes the vision engine accepts.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/saturnino-fabrica-de-software/ponto/internal/domain"
)

// Info describes a decodable image.
type Info struct {
	Format string
	Width  int
	Height int
}

// ParseDataURL extracts the payload of "data:image/...;base64,<payload>".
// Everything before the first comma is ignored.
func ParseDataURL(s string) ([]byte, error) {
	_, encoded, ok := strings.Cut(s, ",")
	if !ok {
		return nil, domain.ErrMissingField.WithError(fmt.Errorf("no image data received"))
	}

	encoded = strings.TrimSpace(encoded)
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// some clients strip the padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return nil, domain.ErrDecodeImage.WithError(fmt.Errorf("base64 payload: %w", err))
		}
	}

	if len(data) == 0 {
		return nil, domain.ErrDecodeImage.WithError(fmt.Errorf("empty image payload"))
	}

	return data, nil
}

// Sniff reads the image header and reports its format and size.
func Sniff(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, domain.ErrDecodeImage.WithError(err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return Info{}, domain.ErrDecodeImage.WithError(fmt.Errorf("empty %s image", format))
	}
	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// Normalize returns bytes and a file extension the gallery loader can read back.
// JPEG and PNG pass through untouched; gif, bmp and webp are re-encoded as PNG.
func Normalize(data []byte) ([]byte, string, error) {
	info, err := Sniff(data)
	if err != nil {
		return nil, "", err
	}

	switch info.Format {
	case "jpeg":
		return data, ".jpg", nil
	case "png":
		return data, ".png", nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", domain.ErrDecodeImage.WithError(err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", domain.ErrDecodeImage.WithError(fmt.Errorf("re-encode %s as png: %w", info.Format, err))
	}

	return buf.Bytes(), ".png", nil
}

// IsGalleryFile reports whether a file name has an extension the gallery loads.
func IsGalleryFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".jpg") ||
		strings.HasSuffix(lower, ".jpeg") ||
		strings.HasSuffix(lower, ".png")
}
