// Package raster decodes submitted images, normalizes them to NRGBA, and
// encodes intermediate rasters as PNG.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"silhouette/internal/services"
)

const stage = "load"

var errEmpty = errors.New("empty image data")

var extensions = []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tif", ".tiff", ".webp"}

// Extensions returns the file extensions Decode understands.
func Extensions() []string {
	cp := make([]string, len(extensions))
	copy(cp, extensions)
	return cp
}

// Supported reports whether name carries a decodable image extension.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// Decode parses data in any registered format and returns an NRGBA copy whose
// bounds start at the origin, along with the detected format name.
func Decode(data []byte) (*image.NRGBA, string, error) {
	if len(data) == 0 {
		return nil, "", services.Wrap(services.ErrDecode, stage, "decode", "", errEmpty)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", services.Wrap(services.ErrDecode, stage, "decode", "", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, format, services.Wrap(services.ErrDecode, stage, "decode", "image has no pixels", nil)
	}
	return imaging.Clone(img), format, nil
}

// Fit downsizes img so neither side exceeds maxDimension, keeping the aspect
// ratio. Images already within bounds are returned unchanged.
func Fit(img *image.NRGBA, maxDimension int) *image.NRGBA {
	if img == nil || maxDimension <= 0 {
		return img
	}
	bounds := img.Bounds()
	if bounds.Dx() <= maxDimension && bounds.Dy() <= maxDimension {
		return img
	}
	return imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
}

// EncodePNG encodes img losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
