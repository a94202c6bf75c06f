// Package background separates a subject from its backdrop.
//
// A Remover produces an alpha mask for a raster. The mask contract is fixed:
// exactly one *image.Alpha the size of the input. Run enforces that contract
// and applies the mask, so any model that returns a different shape is
// rejected with services.ErrUnsupportedShape before its output is used.
package background

import (
	"context"
	"fmt"
	"image"

	"silhouette/internal/services"
)

const stage = "remove_background"

// Remover produces a foreground mask for img.
type Remover interface {
	Name() string
	Remove(ctx context.Context, img *image.NRGBA) (MaskResult, error)
}

// MaskResult is the output of a background-removal model.
type MaskResult struct {
	Mask *image.Alpha
}

// Validate rejects results that do not match the input raster size.
func (r MaskResult) Validate(bounds image.Rectangle) error {
	if r.Mask == nil {
		return services.Wrap(services.ErrUnsupportedShape, stage, "validate mask", "model returned no mask", nil)
	}
	got := r.Mask.Bounds()
	if got.Dx() != bounds.Dx() || got.Dy() != bounds.Dy() {
		return services.Wrap(services.ErrUnsupportedShape, stage, "validate mask",
			fmt.Sprintf("mask is %dx%d, image is %dx%d", got.Dx(), got.Dy(), bounds.Dx(), bounds.Dy()), nil)
	}
	return nil
}

// ApplyMask returns a copy of img whose alpha is scaled by mask. The two must
// have equal dimensions; their origins may differ.
func ApplyMask(img *image.NRGBA, mask *image.Alpha) *image.NRGBA {
	bounds := img.Bounds()
	maskMin := mask.Bounds().Min
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			src := img.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			m := mask.AlphaAt(maskMin.X+x, maskMin.Y+y).A
			src.A = uint8(uint16(src.A) * uint16(m) / 255)
			out.SetNRGBA(x, y, src)
		}
	}
	return out
}

// Run invokes r, validates its mask, and returns the masked raster.
func Run(ctx context.Context, r Remover, img *image.NRGBA) (*image.NRGBA, error) {
	result, err := r.Remove(ctx, img)
	if err != nil {
		return nil, err
	}
	if err := result.Validate(img.Bounds()); err != nil {
		return nil, err
	}
	return ApplyMask(img, result.Mask), nil
}
