package background

import (
	"context"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/lucasb-eyer/go-colorful"

	"silhouette/internal/services"
)

// ChromaOptions tunes the border-keyed remover.
type ChromaOptions struct {
	// Tolerance is the Lab distance (0-100 scale) under which a pixel is background.
	Tolerance float64
	// Softness widens the ramp from background to foreground above Tolerance.
	Softness float64
	// BlurSigma smooths the mask before thresholding. Zero disables blurring.
	BlurSigma float64
}

const (
	maskFloor   = 16
	maskCeiling = 239
)

// ChromaRemover keys out the colour that dominates the image border. It works
// offline and suits product shots on a plain backdrop.
type ChromaRemover struct {
	opts ChromaOptions
}

// NewChromaRemover builds a remover with opts.
func NewChromaRemover(opts ChromaOptions) *ChromaRemover {
	if opts.Tolerance < 0 {
		opts.Tolerance = 0
	}
	if opts.Softness < 0 {
		opts.Softness = 0
	}
	return &ChromaRemover{opts: opts}
}

func (r *ChromaRemover) Name() string { return "chroma" }

func (r *ChromaRemover) Remove(ctx context.Context, img *image.NRGBA) (MaskResult, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return MaskResult{}, services.Wrap(services.ErrInference, stage, "estimate backdrop", "image has no border pixels", nil)
	}
	backdrop := borderMean(img)

	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return MaskResult{}, err
		}
		for x := 0; x < w; x++ {
			px := img.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			distance := toColorful(px).DistanceLab(backdrop) * 100
			gray.SetGray(x, y, color.Gray{Y: r.ramp(distance)})
		}
	}

	var smoothed image.Image = gray
	if r.opts.BlurSigma > 0 {
		smoothed = blur.Gaussian(gray, r.opts.BlurSigma)
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := color.GrayModel.Convert(smoothed.At(x, y)).(color.Gray).Y
			switch {
			case v <= maskFloor:
				v = 0
			case v >= maskCeiling:
				v = 255
			}
			mask.SetAlpha(x, y, color.Alpha{A: v})
		}
	}
	return MaskResult{Mask: mask}, nil
}

func (r *ChromaRemover) ramp(distance float64) uint8 {
	if distance <= r.opts.Tolerance {
		return 0
	}
	if r.opts.Softness == 0 || distance >= r.opts.Tolerance+r.opts.Softness {
		return 255
	}
	return uint8(255 * (distance - r.opts.Tolerance) / r.opts.Softness)
}

// borderMean averages the outermost ring of pixels in Lab space.
func borderMean(img *image.NRGBA) colorful.Color {
	bounds := img.Bounds()
	var l, a, b float64
	var n int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if y != bounds.Min.Y && y != bounds.Max.Y-1 && x != bounds.Min.X && x != bounds.Max.X-1 {
				continue
			}
			pl, pa, pb := toColorful(img.NRGBAAt(x, y)).Lab()
			l += pl
			a += pa
			b += pb
			n++
		}
	}
	count := float64(n)
	return colorful.Lab(l/count, a/count, b/count)
}

func toColorful(c color.NRGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}
