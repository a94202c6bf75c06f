package vectorize

import "image"

// Point is a pixel coordinate relative to the image origin.
type Point struct {
	X int
	Y int
}

// Region is a set of connected foreground pixels in discovery order.
type Region []Point

// Options tunes region extraction and rendering.
type Options struct {
	// AlphaThreshold marks a pixel as foreground when its alpha is strictly above it.
	AlphaThreshold uint8
	// SeedStride spaces the grid of flood-fill seeds in both axes.
	SeedStride int
	// MaxRegionSize caps how many pixels one region may hold. Zero means no cap.
	MaxRegionSize int
	// MinRegionSize discards regions with fewer pixels.
	MinRegionSize int
	// Fill is the SVG fill colour shared by every path.
	Fill string
}

// DefaultOptions returns the stock extraction parameters.
func DefaultOptions() Options {
	return Options{
		AlphaThreshold: 128,
		SeedStride:     4,
		MaxRegionSize:  100,
		MinRegionSize:  10,
		Fill:           "black",
	}
}

func (o Options) normalized() Options {
	if o.SeedStride <= 0 {
		o.SeedStride = 1
	}
	if o.MaxRegionSize < 0 {
		o.MaxRegionSize = 0
	}
	if o.Fill == "" {
		o.Fill = "black"
	}
	return o
}

// ExtractRegions scans seeds row-major on a SeedStride grid and grows a region
// from every unassigned foreground seed. Pixels that no seed reaches are never
// assigned. The result is deterministic for identical input.
func ExtractRegions(img *image.NRGBA, opts Options) []Region {
	if img == nil {
		return nil
	}
	opts = opts.normalized()
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	g := grid{
		img:       img,
		width:     width,
		height:    height,
		threshold: opts.AlphaThreshold,
		assigned:  make([]bool, width*height),
	}

	regions := make([]Region, 0)
	for y := 0; y < height; y += opts.SeedStride {
		for x := 0; x < width; x += opts.SeedStride {
			if g.assigned[y*width+x] || !g.opaque(x, y) {
				continue
			}
			region := g.fill(x, y, opts.MaxRegionSize)
			if len(region) < opts.MinRegionSize {
				continue
			}
			regions = append(regions, region)
		}
	}
	return regions
}

type grid struct {
	img       *image.NRGBA
	width     int
	height    int
	threshold uint8
	assigned  []bool
}

func (g *grid) opaque(x, y int) bool {
	min := g.img.Bounds().Min
	return g.img.Pix[g.img.PixOffset(min.X+x, min.Y+y)+3] > g.threshold
}

// fill grows a 4-connected region from (x, y) with an explicit stack.
// Neighbours are pushed right, left, down, up. Growth stops once the region
// reaches limit pixels; anything still on the stack stays unassigned.
func (g *grid) fill(startX, startY, limit int) Region {
	region := make(Region, 0)
	stack := []Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= g.width || p.Y < 0 || p.Y >= g.height {
			continue
		}
		idx := p.Y*g.width + p.X
		if g.assigned[idx] || !g.opaque(p.X, p.Y) {
			continue
		}

		g.assigned[idx] = true
		region = append(region, p)
		if limit > 0 && len(region) >= limit {
			break
		}

		stack = append(stack,
			Point{X: p.X + 1, Y: p.Y},
			Point{X: p.X - 1, Y: p.Y},
			Point{X: p.X, Y: p.Y + 1},
			Point{X: p.X, Y: p.Y - 1},
		)
	}
	return region
}
