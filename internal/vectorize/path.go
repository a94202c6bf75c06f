package vectorize

import (
	"sort"
	"strconv"
	"strings"
)

// PathFromRegion renders region as "M x0 y0 L x1 y1 ... Z" after ordering its
// pixels by row then column. The input is not modified. This is a scanline
// polyline through every pixel, not an outline of the region.
func PathFromRegion(region Region) string {
	if len(region) == 0 {
		return ""
	}
	points := make(Region, len(region))
	copy(points, region)
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Y != points[j].Y {
			return points[i].Y < points[j].Y
		}
		return points[i].X < points[j].X
	})

	var b strings.Builder
	b.Grow(len(points) * 10)
	for i, p := range points {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(strconv.Itoa(p.X))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(p.Y))
	}
	b.WriteString(" Z")
	return b.String()
}
