// Package vectorize turns the opaque areas of a background-removed raster into
// coarse SVG paths.
//
// ExtractRegions groups foreground pixels into bounded 4-connected regions
// using an iterative flood fill seeded on a sparse grid. PathFromRegion orders
// a region's pixels row by row and joins them into a closed polyline. The
// result is a stylized silhouette rather than a traced contour: there is no
// curve fitting, smoothing, or colour preservation, and every path shares one
// fill colour.
package vectorize
