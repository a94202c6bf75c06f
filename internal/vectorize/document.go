package vectorize

import (
	"html"
	"image"
	"strconv"
	"strings"

	"silhouette/internal/raster"
)

// Document is a vector rendition sized to the raster it was built from.
type Document struct {
	Width  int
	Height int
	Fill   string
	Paths  []string
}

// Vectorize extracts regions from img and converts each into a path.
func Vectorize(img *image.NRGBA, opts Options) Document {
	opts = opts.normalized()
	doc := Document{Fill: opts.Fill, Paths: make([]string, 0)}
	if img == nil {
		return doc
	}
	doc.Width = img.Bounds().Dx()
	doc.Height = img.Bounds().Dy()
	for _, region := range ExtractRegions(img, opts) {
		if path := PathFromRegion(region); path != "" {
			doc.Paths = append(doc.Paths, path)
		}
	}
	return doc
}

// VectorizeBytes decodes an encoded raster and returns its SVG rendition.
func VectorizeBytes(data []byte, opts Options) ([]byte, Document, error) {
	img, _, err := raster.Decode(data)
	if err != nil {
		return nil, Document{}, err
	}
	doc := Vectorize(img, opts)
	return doc.SVG(), doc, nil
}

// SVG renders the document with one path element per line.
func (d Document) SVG() []byte {
	fill := d.Fill
	if fill == "" {
		fill = "black"
	}
	var b strings.Builder
	b.WriteString(`<svg width="`)
	b.WriteString(strconv.Itoa(d.Width))
	b.WriteString(`" height="`)
	b.WriteString(strconv.Itoa(d.Height))
	b.WriteString(`" xmlns="http://www.w3.org/2000/svg">`)
	b.WriteString("\n  <g fill=\"")
	b.WriteString(html.EscapeString(fill))
	b.WriteString("\" stroke=\"none\">\n")
	for _, path := range d.Paths {
		b.WriteString(`    <path d="`)
		b.WriteString(path)
		b.WriteString("\"/>\n")
	}
	b.WriteString("  </g>\n</svg>\n")
	return []byte(b.String())
}
