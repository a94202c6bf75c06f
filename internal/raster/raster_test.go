package raster_test

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"silhouette/internal/raster"
	"silhouette/internal/services"
	"silhouette/internal/testsupport"
)

func TestDecodeRoundTrip(t *testing.T) {
	src := testsupport.OpaqueImage(6, 4, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	data := testsupport.EncodePNG(t, src)

	img, format, err := raster.Decode(data)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if format != "png" {
		t.Fatalf("unexpected format %q", format)
	}
	if img.Bounds() != image.Rect(0, 0, 6, 4) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if got := img.NRGBAAt(3, 2); got != (color.NRGBA{R: 200, G: 10, B: 10, A: 255}) {
		t.Fatalf("unexpected pixel %v", got)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("not an image")} {
		_, _, err := raster.Decode(data)
		if !errors.Is(err, services.ErrDecode) {
			t.Fatalf("expected ErrDecode for %q, got %v", data, err)
		}
	}
}

func TestFitLimitsLongestSide(t *testing.T) {
	img := testsupport.OpaqueImage(40, 20, color.NRGBA{A: 255})
	fitted := raster.Fit(img, 10)
	if fitted.Bounds().Dx() != 10 || fitted.Bounds().Dy() != 5 {
		t.Fatalf("unexpected fitted size %v", fitted.Bounds())
	}
	if same := raster.Fit(img, 64); same != img {
		t.Fatal("expected small image to be returned unchanged")
	}
}

func TestSupported(t *testing.T) {
	cases := map[string]bool{
		"a.PNG":   true,
		"b.jpeg":  true,
		"c.webp":  true,
		"d.tiff":  true,
		"e.txt":   false,
		"noext":   false,
		"f.svg":   false,
		"g.png.7": false,
	}
	for name, want := range cases {
		if got := raster.Supported(name); got != want {
			t.Fatalf("Supported(%q) = %v, want %v", name, got, want)
		}
	}
}
