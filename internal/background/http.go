package background

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"silhouette/internal/raster"
	"silhouette/internal/services"
)

const maxMaskBytes = 64 << 20

// HTTPDoer describes the HTTP client used by HTTPRemover.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPRemover posts the raster as PNG to a segmentation endpoint and reads a
// mask image back. Grayscale responses are used as-is; colour responses are
// reduced to luminance with transparency counting as background.
type HTTPRemover struct {
	endpoint string
	model    string
	client   HTTPDoer
}

// NewHTTPRemover builds a remover for endpoint using the named model.
func NewHTTPRemover(endpoint, model string, timeout time.Duration) *HTTPRemover {
	return NewHTTPRemoverWithClient(endpoint, model, &http.Client{Timeout: timeout})
}

// NewHTTPRemoverWithClient builds a remover that sends requests through client.
func NewHTTPRemoverWithClient(endpoint, model string, client HTTPDoer) *HTTPRemover {
	return &HTTPRemover{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		model:    strings.TrimSpace(model),
		client:   client,
	}
}

func (r *HTTPRemover) Name() string {
	if r.model == "" {
		return "http"
	}
	return r.model
}

func (r *HTTPRemover) Remove(ctx context.Context, img *image.NRGBA) (MaskResult, error) {
	if r.endpoint == "" {
		return MaskResult{}, services.Wrap(services.ErrModelUnavailable, stage, "segment", "no endpoint configured", nil)
	}
	payload, err := raster.EncodePNG(img)
	if err != nil {
		return MaskResult{}, services.Wrap(services.ErrInference, stage, "encode input", "", err)
	}

	target := r.endpoint
	if r.model != "" {
		target += "?model=" + url.QueryEscape(r.model)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return MaskResult{}, services.Wrap(services.ErrModelUnavailable, stage, "build request", "", err)
	}
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("Accept", "image/png")

	resp, err := r.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return MaskResult{}, ctxErr
		}
		return MaskResult{}, services.Wrap(services.ErrModelUnavailable, stage, "segment", r.Name(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMaskBytes))
	if err != nil {
		return MaskResult{}, services.Wrap(services.ErrModelUnavailable, stage, "read response", r.Name(), err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode >= http.StatusInternalServerError:
		return MaskResult{}, services.Wrap(services.ErrModelUnavailable, stage, "segment",
			fmt.Sprintf("%s returned %d", r.Name(), resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return MaskResult{}, services.Wrap(services.ErrInference, stage, "segment",
			fmt.Sprintf("%s returned %d: %s", r.Name(), resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	decoded, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return MaskResult{}, services.Wrap(services.ErrInference, stage, "decode mask", r.Name(), err)
	}
	return MaskResult{Mask: maskFromImage(decoded)}, nil
}

func maskFromImage(img image.Image) *image.Alpha {
	bounds := img.Bounds()
	mask := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			var v uint8
			switch m := img.(type) {
			case *image.Alpha:
				v = m.AlphaAt(bounds.Min.X+x, bounds.Min.Y+y).A
			default:
				v = color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray).Y
			}
			mask.SetAlpha(x, y, color.Alpha{A: v})
		}
	}
	return mask
}
