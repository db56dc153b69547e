package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // first frame decoding
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"git.home.luguber.info/inful/sitepress/internal/export"
)

// Optimizer transcodes one image. It returns the candidate bytes and their
// file extension; a nil slice means the original should be kept. Callers keep
// the candidate only when it is strictly smaller than the input.
type Optimizer interface {
	Optimize(data []byte, mime string, p export.OptimizationProfile) ([]byte, string, error)
}

// DefaultMaxPixels bounds the decoded size of one image (about 40 megapixels).
const DefaultMaxPixels = 40_000_000

// ImageOptimizer decodes raster images, fits them inside the profile's
// bounding box and re-encodes them as JPEG or PNG. Images whose header
// declares more than MaxPixels pixels are rejected before decoding.
type ImageOptimizer struct {
	MaxPixels int // 0 selects DefaultMaxPixels
}

// passthrough formats are stored as-is: vector, animated or without an encoder.
var passthrough = map[string]bool{
	"svg+xml": true,
	"gif":     true,
	"avif":    true,
	"x-icon":  true,
}

// Optimize implements Optimizer.
func (o ImageOptimizer) Optimize(data []byte, mime string, p export.OptimizationProfile) ([]byte, string, error) {
	if !p.Enabled || passthrough[mime] || len(data) < p.MinSizeBytes {
		return nil, "", nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s header: %w", mime, err)
	}
	limit := o.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(limit) {
		return nil, "", fmt.Errorf("%s image is %dx%d, exceeding the %d pixel limit", mime, cfg.Width, cfg.Height, limit)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", mime, err)
	}
	img := fit(src, p.MaxWidth, p.MaxHeight)

	target := format
	if p.ConvertFormat {
		target = "png"
		if opaque(img) {
			target = "jpeg"
		}
	}

	var buf bytes.Buffer
	switch target {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.Quality}); err != nil {
			return nil, "", fmt.Errorf("encode jpeg: %w", err)
		}
		return buf.Bytes(), "jpg", nil
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "png", nil
	default:
		// webp and bmp have no encoder here; only conversion can shrink them.
		return nil, "", nil
	}
}

// fit downscales src to fit within maxW x maxH preserving aspect ratio.
// Zero bounds are unbounded; images are never upscaled.
func fit(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return src
	}
	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		scale = min(scale, float64(maxH)/float64(h))
	}
	if scale >= 1 {
		return src
	}
	nw := max(int(float64(w)*scale+0.5), 1)
	nh := max(int(float64(h)*scale+0.5), 1)
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}
