// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging provides stateless operations on raw image bytes:
// metadata extraction, policy validation, optimization, format
// conversion, thumbnailing, and watermarking. Decoding covers JPEG, PNG,
// GIF, and WebP; encoding covers JPEG, PNG, and GIF (WebP encoding has
// no pure-Go encoder and is rejected as a conversion target). Resizes
// never upscale beyond the source dimensions.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"pressline/internal/models"
	"pressline/internal/pipeerr"
)

const (
	// maxImagePixels caps the number of pixels to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000

	// defaultQuality is the JPEG quality used when the caller passes 0.
	defaultQuality = 80
)

// formatToMIME maps decoder format names to MIME types.
var formatToMIME = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// MIMEForFormat returns the MIME type for a decoder format name, or
// application/octet-stream when unknown.
func MIMEForFormat(format string) string {
	if mime, ok := formatToMIME[format]; ok {
		return mime
	}
	return "application/octet-stream"
}

// ExtractMetadata inspects raw bytes and returns dimensions, format,
// color space, and alpha-channel presence without fully decoding the
// pixel data.
func ExtractMetadata(data []byte) (models.Metadata, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return models.Metadata{}, pipeerr.Processing("metadata_extraction", "", fmt.Errorf("decode config: %w", err))
	}
	if cfg.Width*cfg.Height > maxImagePixels {
		return models.Metadata{}, pipeerr.Processing("metadata_extraction", "",
			fmt.Errorf("image is %dx%d, exceeds the %d pixel cap", cfg.Width, cfg.Height, maxImagePixels))
	}
	return models.Metadata{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Format:     format,
		ColorSpace: colorSpaceOf(cfg.ColorModel),
		HasAlpha:   hasAlpha(cfg.ColorModel),
	}, nil
}

// colorSpaceOf maps a color model to a coarse color space name.
func colorSpaceOf(m color.Model) string {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return "gray"
	case color.CMYKModel:
		return "cmyk"
	default:
		return "srgb"
	}
}

// hasAlpha reports whether the color model carries an alpha channel.
func hasAlpha(m color.Model) bool {
	switch m {
	case color.NRGBAModel, color.NRGBA64Model, color.RGBAModel, color.RGBA64Model, color.AlphaModel, color.Alpha16Model:
		return true
	}
	return false
}

// IsAnimated reports whether the bytes decode to a multi-frame GIF.
// Other supported formats are always single-frame here.
func IsAnimated(data []byte) bool {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return false
	}
	return len(g.Image) > 1
}

// Policy is the set of configured limits validation checks against.
type Policy struct {
	MaxFileSize    int64
	AllowedFormats []string // MIME types
	MinWidth       int
	MinHeight      int
	MaxWidth       int
	MaxHeight      int
	AllowAnimated  bool
}

// allows reports whether the MIME type is in the allowed list.
func (p Policy) allows(mime string) bool {
	for _, f := range p.AllowedFormats {
		if strings.EqualFold(f, mime) {
			return true
		}
	}
	return false
}

// Report is the outcome of validating one image against a policy.
// Policy violations land in Errors and never cause Validate to fail;
// only undecodable bytes do.
type Report struct {
	IsValid  bool
	Errors   []string
	Warnings []string
	Meta     models.Metadata
}

// Validate checks file size, format, dimensions, and animation against
// the policy. Violations are reported; an error is returned only when
// the bytes cannot be decoded at all.
func Validate(fileName string, data []byte, p Policy) (Report, error) {
	meta, err := ExtractMetadata(data)
	if err != nil {
		return Report{}, pipeerr.Processing("validation", fileName, err)
	}

	r := Report{Meta: meta}
	size := int64(len(data))

	if p.MaxFileSize > 0 && size > p.MaxFileSize {
		r.Errors = append(r.Errors,
			fmt.Sprintf("file size %d bytes exceeds the maximum of %d bytes", size, p.MaxFileSize))
	}
	mime := MIMEForFormat(meta.Format)
	if len(p.AllowedFormats) > 0 && !p.allows(mime) {
		r.Errors = append(r.Errors, fmt.Sprintf("format %s is not allowed", mime))
	}
	if p.MaxWidth > 0 && meta.Width > p.MaxWidth {
		r.Errors = append(r.Errors,
			fmt.Sprintf("width %dpx exceeds the maximum of %dpx", meta.Width, p.MaxWidth))
	}
	if p.MaxHeight > 0 && meta.Height > p.MaxHeight {
		r.Errors = append(r.Errors,
			fmt.Sprintf("height %dpx exceeds the maximum of %dpx", meta.Height, p.MaxHeight))
	}
	if p.MinWidth > 0 && meta.Width < p.MinWidth {
		r.Errors = append(r.Errors,
			fmt.Sprintf("width %dpx is below the minimum of %dpx", meta.Width, p.MinWidth))
	}
	if p.MinHeight > 0 && meta.Height < p.MinHeight {
		r.Errors = append(r.Errors,
			fmt.Sprintf("height %dpx is below the minimum of %dpx", meta.Height, p.MinHeight))
	}
	if meta.Format == "gif" && !p.AllowAnimated && IsAnimated(data) {
		r.Errors = append(r.Errors, "animated images are not allowed")
	}
	if p.MinWidth > 0 && meta.Width < p.MinWidth*2 && meta.Width >= p.MinWidth {
		r.Warnings = append(r.Warnings,
			fmt.Sprintf("width %dpx is low resolution for article use", meta.Width))
	}

	r.IsValid = len(r.Errors) == 0
	return r, nil
}

// OptimizeOptions controls the resize and re-encode step.
type OptimizeOptions struct {
	Quality        int    // 1-100; 0 uses defaultQuality
	MaxWidth       int    // resize bound; 0 means no width bound
	MaxHeight      int    // resize bound; 0 means no height bound
	TargetFormat   string // "jpeg", "png", "gif"; empty keeps the source format
	MaintainAspect bool
}

// Optimize resizes the image within the option bounds (never upscaling)
// and re-encodes it at the requested quality. The returned
// ProcessedImage supersedes the input; the input is kept only as a
// back-reference for size reporting. A zero or negative compression
// percentage is a real outcome and is reported as-is.
func Optimize(img *models.Image, opts OptimizeOptions) (*models.ProcessedImage, error) {
	start := time.Now()

	decoded, format, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, pipeerr.Processing("optimization", img.FileName, fmt.Errorf("decode: %w", err))
	}

	target := opts.TargetFormat
	if target == "" {
		target = format
	}
	// No pure-Go WebP encoder: WebP sources re-encode to PNG when they
	// carry alpha, JPEG otherwise.
	if target == "webp" && opts.TargetFormat == "" {
		if hasAlpha(decoded.ColorModel()) {
			target = "png"
		} else {
			target = "jpeg"
		}
	}

	bounds := decoded.Bounds()
	w, h := targetDims(bounds.Dx(), bounds.Dy(), opts.MaxWidth, opts.MaxHeight, opts.MaintainAspect)
	if w != bounds.Dx() || h != bounds.Dy() {
		decoded = scale(decoded, w, h)
	}

	encoded, err := encode(decoded, target, opts.Quality)
	if err != nil {
		return nil, pipeerr.Processing("optimization", img.FileName, err)
	}

	out := models.NewImage(replaceExt(img.FileName, target), MIMEForFormat(target), encoded)
	out.AltText = img.AltText
	out.Caption = img.Caption
	out.Meta = models.Metadata{
		Width:      w,
		Height:     h,
		Format:     target,
		ColorSpace: img.Meta.ColorSpace,
		HasAlpha:   hasAlpha(decoded.ColorModel()),
	}

	return &models.ProcessedImage{
		Image:     *out,
		Original:  img,
		Optimized: true,
		Elapsed:   time.Since(start),
		Diff: models.SizeDiff{
			OriginalBytes:      img.SizeBytes,
			ProcessedBytes:     int64(len(encoded)),
			CompressionPercent: compressionPercent(img.SizeBytes, int64(len(encoded))),
		},
	}, nil
}

// compressionPercent is round((1 - processed/original) * 100). Negative
// values mean the image grew on re-encoding.
func compressionPercent(original, processed int64) int {
	if original == 0 {
		return 0
	}
	return int(math.Round((1 - float64(processed)/float64(original)) * 100))
}

// targetDims computes output dimensions bounded by maxW/maxH without
// upscaling. With aspect preservation the tighter bound wins; without
// it each axis is clamped independently.
func targetDims(w, h, maxW, maxH int, keepAspect bool) (int, int) {
	if maxW <= 0 || maxW > w {
		maxW = w
	}
	if maxH <= 0 || maxH > h {
		maxH = h
	}
	if !keepAspect {
		return maxW, maxH
	}
	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	s := math.Min(scaleW, scaleH)
	if s >= 1 {
		return w, h
	}
	outW := int(math.Round(float64(w) * s))
	outH := int(math.Round(float64(h) * s))
	if outW < 1 {
		outW = 1
	}
	if outH < 1 {
		outH = 1
	}
	return outW, outH
}

// scale resamples the image to the given dimensions with CatmullRom.
func scale(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// encode serializes an image in the given format. WebP is rejected:
// there is no pure-Go encoder for it.
func encode(img image.Image, format string, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}
	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case "gif":
		if err := gif.Encode(&buf, img, &gif.Options{NumColors: 256}); err != nil {
			return nil, fmt.Errorf("encode gif: %w", err)
		}
	case "webp":
		return nil, fmt.Errorf("encoding to webp is not supported")
	default:
		return nil, fmt.Errorf("unknown target format %q", format)
	}
	return buf.Bytes(), nil
}

// replaceExt swaps the file extension to match the encoded format.
func replaceExt(fileName, format string) string {
	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}
	if i := strings.LastIndex(fileName, "."); i > 0 {
		return fileName[:i] + ext
	}
	return fileName + ext
}

// Resize resamples to the given bounds. With keepAspect the result fits
// within width x height; without it the result is exactly width x
// height. Never upscales.
func Resize(data []byte, width, height int, keepAspect bool) ([]byte, error) {
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pipeerr.Processing("resize", "", fmt.Errorf("decode: %w", err))
	}
	b := decoded.Bounds()
	w, h := targetDims(b.Dx(), b.Dy(), width, height, keepAspect)
	if w != b.Dx() || h != b.Dy() {
		decoded = scale(decoded, w, h)
	}
	out, err := encode(decoded, format, defaultQuality)
	if err != nil {
		return nil, pipeerr.Processing("resize", "", err)
	}
	return out, nil
}

// Convert re-encodes the image in a different format at the given
// quality. WebP targets fail: no pure-Go encoder exists.
func Convert(data []byte, targetFormat string, quality int) ([]byte, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pipeerr.Processing("conversion", "", fmt.Errorf("decode: %w", err))
	}
	out, err := encode(decoded, targetFormat, quality)
	if err != nil {
		return nil, pipeerr.Processing("conversion", "", err)
	}
	return out, nil
}

// Compress re-encodes the image in its own format at the given quality.
func Compress(data []byte, quality int) ([]byte, error) {
	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pipeerr.Processing("compression", "", fmt.Errorf("decode: %w", err))
	}
	if format == "webp" {
		format = "jpeg"
	}
	out, err := encode(decoded, format, quality)
	if err != nil {
		return nil, pipeerr.Processing("compression", "", err)
	}
	return out, nil
}

// Thumbnail produces a JPEG thumbnail no wider than maxWidth, never
// upscaling the source.
func Thumbnail(data []byte, maxWidth int) ([]byte, error) {
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pipeerr.Processing("thumbnail", "", fmt.Errorf("decode: %w", err))
	}
	b := decoded.Bounds()
	w, h := targetDims(b.Dx(), b.Dy(), maxWidth, 0, true)
	if w != b.Dx() || h != b.Dy() {
		decoded = scale(decoded, w, h)
	}
	out, err := encode(decoded, "jpeg", defaultQuality)
	if err != nil {
		return nil, pipeerr.Processing("thumbnail", "", err)
	}
	return out, nil
}

// SuggestPlacement applies the deterministic placement heuristic: wide
// large images become heroes, small portrait images thumbnails,
// everything else a figure. Unknown dimensions fall back to inline.
func SuggestPlacement(meta models.Metadata) models.Placement {
	ratio := meta.AspectRatio()
	if ratio == 0 {
		return models.PlacementInline
	}
	if ratio > 1.5 && meta.Width > 1200 {
		return models.PlacementHero
	}
	if ratio < 0.8 && meta.Width < 400 {
		return models.PlacementThumbnail
	}
	return models.PlacementFigure
}
