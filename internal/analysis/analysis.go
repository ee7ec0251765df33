// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package analysis derives optional properties from images: alt text via
// an LLM provider, a dominant-colour scan, and a placement suggestion.
// Every sub-check is best-effort — a failed or unimplemented check
// degrades to a neutral default and never fails the analysis. Object
// detection, text extraction, and sentiment are explicit stubs behind
// the real interface so a future implementation can replace them without
// changing callers.
package analysis

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"sort"
	"strings"

	"pressline/internal/imaging"
	"pressline/internal/models"
)

// stubConfidence is the fixed baseline reported by the stubbed
// sub-checks until a real scorer replaces them.
const stubConfidence = 0.7

// maxAltTextLen caps generated alt text to a screen-reader-friendly length.
const maxAltTextLen = 300

// Options gates the individual sub-checks.
type Options struct {
	GenerateAltText  bool
	AnalyzeColors    bool
	DetectObjects    bool
	ExtractText      bool
	AnalyzeSentiment bool
	SuggestPlacement bool
}

// Analyzer runs the gated sub-checks. A nil provider disables alt-text
// generation; everything else works without one.
type Analyzer struct {
	provider Provider
}

// New creates an analyzer. provider may be nil.
func New(provider Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Analyze runs the enabled sub-checks against the image. It never
// returns an error: failed checks are logged and their fields left at
// the neutral defaults.
func (a *Analyzer) Analyze(ctx context.Context, img *models.Image, opts Options) *models.Analysis {
	result := &models.Analysis{
		Sentiment:  "neutral",
		Confidence: stubConfidence,
	}

	if opts.GenerateAltText {
		alt, err := a.generateAltText(ctx, img)
		if err != nil {
			slog.Warn("alt text generation failed", "file", img.FileName, "error", err)
		} else {
			result.AltText = alt
		}
	}

	if opts.AnalyzeColors {
		dominant, palette, err := analyzeColors(img.Data)
		if err != nil {
			slog.Warn("colour analysis failed", "file", img.FileName, "error", err)
		} else {
			result.DominantColor = dominant
			result.Palette = palette
		}
	}

	if opts.DetectObjects {
		result.Objects = detectObjects()
	}
	if opts.ExtractText {
		result.ExtractedText = extractText()
	}
	if opts.AnalyzeSentiment {
		result.Sentiment = analyzeSentiment()
	}
	if opts.SuggestPlacement {
		result.SuggestedPlacement = imaging.SuggestPlacement(img.Meta)
	}

	return result
}

// generateAltText asks the provider to describe the image from its
// metadata. Returns an error when no provider is configured.
func (a *Analyzer) generateAltText(ctx context.Context, img *models.Image) (string, error) {
	if a.provider == nil {
		return "", fmt.Errorf("no AI provider configured")
	}

	system := "You write concise, descriptive alt text for blog article images. " +
		"Respond with one sentence of plain text, no quotes, no preamble."
	user := fmt.Sprintf("Image file %q, %dx%d pixels, %s format.",
		img.FileName, img.Meta.Width, img.Meta.Height, img.Meta.Format)
	if img.Caption != "" {
		user += fmt.Sprintf(" The caption reads: %q.", img.Caption)
	}

	text, err := a.provider.Generate(ctx, system, user)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"`))
	if runes := []rune(text); len(runes) > maxAltTextLen {
		text = string(runes[:maxAltTextLen])
	}
	return text, nil
}

// analyzeColors decodes the image and scans a sampled grid of pixels,
// returning the average colour and the three most frequent coarse
// colour buckets.
func analyzeColors(data []byte) (string, []string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("decode: %w", err)
	}

	b := img.Bounds()
	// Sample at most ~64x64 positions regardless of image size.
	strideX := b.Dx() / 64
	if strideX < 1 {
		strideX = 1
	}
	strideY := b.Dy() / 64
	if strideY < 1 {
		strideY = 1
	}

	var sumR, sumG, sumB, count uint64
	buckets := make(map[uint32]int)
	for y := b.Min.Y; y < b.Max.Y; y += strideY {
		for x := b.Min.X; x < b.Max.X; x += strideX {
			r, g, bl, _ := img.At(x, y).RGBA()
			r8, g8, b8 := r>>8, g>>8, bl>>8
			sumR += uint64(r8)
			sumG += uint64(g8)
			sumB += uint64(b8)
			count++
			// 4 bits per channel is coarse enough to group shades.
			buckets[(r8>>4)<<8|(g8>>4)<<4|(b8>>4)]++
		}
	}
	if count == 0 {
		return "", nil, fmt.Errorf("empty image")
	}

	dominant := fmt.Sprintf("#%02x%02x%02x", sumR/count, sumG/count, sumB/count)

	type bucket struct {
		key uint32
		n   int
	}
	ranked := make([]bucket, 0, len(buckets))
	for k, n := range buckets {
		ranked = append(ranked, bucket{key: k, n: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].n != ranked[j].n {
			return ranked[i].n > ranked[j].n
		}
		return ranked[i].key < ranked[j].key
	})

	var palette []string
	for i := 0; i < len(ranked) && i < 3; i++ {
		k := ranked[i].key
		// Expand the 4-bit bucket back to its mid-point colour.
		r := (k>>8&0xf)<<4 | 0x8
		g := (k>>4&0xf)<<4 | 0x8
		bl := (k&0xf)<<4 | 0x8
		palette = append(palette, fmt.Sprintf("#%02x%02x%02x", r, g, bl))
	}

	return dominant, palette, nil
}

// detectObjects is a stub: no detector is wired up. Returns an empty
// list so callers can rely on the field being present.
func detectObjects() []string { return []string{} }

// extractText is a stub: no OCR is wired up.
func extractText() string { return "" }

// analyzeSentiment is a stub: always neutral until a real scorer exists.
func analyzeSentiment() string { return "neutral" }
