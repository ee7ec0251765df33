// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Placement is the visual role an image plays within an article.
type Placement string

const (
	PlacementInline     Placement = "inline"
	PlacementFigure     Placement = "figure"
	PlacementHero       Placement = "hero"
	PlacementThumbnail  Placement = "thumbnail"
	PlacementBackground Placement = "background"
)

// Valid reports whether p is one of the known placements.
func (p Placement) Valid() bool {
	switch p {
	case PlacementInline, PlacementFigure, PlacementHero, PlacementThumbnail, PlacementBackground:
		return true
	}
	return false
}

// ProcessingOptions controls the optional optimize/analyze steps for a
// single image reference. A nil options pointer means upload as-is.
type ProcessingOptions struct {
	Optimize       bool
	Quality        int // re-encode quality 1-100; 0 uses the configured default
	MaxWidth       int // resize bound; 0 uses the configured default
	MaxHeight      int
	TargetFormat   string // "jpeg", "png", "gif"; empty keeps the source format
	MaintainAspect bool
	Analyze        bool
}

// ImageReference is the caller-supplied descriptor of one image to run
// through the pipeline. Immutable; consumed once per run.
type ImageReference struct {
	FilePath  string
	AltText   string
	Caption   string
	Placement Placement
	Options   *ProcessingOptions
}

// Metadata holds the decoded properties of an image.
type Metadata struct {
	Width      int
	Height     int
	Format     string // "jpeg", "png", "gif", "webp"
	ColorSpace string
	HasAlpha   bool
}

// AspectRatio returns width/height, or 0 when dimensions are unknown.
func (m Metadata) AspectRatio() float64 {
	if m.Width == 0 || m.Height == 0 {
		return 0
	}
	return float64(m.Width) / float64(m.Height)
}

// Image is the in-memory representation of a single image read from disk.
// Data is owned exclusively by the pipeline until handed to the uploader.
// SizeBytes always equals len(Data) while Data is present.
type Image struct {
	ID          uuid.UUID
	FileName    string
	SizeBytes   int64
	ContentType string
	Meta        Metadata
	Data        []byte
	AltText     string
	Caption     string
	Analysis    *Analysis
}

// NewImage constructs an Image from raw file bytes, keeping the
// size/buffer invariant.
func NewImage(fileName, contentType string, data []byte) *Image {
	return &Image{
		ID:          uuid.New(),
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		Data:        data,
	}
}

// HumanSize returns a human-readable file size string.
func (i *Image) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case i.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(i.SizeBytes)/float64(mb))
	case i.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(i.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", i.SizeBytes)
	}
}

// SizeDiff reports how optimization changed an image's encoded size.
// CompressionPercent is round((1 - processed/original) * 100); zero or
// negative values are real outcomes (some images grow on re-encoding)
// and are reported as-is.
type SizeDiff struct {
	OriginalBytes      int64
	ProcessedBytes     int64
	CompressionPercent int
}

// ProcessedImage supersedes an Image after optimization. The embedded
// Image carries the re-encoded bytes; Original is retained for reporting
// only and is never re-used downstream.
type ProcessedImage struct {
	Image
	Original  *Image
	Optimized bool
	Elapsed   time.Duration
	Diff      SizeDiff
}

// Analysis holds best-effort derived properties of an image. Sub-checks
// that fail or are not implemented degrade to the zero-ish defaults
// recorded here rather than failing the image.
type Analysis struct {
	AltText            string
	DominantColor      string   // hex, e.g. "#1a2b3c"
	Palette            []string // coarse palette, most frequent first
	Objects            []string // always empty until a real detector exists
	ExtractedText      string
	Sentiment          string // "neutral" unless a real scorer replaces the stub
	Confidence         float64
	SuggestedPlacement Placement
}
