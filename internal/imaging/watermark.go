// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"pressline/internal/pipeerr"
)

const watermarkMargin = 8

// AddWatermark draws the given text in the bottom-right corner of the
// image and re-encodes it in its source format (JPEG for WebP sources).
// Text that would not fit the image width is truncated.
func AddWatermark(data []byte, text string) ([]byte, error) {
	if text == "" {
		return data, nil
	}

	decoded, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, pipeerr.Processing("watermark", "", fmt.Errorf("decode: %w", err))
	}
	if format == "webp" {
		format = "jpeg"
	}

	b := decoded.Bounds()
	canvas := image.NewRGBA(b)
	draw.Draw(canvas, b, decoded, b.Min, draw.Src)

	face := basicfont.Face7x13
	maxChars := (b.Dx() - 2*watermarkMargin) / face.Advance
	if maxChars < 1 {
		return nil, pipeerr.Processing("watermark", "", fmt.Errorf("image %dpx wide is too small for a watermark", b.Dx()))
	}
	runes := []rune(text)
	if len(runes) > maxChars {
		runes = runes[:maxChars]
		text = string(runes)
	}

	x := b.Max.X - watermarkMargin - len(runes)*face.Advance
	y := b.Max.Y - watermarkMargin

	// Dark shadow one pixel off, then a light foreground for contrast on
	// both dark and light backgrounds.
	shadow := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{A: 180}),
		Face: face,
		Dot:  fixed.P(x+1, y+1),
	}
	shadow.DrawString(text)

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 230}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)

	out, err := encode(canvas, format, defaultQuality)
	if err != nil {
		return nil, pipeerr.Processing("watermark", "", err)
	}
	return out, nil
}
