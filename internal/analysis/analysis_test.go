package analysis

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"unicode/utf8"

	"pressline/internal/models"
)

// fakeProvider returns a canned response or error.
type fakeProvider struct {
	response string
	err      error
	calls    int
}

func (f *fakeProvider) Generate(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeProvider) Name() string { return "fake" }

// solidPNG builds a single-colour PNG image model.
func solidPNG(t *testing.T, c color.NRGBA, w, h int) *models.Image {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	m := models.NewImage("solid.png", "image/png", buf.Bytes())
	m.Meta = models.Metadata{Width: w, Height: h, Format: "png"}
	return m
}

// TestStubDefaults verifies the not-implemented sub-checks report their
// documented neutral values.
func TestStubDefaults(t *testing.T) {
	a := New(nil)
	img := solidPNG(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, 8, 8)

	got := a.Analyze(context.Background(), img, Options{
		DetectObjects:    true,
		ExtractText:      true,
		AnalyzeSentiment: true,
	})

	if got.Sentiment != "neutral" {
		t.Errorf("Sentiment = %q, want neutral", got.Sentiment)
	}
	if got.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want the 0.7 baseline", got.Confidence)
	}
	if got.Objects == nil || len(got.Objects) != 0 {
		t.Errorf("Objects = %v, want present but empty", got.Objects)
	}
	if got.ExtractedText != "" {
		t.Errorf("ExtractedText = %q, want empty", got.ExtractedText)
	}
}

// TestGenerateAltText verifies the provider path, trimming, and the
// no-provider degradation.
func TestGenerateAltText(t *testing.T) {
	img := solidPNG(t, color.NRGBA{A: 255}, 8, 8)

	t.Run("uses provider response", func(t *testing.T) {
		p := &fakeProvider{response: `  "A dark solid test square."  `}
		got := New(p).Analyze(context.Background(), img, Options{GenerateAltText: true})
		if got.AltText != "A dark solid test square." {
			t.Errorf("AltText = %q, want trimmed provider response", got.AltText)
		}
		if p.calls != 1 {
			t.Errorf("provider calls = %d, want 1", p.calls)
		}
	})

	t.Run("provider error degrades to empty", func(t *testing.T) {
		p := &fakeProvider{err: errors.New("rate limited")}
		got := New(p).Analyze(context.Background(), img, Options{GenerateAltText: true})
		if got.AltText != "" {
			t.Errorf("AltText = %q after provider failure, want empty", got.AltText)
		}
	})

	t.Run("nil provider degrades to empty", func(t *testing.T) {
		got := New(nil).Analyze(context.Background(), img, Options{GenerateAltText: true})
		if got.AltText != "" {
			t.Errorf("AltText = %q with no provider, want empty", got.AltText)
		}
	})

	t.Run("overlong response is capped", func(t *testing.T) {
		p := &fakeProvider{response: strings.Repeat("long ", 200)}
		got := New(p).Analyze(context.Background(), img, Options{GenerateAltText: true})
		if len(got.AltText) > maxAltTextLen {
			t.Errorf("len(AltText) = %d, want <= %d", len(got.AltText), maxAltTextLen)
		}
	})

	t.Run("truncation keeps rune boundaries", func(t *testing.T) {
		p := &fakeProvider{response: strings.Repeat("é", maxAltTextLen+50)}
		got := New(p).Analyze(context.Background(), img, Options{GenerateAltText: true})
		if !utf8.ValidString(got.AltText) {
			t.Error("truncated alt text is not valid UTF-8")
		}
		if n := utf8.RuneCountInString(got.AltText); n != maxAltTextLen {
			t.Errorf("rune count = %d, want %d", n, maxAltTextLen)
		}
	})
}

// TestAnalyzeColors verifies the dominant colour of a solid image.
func TestAnalyzeColors(t *testing.T) {
	img := solidPNG(t, color.NRGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}, 32, 32)
	got := New(nil).Analyze(context.Background(), img, Options{AnalyzeColors: true})

	if got.DominantColor != "#ff0000" {
		t.Errorf("DominantColor = %q, want #ff0000", got.DominantColor)
	}
	if len(got.Palette) == 0 {
		t.Error("Palette is empty, want at least one entry")
	}
}

// TestAnalyzeColorsBadBytes verifies colour failure never fails the call.
func TestAnalyzeColorsBadBytes(t *testing.T) {
	img := models.NewImage("junk.bin", "image/png", []byte{1, 2, 3})
	got := New(nil).Analyze(context.Background(), img, Options{AnalyzeColors: true, AnalyzeSentiment: true})

	if got == nil {
		t.Fatal("Analyze returned nil on bad bytes")
	}
	if got.DominantColor != "" {
		t.Errorf("DominantColor = %q for undecodable image, want empty", got.DominantColor)
	}
	if got.Sentiment != "neutral" {
		t.Errorf("Sentiment = %q, want the other checks to still run", got.Sentiment)
	}
}

// TestSuggestPlacement verifies the heuristic delegation.
func TestSuggestPlacement(t *testing.T) {
	img := solidPNG(t, color.NRGBA{A: 255}, 8, 8)
	img.Meta = models.Metadata{Width: 1600, Height: 800, Format: "png"}

	got := New(nil).Analyze(context.Background(), img, Options{SuggestPlacement: true})
	if got.SuggestedPlacement != models.PlacementHero {
		t.Errorf("SuggestedPlacement = %q, want hero", got.SuggestedPlacement)
	}
}
