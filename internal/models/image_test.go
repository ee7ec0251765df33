package models

import "testing"

// TestNewImageSizeInvariant verifies SizeBytes always equals the buffer
// length at construction.
func TestNewImageSizeInvariant(t *testing.T) {
	data := []byte{0x89, 0x50, 0x4e, 0x47}
	img := NewImage("shot.png", "image/png", data)

	if img.SizeBytes != int64(len(data)) {
		t.Errorf("SizeBytes = %d, want %d", img.SizeBytes, len(data))
	}
	if img.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("ID is the zero uuid, want a generated one")
	}
}

// TestAspectRatio verifies ratio math and the unknown-dimensions case.
func TestAspectRatio(t *testing.T) {
	tests := []struct {
		name string
		meta Metadata
		want float64
	}{
		{name: "landscape", meta: Metadata{Width: 1600, Height: 800}, want: 2.0},
		{name: "portrait", meta: Metadata{Width: 300, Height: 400}, want: 0.75},
		{name: "square", meta: Metadata{Width: 800, Height: 800}, want: 1.0},
		{name: "unknown dimensions", meta: Metadata{}, want: 0},
		{name: "zero height", meta: Metadata{Width: 100}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.AspectRatio(); got != tt.want {
				t.Errorf("AspectRatio() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestUploadedMediaIsImage verifies the content-type prefix check.
func TestUploadedMediaIsImage(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{contentType: "image/jpeg", want: true},
		{contentType: "image/webp", want: true},
		{contentType: "application/pdf", want: false},
		{contentType: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			m := &UploadedMedia{ContentType: tt.contentType}
			if got := m.IsImage(); got != tt.want {
				t.Errorf("IsImage() with %q = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}

// TestHumanSize verifies size formatting across the unit breakpoints.
func TestHumanSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{name: "bytes", size: 500, want: "500 B"},
		{name: "kilobytes", size: 10240, want: "10 KB"},
		{name: "megabytes", size: 1572864, want: "1.5 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &Image{SizeBytes: tt.size}
			if got := img.HumanSize(); got != tt.want {
				t.Errorf("HumanSize() = %q, want %q", got, tt.want)
			}
		})
	}
}
