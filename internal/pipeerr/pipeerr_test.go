package pipeerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// TestErrorMessageIncludesContext verifies that the rendered message
// carries kind, stage, and file name when they are set.
func TestErrorMessageIncludesContext(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{
			name: "validation",
			err:  Validation("title is required"),
			want: []string{"validation", "title is required"},
		},
		{
			name: "processing with stage and file",
			err:  Processing("optimization", "cover.jpg", errors.New("decode failed")),
			want: []string{"processing", "optimization", "cover.jpg", "decode failed"},
		},
		{
			name: "upload with file",
			err:  Upload("hero.png", errors.New("connection reset")),
			want: []string{"asset_upload", "hero.png", "connection reset"},
		},
		{
			name: "document with operation",
			err:  Document("create", "article", "abc123", errors.New("503")),
			want: []string{"document", "create", "503"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, frag := range tt.want {
				if !strings.Contains(got, frag) {
					t.Errorf("Error() = %q, want it to contain %q", got, frag)
				}
			}
		})
	}
}

// TestIsKind verifies kind checks work through fmt.Errorf %w wrapping.
func TestIsKind(t *testing.T) {
	base := Upload("a.png", errors.New("boom"))
	wrapped := fmt.Errorf("upload batch: %w", base)

	if !IsKind(wrapped, KindAssetUpload) {
		t.Error("IsKind(wrapped, KindAssetUpload) = false, want true")
	}
	if IsKind(wrapped, KindDocument) {
		t.Error("IsKind(wrapped, KindDocument) = true, want false")
	}
	if IsKind(errors.New("plain"), KindAssetUpload) {
		t.Error("IsKind(plain error) = true, want false")
	}
}

// TestUnwrap verifies the underlying cause survives wrapping.
func TestUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Processing("resize", "x.jpg", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}
