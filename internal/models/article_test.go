package models

import (
	"strings"
	"testing"
	"time"
)

// TestNewArticleDefaults verifies a freshly built article starts as a
// draft with no publish timestamp and a slug derived from the title.
func TestNewArticleDefaults(t *testing.T) {
	before := time.Now()
	a := NewArticle("Hello World", CategoryEngineering)

	if a.Status != StatusDraft {
		t.Errorf("Status = %q, want %q", a.Status, StatusDraft)
	}
	if a.PublishedAt != nil {
		t.Errorf("PublishedAt = %v, want nil", a.PublishedAt)
	}
	if !strings.HasPrefix(a.Slug, "hello-world-") {
		t.Errorf("Slug = %q, want hello-world-<unix> prefix", a.Slug)
	}
	if a.CreatedAt.Before(before.Add(-time.Second)) {
		t.Errorf("CreatedAt = %v, want >= %v", a.CreatedAt, before)
	}
}

// TestStatusTransitions walks the full state machine: draft → published
// → draft → archived, verifying the publishedAt invariant at each step.
func TestStatusTransitions(t *testing.T) {
	a := NewArticle("Lifecycle", CategoryWellBeing)
	created := a.CreatedAt

	if err := a.Publish(); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if a.Status != StatusPublished {
		t.Errorf("after Publish: Status = %q, want %q", a.Status, StatusPublished)
	}
	if a.PublishedAt == nil {
		t.Fatal("after Publish: PublishedAt is nil")
	}
	if a.PublishedAt.Before(created) {
		t.Errorf("PublishedAt %v before CreatedAt %v", a.PublishedAt, created)
	}

	if err := a.Unpublish(); err != nil {
		t.Fatalf("Unpublish() error = %v", err)
	}
	if a.Status != StatusDraft {
		t.Errorf("after Unpublish: Status = %q, want %q", a.Status, StatusDraft)
	}
	if a.PublishedAt != nil {
		t.Errorf("after Unpublish: PublishedAt = %v, want nil", a.PublishedAt)
	}

	if err := a.Archive(); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if a.Status != StatusArchived {
		t.Errorf("after Archive: Status = %q, want %q", a.Status, StatusArchived)
	}
}

// TestArchivedIsTerminal verifies no transition leaves the archived state.
func TestArchivedIsTerminal(t *testing.T) {
	a := NewArticle("Terminal", CategoryEngineering)
	if err := a.Archive(); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	if err := a.Publish(); err == nil {
		t.Error("Publish() on archived article succeeded, want error")
	}
	if err := a.Unpublish(); err == nil {
		t.Error("Unpublish() on archived article succeeded, want error")
	}
	if err := a.Archive(); err == nil {
		t.Error("Archive() on archived article succeeded, want error")
	}
	if a.Status != StatusArchived {
		t.Errorf("Status = %q, want it to stay %q", a.Status, StatusArchived)
	}
}

// TestArchiveFromPublished verifies archive works from published too and
// clears the publish timestamp.
func TestArchiveFromPublished(t *testing.T) {
	a := NewArticle("From Published", CategoryAIUtilization)
	if err := a.Publish(); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := a.Archive(); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if a.PublishedAt != nil {
		t.Errorf("PublishedAt = %v after archive, want nil", a.PublishedAt)
	}
}

// TestMetrics verifies derived counts are a pure function of blocks and
// images.
func TestMetrics(t *testing.T) {
	tests := []struct {
		name   string
		blocks []Block
		images int
		want   Metrics
	}{
		{
			name: "empty article",
			want: Metrics{},
		},
		{
			name: "headings and paragraphs",
			blocks: []Block{
				{Type: BlockHeading, Level: 2, Text: "Intro section"},
				{Type: BlockParagraph, Text: "one two three four five"},
				{Type: BlockParagraph, Text: "six seven"},
			},
			want: Metrics{WordCount: 9, HeadingCount: 1, ReadingTimeMin: 1},
		},
		{
			name: "image blocks counted",
			blocks: []Block{
				{Type: BlockParagraph, Text: "hello"},
				{Type: BlockImage, AssetID: "image-1"},
				{Type: BlockImage, AssetID: "image-2"},
			},
			want: Metrics{WordCount: 1, ImageCount: 2, ReadingTimeMin: 1},
		},
		{
			name: "attached but unembedded images dominate",
			blocks: []Block{
				{Type: BlockParagraph, Text: "hello"},
			},
			images: 3,
			want:   Metrics{WordCount: 1, ImageCount: 3, ReadingTimeMin: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArticle("Metrics", CategoryEngineering)
			a.Blocks = tt.blocks
			for i := 0; i < tt.images; i++ {
				a.AddImage(*NewImage("x.png", "image/png", []byte{1}))
			}
			got := a.Metrics()
			if got != tt.want {
				t.Errorf("Metrics() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestReadingTimeRoundsUp verifies the 200 words/minute ceiling division.
func TestReadingTimeRoundsUp(t *testing.T) {
	a := NewArticle("Long Read", CategoryEngineering)
	a.Blocks = []Block{{Type: BlockParagraph, Text: strings.Repeat("word ", 401)}}
	if got := a.Metrics().ReadingTimeMin; got != 3 {
		t.Errorf("ReadingTimeMin for 401 words = %d, want 3", got)
	}
}

// TestAddImageDeduplicates verifies images stay unique by id.
func TestAddImageDeduplicates(t *testing.T) {
	a := NewArticle("Dedup", CategoryEngineering)
	img := NewImage("a.png", "image/png", []byte{1, 2})
	a.AddImage(*img)
	a.AddImage(*img)
	if len(a.Images) != 1 {
		t.Errorf("len(Images) = %d after duplicate add, want 1", len(a.Images))
	}
}

// TestCategoryValid covers the closed category set and its document ids.
func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("Category(%q).Valid() = false, want true", c)
		}
		wantID := "category-" + string(c)
		if got := c.DocumentID(); got != wantID {
			t.Errorf("DocumentID() = %q, want %q", got, wantID)
		}
	}
	if Category("cooking").Valid() {
		t.Error(`Category("cooking").Valid() = true, want false`)
	}
}
