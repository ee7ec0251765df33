// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pressline/internal/slug"
)

// Status represents the publishing state of an article.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// BlockType distinguishes the structured units of an article body.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockImage     BlockType = "image"
)

// Block is one ordered unit of article content.
type Block struct {
	Key     string // stable key for the remote block array
	Type    BlockType
	Level   int    // heading level, 1-6; zero otherwise
	Text    string // heading or paragraph text
	AssetID string // remote asset id for image blocks
	Alt     string
	Caption string
}

// SEO holds the per-article metadata emitted into the page head.
type SEO struct {
	MetaTitle          string
	MetaDescription    string
	NoIndex            bool
	CanonicalURL       string
	SocialImageAssetID string
}

// Metrics are derived counts over an article's content and images.
// They are a pure function of Blocks and Images and are recomputed on
// demand, never stored independently of their source.
type Metrics struct {
	WordCount      int
	ReadingTimeMin int
	ImageCount     int
	HeadingCount   int
}

// Article is the local representation of a blog article for the duration
// of one pipeline run. Once persisted, ownership of the remote
// representation passes to the content store.
type Article struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Excerpt     string
	Blocks      []Block
	Status      Status
	Category    Category
	Tags        []string
	Images      []Image // unique by id
	MainImage   *UploadedMedia
	SEO         SEO
	AuthorSlug  string
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewArticle constructs a draft article with a timestamp-disambiguated
// slug derived from the title.
func NewArticle(title string, category Category) *Article {
	now := time.Now()
	return &Article{
		ID:        uuid.New(),
		Title:     title,
		Slug:      slug.Unique(title, now),
		Status:    StatusDraft,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsPublished returns true if the article is in published status.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// Publish transitions the article to published and stamps PublishedAt.
// Archived articles are terminal and cannot be published again.
func (a *Article) Publish() error {
	if a.Status == StatusArchived {
		return fmt.Errorf("article %s is archived and cannot be published", a.ID)
	}
	now := time.Now()
	a.Status = StatusPublished
	a.PublishedAt = &now
	a.UpdatedAt = now
	return nil
}

// Unpublish transitions a published article back to draft and clears
// PublishedAt, keeping the status/publishedAt invariant.
func (a *Article) Unpublish() error {
	if a.Status == StatusArchived {
		return fmt.Errorf("article %s is archived and cannot be unpublished", a.ID)
	}
	a.Status = StatusDraft
	a.PublishedAt = nil
	a.UpdatedAt = time.Now()
	return nil
}

// Archive transitions the article to archived from any non-archived
// state. Archived is terminal; there is no transition out of it.
func (a *Article) Archive() error {
	if a.Status == StatusArchived {
		return fmt.Errorf("article %s is already archived", a.ID)
	}
	a.Status = StatusArchived
	a.PublishedAt = nil
	a.UpdatedAt = time.Now()
	return nil
}

// AddImage appends an image, skipping duplicates by id.
func (a *Article) AddImage(img Image) {
	for _, existing := range a.Images {
		if existing.ID == img.ID {
			return
		}
	}
	a.Images = append(a.Images, img)
	a.UpdatedAt = time.Now()
}

// Metrics computes derived counts from the current blocks and images.
func (a *Article) Metrics() Metrics {
	var m Metrics
	for _, b := range a.Blocks {
		switch b.Type {
		case BlockHeading:
			m.HeadingCount++
			m.WordCount += countWords(b.Text)
		case BlockParagraph:
			m.WordCount += countWords(b.Text)
		case BlockImage:
			m.ImageCount++
		}
	}
	// Images attached but not yet embedded in the body still count.
	if len(a.Images) > m.ImageCount {
		m.ImageCount = len(a.Images)
	}
	m.ReadingTimeMin = readingTime(m.WordCount)
	return m
}

// countWords counts whitespace-separated words in a block of text.
func countWords(s string) int {
	return len(strings.Fields(s))
}

// readingTime estimates minutes to read at ~200 words per minute,
// with a floor of one minute for non-empty content.
func readingTime(words int) int {
	if words == 0 {
		return 0
	}
	minutes := (words + 199) / 200
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
