// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publisher

import (
	"time"

	"pressline/internal/contentstore"
	"pressline/internal/models"
)

const (
	articleType  = "article"
	categoryType = "category"
	authorType   = "author"
)

// toDocument maps a local article onto its remote document shape. The
// body uses portable-text-style blocks so the rendering frontend stays
// unchanged.
func toDocument(a *models.Article) *contentstore.Document {
	fields := map[string]any{
		"title": a.Title,
		"slug": map[string]any{
			"_type":   "slug",
			"current": a.Slug,
		},
		"status":   string(a.Status),
		"category": contentstore.Ref(a.Category.DocumentID()),
		"body":     toBodyBlocks(a.Blocks),
	}

	if a.Excerpt != "" {
		fields["excerpt"] = a.Excerpt
	}
	if len(a.Tags) > 0 {
		fields["tags"] = a.Tags
	}
	if a.AuthorSlug != "" {
		fields["author"] = contentstore.Ref(authorDocumentID(a.AuthorSlug))
	}
	if a.MainImage != nil {
		fields["mainImage"] = mainImageField(a.MainImage)
	}
	if a.PublishedAt != nil {
		fields["publishedAt"] = a.PublishedAt.UTC().Format(time.RFC3339)
	}
	if seo := seoField(a.SEO); len(seo) > 0 {
		fields["seo"] = seo
	}

	m := a.Metrics()
	fields["readingTime"] = m.ReadingTimeMin
	fields["wordCount"] = m.WordCount

	return &contentstore.Document{
		ID:     articleDocumentID(a),
		Type:   articleType,
		Fields: fields,
	}
}

func toBodyBlocks(blocks []models.Block) []map[string]any {
	out := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toBodyBlock(b))
	}
	return out
}

func toBodyBlock(b models.Block) map[string]any {
	switch b.Type {
	case models.BlockImage:
		block := map[string]any{
			"_key":  b.Key,
			"_type": "image",
			"asset": map[string]any{
				"_type": "reference",
				"_ref":  b.AssetID,
			},
		}
		if b.Alt != "" {
			block["alt"] = b.Alt
		}
		if b.Caption != "" {
			block["caption"] = b.Caption
		}
		return block
	case models.BlockHeading:
		return textBlock(b.Key, headingStyle(b.Level), b.Text)
	default:
		return textBlock(b.Key, "normal", b.Text)
	}
}

func textBlock(key, style, text string) map[string]any {
	return map[string]any{
		"_key":  key,
		"_type": "block",
		"style": style,
		"children": []map[string]any{
			{"_type": "span", "text": text},
		},
	}
}

func headingStyle(level int) string {
	switch level {
	case 1:
		return "h1"
	case 2:
		return "h2"
	case 3:
		return "h3"
	case 4:
		return "h4"
	case 5:
		return "h5"
	case 6:
		return "h6"
	default:
		return "h2"
	}
}

func mainImageField(m *models.UploadedMedia) map[string]any {
	img := contentstore.ImageRef(m.RemoteAssetID)
	if m.AltText != "" {
		img["alt"] = m.AltText
	}
	if m.Caption != "" {
		img["caption"] = m.Caption
	}
	return img
}

func seoField(seo models.SEO) map[string]any {
	out := map[string]any{}
	if seo.MetaTitle != "" {
		out["metaTitle"] = seo.MetaTitle
	}
	if seo.MetaDescription != "" {
		out["metaDescription"] = seo.MetaDescription
	}
	if seo.CanonicalURL != "" {
		out["canonicalUrl"] = seo.CanonicalURL
	}
	if seo.NoIndex {
		out["noIndex"] = true
	}
	if seo.SocialImageAssetID != "" {
		out["socialImage"] = contentstore.ImageRef(seo.SocialImageAssetID)
	}
	return out
}

func articleDocumentID(a *models.Article) string {
	return "article-" + a.ID.String()
}

func authorDocumentID(slug string) string {
	return "author-" + slug
}
