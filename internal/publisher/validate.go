// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package publisher

import (
	"context"
	"fmt"

	"pressline/internal/models"
)

const (
	maxTitleLen       = 60
	maxDescriptionLen = 160
	maxTags           = 10
	minWordCount      = 100
)

// Validation is the outcome of checking an article against required
// fields and editorial guidelines. Errors block publication; warnings
// are advisory.
type Validation struct {
	IsValid  bool
	Errors   []string
	Warnings []string
}

// ValidateArticle checks required fields (errors) and editorial
// guidelines (warnings). A slug already taken by another article in the
// remote store is the one guideline severe enough to be an error.
func (p *Publisher) ValidateArticle(ctx context.Context, a *models.Article) Validation {
	var v Validation

	if a.Title == "" {
		v.Errors = append(v.Errors, "title is required")
	}
	if a.Slug == "" {
		v.Errors = append(v.Errors, "slug is required")
	}
	if !a.Category.Valid() {
		v.Errors = append(v.Errors, fmt.Sprintf("unknown category %q", a.Category))
	}
	if len(a.Blocks) == 0 {
		v.Errors = append(v.Errors, "article has no content")
	}

	if len(a.Title) > maxTitleLen {
		v.Warnings = append(v.Warnings, fmt.Sprintf("title exceeds %d characters", maxTitleLen))
	}
	if len(a.SEO.MetaDescription) > maxDescriptionLen {
		v.Warnings = append(v.Warnings, fmt.Sprintf("meta description exceeds %d characters", maxDescriptionLen))
	}
	if len(a.Tags) > maxTags {
		v.Warnings = append(v.Warnings, fmt.Sprintf("more than %d tags", maxTags))
	}
	if a.MainImage == nil {
		v.Warnings = append(v.Warnings, "article has no main image")
	}
	if wc := a.Metrics().WordCount; wc > 0 && wc < minWordCount {
		v.Warnings = append(v.Warnings, fmt.Sprintf("content is short: %d words", wc))
	}

	if a.Slug != "" {
		taken, err := p.slugTaken(ctx, a)
		switch {
		case err != nil:
			// A failed lookup must not block: the create itself will
			// surface real store trouble.
			v.Warnings = append(v.Warnings, fmt.Sprintf("could not check slug uniqueness: %v", err))
		case taken:
			v.Errors = append(v.Errors, fmt.Sprintf("slug %q is already in use", a.Slug))
		}
	}

	v.IsValid = len(v.Errors) == 0
	return v
}

// slugTaken reports whether another article already claims the slug.
func (p *Publisher) slugTaken(ctx context.Context, a *models.Article) (bool, error) {
	var count int
	query := `count(*[_type == "article" && slug.current == $slug && _id != $id])`
	params := map[string]any{
		"slug": a.Slug,
		"id":   articleDocumentID(a),
	}
	if err := p.store.Fetch(ctx, query, params, &count); err != nil {
		return false, err
	}
	return count > 0, nil
}
