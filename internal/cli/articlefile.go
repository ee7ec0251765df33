// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"pressline/internal/models"
	"pressline/internal/pipeline"
)

// articleFile is the on-disk article format: YAML metadata plus markdown
// content, either as one YAML document with a content field or as
// markdown with a YAML front-matter header.
type articleFile struct {
	Title    string   `yaml:"title"`
	Category string   `yaml:"category"`
	Excerpt  string   `yaml:"excerpt"`
	Tags     []string `yaml:"tags"`
	Author   string   `yaml:"author"`
	Content  string   `yaml:"content"`
	SEO      struct {
		MetaTitle       string `yaml:"meta_title"`
		MetaDescription string `yaml:"meta_description"`
		CanonicalURL    string `yaml:"canonical_url"`
		NoIndex         bool   `yaml:"no_index"`
	} `yaml:"seo"`
}

const frontMatterDelim = "---"

// loadArticleFile reads an article from disk. Markdown files carry
// their metadata in a front-matter header; YAML files carry the content
// inline.
func loadArticleFile(path string) (*articleFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read article file: %w", err)
	}
	return parseArticleFile(string(raw))
}

func parseArticleFile(raw string) (*articleFile, error) {
	var af articleFile

	meta, content, hasFrontMatter := splitFrontMatter(raw)
	if hasFrontMatter {
		if err := yaml.Unmarshal([]byte(meta), &af); err != nil {
			return nil, fmt.Errorf("parse front matter: %w", err)
		}
		af.Content = strings.TrimSpace(content)
		return &af, nil
	}

	if err := yaml.Unmarshal([]byte(raw), &af); err != nil {
		return nil, fmt.Errorf("parse article file: %w", err)
	}
	af.Content = strings.TrimSpace(af.Content)
	return &af, nil
}

// splitFrontMatter splits "---\nmeta\n---\nbody" into its parts.
func splitFrontMatter(raw string) (meta, content string, ok bool) {
	trimmed := strings.TrimLeft(raw, "\n")
	if !strings.HasPrefix(trimmed, frontMatterDelim+"\n") {
		return "", "", false
	}
	rest := trimmed[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		return "", "", false
	}
	meta = rest[:end]
	content = rest[end+len(frontMatterDelim)+1:]
	if i := strings.Index(content, "\n"); i >= 0 {
		content = content[i+1:]
	} else {
		content = ""
	}
	return meta, content, true
}

// toRequest converts the parsed file plus CLI image flags into a
// pipeline request.
func (af *articleFile) toRequest(images []models.ImageReference, publish bool) pipeline.Request {
	return pipeline.Request{
		Title:      af.Title,
		Content:    af.Content,
		Category:   models.Category(af.Category),
		Excerpt:    af.Excerpt,
		Tags:       af.Tags,
		AuthorSlug: af.Author,
		SEO: models.SEO{
			MetaTitle:       af.SEO.MetaTitle,
			MetaDescription: af.SEO.MetaDescription,
			CanonicalURL:    af.SEO.CanonicalURL,
			NoIndex:         af.SEO.NoIndex,
		},
		Images:  images,
		Publish: publish,
	}
}

// parseImageFlag parses "path[:alt[:caption]]" from a --image flag.
func parseImageFlag(v string) models.ImageReference {
	parts := strings.SplitN(v, ":", 3)
	ref := models.ImageReference{FilePath: parts[0]}
	if len(parts) > 1 {
		ref.AltText = parts[1]
	}
	if len(parts) > 2 {
		ref.Caption = parts[2]
	}
	return ref
}
