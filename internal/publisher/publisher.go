// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package publisher persists articles to the remote content store and
// drives their draft/published/archived lifecycle. It owns the
// document shape; everything above it works with local models only.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pressline/internal/contentstore"
	"pressline/internal/models"
	"pressline/internal/pipeerr"
	"pressline/internal/uploader"
)

// Publisher persists articles and resolves their category and author
// references against the content store.
type Publisher struct {
	store    contentstore.Store
	uploader *uploader.Uploader
	log      *slog.Logger
}

// CreateResult is the outcome of the composite create-with-assets
// operation.
type CreateResult struct {
	Document   *contentstore.Document
	Uploaded   []*models.UploadedMedia
	Failures   []uploader.Failure
	UploadTime time.Duration
}

// New creates a Publisher. The uploader may be nil when the caller
// never uses CreateArticleWithAssets or asset-aware deletes.
func New(store contentstore.Store, up *uploader.Uploader, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{store: store, uploader: up, log: log}
}

// CreateDraft persists the article as a draft regardless of its local
// status, clearing any published timestamp.
func (p *Publisher) CreateDraft(ctx context.Context, a *models.Article) (*contentstore.Document, error) {
	a.Status = models.StatusDraft
	a.PublishedAt = nil
	return p.create(ctx, a)
}

// CreateAndPublish persists the article as published with publishedAt
// set to now.
func (p *Publisher) CreateAndPublish(ctx context.Context, a *models.Article) (*contentstore.Document, error) {
	if err := a.Publish(); err != nil {
		return nil, pipeerr.Document("create", articleType, articleDocumentID(a), err)
	}
	return p.create(ctx, a)
}

func (p *Publisher) create(ctx context.Context, a *models.Article) (*contentstore.Document, error) {
	if err := p.resolveReferences(ctx, a); err != nil {
		return nil, err
	}

	doc, err := p.store.Create(ctx, toDocument(a))
	if err != nil {
		return nil, pipeerr.Document("create", articleType, articleDocumentID(a), err)
	}
	if doc == nil {
		return nil, pipeerr.Document("create", articleType, articleDocumentID(a),
			fmt.Errorf("store returned no document"))
	}

	p.log.Info("article created",
		"id", doc.ID,
		"slug", a.Slug,
		"status", string(a.Status))
	return doc, nil
}

// resolveReferences makes sure the category and author documents the
// article points at exist, creating them idempotently when absent.
func (p *Publisher) resolveReferences(ctx context.Context, a *models.Article) error {
	if !a.Category.Valid() {
		return pipeerr.Validation("unknown category %q", a.Category)
	}

	_, err := p.store.CreateIfNotExists(ctx, &contentstore.Document{
		ID:   a.Category.DocumentID(),
		Type: categoryType,
		Fields: map[string]any{
			"title": a.Category.Title(),
			"slug": map[string]any{
				"_type":   "slug",
				"current": string(a.Category),
			},
		},
	})
	if err != nil {
		return pipeerr.Document("createIfNotExists", categoryType, a.Category.DocumentID(), err)
	}

	if a.AuthorSlug == "" {
		return nil
	}
	_, err = p.store.CreateIfNotExists(ctx, &contentstore.Document{
		ID:   authorDocumentID(a.AuthorSlug),
		Type: authorType,
		Fields: map[string]any{
			"slug": map[string]any{
				"_type":   "slug",
				"current": a.AuthorSlug,
			},
		},
	})
	if err != nil {
		return pipeerr.Document("createIfNotExists", authorType, authorDocumentID(a.AuthorSlug), err)
	}
	return nil
}

// CreateArticleWithAssets uploads all images first, then persists the
// article carrying references to the uploaded assets. When the article
// has no main image, the first successful upload becomes it; the first
// image is also inserted into the body right after the opening block
// when the body has more than one block.
func (p *Publisher) CreateArticleWithAssets(ctx context.Context, a *models.Article, images []*models.Image, publish bool) (*CreateResult, error) {
	if p.uploader == nil && len(images) > 0 {
		return nil, pipeerr.Config("publisher has no asset uploader configured")
	}

	res := &CreateResult{}
	if len(images) > 0 {
		start := time.Now()
		uploaded, failures, err := p.uploader.UploadImages(ctx, images, nil)
		res.UploadTime = time.Since(start)
		res.Uploaded = uploaded
		res.Failures = failures
		if err != nil {
			return res, err
		}

		attachUploads(a, uploaded)
	}

	var (
		doc *contentstore.Document
		err error
	)
	if publish {
		doc, err = p.CreateAndPublish(ctx, a)
	} else {
		doc, err = p.CreateDraft(ctx, a)
	}
	if err != nil {
		return res, err
	}
	res.Document = doc
	return res, nil
}

// attachUploads wires uploaded media into the article: main image
// defaulting and the first-image body insertion heuristic.
func attachUploads(a *models.Article, uploaded []*models.UploadedMedia) {
	if len(uploaded) == 0 {
		return
	}

	if a.MainImage == nil {
		a.MainImage = uploaded[0]
	}

	if len(a.Blocks) > 1 {
		first := uploaded[0]
		block := models.Block{
			Key:     "img" + first.ID.String()[:8],
			Type:    models.BlockImage,
			AssetID: first.RemoteAssetID,
			Alt:     first.AltText,
			Caption: first.Caption,
		}
		a.Blocks = append(a.Blocks[:1], append([]models.Block{block}, a.Blocks[1:]...)...)
	}
}

// PublishDraft transitions an existing remote draft to published.
func (p *Publisher) PublishDraft(ctx context.Context, id string) (*contentstore.Document, error) {
	doc, err := p.requireArticle(ctx, "publish", id)
	if err != nil {
		return nil, err
	}
	if doc.StringField("status") == string(models.StatusArchived) {
		return nil, pipeerr.Document("publish", articleType, id,
			fmt.Errorf("article is archived"))
	}

	updated, err := p.store.Patch(id).
		Set(map[string]any{
			"status":      string(models.StatusPublished),
			"publishedAt": time.Now().UTC().Format(time.RFC3339),
		}).
		Commit(ctx)
	if err != nil {
		return nil, pipeerr.Document("publish", articleType, id, err)
	}

	p.log.Info("article published", "id", id)
	return updated, nil
}

// Unpublish transitions a published article back to draft, clearing its
// published timestamp.
func (p *Publisher) Unpublish(ctx context.Context, id string) (*contentstore.Document, error) {
	doc, err := p.requireArticle(ctx, "unpublish", id)
	if err != nil {
		return nil, err
	}
	if doc.StringField("status") == string(models.StatusArchived) {
		return nil, pipeerr.Document("unpublish", articleType, id,
			fmt.Errorf("article is archived"))
	}

	updated, err := p.store.Patch(id).
		Set(map[string]any{"status": string(models.StatusDraft)}).
		Unset("publishedAt").
		Commit(ctx)
	if err != nil {
		return nil, pipeerr.Document("unpublish", articleType, id, err)
	}

	p.log.Info("article unpublished", "id", id)
	return updated, nil
}

// Archive moves an article into the terminal archived state.
func (p *Publisher) Archive(ctx context.Context, id string) (*contentstore.Document, error) {
	doc, err := p.requireArticle(ctx, "archive", id)
	if err != nil {
		return nil, err
	}
	if doc.StringField("status") == string(models.StatusArchived) {
		return nil, pipeerr.Document("archive", articleType, id,
			fmt.Errorf("article is already archived"))
	}

	updated, err := p.store.Patch(id).
		Set(map[string]any{"status": string(models.StatusArchived)}).
		Unset("publishedAt").
		Commit(ctx)
	if err != nil {
		return nil, pipeerr.Document("archive", articleType, id, err)
	}

	p.log.Info("article archived", "id", id)
	return updated, nil
}

// Get fetches an article document by id.
func (p *Publisher) Get(ctx context.Context, id string) (*contentstore.Document, error) {
	return p.requireArticle(ctx, "get", id)
}

// Delete removes an article. With withAssets set, the assets the
// document references are deleted afterwards, each one best-effort.
func (p *Publisher) Delete(ctx context.Context, id string, withAssets bool) error {
	var assetIDs []string
	if withAssets {
		doc, err := p.requireArticle(ctx, "delete", id)
		if err != nil {
			return err
		}
		assetIDs = referencedAssets(doc)
	}

	if err := p.store.Delete(ctx, id); err != nil {
		return pipeerr.Document("delete", articleType, id, err)
	}

	for _, assetID := range assetIDs {
		if p.uploader == nil {
			break
		}
		if err := p.uploader.DeleteImage(ctx, assetID); err != nil {
			p.log.Warn("failed to delete article asset", "article", id, "asset", assetID, "error", err)
		}
	}
	return nil
}

// referencedAssets collects the asset ids a document points at through
// its main image and body image blocks.
func referencedAssets(doc *contentstore.Document) []string {
	var ids []string
	seen := map[string]bool{}

	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	add(assetRef(doc.Fields["mainImage"]))
	if body, ok := doc.Fields["body"].([]any); ok {
		for _, raw := range body {
			add(assetRef(raw))
		}
	}
	return ids
}

// assetRef digs the _ref out of an image value, tolerating the map
// shapes JSON decoding produces.
func assetRef(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	asset, ok := m["asset"].(map[string]any)
	if !ok {
		return ""
	}
	ref, _ := asset["_ref"].(string)
	return ref
}

func (p *Publisher) requireArticle(ctx context.Context, op, id string) (*contentstore.Document, error) {
	doc, err := p.store.GetDocument(ctx, id)
	if err != nil {
		return nil, pipeerr.Document(op, articleType, id, err)
	}
	if doc == nil {
		return nil, pipeerr.Document(op, articleType, id, fmt.Errorf("document not found"))
	}
	return doc, nil
}
