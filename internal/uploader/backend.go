// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package uploader

import (
	"context"
	"time"

	"pressline/internal/contentstore"
	"pressline/internal/models"
	"pressline/internal/storage"
)

// StoreBackend uploads binaries through the content store's asset
// endpoint, so assets live next to the documents that reference them.
type StoreBackend struct {
	store contentstore.Store
}

// NewStoreBackend wraps a content store as an asset backend.
func NewStoreBackend(store contentstore.Store) *StoreBackend {
	return &StoreBackend{store: store}
}

func (b *StoreBackend) Upload(ctx context.Context, img *models.Image) (*models.UploadedMedia, error) {
	asset, err := b.store.UploadAsset(ctx, contentstore.AssetImage, img.FileName, img.ContentType, img.Data)
	if err != nil {
		return nil, err
	}
	return &models.UploadedMedia{
		ID:            img.ID,
		RemoteAssetID: asset.ID,
		URL:           asset.URL,
		FileName:      img.FileName,
		SizeBytes:     asset.Size,
		ContentType:   img.ContentType,
		Meta:          img.Meta,
		AltText:       img.AltText,
		Caption:       img.Caption,
		UploadedAt:    time.Now().UTC(),
	}, nil
}

func (b *StoreBackend) Delete(ctx context.Context, assetID string) error {
	return b.store.Delete(ctx, assetID)
}

// FindUnused lists image assets with no inbound references.
func (b *StoreBackend) FindUnused(ctx context.Context) ([]string, error) {
	var ids []string
	query := `*[_type == "sanity.imageAsset" && count(*[references(^._id)]) == 0]._id`
	if err := b.store.Fetch(ctx, query, nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// S3Backend uploads binaries to an S3-compatible bucket. The object key
// doubles as the asset id, so deletes work without extra lookups.
type S3Backend struct {
	client *storage.Client
	now    func() time.Time
}

// NewS3Backend wraps an S3 storage client as an asset backend.
func NewS3Backend(client *storage.Client) *S3Backend {
	return &S3Backend{client: client, now: time.Now}
}

func (b *S3Backend) Upload(ctx context.Context, img *models.Image) (*models.UploadedMedia, error) {
	now := b.now().UTC()
	key := storage.NewKey(img.FileName, now)
	if err := b.client.Upload(ctx, key, img.ContentType, img.Data); err != nil {
		return nil, err
	}
	return &models.UploadedMedia{
		ID:            img.ID,
		RemoteAssetID: key,
		URL:           b.client.FileURL(key),
		FileName:      img.FileName,
		SizeBytes:     img.SizeBytes,
		ContentType:   img.ContentType,
		Meta:          img.Meta,
		AltText:       img.AltText,
		Caption:       img.Caption,
		UploadedAt:    now,
	}, nil
}

func (b *S3Backend) Delete(ctx context.Context, key string) error {
	return b.client.Delete(ctx, key)
}
