// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package uploader moves image binaries to a remote asset backend with
// bounded concurrency. Batch uploads use all-settled semantics: one
// failed file never aborts its siblings, and callers get both the
// successes and the per-file failures back.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pressline/internal/models"
	"pressline/internal/pipeerr"
)

const (
	// defaultBatchSize bounds concurrent uploads per batch.
	defaultBatchSize = 3

	// cleanupBatchSize bounds how many unused assets are deleted per round.
	cleanupBatchSize = 10
)

// Backend stores and removes asset binaries. The asset id it returns in
// UploadedMedia.RemoteAssetID is the handle Delete expects back.
type Backend interface {
	Upload(ctx context.Context, img *models.Image) (*models.UploadedMedia, error)
	Delete(ctx context.Context, assetID string) error
}

// UnusedFinder is implemented by backends that can enumerate assets no
// document references anymore.
type UnusedFinder interface {
	FindUnused(ctx context.Context) ([]string, error)
}

// Stage identifies where a file is in its upload lifecycle.
type Stage string

const (
	StagePreparing Stage = "preparing"
	StageUploading Stage = "uploading"
	StageCompleted Stage = "completed"
	StageError     Stage = "error"
)

// ProgressEvent reports one file's stage transition. Events are sent
// best-effort: a full or nil channel never blocks an upload.
type ProgressEvent struct {
	Index    int
	FileName string
	Stage    Stage
	Err      error
}

// Failure records one file that did not make it, keyed by its position
// in the input slice.
type Failure struct {
	Index    int
	FileName string
	Err      error
}

// CleanupResult summarizes an unused-asset sweep.
type CleanupResult struct {
	Found   int
	Deleted []string
	Failed  []Failure
}

// Uploader coordinates uploads against a single backend.
type Uploader struct {
	backend   Backend
	batchSize int
	log       *slog.Logger
}

// New creates an Uploader. A batchSize of zero or less falls back to
// the default of 3 concurrent uploads per batch.
func New(backend Backend, batchSize int, log *slog.Logger) *Uploader {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Uploader{backend: backend, batchSize: batchSize, log: log}
}

// UploadImage uploads a single image, reporting stage transitions on
// events when the caller provides a channel.
func (u *Uploader) UploadImage(ctx context.Context, img *models.Image, events chan<- ProgressEvent) (*models.UploadedMedia, error) {
	return u.uploadOne(ctx, 0, img, events)
}

func (u *Uploader) uploadOne(ctx context.Context, index int, img *models.Image, events chan<- ProgressEvent) (*models.UploadedMedia, error) {
	notify(events, ProgressEvent{Index: index, FileName: img.FileName, Stage: StagePreparing})

	if len(img.Data) == 0 {
		err := pipeerr.Upload(img.FileName, errors.New("image has no data"))
		notify(events, ProgressEvent{Index: index, FileName: img.FileName, Stage: StageError, Err: err})
		return nil, err
	}

	notify(events, ProgressEvent{Index: index, FileName: img.FileName, Stage: StageUploading})

	start := time.Now()
	media, err := u.backend.Upload(ctx, img)
	if err != nil {
		uerr := pipeerr.Upload(img.FileName, err)
		notify(events, ProgressEvent{Index: index, FileName: img.FileName, Stage: StageError, Err: uerr})
		return nil, uerr
	}

	u.log.Debug("asset uploaded",
		"file", img.FileName,
		"asset_id", media.RemoteAssetID,
		"size", media.SizeBytes,
		"elapsed", time.Since(start))

	notify(events, ProgressEvent{Index: index, FileName: img.FileName, Stage: StageCompleted})
	return media, nil
}

// UploadImages uploads all images in batches, collecting every outcome.
// Successes keep the relative order of the input slice. The returned
// error is non-nil only when every upload failed; partial failures are
// reported through the failures slice alone.
func (u *Uploader) UploadImages(ctx context.Context, images []*models.Image, events chan<- ProgressEvent) ([]*models.UploadedMedia, []Failure, error) {
	if len(images) == 0 {
		return nil, nil, nil
	}

	results := make([]*models.UploadedMedia, len(images))
	errs := make([]error, len(images))

	for offset := 0; offset < len(images); offset += u.batchSize {
		end := offset + u.batchSize
		if end > len(images) {
			end = len(images)
		}

		var wg sync.WaitGroup
		for i := offset; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = u.uploadOne(ctx, i, images[i], events)
			}(i)
		}
		wg.Wait()
	}

	var uploaded []*models.UploadedMedia
	var failures []Failure
	for i, err := range errs {
		if err != nil {
			failures = append(failures, Failure{Index: i, FileName: images[i].FileName, Err: err})
			continue
		}
		uploaded = append(uploaded, results[i])
	}

	if len(uploaded) == 0 {
		return nil, failures, pipeerr.Upload("", fmt.Errorf("all %d uploads failed", len(images)))
	}
	if len(failures) > 0 {
		u.log.Warn("partial upload failure", "uploaded", len(uploaded), "failed", len(failures))
	}
	return uploaded, failures, nil
}

// ReplaceImage uploads a new image and then removes the old asset. The
// delete is best-effort: a stale asset is preferable to losing the new
// upload, so delete failures are logged and swallowed.
func (u *Uploader) ReplaceImage(ctx context.Context, img *models.Image, oldAssetID string, events chan<- ProgressEvent) (*models.UploadedMedia, error) {
	media, err := u.uploadOne(ctx, 0, img, events)
	if err != nil {
		return nil, err
	}

	if oldAssetID != "" {
		if err := u.backend.Delete(ctx, oldAssetID); err != nil {
			u.log.Warn("failed to delete replaced asset", "asset_id", oldAssetID, "error", err)
		}
	}
	return media, nil
}

// DeleteImage removes one asset from the backend.
func (u *Uploader) DeleteImage(ctx context.Context, assetID string) error {
	if err := u.backend.Delete(ctx, assetID); err != nil {
		return pipeerr.Upload("", fmt.Errorf("delete asset %s: %w", assetID, err))
	}
	return nil
}

// FindUnusedAssets lists assets no document references. Only backends
// that can query references support this.
func (u *Uploader) FindUnusedAssets(ctx context.Context) ([]string, error) {
	finder, ok := u.backend.(UnusedFinder)
	if !ok {
		return nil, pipeerr.Upload("", errors.New("backend cannot enumerate unused assets"))
	}
	return finder.FindUnused(ctx)
}

// CleanupUnusedAssets finds and deletes unreferenced assets in rounds
// of ten. Individual delete failures are recorded and do not stop the
// sweep. With dryRun set, nothing is deleted.
func (u *Uploader) CleanupUnusedAssets(ctx context.Context, dryRun bool) (*CleanupResult, error) {
	ids, err := u.FindUnusedAssets(ctx)
	if err != nil {
		return nil, err
	}

	res := &CleanupResult{Found: len(ids)}
	if dryRun {
		return res, nil
	}

	for offset := 0; offset < len(ids); offset += cleanupBatchSize {
		end := offset + cleanupBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		for _, id := range ids[offset:end] {
			if err := u.backend.Delete(ctx, id); err != nil {
				u.log.Warn("failed to delete unused asset", "asset_id", id, "error", err)
				res.Failed = append(res.Failed, Failure{FileName: id, Err: err})
				continue
			}
			res.Deleted = append(res.Deleted, id)
		}
	}

	u.log.Info("asset cleanup finished", "found", res.Found, "deleted", len(res.Deleted), "failed", len(res.Failed))
	return res, nil
}

func notify(events chan<- ProgressEvent, ev ProgressEvent) {
	if events == nil {
		return
	}
	select {
	case events <- ev:
	default:
	}
}
