// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pipeline runs the full create-article workflow: request
// validation, image processing, asset upload, document creation, and
// post-hoc editorial checks. Expected failures never escape Execute;
// they come back inside the Result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pressline/internal/analysis"
	"pressline/internal/config"
	"pressline/internal/imaging"
	"pressline/internal/markdown"
	"pressline/internal/models"
	"pressline/internal/pipeerr"
	"pressline/internal/publisher"
)

// Request describes one article to create, with the local images to
// process and attach.
type Request struct {
	Title      string
	Content    string // markdown source
	Category   models.Category
	Excerpt    string
	Tags       []string
	AuthorSlug string
	SEO        models.SEO
	Images     []models.ImageReference
	Publish    bool
}

// Performance splits the run time across the phases that dominate it.
type Performance struct {
	Total           time.Duration
	ImageProcessing time.Duration
	Upload          time.Duration
	ArticleCreation time.Duration
}

// Result is the aggregate outcome of one pipeline run. Errors are
// strings: by the time a run finishes they are messages for the
// operator, not values to branch on.
type Result struct {
	Success     bool
	Article     *models.Article
	DocumentID  string
	Uploaded    []*models.UploadedMedia
	Errors      []string
	Warnings    []string
	Performance Performance
}

// Runner executes pipeline requests against one configured publisher.
type Runner struct {
	cfg      *config.Config
	pub      *publisher.Publisher
	analyzer *analysis.Analyzer
	log      *slog.Logger
}

// New creates a Runner. The analyzer may be nil when no AI provider is
// configured; analysis is then skipped entirely.
func New(cfg *config.Config, pub *publisher.Publisher, analyzer *analysis.Analyzer, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{cfg: cfg, pub: pub, analyzer: analyzer, log: log}
}

// Execute runs the workflow. Each phase gates the next: request
// validation aborts before any I/O, an invalid image aborts before any
// remote call, and only the remote phase can leave partial state
// (uploaded assets without an article).
func (r *Runner) Execute(ctx context.Context, req Request) *Result {
	start := time.Now()
	res := &Result{}
	defer func() {
		res.Performance.Total = time.Since(start)
	}()

	if errs := validateRequest(req); len(errs) > 0 {
		res.Errors = errs
		return res
	}

	procStart := time.Now()
	images, err := r.processImages(ctx, req.Images)
	res.Performance.ImageProcessing = time.Since(procStart)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	article := r.buildArticle(req)
	res.Article = article

	createStart := time.Now()
	createRes, err := r.pub.CreateArticleWithAssets(ctx, article, images, req.Publish)
	if createRes != nil {
		res.Uploaded = createRes.Uploaded
		res.Performance.Upload = createRes.UploadTime
		for _, f := range createRes.Failures {
			res.Warnings = append(res.Warnings, fmt.Sprintf("upload failed for %s: %v", f.FileName, f.Err))
		}
	}
	res.Performance.ArticleCreation = time.Since(createStart) - res.Performance.Upload
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}
	res.DocumentID = createRes.Document.ID

	// Post-hoc editorial checks only warn; the article already exists.
	v := r.pub.ValidateArticle(ctx, article)
	res.Warnings = append(res.Warnings, v.Warnings...)
	for _, e := range v.Errors {
		res.Warnings = append(res.Warnings, "post-create check: "+e)
	}

	res.Success = true
	r.log.Info("pipeline run finished",
		"document", res.DocumentID,
		"images", len(res.Uploaded),
		"warnings", len(res.Warnings),
		"elapsed", time.Since(start))
	return res
}

// validateRequest checks the request shape without touching disk or
// network.
func validateRequest(req Request) []string {
	var errs []string
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		errs = append(errs, "content is required")
	}
	if !req.Category.Valid() {
		errs = append(errs, fmt.Sprintf("unknown category %q", req.Category))
	}
	for i, img := range req.Images {
		if img.FilePath == "" {
			errs = append(errs, fmt.Sprintf("image %d has no file path", i))
		}
	}
	return errs
}

// processImages reads, validates, and optionally optimizes and analyzes
// each referenced image. The first policy violation fails the whole
// batch: nothing has been uploaded yet, so failing fast leaves no
// partial remote state.
func (r *Runner) processImages(ctx context.Context, refs []models.ImageReference) ([]*models.Image, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	policy := r.policy()
	images := make([]*models.Image, 0, len(refs))

	for _, ref := range refs {
		img, err := r.loadImage(ref.FilePath)
		if err != nil {
			return nil, err
		}
		img.AltText = ref.AltText
		img.Caption = ref.Caption

		report, err := imaging.Validate(img.FileName, img.Data, policy)
		if err != nil {
			return nil, err
		}
		if !report.IsValid {
			return nil, pipeerr.Validation("image %s rejected: %s", img.FileName, strings.Join(report.Errors, "; "))
		}
		img.Meta = report.Meta

		if opts := ref.Options; opts == nil || opts.Optimize {
			processed, err := imaging.Optimize(img, r.optimizeOptions(ref.Options))
			if err != nil {
				return nil, err
			}
			r.log.Debug("image optimized",
				"file", img.FileName,
				"saved_percent", processed.Diff.CompressionPercent,
				"elapsed", processed.Elapsed)
			img = &processed.Image
		}

		if r.analyzer != nil && (ref.Options == nil || ref.Options.Analyze) {
			img.Analysis = r.analyzer.Analyze(ctx, img, analysis.Options{
				GenerateAltText:  img.AltText == "",
				AnalyzeColors:    true,
				SuggestPlacement: ref.Placement == "",
			})
			if img.AltText == "" {
				img.AltText = img.Analysis.AltText
			}
		}

		images = append(images, img)
	}
	return images, nil
}

// loadImage reads one local file, enforcing the configured extension
// allow-list before touching its contents.
func (r *Runner) loadImage(path string) (*models.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if allowed := r.cfg.Security.AllowedFileTypes; len(allowed) > 0 {
		ok := false
		for _, a := range allowed {
			if strings.EqualFold(a, ext) {
				ok = true
				break
			}
		}
		if !ok {
			return nil, pipeerr.Validation("file type %s is not allowed", ext)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}

	img := models.NewImage(filepath.Base(path), mimeForExt(ext), data)
	return img, nil
}

func (r *Runner) buildArticle(req Request) *models.Article {
	a := models.NewArticle(req.Title, req.Category)
	a.Blocks = markdown.ToBlocks(req.Content)
	a.Excerpt = req.Excerpt
	a.Tags = req.Tags
	a.AuthorSlug = req.AuthorSlug
	a.SEO = req.SEO
	return a
}

func (r *Runner) policy() imaging.Policy {
	img := r.cfg.Image
	return imaging.Policy{
		MaxFileSize:    img.MaxFileSize,
		AllowedFormats: img.AllowedFormats,
		MinWidth:       img.MinWidth,
		MinHeight:      img.MinHeight,
		MaxWidth:       img.MaxWidth,
		MaxHeight:      img.MaxHeight,
		AllowAnimated:  img.AllowAnimated,
	}
}

func (r *Runner) optimizeOptions(opts *models.ProcessingOptions) imaging.OptimizeOptions {
	img := r.cfg.Image
	out := imaging.OptimizeOptions{
		Quality:        img.OptimizationQuality,
		MaxWidth:       img.Resize.MaxWidth,
		MaxHeight:      img.Resize.MaxHeight,
		MaintainAspect: img.Resize.MaintainAspect,
	}
	if opts == nil {
		return out
	}
	if opts.Quality > 0 {
		out.Quality = opts.Quality
	}
	if opts.MaxWidth > 0 {
		out.MaxWidth = opts.MaxWidth
	}
	if opts.MaxHeight > 0 {
		out.MaxHeight = opts.MaxHeight
	}
	if opts.TargetFormat != "" {
		out.TargetFormat = opts.TargetFormat
	}
	if opts.MaintainAspect {
		out.MaintainAspect = true
	}
	return out
}

func mimeForExt(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
