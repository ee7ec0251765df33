package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"pressline/internal/config"
	"pressline/internal/contentstore"
	"pressline/internal/models"
	"pressline/internal/publisher"
	"pressline/internal/uploader"
)

// recordingStore is an in-memory content store that counts remote calls.
type recordingStore struct {
	mu      sync.Mutex
	docs    map[string]*contentstore.Document
	uploads int
	calls   int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{docs: map[string]*contentstore.Document{}}
}

func (s *recordingStore) bump() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *recordingStore) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	s.bump()
	if n, ok := out.(*int); ok {
		*n = 0
	}
	return nil
}

func (s *recordingStore) Create(ctx context.Context, doc *contentstore.Document) (*contentstore.Document, error) {
	s.bump()
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.Rev = "rev-1"
	s.docs[doc.ID] = doc
	return doc, nil
}

func (s *recordingStore) CreateIfNotExists(ctx context.Context, doc *contentstore.Document) (*contentstore.Document, error) {
	s.bump()
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.docs[doc.ID]; ok {
		return existing, nil
	}
	s.docs[doc.ID] = doc
	return doc, nil
}

func (s *recordingStore) Patch(id string) *contentstore.Patch {
	return contentstore.NewPatch(id, func(ctx context.Context, p *contentstore.Patch) (*contentstore.Document, error) {
		s.bump()
		s.mu.Lock()
		defer s.mu.Unlock()
		doc, ok := s.docs[p.ID()]
		if !ok {
			return nil, errors.New("document not found")
		}
		for k, v := range p.SetFields() {
			doc.Fields[k] = v
		}
		for _, k := range p.UnsetKeys() {
			delete(doc.Fields, k)
		}
		return doc, nil
	})
}

func (s *recordingStore) Delete(ctx context.Context, id string) error {
	s.bump()
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *recordingStore) GetDocument(ctx context.Context, id string) (*contentstore.Document, error) {
	s.bump()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.docs[id], nil
}

func (s *recordingStore) UploadAsset(ctx context.Context, kind contentstore.AssetKind, fileName, contentType string, data []byte) (*contentstore.Asset, error) {
	s.bump()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	return &contentstore.Asset{
		ID:       "image-" + fileName,
		URL:      "https://cdn.example/" + fileName,
		MimeType: contentType,
		Size:     int64(len(data)),
	}, nil
}

func newTestRunner(store *recordingStore) *Runner {
	cfg := config.Default()
	up := uploader.New(uploader.NewStoreBackend(store), cfg.Processing.Concurrency, nil)
	pub := publisher.New(store, up, nil)
	return New(cfg, pub, nil, nil)
}

func writeTestPNG(t *testing.T, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func baseRequest() Request {
	return Request{
		Title:    "Hello World",
		Content:  strings.Repeat("a", 150),
		Category: models.CategoryAIUtilization,
	}
}

func TestExecuteDraftWithoutImages(t *testing.T) {
	store := newRecordingStore()
	r := newTestRunner(store)

	res := r.Execute(context.Background(), baseRequest())
	if !res.Success {
		t.Fatalf("Execute() failed: %v", res.Errors)
	}
	if res.Article.Status != models.StatusDraft {
		t.Errorf("status = %s, want draft", res.Article.Status)
	}
	if len(res.Uploaded) != 0 {
		t.Errorf("uploaded = %d, want 0", len(res.Uploaded))
	}
	if res.DocumentID == "" {
		t.Error("no document id")
	}
	if store.uploads != 0 {
		t.Errorf("asset uploads = %d, want 0", store.uploads)
	}
	if res.Performance.Total <= 0 {
		t.Error("total time was not measured")
	}
}

func TestExecutePublish(t *testing.T) {
	store := newRecordingStore()
	r := newTestRunner(store)

	req := baseRequest()
	req.Publish = true

	res := r.Execute(context.Background(), req)
	if !res.Success {
		t.Fatalf("Execute() failed: %v", res.Errors)
	}
	if res.Article.Status != models.StatusPublished || res.Article.PublishedAt == nil {
		t.Errorf("status = %s, publishedAt = %v", res.Article.Status, res.Article.PublishedAt)
	}
}

func TestExecuteShortContentWarning(t *testing.T) {
	store := newRecordingStore()
	r := newTestRunner(store)

	req := baseRequest()
	req.Content = "short piece"

	res := r.Execute(context.Background(), req)
	if !res.Success {
		t.Fatalf("Execute() failed: %v", res.Errors)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "short") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings %v missing short-content warning", res.Warnings)
	}
}

func TestExecuteRequestValidationAbortsBeforeIO(t *testing.T) {
	store := newRecordingStore()
	r := newTestRunner(store)

	res := r.Execute(context.Background(), Request{
		Images: []models.ImageReference{{AltText: "no path"}},
	})
	if res.Success {
		t.Fatal("invalid request succeeded")
	}
	for _, want := range []string{"title", "content", "category", "file path"} {
		found := false
		for _, e := range res.Errors {
			if strings.Contains(e, want) {
				found = true
			}
		}
		if !found {
			t.Errorf("errors %v missing %q", res.Errors, want)
		}
	}
	if store.calls != 0 {
		t.Errorf("remote calls = %d, want 0", store.calls)
	}
}

func TestExecuteWithImages(t *testing.T) {
	store := newRecordingStore()
	r := newTestRunner(store)

	req := baseRequest()
	req.Images = []models.ImageReference{
		{FilePath: writeTestPNG(t, "hero.png", 640, 320), AltText: "a hero"},
	}

	res := r.Execute(context.Background(), req)
	if !res.Success {
		t.Fatalf("Execute() failed: %v", res.Errors)
	}
	if len(res.Uploaded) != 1 {
		t.Fatalf("uploaded = %d, want 1", len(res.Uploaded))
	}
	if res.Article.MainImage == nil {
		t.Error("main image was not set from the upload")
	}
	if res.Uploaded[0].AltText != "a hero" {
		t.Errorf("alt text = %q", res.Uploaded[0].AltText)
	}
	if store.uploads != 1 {
		t.Errorf("asset uploads = %d, want 1", store.uploads)
	}
	if res.Performance.Upload < 0 || res.Performance.ImageProcessing <= 0 {
		t.Errorf("phase timings not measured: %+v", res.Performance)
	}
}

func TestExecuteRejectsPolicyViolationBeforeUpload(t *testing.T) {
	store := newRecordingStore()
	r := newTestRunner(store)

	// below the 16px minimum dimension
	req := baseRequest()
	req.Images = []models.ImageReference{
		{FilePath: writeTestPNG(t, "tiny.png", 4, 4)},
	}

	res := r.Execute(context.Background(), req)
	if res.Success {
		t.Fatal("undersized image passed the pipeline")
	}
	if store.calls != 0 {
		t.Errorf("remote calls = %d, want 0 when validation fails", store.calls)
	}
}

func TestExecuteRejectsDisallowedFileType(t *testing.T) {
	store := newRecordingStore()
	r := newTestRunner(store)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	req := baseRequest()
	req.Images = []models.ImageReference{{FilePath: path}}

	res := r.Execute(context.Background(), req)
	if res.Success {
		t.Fatal("disallowed file type passed the pipeline")
	}
	found := false
	for _, e := range res.Errors {
		if strings.Contains(e, "not allowed") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors %v missing file type rejection", res.Errors)
	}
}
