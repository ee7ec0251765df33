// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package contentstore provides an HTTP client for the headless content
// store holding articles, categories, authors, and assets. Mutations go
// through the mutate endpoint; queries go through the query endpoint
// (optionally via the CDN host); asset binaries post to the asset
// endpoint. Transient failures (network errors, 429, 5xx) retry with
// fibonacci backoff per the configured attempts and delay; client
// errors never retry.
package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"

	"pressline/internal/cache"
	"pressline/internal/config"
	"pressline/internal/pipeerr"
)

// docKeyPrefix namespaces document cache keys.
const docKeyPrefix = "doc:"

// Client talks to the remote content store over HTTP.
type Client struct {
	http          *http.Client
	baseURL       string // mutations, asset uploads, document reads
	queryURL      string // queries; the CDN host when UseCDN is set
	dataset       string
	token         string
	retryAttempts uint64
	retryDelay    time.Duration
	docCache      cache.Cache // may be nil
}

// New creates a content store client. ProjectID and Token are required;
// their absence is a configuration error, fatal at construction.
// docCache may be nil to disable document caching.
func New(cfg config.StoreConfig, docCache cache.Cache) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, pipeerr.Config("store project id is required")
	}
	if cfg.Token == "" {
		return nil, pipeerr.Config("store token is required")
	}

	// The fibonacci backoff requires a positive base delay.
	delay := cfg.RetryDelay()
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	base := fmt.Sprintf("https://%s.api.sanity.io/v%s", cfg.ProjectID, cfg.APIVersion)
	query := base
	if cfg.UseCDN {
		query = fmt.Sprintf("https://%s.apicdn.sanity.io/v%s", cfg.ProjectID, cfg.APIVersion)
	}

	return &Client{
		http:          &http.Client{Timeout: cfg.Timeout()},
		baseURL:       base,
		queryURL:      query,
		dataset:       cfg.Dataset,
		token:         cfg.Token,
		retryAttempts: uint64(cfg.RetryAttempts),
		retryDelay:    delay,
		docCache:      docCache,
	}, nil
}

// NewWithBaseURL creates a client against an explicit base URL. Used by
// tests and self-hosted store deployments.
func NewWithBaseURL(baseURL string, cfg config.StoreConfig, docCache cache.Cache) (*Client, error) {
	c, err := New(cfg, docCache)
	if err != nil {
		return nil, err
	}
	c.baseURL = baseURL
	c.queryURL = baseURL
	return c, nil
}

// do performs one HTTP request with retry on transient failures.
func (c *Client) do(ctx context.Context, method, rawURL, contentType string, body []byte) ([]byte, error) {
	backoff := retry.WithMaxRetries(c.retryAttempts, retry.NewFibonacci(c.retryDelay))

	var respBody []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			slog.Warn("store request retrying", "status", resp.StatusCode, "url", rawURL)
			return retry.RetryableError(fmt.Errorf("store status %d: %s", resp.StatusCode, respBody))
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("store status %d: %s", resp.StatusCode, respBody)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return respBody, nil
}

// mutation is one entry in a mutate request.
type mutation map[string]any

// mutate posts mutations and returns the first resulting document.
func (c *Client) mutate(ctx context.Context, op string, muts []mutation) (*Document, error) {
	payload, err := json.Marshal(map[string]any{"mutations": muts})
	if err != nil {
		return nil, pipeerr.Document(op, "", "", err)
	}

	u := fmt.Sprintf("%s/data/mutate/%s?returnDocuments=true", c.baseURL, c.dataset)
	body, err := c.do(ctx, http.MethodPost, u, "application/json", payload)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Results []struct {
			ID       string    `json:"id"`
			Document *Document `json:"document"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pipeerr.Document(op, "", "", fmt.Errorf("parse response: %w", err))
	}
	if len(parsed.Results) == 0 {
		return nil, nil
	}
	return parsed.Results[0].Document, nil
}

// Fetch runs a query with parameters and decodes the result into out.
// The query string is forwarded verbatim; parameters are sent as
// JSON-encoded $-prefixed values.
func (c *Client) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	values := url.Values{}
	values.Set("query", query)
	for k, v := range params {
		encoded, err := json.Marshal(v)
		if err != nil {
			return pipeerr.Document("fetch", "", "", fmt.Errorf("encode param %s: %w", k, err))
		}
		values.Set("$"+k, string(encoded))
	}

	u := fmt.Sprintf("%s/data/query/%s?%s", c.queryURL, c.dataset, values.Encode())
	body, err := c.do(ctx, http.MethodGet, u, "", nil)
	if err != nil {
		return pipeerr.Document("fetch", "", "", err)
	}

	var parsed struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return pipeerr.Document("fetch", "", "", fmt.Errorf("parse response: %w", err))
	}
	if out == nil || len(parsed.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(parsed.Result, out); err != nil {
		return pipeerr.Document("fetch", "", "", fmt.Errorf("decode result: %w", err))
	}
	return nil
}

// Create persists a new document and returns the stored version.
func (c *Client) Create(ctx context.Context, doc *Document) (*Document, error) {
	created, err := c.mutate(ctx, "create", []mutation{{"create": doc}})
	if err != nil {
		return nil, pipeerr.Document("create", doc.Type, doc.ID, err)
	}
	if created == nil {
		return nil, pipeerr.Document("create", doc.Type, doc.ID,
			fmt.Errorf("store returned no document"))
	}
	c.invalidate(ctx, doc.ID)
	return created, nil
}

// CreateIfNotExists persists the document unless its id already exists,
// returning the stored version either way. Requires doc.ID.
func (c *Client) CreateIfNotExists(ctx context.Context, doc *Document) (*Document, error) {
	if doc.ID == "" {
		return nil, pipeerr.Document("createIfNotExists", doc.Type, "", fmt.Errorf("document id is required"))
	}
	stored, err := c.mutate(ctx, "createIfNotExists", []mutation{{"createIfNotExists": doc}})
	if err != nil {
		return nil, pipeerr.Document("createIfNotExists", doc.Type, doc.ID, err)
	}
	if stored == nil {
		// The store omits the document when it already existed.
		return c.GetDocument(ctx, doc.ID)
	}
	c.invalidate(ctx, doc.ID)
	return stored, nil
}

// Patch starts a patch builder against the document id.
func (c *Client) Patch(id string) *Patch {
	return NewPatch(id, c.commitPatch)
}

// commitPatch applies a patch through the mutate endpoint.
func (c *Client) commitPatch(ctx context.Context, p *Patch) (*Document, error) {
	patch := map[string]any{"id": p.id}
	if len(p.set) > 0 {
		patch["set"] = p.set
	}
	if len(p.unset) > 0 {
		patch["unset"] = p.unset
	}
	doc, err := c.mutate(ctx, "patch", []mutation{{"patch": patch}})
	if err != nil {
		return nil, pipeerr.Document("patch", "", p.id, err)
	}
	if doc == nil {
		return nil, pipeerr.Document("patch", "", p.id,
			fmt.Errorf("store returned no document"))
	}
	c.invalidate(ctx, p.id)
	return doc, nil
}

// Delete removes a document by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if _, err := c.mutate(ctx, "delete", []mutation{{"delete": map[string]any{"id": id}}}); err != nil {
		return pipeerr.Document("delete", "", id, err)
	}
	c.invalidate(ctx, id)
	return nil
}

// GetDocument fetches one document by id, returning nil when it does
// not exist. Cached when a document cache is configured.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	if c.docCache != nil {
		if raw, ok := c.docCache.Get(ctx, docKeyPrefix+id); ok {
			var doc Document
			if err := json.Unmarshal(raw, &doc); err == nil {
				return &doc, nil
			}
		}
	}

	u := fmt.Sprintf("%s/data/doc/%s/%s", c.baseURL, c.dataset, url.PathEscape(id))
	body, err := c.do(ctx, http.MethodGet, u, "", nil)
	if err != nil {
		return nil, pipeerr.Document("get", "", id, err)
	}

	var parsed struct {
		Documents []*Document `json:"documents"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pipeerr.Document("get", "", id, fmt.Errorf("parse response: %w", err))
	}
	if len(parsed.Documents) == 0 {
		return nil, nil
	}

	doc := parsed.Documents[0]
	if c.docCache != nil {
		if raw, err := json.Marshal(doc); err == nil {
			c.docCache.Set(ctx, docKeyPrefix+id, raw)
		}
	}
	return doc, nil
}

// UploadAsset posts binary data to the asset endpoint and returns the
// stored asset descriptor.
func (c *Client) UploadAsset(ctx context.Context, kind AssetKind, fileName, contentType string, data []byte) (*Asset, error) {
	u := fmt.Sprintf("%s/assets/%ss/%s?filename=%s",
		c.baseURL, kind, c.dataset, url.QueryEscape(fileName))
	body, err := c.do(ctx, http.MethodPost, u, contentType, data)
	if err != nil {
		return nil, pipeerr.Upload(fileName, err)
	}

	var parsed struct {
		Document *Asset `json:"document"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, pipeerr.Upload(fileName, fmt.Errorf("parse response: %w", err))
	}
	if parsed.Document == nil {
		return nil, pipeerr.Upload(fileName, fmt.Errorf("response carried no asset document"))
	}
	return parsed.Document, nil
}

// invalidate drops a cached document after a mutation.
func (c *Client) invalidate(ctx context.Context, id string) {
	if c.docCache != nil && id != "" {
		c.docCache.Delete(ctx, docKeyPrefix+id)
	}
}
