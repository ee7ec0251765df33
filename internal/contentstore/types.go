// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contentstore

import (
	"context"
	"encoding/json"
	"time"
)

// Document is a content store document: a stable id, a type, a revision
// assigned by the store, and an open field set. The system fields are
// kept out of Fields so callers never clobber them.
type Document struct {
	ID     string
	Type   string
	Rev    string
	Fields map[string]any
}

// MarshalJSON flattens system fields and the field map into one object.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+3)
	for k, v := range d.Fields {
		out[k] = v
	}
	if d.ID != "" {
		out["_id"] = d.ID
	}
	if d.Type != "" {
		out["_type"] = d.Type
	}
	if d.Rev != "" {
		out["_rev"] = d.Rev
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits system fields back out of the flat object.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["_id"].(string); ok {
		d.ID = v
	}
	if v, ok := raw["_type"].(string); ok {
		d.Type = v
	}
	if v, ok := raw["_rev"].(string); ok {
		d.Rev = v
	}
	delete(raw, "_id")
	delete(raw, "_type")
	delete(raw, "_rev")
	d.Fields = raw
	return nil
}

// StringField returns a string field value, or "" when absent or not a
// string.
func (d *Document) StringField(key string) string {
	if d.Fields == nil {
		return ""
	}
	v, _ := d.Fields[key].(string)
	return v
}

// AssetKind selects the asset endpoint.
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetFile  AssetKind = "file"
)

// Asset describes a stored binary after upload.
type Asset struct {
	ID               string    `json:"_id"`
	URL              string    `json:"url"`
	OriginalFilename string    `json:"originalFilename"`
	MimeType         string    `json:"mimeType"`
	Size             int64     `json:"size"`
	CreatedAt        time.Time `json:"_createdAt"`
}

// Store is the remote content store contract the pipeline depends on.
// The query language passed to Fetch is opaque to callers and forwarded
// verbatim.
type Store interface {
	Fetch(ctx context.Context, query string, params map[string]any, out any) error
	Create(ctx context.Context, doc *Document) (*Document, error)
	CreateIfNotExists(ctx context.Context, doc *Document) (*Document, error)
	Patch(id string) *Patch
	Delete(ctx context.Context, id string) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	UploadAsset(ctx context.Context, kind AssetKind, fileName, contentType string, data []byte) (*Asset, error)
}

// Committer finalizes a patch. Fakes supply their own to record patches.
type Committer func(ctx context.Context, p *Patch) (*Document, error)

// Patch accumulates set/unset operations against one document and
// applies them atomically on Commit.
type Patch struct {
	id     string
	set    map[string]any
	unset  []string
	commit Committer
}

// NewPatch creates a patch bound to a committer.
func NewPatch(id string, commit Committer) *Patch {
	return &Patch{id: id, set: make(map[string]any), commit: commit}
}

// Set merges fields into the patch.
func (p *Patch) Set(fields map[string]any) *Patch {
	for k, v := range fields {
		p.set[k] = v
	}
	return p
}

// Unset marks keys for removal.
func (p *Patch) Unset(keys ...string) *Patch {
	p.unset = append(p.unset, keys...)
	return p
}

// Commit applies the accumulated operations.
func (p *Patch) Commit(ctx context.Context) (*Document, error) {
	return p.commit(ctx, p)
}

// ID returns the target document id.
func (p *Patch) ID() string { return p.id }

// SetFields returns the accumulated set operations.
func (p *Patch) SetFields() map[string]any { return p.set }

// UnsetKeys returns the accumulated unset operations.
func (p *Patch) UnsetKeys() []string { return p.unset }

// Ref builds a reference field pointing at a document id, in the wire
// shape the store expects.
func Ref(id string) map[string]any {
	return map[string]any{"_type": "reference", "_ref": id}
}

// ImageRef builds an embedded-image reference pointing at an asset id.
func ImageRef(assetID string) map[string]any {
	return map[string]any{
		"_type": "image",
		"asset": map[string]any{"_type": "reference", "_ref": assetID},
	}
}
