// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadedMedia describes an image after it has been stored remotely.
// It is immutable once produced and is the only representation of the
// image the publisher ever sees.
type UploadedMedia struct {
	ID            uuid.UUID
	RemoteAssetID string // stable id assigned by the asset store
	URL           string
	FileName      string
	SizeBytes     int64
	ContentType   string
	Meta          Metadata
	AltText       string
	Caption       string
	UploadedAt    time.Time
}

// IsImage returns true if the media item is an image type.
func (m *UploadedMedia) IsImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}
