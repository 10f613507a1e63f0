// Package storage holds the content-addressed asset store used for
// collection icons. Blobs live outside the relational store; the two are not
// transactionally linked.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AssetStore uploads and deletes blobs under content-addressed paths and
// reports the public URL a stored path is served from.
type AssetStore interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
	// PathFromURL maps a public URL back onto its storage path. It returns
	// false for URLs outside this store's base.
	PathFromURL(url string) (string, bool)
}

var imageContentTypes = map[string]string{
	"bmp":  "image/bmp",
	"gif":  "image/gif",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"rgb":  "image/x-rgb",
	"svg":  "image/svg+xml",
	"svgz": "image/svg+xml",
	"webp": "image/webp",
}

// ImageContentType resolves an icon file extension against the fixed
// allow-list. Unknown extensions are rejected before any bytes are read.
func ImageContentType(ext string) (string, bool) {
	contentType, ok := imageContentTypes[strings.ToLower(ext)]
	return contentType, ok
}

// IconPath builds the storage path for an icon: the content hash keys the
// blob so identical uploads land on the same object.
func IconPath(collectionID uuid.UUID, hash, ext string) string {
	return fmt.Sprintf("data/%s/%s.%s", collectionID, hash, strings.ToLower(ext))
}
