package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	prominentcolor "github.com/EdlinOrg/prominentcolor"
	"github.com/craterhub/crater-api/internal/cache"
	"github.com/craterhub/crater-api/internal/database"
	"github.com/craterhub/crater-api/internal/models"
	"github.com/craterhub/crater-api/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxIconSize is the byte ceiling for icon uploads.
const MaxIconSize = 262144

var (
	ErrInvalidIconFormat = errors.New("unsupported icon format")
	ErrIconTooLarge      = errors.New("icon exceeds the maximum allowed size")
)

// IconService runs the icon asset pipeline: size and format checks,
// content-addressed upload, metadata update, and cleanup of the replaced
// blob.
type IconService struct {
	db     *database.DB
	cache  *cache.CollectionCache
	assets storage.AssetStore
}

func NewIconService(db *database.DB, cache *cache.CollectionCache, assets storage.AssetStore) *IconService {
	return &IconService{db: db, cache: cache, assets: assets}
}

// SetIcon stores the icon under a hash-derived path, points the collection
// at it, and only then removes the previous blob in the background. A
// failed cleanup leaves an orphaned object, never a broken collection.
func (s *IconService) SetIcon(ctx context.Context, collection *models.Collection, ext string, r io.Reader) error {
	contentType, ok := storage.ImageContentType(ext)
	if !ok {
		return ErrInvalidIconFormat
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxIconSize+1))
	if err != nil {
		return fmt.Errorf("failed to read icon: %w", err)
	}
	if len(data) > MaxIconSize {
		return ErrIconTooLarge
	}

	color := dominantColor(data)

	digest := sha1.Sum(data)
	path := storage.IconPath(collection.ID, hex.EncodeToString(digest[:]), ext)

	url, err := s.assets.Upload(ctx, path, contentType, data)
	if err != nil {
		return fmt.Errorf("failed to upload icon: %w", err)
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := tx.Exec(ctx, `
		UPDATE collections SET icon_url = $1, color = $2, updated_at = NOW()
		WHERE id = $3
	`, url, color, collection.ID)
	if err != nil {
		return fmt.Errorf("failed to update icon: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCollectionNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.cache.Invalidate(ctx, collection.ID); err != nil {
		return err
	}

	if collection.IconURL != nil && *collection.IconURL != url {
		s.deleteBlobAsync(ctx, collection.ID, *collection.IconURL)
	}
	return nil
}

// ClearIcon removes the stored blob best-effort, then nulls out the icon
// columns. A blob that cannot be deleted is logged and orphaned; the
// metadata update proceeds regardless.
func (s *IconService) ClearIcon(ctx context.Context, collection *models.Collection) error {
	if collection.IconURL != nil {
		if path, ok := s.assets.PathFromURL(*collection.IconURL); ok {
			if err := s.assets.Delete(ctx, path); err != nil {
				log.Warn().Err(err).
					Str("collection_id", collection.ID.String()).
					Str("path", path).
					Msg("failed to delete icon blob")
			}
		}
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := tx.Exec(ctx, `
		UPDATE collections SET icon_url = NULL, color = NULL, updated_at = NOW()
		WHERE id = $1
	`, collection.ID)
	if err != nil {
		return fmt.Errorf("failed to clear icon: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCollectionNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.cache.Invalidate(ctx, collection.ID)
}

// deleteBlobAsync removes a replaced icon blob without blocking or failing
// the request that replaced it.
func (s *IconService) deleteBlobAsync(ctx context.Context, collectionID uuid.UUID, oldURL string) {
	path, ok := s.assets.PathFromURL(oldURL)
	if !ok {
		return
	}
	cleanupCtx := context.WithoutCancel(ctx)
	go func() {
		if err := s.assets.Delete(cleanupCtx, path); err != nil {
			log.Warn().Err(err).
				Str("collection_id", collectionID.String()).
				Str("path", path).
				Msg("failed to delete replaced icon blob")
		}
	}()
}

// dominantColor extracts a representative color from the icon for theming.
// Extraction is best-effort: undecodable images (SVGs included) simply get
// no color.
func dominantColor(data []byte) *int32 {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	centroids, err := prominentcolor.Kmeans(img)
	if err != nil || len(centroids) == 0 {
		return nil
	}
	c := centroids[0].Color
	rgb := int32(c.R)<<16 | int32(c.G)<<8 | int32(c.B)
	return &rgb
}
