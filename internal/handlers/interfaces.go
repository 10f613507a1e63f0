package handlers

import (
	"context"
	"io"

	"github.com/craterhub/crater-api/internal/models"
	"github.com/craterhub/crater-api/internal/services"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// CollectionServiceInterface defines the methods used by handlers from CollectionService
type CollectionServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, title, description string, projectIDs []uuid.UUID) (*models.Collection, error)
	GetByID(ctx context.Context, collectionID uuid.UUID) (*models.Collection, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]models.Collection, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error)
	Update(ctx context.Context, collectionID uuid.UUID, params services.UpdateCollectionParams) error
	Remove(ctx context.Context, collectionID uuid.UUID) (bool, error)
}

// IconServiceInterface defines the methods used by handlers from IconService
type IconServiceInterface interface {
	SetIcon(ctx context.Context, collection *models.Collection, ext string, r io.Reader) error
	ClearIcon(ctx context.Context, collection *models.Collection) error
}
