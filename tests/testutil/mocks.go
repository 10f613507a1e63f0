package testutil

import (
	"context"
	"io"

	"github.com/craterhub/crater-api/internal/models"
	"github.com/craterhub/crater-api/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService is a mock implementation of handlers.UserServiceInterface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockCollectionService is a mock implementation of handlers.CollectionServiceInterface
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) Create(ctx context.Context, ownerID uuid.UUID, title, description string, projectIDs []uuid.UUID) (*models.Collection, error) {
	args := m.Called(ctx, ownerID, title, description, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) GetByID(ctx context.Context, collectionID uuid.UUID) (*models.Collection, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) GetMany(ctx context.Context, ids []uuid.UUID) ([]models.Collection, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockCollectionService) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *MockCollectionService) Update(ctx context.Context, collectionID uuid.UUID, params services.UpdateCollectionParams) error {
	args := m.Called(ctx, collectionID, params)
	return args.Error(0)
}

func (m *MockCollectionService) Remove(ctx context.Context, collectionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, collectionID)
	return args.Bool(0), args.Error(1)
}

// MockIconService is a mock implementation of handlers.IconServiceInterface
type MockIconService struct {
	mock.Mock
}

func (m *MockIconService) SetIcon(ctx context.Context, collection *models.Collection, ext string, r io.Reader) error {
	args := m.Called(ctx, collection, ext, r)
	return args.Error(0)
}

func (m *MockIconService) ClearIcon(ctx context.Context, collection *models.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}
