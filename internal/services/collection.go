package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/craterhub/crater-api/internal/cache"
	"github.com/craterhub/crater-api/internal/database"
	"github.com/craterhub/crater-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrInvalidTitle       = errors.New("title must be 3-64 characters and contain a letter or digit")
	ErrInvalidDescription = errors.New("description must be 3-255 characters")
	ErrTooManyProjects    = errors.New("too many projects for one collection")
)

// Membership bounds: the replace-all edit semantics stay cheap because the
// join set is capped.
const (
	MaxInitialProjects = 32
	MaxProjects        = 64
)

var titleCharPattern = regexp.MustCompile(`[\p{L}\p{N}]`)

// ProjectLookup resolves project ids against the external projects table.
type ProjectLookup interface {
	GetMany(ctx context.Context, ids []uuid.UUID) ([]models.Project, error)
}

type CollectionService struct {
	db       *database.DB
	cache    *cache.CollectionCache
	projects ProjectLookup
}

func NewCollectionService(db *database.DB, cache *cache.CollectionCache, projects ProjectLookup) *CollectionService {
	return &CollectionService{db: db, cache: cache, projects: projects}
}

func validateTitle(title string) error {
	length := utf8.RuneCountInString(title)
	if length < 3 || length > 64 || !titleCharPattern.MatchString(title) {
		return ErrInvalidTitle
	}
	return nil
}

func validateDescription(description string) error {
	length := utf8.RuneCountInString(description)
	if length < 3 || length > 255 {
		return ErrInvalidDescription
	}
	return nil
}

func sortProjectIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
}

// Create inserts the collection row and its initial membership links in one
// transaction and returns the entity built from the inputs plus the
// server-assigned timestamps, without re-reading it. Initial project ids
// that do not resolve are dropped silently.
func (s *CollectionService) Create(ctx context.Context, ownerID uuid.UUID, title, description string, projectIDs []uuid.UUID) (*models.Collection, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if len(projectIDs) > MaxInitialProjects {
		return nil, ErrTooManyProjects
	}

	resolved, err := s.projects.GetMany(ctx, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve initial projects: %w", err)
	}
	resolvedIDs := make([]uuid.UUID, 0, len(resolved))
	for _, project := range resolved {
		resolvedIDs = append(resolvedIDs, project.ID)
	}
	sortProjectIDs(resolvedIDs)

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	collection := models.Collection{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      models.StatusListed,
		ProjectIDs:  resolvedIDs,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO collections (id, owner_id, title, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, collection.ID, ownerID, title, description, string(collection.Status)).Scan(
		&collection.CreatedAt, &collection.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	for _, projectID := range resolvedIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO collection_projects (collection_id, project_id)
			VALUES ($1, $2)
			ON CONFLICT (collection_id, project_id) DO NOTHING
		`, collection.ID, projectID); err != nil {
			return nil, fmt.Errorf("failed to link project: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &collection, nil
}

// GetByID is cache-first: a miss reads the transactional store and
// repopulates the cache.
func (s *CollectionService) GetByID(ctx context.Context, collectionID uuid.UUID) (*models.Collection, error) {
	cached, err := s.cache.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	collection, err := s.readCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *CollectionService) readCollection(ctx context.Context, collectionID uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	var status string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, title, description, status, icon_url, color, created_at, updated_at
		FROM collections WHERE id = $1
	`, collectionID).Scan(
		&collection.ID, &collection.OwnerID, &collection.Title, &collection.Description,
		&status, &collection.IconURL, &collection.Color,
		&collection.CreatedAt, &collection.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}
	collection.Status = models.ParseCollectionStatus(status)

	collection.ProjectIDs, err = s.readProjectIDs(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

func (s *CollectionService) readProjectIDs(ctx context.Context, collectionID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT project_id FROM collection_projects
		WHERE collection_id = $1
		ORDER BY project_id
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection projects: %w", err)
	}
	defer rows.Close()

	projectIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var projectID uuid.UUID
		if err := rows.Scan(&projectID); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		projectIDs = append(projectIDs, projectID)
	}
	return projectIDs, rows.Err()
}

// GetMany is the batched form of GetByID. Unknown ids are omitted from the
// result, not errors; the order of the input ids is preserved.
func (s *CollectionService) GetMany(ctx context.Context, ids []uuid.UUID) ([]models.Collection, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found, err := s.cache.GetMany(ctx, unique)
	if err != nil {
		return nil, err
	}

	missing := make([]uuid.UUID, 0, len(unique))
	for _, id := range unique {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		fetched, err := s.readCollections(ctx, missing)
		if err != nil {
			return nil, err
		}
		for id, collection := range fetched {
			if err := s.cache.Set(ctx, collection); err != nil {
				return nil, err
			}
			found[id] = collection
		}
	}

	collections := make([]models.Collection, 0, len(unique))
	for _, id := range unique {
		if collection, ok := found[id]; ok {
			collections = append(collections, *collection)
		}
	}
	return collections, nil
}

func (s *CollectionService) readCollections(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Collection, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, owner_id, title, description, status, icon_url, color, created_at, updated_at
		FROM collections WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read collections: %w", err)
	}
	defer rows.Close()

	fetched := make(map[uuid.UUID]*models.Collection, len(ids))
	for rows.Next() {
		var collection models.Collection
		var status string
		if err := rows.Scan(
			&collection.ID, &collection.OwnerID, &collection.Title, &collection.Description,
			&status, &collection.IconURL, &collection.Color,
			&collection.CreatedAt, &collection.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collection.Status = models.ParseCollectionStatus(status)
		collection.ProjectIDs = make([]uuid.UUID, 0)
		fetched[collection.ID] = &collection
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(fetched) == 0 {
		return fetched, nil
	}

	linkRows, err := s.db.Pool.Query(ctx, `
		SELECT collection_id, project_id FROM collection_projects
		WHERE collection_id = ANY($1)
		ORDER BY project_id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection projects: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var collectionID, projectID uuid.UUID
		if err := linkRows.Scan(&collectionID, &projectID); err != nil {
			return nil, fmt.Errorf("failed to scan project link: %w", err)
		}
		if collection, ok := fetched[collectionID]; ok {
			collection.ProjectIDs = append(collection.ProjectIDs, projectID)
		}
	}
	return fetched, linkRows.Err()
}

// GetByOwner lists every collection owned by a user, regardless of status.
// Visibility filtering is the caller's concern.
func (s *CollectionService) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Collection, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id FROM collections
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan collection id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return s.GetMany(ctx, ids)
}

// UpdateCollectionParams carries the optional fields of an edit. A non-nil
// ProjectIDs replaces the entire membership set.
type UpdateCollectionParams struct {
	Title       *string
	Description *string
	Status      *models.CollectionStatus
	ProjectIDs  *[]uuid.UUID
}

// Update applies the provided fields, each as its own statement, inside one
// transaction; membership replacement runs in the same transaction. Any
// failure aborts the whole edit. The cache entry is invalidated after the
// transaction commits.
func (s *CollectionService) Update(ctx context.Context, collectionID uuid.UUID, params UpdateCollectionParams) error {
	if params.Title == nil && params.Description == nil && params.Status == nil && params.ProjectIDs == nil {
		return ErrNoFieldsToUpdate
	}

	var title string
	if params.Title != nil {
		title = strings.TrimSpace(*params.Title)
		if err := validateTitle(title); err != nil {
			return err
		}
	}
	if params.Description != nil {
		if err := validateDescription(*params.Description); err != nil {
			return err
		}
	}

	var replacementIDs []uuid.UUID
	if params.ProjectIDs != nil {
		requested := *params.ProjectIDs
		if len(requested) > MaxProjects {
			return ErrTooManyProjects
		}

		resolved, err := s.projects.GetMany(ctx, requested)
		if err != nil {
			return fmt.Errorf("failed to resolve projects: %w", err)
		}
		existing := make(map[uuid.UUID]struct{}, len(resolved))
		for _, project := range resolved {
			existing[project.ID] = struct{}{}
		}
		for _, projectID := range requested {
			if _, ok := existing[projectID]; !ok {
				return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
			}
			replacementIDs = append(replacementIDs, projectID)
		}
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if params.Title != nil {
		result, err := tx.Exec(ctx, `
			UPDATE collections SET title = $1, updated_at = NOW()
			WHERE id = $2
		`, title, collectionID)
		if err != nil {
			return fmt.Errorf("failed to update title: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrCollectionNotFound
		}
	}

	if params.Description != nil {
		result, err := tx.Exec(ctx, `
			UPDATE collections SET description = $1, updated_at = NOW()
			WHERE id = $2
		`, *params.Description, collectionID)
		if err != nil {
			return fmt.Errorf("failed to update description: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrCollectionNotFound
		}
	}

	if params.Status != nil {
		result, err := tx.Exec(ctx, `
			UPDATE collections SET status = $1, updated_at = NOW()
			WHERE id = $2
		`, string(*params.Status), collectionID)
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrCollectionNotFound
		}
	}

	if params.ProjectIDs != nil {
		if _, err := tx.Exec(ctx, `
			DELETE FROM collection_projects WHERE collection_id = $1
		`, collectionID); err != nil {
			return fmt.Errorf("failed to clear collection projects: %w", err)
		}

		for _, projectID := range replacementIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO collection_projects (collection_id, project_id)
				VALUES ($1, $2)
				ON CONFLICT (collection_id, project_id) DO NOTHING
			`, collectionID, projectID); err != nil {
				return fmt.Errorf("failed to link project: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.cache.Invalidate(ctx, collectionID)
}

// Remove deletes the membership links and the row in one transaction and
// reports whether a row existed.
func (s *CollectionService) Remove(ctx context.Context, collectionID uuid.UUID) (bool, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM collection_projects WHERE collection_id = $1
	`, collectionID); err != nil {
		return false, fmt.Errorf("failed to delete collection projects: %w", err)
	}

	result, err := tx.Exec(ctx, `
		DELETE FROM collections WHERE id = $1
	`, collectionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete collection: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if err := s.cache.Invalidate(ctx, collectionID); err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
