package services

import (
	"context"
	"errors"

	"github.com/craterhub/crater-api/internal/database"
	"github.com/craterhub/crater-api/internal/models"
	"github.com/google/uuid"
)

var ErrProjectNotFound = errors.New("project not found")

// ProjectService is the read-only lookup into the externally owned projects
// table. Collections validate membership against it at insertion time.
type ProjectService struct {
	db *database.DB
}

func NewProjectService(db *database.DB) *ProjectService {
	return &ProjectService{db: db}
}

func (s *ProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, title, created_at, updated_at
		FROM projects WHERE id = $1
	`, projectID).Scan(&project.ID, &project.OwnerID, &project.Title, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	return &project, nil
}

// GetMany returns the projects that exist among ids. Missing ids are
// omitted, not errors; callers that need all ids present compare lengths.
func (s *ProjectService) GetMany(ctx context.Context, ids []uuid.UUID) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, owner_id, title, created_at, updated_at
		FROM projects WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Title, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
