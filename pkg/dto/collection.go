package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCollectionRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Projects    []string `json:"projects,omitempty"`
}

type EditCollectionRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	NewProjects *[]string `json:"new_projects,omitempty"`
}

type CollectionResponse struct {
	ID          uuid.UUID   `json:"id"`
	OwnerID     uuid.UUID   `json:"owner_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      string      `json:"status"`
	IconURL     *string     `json:"icon_url,omitempty"`
	Color       *int32      `json:"color,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Projects    []uuid.UUID `json:"projects"`
}
