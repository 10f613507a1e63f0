package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is an external resource that collections reference. This core only
// reads projects; creating and mutating them belongs to another service.
type Project struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
