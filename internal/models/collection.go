package models

import (
	"time"

	"github.com/google/uuid"
)

type CollectionStatus string

const (
	StatusListed   CollectionStatus = "listed"
	StatusUnlisted CollectionStatus = "unlisted"
	StatusPrivate  CollectionStatus = "private"
	StatusRejected CollectionStatus = "rejected"
	StatusUnknown  CollectionStatus = "unknown"
)

// ParseCollectionStatus maps a stored or requested string onto the closed
// status set. Anything unrecognized becomes StatusUnknown.
func ParseCollectionStatus(s string) CollectionStatus {
	switch CollectionStatus(s) {
	case StatusListed, StatusUnlisted, StatusPrivate, StatusRejected:
		return CollectionStatus(s)
	default:
		return StatusUnknown
	}
}

// IsApproved reports whether the collection is in a normal, owner-managed
// state as opposed to one imposed by moderation.
func (s CollectionStatus) IsApproved() bool {
	return s == StatusListed || s == StatusUnlisted || s == StatusPrivate
}

// CanBeRequested reports whether a non-moderator may ask for this status.
func (s CollectionStatus) CanBeRequested() bool {
	return s == StatusListed || s == StatusUnlisted || s == StatusPrivate
}

// IsHidden reports whether the collection is invisible to everyone except
// its owner and moderators.
func (s CollectionStatus) IsHidden() bool {
	return s == StatusPrivate || s == StatusRejected || s == StatusUnknown
}

type Collection struct {
	ID          uuid.UUID        `json:"id"`
	OwnerID     uuid.UUID        `json:"owner_id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      CollectionStatus `json:"status"`
	IconURL     *string          `json:"icon_url,omitempty"`
	Color       *int32           `json:"color,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	ProjectIDs  []uuid.UUID      `json:"projects"`
}
