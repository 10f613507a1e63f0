// Package auth holds the pure authorization decisions: read visibility,
// write ownership, and the status transition policy. Nothing here touches
// storage.
package auth

import (
	"github.com/craterhub/crater-api/internal/models"
)

// IsAuthorized reports whether actor may see the collection. Hidden
// collections are visible only to their owner and moderators; everyone,
// including anonymous actors, sees the rest.
func IsAuthorized(collection *models.Collection, actor *models.User) bool {
	if !collection.Status.IsHidden() {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.ID == collection.OwnerID || actor.IsMod()
}

// CanModify reports whether actor may mutate the collection. Unlike reads,
// public visibility grants nothing: only the owner and moderators write.
func CanModify(collection *models.Collection, actor *models.User) bool {
	if actor == nil {
		return false
	}
	return actor.ID == collection.OwnerID || actor.IsMod()
}

// CanSetStatus decides a requested status transition. Moderators may set
// anything; owners may only move between requestable statuses while the
// collection is in an approved state.
func CanSetStatus(actor *models.User, current, requested models.CollectionStatus) bool {
	if actor == nil {
		return false
	}
	if actor.IsMod() {
		return true
	}
	return current.IsApproved() && requested.CanBeRequested()
}

// FilterAuthorized narrows a batch read down to what actor may see. Hidden
// entries are dropped silently so their existence does not leak.
func FilterAuthorized(collections []models.Collection, actor *models.User) []models.Collection {
	visible := make([]models.Collection, 0, len(collections))
	for i := range collections {
		if IsAuthorized(&collections[i], actor) {
			visible = append(visible, collections[i])
		}
	}
	return visible
}
