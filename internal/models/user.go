package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform-wide user roles
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsMod reports whether the user holds moderation authority, which
// overrides ownership and visibility rules everywhere they apply.
func (u *User) IsMod() bool {
	return u != nil && (u.Role == RoleModerator || u.Role == RoleAdmin)
}
