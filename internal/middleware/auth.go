package middleware

import (
	"strings"

	"github.com/craterhub/crater-api/internal/models"
	"github.com/craterhub/crater-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	UserKey   = "user"
	ScopesKey = "scopes"
)

// Auth requires a valid bearer token and stores the authenticated user and
// its scopes on the request context.
func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		claims, ok := bearerClaims(c, jwtService)
		if !ok {
			return
		}

		c.Set(UserKey, userFromClaims(claims))
		c.Set(ScopesKey, claims.Scopes)

		c.Next()
	}
}

// OptionalAuth attaches the user when a valid bearer token is present but
// lets anonymous requests through. Read endpoints use it so public
// collections stay publicly readable.
func OptionalAuth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		claims, ok := bearerClaims(c, jwtService)
		if !ok {
			return
		}

		c.Set(UserKey, userFromClaims(claims))
		c.Set(ScopesKey, claims.Scopes)

		c.Next()
	}
}

func bearerClaims(c *drift.Context, jwtService *services.JWTService) (*services.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.Unauthorized("missing authorization header")
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		c.Unauthorized("invalid authorization header format")
		return nil, false
	}

	claims, err := jwtService.ValidateAccessToken(parts[1])
	if err != nil {
		c.Unauthorized("invalid or expired token")
		return nil, false
	}
	return claims, true
}

func userFromClaims(claims *services.Claims) *models.User {
	return &models.User{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}
}

// GetUser returns the authenticated user, or nil for anonymous requests.
func GetUser(c *drift.Context) *models.User {
	if value, ok := c.Get(UserKey); ok {
		if user, ok := value.(*models.User); ok {
			return user
		}
	}
	return nil
}

// GetScopes returns the token's scopes. Anonymous requests carry none.
func GetScopes(c *drift.Context) models.Scopes {
	if value, ok := c.Get(ScopesKey); ok {
		if scopes, ok := value.(models.Scopes); ok {
			return scopes
		}
	}
	return 0
}
