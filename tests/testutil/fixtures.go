package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/craterhub/crater-api/internal/database"
	"github.com/craterhub/crater-api/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email: fmt.Sprintf("user%d@example.com", f.counter),
		Name:  fmt.Sprintf("Test User %d", f.counter),
		Role:  models.RoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name, role)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, role, created_at, updated_at
	`, user.Email, user.Name, user.Role).Scan(
		&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithRole sets the user's platform role
func WithRole(role string) UserOption {
	return func(u *models.User) {
		u.Role = role
	}
}

// CreateProject creates a test project owned by the given user
func (f *Fixtures) CreateProject(t *testing.T, owner *models.User) *models.Project {
	t.Helper()
	f.counter++

	project := &models.Project{
		OwnerID: owner.ID,
		Title:   fmt.Sprintf("Test Project %d", f.counter),
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO projects (owner_id, title)
		VALUES ($1, $2)
		RETURNING id, owner_id, title, created_at, updated_at
	`, project.OwnerID, project.Title).Scan(
		&project.ID, &project.OwnerID, &project.Title, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	return project
}

// CreateCollection creates a test collection owned by the given user
func (f *Fixtures) CreateCollection(t *testing.T, owner *models.User, opts ...CollectionOption) *models.Collection {
	t.Helper()
	f.counter++

	col := &models.Collection{
		OwnerID:     owner.ID,
		Title:       fmt.Sprintf("Test Collection %d", f.counter),
		Description: "Created by the fixtures factory",
		Status:      models.StatusListed,
	}

	for _, opt := range opts {
		opt(col)
	}

	ctx := context.Background()
	var status string
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO collections (owner_id, title, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, title, description, status, created_at, updated_at
	`, col.OwnerID, col.Title, col.Description, string(col.Status)).Scan(
		&col.ID, &col.OwnerID, &col.Title, &col.Description, &status,
		&col.CreatedAt, &col.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}
	col.Status = models.ParseCollectionStatus(status)

	return col
}

// CollectionOption configures a test collection
type CollectionOption func(*models.Collection)

// WithTitle sets the collection title
func WithTitle(title string) CollectionOption {
	return func(c *models.Collection) {
		c.Title = title
	}
}

// WithStatus sets the collection status
func WithStatus(status models.CollectionStatus) CollectionOption {
	return func(c *models.Collection) {
		c.Status = status
	}
}

// LinkProject links a project into a collection's membership set
func (f *Fixtures) LinkProject(t *testing.T, collection *models.Collection, project *models.Project) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO collection_projects (collection_id, project_id)
		VALUES ($1, $2)
		ON CONFLICT (collection_id, project_id) DO NOTHING
	`, collection.ID, project.ID)
	if err != nil {
		t.Fatalf("failed to link project: %v", err)
	}
}
