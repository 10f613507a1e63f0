package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Projects are owned by another service; this table is the referential
	// anchor for collection membership only.
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS collections (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title VARCHAR(64) NOT NULL,
		description VARCHAR(255) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'listed',
		icon_url VARCHAR(500),
		color INTEGER,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS collection_projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		collection_id UUID NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		project_id UUID NOT NULL REFERENCES projects(id),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(collection_id, project_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_collections_owner_id ON collections(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_collection_projects_collection_id ON collection_projects(collection_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_owner_id ON projects(owner_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
