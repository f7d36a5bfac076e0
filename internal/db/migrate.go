package db

import (
	"context"
	"database/sql"
)

const usersMigration = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    username text,
    password_hash text,
    provider text,
    provider_user_id text,
    display_name text NOT NULL DEFAULT '',
    photo_url text NOT NULL DEFAULT '',
    email text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    last_login_at timestamptz NOT NULL DEFAULT NOW(),
    login_count bigint NOT NULL DEFAULT 0,
    CONSTRAINT users_has_identity CHECK (
        username IS NOT NULL
        OR (provider IS NOT NULL AND provider_user_id IS NOT NULL)
    )
);

CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_unique
ON users (LOWER(username))
WHERE username IS NOT NULL;

CREATE UNIQUE INDEX IF NOT EXISTS users_provider_unique
ON users (provider, provider_user_id)
WHERE provider IS NOT NULL;
`

// RunMigration creates the users table and its uniqueness constraints.
// Username and (provider, provider_user_id) races are resolved by the
// storage layer, not by application-level existence checks.
func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, usersMigration)
	return err
}
