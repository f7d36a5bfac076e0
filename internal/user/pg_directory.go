package user

import (
	"context"
	"database/sql"
	"fmt"

	"chat-service/internal/db"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

const userColumns = `
	id, username, password_hash, provider, provider_user_id,
	display_name, photo_url, email, created_at, last_login_at, login_count`

// PGDirectory is the Postgres-backed Directory.
type PGDirectory struct {
	db *db.DB
}

func NewPGDirectory(db *db.DB) *PGDirectory {
	return &PGDirectory{db: db}
}

func (d *PGDirectory) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username)

	return scanUser(row)
}

func (d *PGDirectory) FindByID(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		// a malformed id cannot reference a record
		return nil, nil
	}

	row := d.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	return scanUser(row)
}

func (d *PGDirectory) UpsertByExternalID(ctx context.Context, ext ExternalIdentity) (*User, error) {
	// Single statement so two concurrent first-logins from the same
	// external identity cannot both insert. The DO UPDATE branch
	// touches only the login bookkeeping, never the profile fields
	// created on first insert.
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO users (
			provider, provider_user_id,
			display_name, photo_url, email,
			login_count, last_login_at
		)
		VALUES ($1, $2, $3, $4, $5, 1, NOW())
		ON CONFLICT (provider, provider_user_id) WHERE provider IS NOT NULL
		DO UPDATE SET
			last_login_at = NOW(),
			login_count   = users.login_count + 1
		RETURNING `+userColumns+`
	`,
		ext.Provider,
		ext.ProviderUserID,
		ext.DisplayName,
		ext.PhotoURL,
		ext.Email,
	)

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("user: upsert by external id failed: %w", err)
	}
	return u, nil
}

func (d *PGDirectory) InsertLocal(ctx context.Context, username, passwordHash string) (*User, error) {
	row := d.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, login_count, last_login_at)
		VALUES ($1, $2, 1, NOW())
		RETURNING `+userColumns+`
	`, username, passwordHash)

	u, err := scanUser(row)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("user: insert local failed: %w", err)
	}
	return u, nil
}

func (d *PGDirectory) RecordLogin(ctx context.Context, id string) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE users
		SET last_login_at = NOW(),
		    login_count   = login_count + 1
		WHERE id = $1
	`, id)
	return err
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u              User
		username       sql.NullString
		passwordHash   sql.NullString
		provider       sql.NullString
		providerUserID sql.NullString
	)

	err := row.Scan(
		&u.ID,
		&username,
		&passwordHash,
		&provider,
		&providerUserID,
		&u.DisplayName,
		&u.PhotoURL,
		&u.Email,
		&u.CreatedAt,
		&u.LastLoginAt,
		&u.LoginCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.Username = username.String
	u.PasswordHash = passwordHash.String
	u.Provider = provider.String
	u.ProviderUserID = providerUserID.String

	return &u, nil
}
