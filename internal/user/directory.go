package user

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateUsername is returned by InsertLocal when the
	// username is already taken. The check is the storage layer's
	// unique index, not an application-level existence check.
	ErrDuplicateUsername = errors.New("user: username already exists")
)

// Directory is the persistence abstraction for user records.
// Lookups return (nil, nil) when no record matches.
type Directory interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)

	// UpsertByExternalID atomically finds or creates the record for
	// (provider, provider_user_id). First call creates the record
	// from ext with login_count=1; later calls only bump
	// last_login_at and login_count, never the profile fields.
	UpsertByExternalID(ctx context.Context, ext ExternalIdentity) (*User, error)

	// InsertLocal creates a locally-registered record, failing with
	// ErrDuplicateUsername when the name is taken.
	InsertLocal(ctx context.Context, username, passwordHash string) (*User, error)

	// RecordLogin bumps last_login_at and login_count after a
	// successful local authentication.
	RecordLogin(ctx context.Context, id string) error
}
