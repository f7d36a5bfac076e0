package credentials

import (
	"context"
	"errors"
	"fmt"

	"chat-service/internal/user"
)

var (
	// ErrInvalidCredentials covers both unknown-username and
	// wrong-password so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// dummyHash is a valid-format bcrypt hash compared against when the
// username does not resolve, so both failure cases cost one bcrypt
// comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type Service struct {
	directory user.Directory
}

func NewService(directory user.Directory) *Service {
	return &Service{directory: directory}
}

// Register creates a locally-registered user. The username uniqueness
// race is resolved by the directory's storage constraint;
// user.ErrDuplicateUsername passes through untouched.
func (s *Service) Register(
	ctx context.Context,
	username string,
	password string,
) (*user.User, error) {

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := s.directory.InsertLocal(ctx, username, hash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("credentials: register failed: %w", err)
	}

	return u, nil
}

// Authenticate verifies a username/password pair and returns the
// matching user. The plaintext password is never logged.
func (s *Service) Authenticate(
	ctx context.Context,
	username string,
	password string,
) (*user.User, error) {

	u, err := s.directory.FindByUsername(ctx, username)
	if err != nil {
		// storage unreachable: fail closed, never authenticated-by-default
		return nil, fmt.Errorf("credentials: lookup failed: %w", err)
	}

	if u == nil || u.PasswordHash == "" {
		_ = VerifyPassword(dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	if err := VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.directory.RecordLogin(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("credentials: record login failed: %w", err)
	}

	return u, nil
}
