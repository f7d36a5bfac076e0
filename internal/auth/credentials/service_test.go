package credentials

import (
	"context"
	"testing"
	"time"

	"chat-service/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	user.Directory

	findByUsernameFn func(ctx context.Context, username string) (*user.User, error)
	insertLocalFn    func(ctx context.Context, username, passwordHash string) (*user.User, error)

	recordedLogins []string
}

func (f *fakeDirectory) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	if f.findByUsernameFn != nil {
		return f.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (f *fakeDirectory) InsertLocal(ctx context.Context, username, passwordHash string) (*user.User, error) {
	if f.insertLocalFn != nil {
		return f.insertLocalFn(ctx, username, passwordHash)
	}
	return nil, nil
}

func (f *fakeDirectory) RecordLogin(_ context.Context, id string) error {
	f.recordedLogins = append(f.recordedLogins, id)
	return nil
}

func TestRegisterHashesPassword(t *testing.T) {
	var storedHash string

	dir := &fakeDirectory{
		insertLocalFn: func(_ context.Context, username, passwordHash string) (*user.User, error) {
			storedHash = passwordHash
			return &user.User{
				ID:           "u-1",
				Username:     username,
				PasswordHash: passwordHash,
				CreatedAt:    time.Now(),
				LoginCount:   1,
			}, nil
		},
	}

	svc := NewService(dir)

	u, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	require.NotNil(t, u)

	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "secret1", storedHash, "plaintext password must never be stored")
	assert.NoError(t, VerifyPassword(storedHash, "secret1"))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewService(&fakeDirectory{})

	_, err := svc.Register(context.Background(), "alice", "pw")
	require.Error(t, err)
}

func TestRegisterPropagatesDuplicateUsername(t *testing.T) {
	dir := &fakeDirectory{
		insertLocalFn: func(_ context.Context, _, _ string) (*user.User, error) {
			return nil, user.ErrDuplicateUsername
		},
	}

	svc := NewService(dir)

	_, err := svc.Register(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, user.ErrDuplicateUsername)
}

func TestAuthenticate(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	alice := &user.User{
		ID:           "u-1",
		Username:     "alice",
		PasswordHash: hash,
	}

	dir := &fakeDirectory{
		findByUsernameFn: func(_ context.Context, username string) (*user.User, error) {
			if username == "alice" {
				return alice, nil
			}
			return nil, nil
		},
	}

	svc := NewService(dir)

	t.Run("correct password returns user", func(t *testing.T) {
		u, err := svc.Authenticate(context.Background(), "alice", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
		assert.Contains(t, dir.recordedLogins, "u-1")
	})

	t.Run("wrong password fails", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username fails identically", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthenticateFailsClosedOnDirectoryError(t *testing.T) {
	dir := &fakeDirectory{
		findByUsernameFn: func(_ context.Context, _ string) (*user.User, error) {
			return nil, assert.AnError
		},
	}

	svc := NewService(dir)

	_, err := svc.Authenticate(context.Background(), "alice", "secret1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
