package session

import (
	"context"
	"time"
)

// Session represents an authenticated user session.
// It intentionally stores only an identity pointer, never credentials
// or profile data.
type Session struct {
	SessionID string    // unique session identifier
	UserID    string    // references users.id
	CreatedAt time.Time // session creation time
	ExpiresAt time.Time // absolute expiry time
}

// Store defines how sessions are stored and retrieved. Both the HTTP
// layer and the websocket handshake resolve tokens through the same
// Store, so a session established over HTTP authorizes a later socket
// connection. Implementations must be backed by shared storage, not an
// in-process map.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
