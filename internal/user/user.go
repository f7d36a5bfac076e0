package user

import "time"

// User is the single durable account record. A user is either locally
// registered (username + password hash) or externally linked
// (provider + provider-scoped user id); profile fields come from the
// external provider and are defaulted at link time.
type User struct {
	ID             string
	Username       string
	PasswordHash   string
	Provider       string
	ProviderUserID string
	DisplayName    string
	PhotoURL       string
	Email          string
	CreatedAt      time.Time
	LastLoginAt    time.Time
	LoginCount     int64
}

// Name returns the best label available for display purposes.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// ExternalIdentity carries the normalized facts stored when an
// external identity is linked for the first time.
type ExternalIdentity struct {
	Provider       string
	ProviderUserID string
	DisplayName    string
	PhotoURL       string
	Email          string
}
