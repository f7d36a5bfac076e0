package auth

import "chat-service/internal/user"

// Defaults applied when a provider withholds profile fields. Providers
// may omit any of name, photos and emails depending on the account's
// privacy settings; missing-field behavior is a declared contract, not
// an ad hoc truthiness check at the call site.
const (
	DefaultDisplayName = "Unknown"
	DefaultEmail       = "No public email"
)

// ExternalProfile is the raw profile payload returned by an OAuth
// provider's callback. Only Provider and ExternalID are guaranteed.
type ExternalProfile struct {
	Provider    string
	ExternalID  string
	DisplayName string
	Photos      []string
	Emails      []string
}

// Normalize maps the raw profile onto the identity facts stored in the
// directory, filling every optional field with its declared default.
func (p ExternalProfile) Normalize() user.ExternalIdentity {
	ext := user.ExternalIdentity{
		Provider:       p.Provider,
		ProviderUserID: p.ExternalID,
		DisplayName:    p.DisplayName,
		Email:          DefaultEmail,
	}

	if ext.DisplayName == "" {
		ext.DisplayName = DefaultDisplayName
	}
	if len(p.Photos) > 0 {
		ext.PhotoURL = p.Photos[0]
	}
	if len(p.Emails) > 0 && p.Emails[0] != "" {
		ext.Email = p.Emails[0]
	}

	return ext
}
