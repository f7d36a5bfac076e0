package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"chat-service/internal/auth"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const (
	providerName = "github"
	profileURL   = "https://api.github.com/user"
)

type Provider struct {
	oauthConfig *oauth2.Config
}

func New(
	clientID string,
	clientSecret string,
	redirectURL string,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     githuboauth.Endpoint,
		Scopes:       []string{"read:user", "user:email"},
	}

	return &Provider{oauthConfig: oauthCfg}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL. GitHub's
// authorization endpoint does not consume PKCE parameters; the
// challenge is discarded so the handler flow stays uniform across
// providers.
func (p *Provider) AuthCodeURL(state string, _ string) string {
	return p.oauthConfig.AuthCodeURL(state)
}

func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	_ string,
) (*auth.ExternalProfile, error) {

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("github profile fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github profile fetch returned %d", resp.StatusCode)
	}

	// name, avatar_url and email are all withholdable by the user;
	// only the numeric id is guaranteed.
	var raw struct {
		ID        int64   `json:"id"`
		Login     string  `json:"login"`
		Name      *string `json:"name"`
		AvatarURL string  `json:"avatar_url"`
		Email     *string `json:"email"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("github profile parse failed: %w", err)
	}

	if raw.ID == 0 {
		return nil, errors.New("github profile missing id")
	}

	profile := &auth.ExternalProfile{
		Provider:   providerName,
		ExternalID: strconv.FormatInt(raw.ID, 10),
	}

	if raw.Name != nil {
		profile.DisplayName = *raw.Name
	}
	if raw.AvatarURL != "" {
		profile.Photos = []string{raw.AvatarURL}
	}
	if raw.Email != nil && *raw.Email != "" {
		profile.Emails = []string{*raw.Email}
	}

	return profile, nil
}
