// Package oauth implements the authorization-code handshake against external
// identity providers. Each provider is described by the same Provider shape
// and produces a normalized profile, so callback handling is written once.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davidldv/taskforge/internal/config"
	"github.com/davidldv/taskforge/internal/model"
)

// profileFetcher retrieves and normalizes the provider's user profile using
// the access token obtained from the code exchange.
type profileFetcher func(ctx context.Context, client *http.Client, accessToken string) (model.ExternalProfile, error)

// Provider holds one identity provider's endpoints and client credentials.
type Provider struct {
	Name         model.Provider
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	Scopes       []string

	fetchProfile profileFetcher
	client       *http.Client
}

// Registry maps enabled providers by name. Providers without configured
// client credentials are absent.
type Registry map[model.Provider]*Provider

// NewRegistry builds the provider registry from configuration.
func NewRegistry(cfg config.OAuth) Registry {
	client := &http.Client{Timeout: 10 * time.Second}
	registry := Registry{}

	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" {
		registry[model.ProviderGoogle] = newGoogle(cfg.Google, client)
	}
	if cfg.GitHub.ClientID != "" && cfg.GitHub.ClientSecret != "" {
		registry[model.ProviderGitHub] = newGitHub(cfg.GitHub, client)
	}

	return registry
}

// Get returns the provider by name, or false when it is not configured.
func (r Registry) Get(name model.Provider) (*Provider, bool) {
	p, ok := r[name]
	return p, ok
}

// AuthCodeURL builds the provider's authorization URL carrying the given
// anti-forgery state.
func (p *Provider) AuthCodeURL(state string) string {
	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", p.ClientID)
	query.Set("redirect_uri", p.RedirectURL)
	query.Set("scope", strings.Join(p.Scopes, " "))
	query.Set("state", state)

	return p.AuthURL + "?" + query.Encode()
}

// Exchange trades the one-time authorization code for an access token.
func (p *Provider) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", p.RedirectURL)
	form.Set("client_id", p.ClientID)
	form.Set("client_secret", p.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("token response missing access token")
	}

	return payload.AccessToken, nil
}

// FetchProfile retrieves the provider's asserted profile for the token.
func (p *Provider) FetchProfile(ctx context.Context, accessToken string) (model.ExternalProfile, error) {
	return p.fetchProfile(ctx, p.client, accessToken)
}

func getJSON(ctx context.Context, client *http.Client, endpoint, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("profile request failed with status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
