package oauth

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/davidldv/taskforge/internal/config"
	"github.com/davidldv/taskforge/internal/model"
)

// Endpoint vars so tests can point them at a stub server.
var (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

func newGitHub(creds config.ProviderCredentials, client *http.Client) *Provider {
	return &Provider{
		Name:         model.ProviderGitHub,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURL,
		AuthURL:      "https://github.com/login/oauth/authorize",
		TokenURL:     "https://github.com/login/oauth/access_token",
		Scopes:       []string{"read:user", "user:email"},
		fetchProfile: fetchGitHubProfile,
		client:       client,
	}
}

func fetchGitHubProfile(ctx context.Context, client *http.Client, accessToken string) (model.ExternalProfile, error) {
	var payload struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(ctx, client, githubUserURL, accessToken, &payload); err != nil {
		return model.ExternalProfile{}, err
	}
	if payload.ID == 0 {
		return model.ExternalProfile{}, errors.New("github profile missing id")
	}

	email := payload.Email
	if email == "" {
		// The user profile omits the email unless it is public; the emails
		// endpoint still returns the verified primary one.
		email = fetchGitHubPrimaryEmail(ctx, client, accessToken)
	}

	return model.ExternalProfile{
		ProviderID:  strconv.FormatInt(payload.ID, 10),
		Email:       email,
		DisplayName: firstNonEmpty(payload.Name, payload.Login, email),
	}, nil
}

func fetchGitHubPrimaryEmail(ctx context.Context, client *http.Client, accessToken string) string {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, client, githubEmailsURL, accessToken, &emails); err != nil {
		return ""
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	return ""
}
