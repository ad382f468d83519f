package oauth

import (
	"context"
	"errors"
	"net/http"

	"github.com/davidldv/taskforge/internal/config"
	"github.com/davidldv/taskforge/internal/model"
)

// googleUserInfoURL is a var so tests can point it at a stub server.
var googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

func newGoogle(creds config.ProviderCredentials, client *http.Client) *Provider {
	return &Provider{
		Name:         model.ProviderGoogle,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURL,
		AuthURL:      "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:     "https://oauth2.googleapis.com/token",
		Scopes:       []string{"openid", "email", "profile"},
		fetchProfile: fetchGoogleProfile,
		client:       client,
	}
}

func fetchGoogleProfile(ctx context.Context, client *http.Client, accessToken string) (model.ExternalProfile, error) {
	var payload struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(ctx, client, googleUserInfoURL, accessToken, &payload); err != nil {
		return model.ExternalProfile{}, err
	}
	if payload.Sub == "" {
		return model.ExternalProfile{}, errors.New("google profile missing subject")
	}

	return model.ExternalProfile{
		ProviderID:  payload.Sub,
		Email:       payload.Email,
		DisplayName: firstNonEmpty(payload.Name, payload.Email, payload.Sub),
	}, nil
}
