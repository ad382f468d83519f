package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidldv/taskforge/internal/config"
	"github.com/davidldv/taskforge/internal/model"
)

func TestNewRegistry_EnablesConfiguredProviders(t *testing.T) {
	registry := NewRegistry(config.OAuth{
		Google: config.ProviderCredentials{ClientID: "gid", ClientSecret: "gsecret"},
	})

	_, ok := registry.Get(model.ProviderGoogle)
	assert.True(t, ok)

	_, ok = registry.Get(model.ProviderGitHub)
	assert.False(t, ok, "provider without credentials must stay disabled")
}

func TestProvider_AuthCodeURL(t *testing.T) {
	provider := &Provider{
		Name:        model.ProviderGoogle,
		ClientID:    "client-id",
		RedirectURL: "http://localhost:5500/api/v1/auth/google/callback",
		AuthURL:     "https://accounts.example.com/authorize",
		Scopes:      []string{"openid", "email"},
	}

	raw := provider.AuthCodeURL("anti-forgery")

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "https://accounts.example.com/authorize", parsed.Scheme+"://"+parsed.Host+parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "http://localhost:5500/api/v1/auth/google/callback", query.Get("redirect_uri"))
	assert.Equal(t, "openid email", query.Get("scope"))
	assert.Equal(t, "anti-forgery", query.Get("state"))
}

func TestProvider_Exchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostFormValue("grant_type"))
		assert.Equal(t, "one-time-code", r.PostFormValue("code"))
		assert.Equal(t, "client-id", r.PostFormValue("client_id"))
		assert.Equal(t, "client-secret", r.PostFormValue("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"granted-token","token_type":"bearer"}`))
	}))
	defer srv.Close()

	provider := &Provider{
		Name:         model.ProviderGoogle,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TokenURL:     srv.URL,
		client:       srv.Client(),
	}

	token, err := provider.Exchange(context.Background(), "one-time-code")
	require.NoError(t, err)
	assert.Equal(t, "granted-token", token)
}

func TestProvider_Exchange_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "provider rejects the code", status: http.StatusBadRequest, payload: `{"error":"bad_verification_code"}`},
		{name: "empty access token", status: http.StatusOK, payload: `{"access_token":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			provider := &Provider{TokenURL: srv.URL, client: srv.Client()}

			_, err := provider.Exchange(context.Background(), "one-time-code")
			assert.Error(t, err)
		})
	}
}

func TestFetchGoogleProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer granted-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sub":"g-123","name":"Ann Lee","email":"ann@example.com"}`))
	}))
	defer srv.Close()

	orig := googleUserInfoURL
	googleUserInfoURL = srv.URL
	defer func() { googleUserInfoURL = orig }()

	profile, err := fetchGoogleProfile(context.Background(), srv.Client(), "granted-token")
	require.NoError(t, err)
	assert.Equal(t, "g-123", profile.ProviderID)
	assert.Equal(t, "ann@example.com", profile.Email)
	assert.Equal(t, "Ann Lee", profile.DisplayName)
}

func TestFetchGoogleProfile_MissingSubject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Ann Lee"}`))
	}))
	defer srv.Close()

	orig := googleUserInfoURL
	googleUserInfoURL = srv.URL
	defer func() { googleUserInfoURL = orig }()

	_, err := fetchGoogleProfile(context.Background(), srv.Client(), "granted-token")
	assert.Error(t, err)
}

func TestFetchGitHubProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"login":"annlee","name":"Ann Lee","email":"ann@example.com"}`))
	}))
	defer srv.Close()

	orig := githubUserURL
	githubUserURL = srv.URL
	defer func() { githubUserURL = orig }()

	profile, err := fetchGitHubProfile(context.Background(), srv.Client(), "granted-token")
	require.NoError(t, err)
	assert.Equal(t, "42", profile.ProviderID)
	assert.Equal(t, "ann@example.com", profile.Email)
	assert.Equal(t, "Ann Lee", profile.DisplayName)
}

func TestFetchGitHubProfile_PrivateEmailFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"login":"annlee","name":"","email":""}`))
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"email":"old@example.com","primary":false,"verified":true},
			{"email":"ann@example.com","primary":true,"verified":true}
		]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	origUser, origEmails := githubUserURL, githubEmailsURL
	githubUserURL = srv.URL + "/user"
	githubEmailsURL = srv.URL + "/user/emails"
	defer func() { githubUserURL, githubEmailsURL = origUser, origEmails }()

	profile, err := fetchGitHubProfile(context.Background(), srv.Client(), "granted-token")
	require.NoError(t, err)
	assert.Equal(t, "42", profile.ProviderID)
	assert.Equal(t, "ann@example.com", profile.Email)
	assert.Equal(t, "annlee", profile.DisplayName)
}

func TestGetJSON_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out struct{}
	err := getJSON(ctx, srv.Client(), srv.URL, "granted-token", &out)
	assert.Error(t, err)
}
