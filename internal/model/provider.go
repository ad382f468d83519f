package model

// Provider identifies an external OAuth identity provider.
type Provider string

const (
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
)

// ExternalProfile is the normalized shape every provider handshake adapter
// produces. Email may be empty when the provider did not disclose one.
type ExternalProfile struct {
	ProviderID  string
	Email       string
	DisplayName string
}
