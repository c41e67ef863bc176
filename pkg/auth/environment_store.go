package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// This is the store cron deployments typically use.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve gets the credential from environment variables
func (e *EnvironmentStore) Retrieve(instance string) (*Credential, error) {
	token := os.Getenv("MASTODON_ACCESS_TOKEN")
	if token == "" {
		return nil, ErrCredentialNotFound
	}

	envInstance := NormalizeInstance(os.Getenv("MASTODON_BASE_URL"))
	if instance == "" {
		instance = envInstance
	}
	// The environment holds a single token; don't hand it out for a
	// different instance than it was set for
	if envInstance != "" && instance != envInstance {
		return nil, ErrCredentialNotFound
	}

	return &Credential{
		Instance:     instance,
		AccessToken:  token,
		LastModified: time.Now(),
	}, nil
}

// List returns a single credential if environment variables are set
func (e *EnvironmentStore) List() ([]*Credential, error) {
	cred, err := e.Retrieve("")
	if err != nil {
		return []*Credential{}, nil
	}
	return []*Credential{cred}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(instance string) error {
	return ErrStoreUnavailable
}

// Exists checks if an environment credential exists
func (e *EnvironmentStore) Exists(instance string) bool {
	return os.Getenv("MASTODON_ACCESS_TOKEN") != ""
}
