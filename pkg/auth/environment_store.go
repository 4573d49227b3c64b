package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// It covers the CI and one-off case where a cookie is exported rather than
// saved.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets the session from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	cookie := os.Getenv("TTSCRAPER_COOKIE")
	userAgent := os.Getenv("TTSCRAPER_USER_AGENT")

	if cookie == "" {
		return nil, ErrCredentialsNotFound
	}

	// The environment holds a single unnamed session
	if name == "" {
		name = "default"
	}

	return &Account{
		Name:         name,
		Cookie:       cookie,
		UserAgent:    userAgent,
		LastModified: time.Now(),
	}, nil
}

// List returns the environment session if one is set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if an environment session is set
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("TTSCRAPER_COOKIE") != ""
}
