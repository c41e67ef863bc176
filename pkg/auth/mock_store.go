package auth

import (
	"sync"
)

// MockStore is an in-memory CredentialStore for testing
type MockStore struct {
	mu    sync.RWMutex
	creds map[string]*Credential
}

// NewMockStore creates an in-memory credential store
func NewMockStore() *MockStore {
	return &MockStore{
		creds: make(map[string]*Credential),
	}
}

// NewMockManager creates a manager backed only by a mock store
func NewMockManager() (*Manager, *MockStore) {
	store := NewMockStore()
	return &Manager{stores: []CredentialStore{store}}, store
}

// Store saves the credential in memory
func (m *MockStore) Store(cred *Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cred == nil || cred.Instance == "" {
		return ErrInvalidCredential
	}

	c := *cred
	m.creds[cred.Instance] = &c
	return nil
}

// Retrieve gets the credential from memory
func (m *MockStore) Retrieve(instance string) (*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cred, ok := m.creds[instance]
	if !ok {
		return nil, ErrCredentialNotFound
	}

	c := *cred
	return &c, nil
}

// List returns all credentials in memory
func (m *MockStore) List() ([]*Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var creds []*Credential
	for _, cred := range m.creds {
		c := *cred
		creds = append(creds, &c)
	}
	return creds, nil
}

// Delete removes the credential from memory
func (m *MockStore) Delete(instance string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.creds[instance]; !ok {
		return ErrCredentialNotFound
	}
	delete(m.creds, instance)
	return nil
}

// Exists checks if a credential is in memory
func (m *MockStore) Exists(instance string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.creds[instance]
	return ok
}

// Count returns the number of stored credentials
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.creds)
}
