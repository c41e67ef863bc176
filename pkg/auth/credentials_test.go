package auth

import (
	"path/filepath"
	"testing"
	"time"
)

func TestCredentialManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	cred := &Credential{
		Instance:    "https://mastodon.social",
		AccessToken: "test_access_token_12345",
	}

	err := manager.Store(cred)
	if err != nil {
		t.Errorf("Failed to store credential: %v", err)
	}

	// The instance is normalized on store, so lookups work with or
	// without the scheme
	retrieved, err := manager.Retrieve("mastodon.social")
	if err != nil {
		t.Fatalf("Failed to retrieve credential: %v", err)
	}
	if retrieved.Instance != "mastodon.social" {
		t.Errorf("Instance mismatch: got %s, want mastodon.social", retrieved.Instance)
	}
	if retrieved.AccessToken != cred.AccessToken {
		t.Errorf("AccessToken mismatch: got %s, want %s", retrieved.AccessToken, cred.AccessToken)
	}

	retrieved, err = manager.Retrieve("https://mastodon.social/")
	if err != nil {
		t.Errorf("Failed to retrieve with full URL: %v", err)
	}

	creds, err := manager.List()
	if err != nil {
		t.Errorf("Failed to list credentials: %v", err)
	}
	if len(creds) != 1 {
		t.Errorf("Expected 1 credential in list, got %d", len(creds))
	}

	sanitized := SanitizeCredential(retrieved)
	if sanitized.AccessToken == retrieved.AccessToken {
		t.Error("AccessToken should be masked")
	}
	if sanitized.Instance != retrieved.Instance {
		t.Error("Instance should not be masked")
	}

	err = manager.Delete("mastodon.social")
	if err != nil {
		t.Errorf("Failed to delete credential: %v", err)
	}

	_, err = manager.Retrieve("mastodon.social")
	if err == nil {
		t.Error("Expected error retrieving deleted credential")
	}

	if mockStore.Count() != 0 {
		t.Errorf("Expected 0 credentials after deletion, got %d", mockStore.Count())
	}
}

func TestManagerRejectsIncompleteCredential(t *testing.T) {
	manager, _ := NewMockManager()

	if err := manager.Store(&Credential{AccessToken: "token"}); err == nil {
		t.Error("Expected error storing credential without instance")
	}
	if err := manager.Store(&Credential{Instance: "mastodon.social"}); err == nil {
		t.Error("Expected error storing credential without token")
	}
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv("MASTODON_ACCESS_TOKEN", "env_token_abcdef123456")
	t.Setenv("MASTODON_BASE_URL", "https://fosstodon.org")

	store := NewEnvironmentStore()

	cred, err := store.Retrieve("")
	if err != nil {
		t.Fatalf("Failed to retrieve from environment: %v", err)
	}
	if cred.AccessToken != "env_token_abcdef123456" {
		t.Errorf("AccessToken mismatch: got %s", cred.AccessToken)
	}
	if cred.Instance != "fosstodon.org" {
		t.Errorf("Instance mismatch: got %s, want fosstodon.org", cred.Instance)
	}

	// The token belongs to one instance only
	if _, err := store.Retrieve("mastodon.social"); err == nil {
		t.Error("Expected error retrieving token for a different instance")
	}

	if !store.Exists("") {
		t.Error("Exists should report true with environment set")
	}

	if err := store.Store(cred); err != ErrStoreUnavailable {
		t.Errorf("Expected ErrStoreUnavailable from Store, got %v", err)
	}
	if err := store.Delete("fosstodon.org"); err != ErrStoreUnavailable {
		t.Errorf("Expected ErrStoreUnavailable from Delete, got %v", err)
	}
}

func TestEnvironmentStoreEmpty(t *testing.T) {
	t.Setenv("MASTODON_ACCESS_TOKEN", "")

	store := NewEnvironmentStore()

	if _, err := store.Retrieve(""); err == nil {
		t.Error("Expected error with no environment token")
	}
	if store.Exists("") {
		t.Error("Exists should report false with no environment token")
	}
}

func TestEncryptedFileStore(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MASTOARCH_PASSPHRASE", "test-passphrase")

	store, err := NewEncryptedFileStore(filepath.Join(dir, "credentials.enc"))
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	cred := &Credential{
		Instance:     "mastodon.social",
		AccessToken:  "secret_token_xyz",
		LastModified: time.Now(),
	}

	if err := store.Store(cred); err != nil {
		t.Fatalf("Failed to store credential: %v", err)
	}

	// A fresh store with the same passphrase must read it back
	reopened, err := NewEncryptedFileStore(filepath.Join(dir, "credentials.enc"))
	if err != nil {
		t.Fatalf("Failed to reopen encrypted store: %v", err)
	}

	retrieved, err := reopened.Retrieve("mastodon.social")
	if err != nil {
		t.Fatalf("Failed to retrieve credential: %v", err)
	}
	if retrieved.AccessToken != cred.AccessToken {
		t.Errorf("AccessToken mismatch: got %s, want %s", retrieved.AccessToken, cred.AccessToken)
	}

	if err := reopened.Delete("mastodon.social"); err != nil {
		t.Errorf("Failed to delete credential: %v", err)
	}
	if reopened.Exists("mastodon.social") {
		t.Error("Credential should not exist after deletion")
	}
}

func TestNormalizeInstance(t *testing.T) {
	cases := map[string]string{
		"mastodon.social":          "mastodon.social",
		"https://mastodon.social":  "mastodon.social",
		"https://mastodon.social/": "mastodon.social",
		"http://localhost:3000/":   "localhost:3000",
		"  https://fosstodon.org ": "fosstodon.org",
		"":                         "",
	}

	for input, want := range cases {
		if got := NormalizeInstance(input); got != want {
			t.Errorf("NormalizeInstance(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMaskString(t *testing.T) {
	if got := maskString("short"); got != "********" {
		t.Errorf("Short strings should be fully masked, got %s", got)
	}

	masked := maskString("abcdefghijklmnop")
	if masked != "abcd...mnop" {
		t.Errorf("Unexpected mask: %s", masked)
	}
}
