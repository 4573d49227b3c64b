package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerStoreAndRetrieve(t *testing.T) {
	manager, store := NewMockManager()

	account := &Account{
		Name:      "personal",
		Cookie:    "sessionid=abc; msToken=tok",
		UserAgent: "Mozilla/5.0",
	}

	require.NoError(t, manager.Store(account))
	assert.Equal(t, 1, store.Count())

	got, err := manager.Retrieve("personal")
	require.NoError(t, err)
	assert.Equal(t, "personal", got.Name)
	assert.Equal(t, "sessionid=abc; msToken=tok", got.Cookie)
	assert.False(t, got.LastModified.IsZero())
}

func TestManagerStoreValidation(t *testing.T) {
	manager, _ := NewMockManager()

	assert.Error(t, manager.Store(&Account{Cookie: "sessionid=abc"}))
	assert.Error(t, manager.Store(&Account{Name: "personal"}))
}

func TestManagerRetrieveMissing(t *testing.T) {
	manager, _ := NewMockManager()

	_, err := manager.Retrieve("nobody")
	assert.Error(t, err)
}

func TestManagerStoreFallsBackOnError(t *testing.T) {
	failing := NewMockStore()
	failing.StoreError = errors.New("keychain locked")
	working := NewMockStore()

	manager := NewMockManagerWithStores(failing, working)

	require.NoError(t, manager.Store(&Account{Name: "personal", Cookie: "sessionid=abc"}))
	assert.Equal(t, 0, failing.Count())
	assert.Equal(t, 1, working.Count())
}

func TestManagerListPrefersNewest(t *testing.T) {
	first := NewMockStore()
	second := NewMockStore()
	manager := NewMockManagerWithStores(first, second)

	old := &Account{Name: "personal", Cookie: "old", LastModified: time.Now().Add(-time.Hour)}
	newer := &Account{Name: "personal", Cookie: "new", LastModified: time.Now()}
	require.NoError(t, first.Store(old))
	require.NoError(t, second.Store(newer))

	accounts, err := manager.List()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "new", accounts[0].Cookie)
}

func TestManagerDelete(t *testing.T) {
	manager, store := NewMockManager()

	require.NoError(t, manager.Store(&Account{Name: "personal", Cookie: "sessionid=abc"}))
	require.NoError(t, manager.Delete("personal"))
	assert.Equal(t, 0, store.Count())

	assert.Error(t, manager.Delete("personal"))
}

func TestEnvironmentStoreRetrieve(t *testing.T) {
	t.Setenv("TTSCRAPER_COOKIE", "sessionid=env; msToken=tok")
	t.Setenv("TTSCRAPER_USER_AGENT", "Mozilla/5.0 env")

	store := NewEnvironmentStore()

	account, err := store.Retrieve("")
	require.NoError(t, err)
	assert.Equal(t, "default", account.Name)
	assert.Equal(t, "sessionid=env; msToken=tok", account.Cookie)
	assert.Equal(t, "Mozilla/5.0 env", account.UserAgent)
}

func TestEnvironmentStoreEmpty(t *testing.T) {
	t.Setenv("TTSCRAPER_COOKIE", "")

	store := NewEnvironmentStore()

	_, err := store.Retrieve("")
	assert.ErrorIs(t, err, ErrCredentialsNotFound)
	assert.False(t, store.Exists(""))
}

func TestEnvironmentStoreReadOnly(t *testing.T) {
	store := NewEnvironmentStore()

	assert.ErrorIs(t, store.Store(&Account{Name: "x", Cookie: "y"}), ErrStoreUnavailable)
	assert.ErrorIs(t, store.Delete("x"), ErrStoreUnavailable)
}

func TestRetrieveDefaultPrefersEnvironment(t *testing.T) {
	t.Setenv("TTSCRAPER_COOKIE", "sessionid=env")

	saved := NewMockStore()
	require.NoError(t, saved.Store(&Account{Name: "personal", Cookie: "sessionid=saved"}))

	manager := NewMockManagerWithStores(saved, NewEnvironmentStore())

	account, err := manager.RetrieveDefault()
	require.NoError(t, err)
	assert.Equal(t, "sessionid=env", account.Cookie)
}

func TestSanitizeAccountMasksCookie(t *testing.T) {
	account := &Account{
		Name:   "personal",
		Cookie: "sessionid=abcdefghijklmnop",
	}

	masked := SanitizeAccount(account)

	assert.Equal(t, "personal", masked.Name)
	assert.NotEqual(t, account.Cookie, masked.Cookie)
	assert.Contains(t, masked.Cookie, "...")

	assert.Equal(t, "********", SanitizeAccount(&Account{Name: "x", Cookie: "short"}).Cookie)
	assert.Nil(t, SanitizeAccount(nil))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := make([]byte, keySize)
	for i := range key {
		key[i] = byte(i)
	}

	plaintext := []byte(`{"personal":{"name":"personal","cookie":"sessionid=abc"}}`)

	ciphertext, err := encrypt(plaintext, key)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := decrypt(ciphertext, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDecryptRejectsShortCiphertext(t *testing.T) {
	key := make([]byte, keySize)

	_, err := decrypt([]byte("short"), key)
	assert.Error(t, err)
}

func TestEncryptedFileStoreRoundTrip(t *testing.T) {
	t.Setenv("TTSCRAPER_PASSPHRASE", "test-passphrase")

	store, err := NewEncryptedFileStore(t.TempDir() + "/sessions.enc")
	require.NoError(t, err)

	account := &Account{Name: "personal", Cookie: "sessionid=abc", LastModified: time.Now()}
	require.NoError(t, store.Store(account))
	assert.True(t, store.Exists("personal"))

	got, err := store.Retrieve("personal")
	require.NoError(t, err)
	assert.Equal(t, "sessionid=abc", got.Cookie)

	accounts, err := store.List()
	require.NoError(t, err)
	assert.Len(t, accounts, 1)

	require.NoError(t, store.Delete("personal"))
	assert.False(t, store.Exists("personal"))
}
