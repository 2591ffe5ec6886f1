package authentication

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func useTempFile(t *testing.T) {
	t.Helper()
	old := CredentialsFile
	CredentialsFile = filepath.Join(t.TempDir(), "codelens", "credentials.json")
	t.Cleanup(func() { CredentialsFile = old })
}

func TestKeyringRoundTrip(t *testing.T) {
	keyring.MockInit()
	useTempFile(t)

	_, err := GetTokens()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, StoreTokens(&StoredCredentials{AccessToken: "a", RefreshToken: "r", Email: "me@example.com"}))
	_, statErr := os.Stat(CredentialsFile)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "keyring available, no file expected")

	creds, err := GetTokens()
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", creds.Email)

	require.NoError(t, DeleteTokens())
	_, err = GetTokens()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestFileFallback(t *testing.T) {
	keyring.MockInitWithError(errors.New("no keyring"))
	t.Cleanup(keyring.MockInit)
	useTempFile(t)

	require.NoError(t, StoreTokens(&StoredCredentials{AccessToken: "a", Email: "me@example.com"}))

	info, err := os.Stat(CredentialsFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	creds, err := GetTokens()
	require.NoError(t, err)
	assert.Equal(t, "a", creds.AccessToken)

	require.NoError(t, DeleteTokens())
	_, err = GetTokens()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
