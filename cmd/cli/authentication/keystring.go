package authentication

// Credentials live in the OS keyring. Machines without one (CI, headless
// servers) fall back to a 0600 file under ~/.codelens.
import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "codelens-cli"
	tokenKey    = "auth_tokens"
)

var ErrNotLoggedIn = errors.New("not logged in, run `codelens auth login` first")

// CredentialsFile is the fallback location; tests point it elsewhere.
var CredentialsFile = defaultCredentialsFile()

type StoredCredentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Email        string `json:"email"`
	ExpiresAt    int64  `json:"expires_at"`
}

func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".codelens", "credentials.json")
	}
	return filepath.Join(home, ".codelens", "credentials.json")
}

func StoreTokens(creds *StoredCredentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	if err := keyring.Set(serviceName, tokenKey, string(data)); err == nil {
		return nil
	}
	return writeFile(data)
}

func GetTokens() (*StoredCredentials, error) {
	value, err := keyring.Get(serviceName, tokenKey)
	if err != nil {
		data, ferr := os.ReadFile(CredentialsFile)
		if ferr != nil {
			if errors.Is(ferr, os.ErrNotExist) {
				return nil, ErrNotLoggedIn
			}
			return nil, ferr
		}
		value = string(data)
	}

	var creds StoredCredentials
	if err := json.Unmarshal([]byte(value), &creds); err != nil {
		return nil, fmt.Errorf("corrupt stored credentials: %w", err)
	}
	if creds.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}
	return &creds, nil
}

func DeleteTokens() error {
	// the keyring may be unavailable; only the file error matters then
	_ = keyring.Delete(serviceName, tokenKey)
	if err := os.Remove(CredentialsFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func writeFile(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(CredentialsFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(CredentialsFile, data, 0o600)
}
