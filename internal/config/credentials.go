package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Credentials holds bearer tokens for protected data endpoints.
type Credentials struct {
	Tokens map[string]string `json:"tokens"` // endpoint host → token
}

// credMu guards read-modify-write cycles on the credentials file.
var credMu sync.Mutex

func CredentialsPath() string {
	return filepath.Join(ConfigDir(), "credentials.json")
}

func LoadCredentials() (Credentials, error) {
	return LoadCredentialsFrom(CredentialsPath())
}

func LoadCredentialsFrom(path string) (Credentials, error) {
	creds := Credentials{Tokens: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, fmt.Errorf("reading credentials: %w", err)
	}

	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{Tokens: make(map[string]string)}, fmt.Errorf("parsing credentials %s: %w", path, err)
	}
	if creds.Tokens == nil {
		creds.Tokens = make(map[string]string)
	}
	return creds, nil
}

// TokenFor returns the token stored for endpoint's host. BUDGETVIEW_TOKEN
// wins over the file.
func (c Credentials) TokenFor(endpoint string) string {
	if tok := strings.TrimSpace(os.Getenv("BUDGETVIEW_TOKEN")); tok != "" {
		return tok
	}
	return c.Tokens[endpointHost(endpoint)]
}

func SaveToken(endpoint, token string) error {
	return SaveTokenTo(CredentialsPath(), endpoint, token)
}

func SaveTokenTo(path, endpoint, token string) error {
	credMu.Lock()
	defer credMu.Unlock()

	creds, err := LoadCredentialsFrom(path)
	if err != nil {
		creds = Credentials{Tokens: make(map[string]string)}
	}
	creds.Tokens[endpointHost(endpoint)] = token
	return writeCredentials(path, creds)
}

func DeleteTokenFrom(path, endpoint string) error {
	credMu.Lock()
	defer credMu.Unlock()

	creds, err := LoadCredentialsFrom(path)
	if err != nil {
		return err
	}
	delete(creds.Tokens, endpointHost(endpoint))
	return writeCredentials(path, creds)
}

func endpointHost(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		return strings.ToLower(u.Host)
	}
	return strings.ToLower(endpoint)
}

func writeCredentials(path string, creds Credentials) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating credentials dir: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}
