// ABOUTME: OAuth configuration and token management for Google APIs
// ABOUTME: Builds the contacts-only OAuth config from app config and stores tokens at XDG paths
package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/harperreed/crmcore/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	contactsScope = "https://www.googleapis.com/auth/contacts.readonly"

	// CallbackAddr and CallbackPath locate the local OAuth redirect listener.
	CallbackAddr = "localhost:8080"
	CallbackPath = "/oauth/callback"
)

// NewOAuthConfig creates OAuth2 config for the People API.
func NewOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  "http://" + CallbackAddr + CallbackPath,
		Scopes:       []string{contactsScope},
		Endpoint:     google.Endpoint,
	}
}

// CheckCredentials reports whether cfg can start an OAuth flow.
func CheckCredentials(cfg *config.Config) error {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return fmt.Errorf("google OAuth credentials not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
	}
	return nil
}

// TokenPath returns XDG-compliant path for storing OAuth tokens.
func TokenPath() string {
	return filepath.Join(xdg.DataHome, "crmcore", "google-token.json")
}

// SaveToken writes token to path with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return nil
}

func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return &token, nil
}
