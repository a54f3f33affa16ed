package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/oauth2"
)

var (
	// ErrNoToken indicates no session token is stored.
	ErrNoToken = errors.New("not logged in")

	// ErrInvalidToken indicates the token file exists but cannot be used.
	ErrInvalidToken = errors.New("invalid token.json")
)

// SaveToken stores a session token issued by the API.
// The config directory is created if needed; the file is written with mode 0600.
func (c *Config) SaveToken(accessToken string) error {
	if accessToken == "" {
		return errors.New("empty token")
	}
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	token := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.TokenPath(), data, 0600)
}

// LoadToken reads the stored session token.
func (c *Config) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.TokenPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token", ErrInvalidToken)
	}
	if token.TokenType == "" {
		token.TokenType = "Bearer"
	}
	return &token, nil
}

// TokenSource returns an oauth2.TokenSource backed by the token file.
// The file is read on every call, so a token saved by login in the same
// process is picked up without rebuilding the HTTP client.
func (c *Config) TokenSource() oauth2.TokenSource {
	return fileTokenSource{cfg: c}
}

type fileTokenSource struct {
	cfg *Config
}

func (s fileTokenSource) Token() (*oauth2.Token, error) {
	return s.cfg.LoadToken()
}
