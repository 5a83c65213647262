package google

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

const tokenURL = "https://oauth2.googleapis.com/token"

// Credentials is the JSON shape stored on a Google connection.
type Credentials struct {
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry,omitzero"`
}

// ParseCredentials decodes a connection's credentials JSON.
func ParseCredentials(raw string) (*Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}
	if creds.AccessToken == "" && creds.RefreshToken == "" {
		return nil, fmt.Errorf("google credentials carry no token")
	}
	return &creds, nil
}

// TokenSource builds an auto-refreshing oauth2.TokenSource from the stored
// credentials. Refreshed tokens live only for the connector's lifetime; the
// stored credentials are the durable refresh token.
func (c *Credentials) TokenSource(ctx context.Context) oauth2.TokenSource {
	cfg := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}
	token := &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       c.Expiry,
	}
	return cfg.TokenSource(ctx, token)
}
