package gcal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// OAuthScopes contains only Calendar scopes.
var OAuthScopes = []string{
	calendar.CalendarScope,
}

// Client wraps the Google Calendar API client
type Client struct {
	service   *calendar.Service
	config    *oauth2.Config
	tokenFile string
	token     *oauth2.Token
}

// NewClient creates a new Google Calendar client from a credentials file and
// a previously saved token. The token must already exist; there is no
// interactive authorization flow here.
func NewClient(ctx context.Context, credentialsFile, tokenFile string) (*Client, error) {
	config, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth config: %w", err)
	}

	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	client := &Client{
		config:    config,
		tokenFile: tokenFile,
		token:     token,
	}

	if err := client.initService(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// initService initializes the Calendar service, refreshing the token if needed
func (c *Client) initService(ctx context.Context) error {
	if !c.token.Valid() && c.token.RefreshToken != "" {
		newToken, err := c.config.TokenSource(ctx, c.token).Token()
		if err != nil {
			return fmt.Errorf("failed to refresh token: %w", err)
		}
		c.token = newToken
		if err := saveToken(c.tokenFile, newToken); err != nil {
			return fmt.Errorf("failed to save refreshed token: %w", err)
		}
	}

	httpClient := c.config.Client(ctx, c.token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("failed to create calendar service: %w", err)
	}

	c.service = service
	return nil
}

// loadOAuthConfig loads OAuth2 configuration from credentials file or environment variable
func loadOAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	// Environment variable first, useful for container deployments.
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS_JSON"); credJSON != "" {
		return google.ConfigFromJSON([]byte(credJSON), OAuthScopes...)
	}

	if credentialsFile == "" {
		credentialsFile = "./credentials.json"
	}
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("no credentials found - provide a credentials file or set GOOGLE_CREDENTIALS_JSON: %w", err)
	}
	return google.ConfigFromJSON(data, OAuthScopes...)
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
