// Package spotify implements Spotify profile linking via OAuth2.
// The client is constructed explicitly at the composition root and injected
// into handlers; there is no lazily-initialized global instance.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	authURL    = "https://accounts.spotify.com/authorize"
	tokenURL   = "https://accounts.spotify.com/api/token"
	apiBaseURL = "https://api.spotify.com/v1"

	requestTimeout = 10 * time.Second
)

var (
	// ErrNotConfigured is returned when the client is built without credentials.
	ErrNotConfigured = errors.New("spotify client is not configured")
	// ErrClosed is returned when the client is used after Close.
	ErrClosed = errors.New("spotify client is closed")
)

// Profile is the subset of the Spotify account used for linking.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Config holds the OAuth2 client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Client wraps the Spotify OAuth2 flow and Web API calls.
// Create it once with New and release it with Close.
type Client struct {
	oauth   *oauth2.Config
	http    *http.Client
	baseURL string
	closed  bool
}

// New creates a Spotify client from the given settings.
func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, ErrNotConfigured
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"user-read-private"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: apiBaseURL,
	}, nil
}

// AuthCodeURL returns the Spotify consent page URL for the given state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if c.closed {
		return nil, ErrClosed
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	return c.oauth.Exchange(ctx, code)
}

// Profile fetches the authenticated user's Spotify profile.
func (c *Client) Profile(ctx context.Context, token *oauth2.Token) (Profile, error) {
	if c.closed {
		return Profile{}, ErrClosed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return Profile{}, err
	}

	token.SetAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("spotify profile request failed with status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, err
	}

	return profile, nil
}

// Close releases the client's resources. The client must not be used after.
func (c *Client) Close() {
	if c.closed {
		return
	}

	c.closed = true
	c.http.CloseIdleConnections()
}
