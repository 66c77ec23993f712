package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	c, err := New(Config{
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:3000/spotify/callback",
	})
	require.NoError(t, err)

	return c
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(Config{ClientID: "cid"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAuthCodeURL(t *testing.T) {
	c := newTestClient(t)
	defer c.Close()

	url := c.AuthCodeURL("state-123")

	assert.Contains(t, url, "accounts.spotify.com/authorize")
	assert.Contains(t, url, "state=state-123")
	assert.Contains(t, url, "client_id=cid")
}

func TestProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"spotify-user-1","display_name":"Larik"}`))
	}))
	defer server.Close()

	c := newTestClient(t)
	defer c.Close()
	c.baseURL = server.URL

	profile, err := c.Profile(context.Background(), &oauth2.Token{AccessToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "spotify-user-1", profile.ID)
	assert.Equal(t, "Larik", profile.DisplayName)
}

func TestProfile_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(t)
	defer c.Close()
	c.baseURL = server.URL

	_, err := c.Profile(context.Background(), &oauth2.Token{AccessToken: "tok"})
	assert.Error(t, err)
}

func TestClosedClientRefusesCalls(t *testing.T) {
	c := newTestClient(t)
	c.Close()

	_, err := c.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, ErrClosed)

	_, err = c.Profile(context.Background(), &oauth2.Token{AccessToken: "tok"})
	assert.ErrorIs(t, err, ErrClosed)
}
