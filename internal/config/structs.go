package config

import (
	"time"

	"github.com/larik-22/howufeelin/internal/logger"
)

const (
	// DefaultSessionExpiry is used when webserver.session.expirytime is unset.
	DefaultSessionExpiry = 24 * time.Hour

	// DefaultCelebrationDate is the fallback celebration target date (MM-DD).
	DefaultCelebrationDate = "06-24"

	// DefaultCelebrationWindowDays is the half-width of the celebration window.
	DefaultCelebrationWindowDays = 7
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Special   Special
	Spotify   Spotify
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name used for session cookies
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Special holds the privileged identity sets and the celebration window.
// CelebrationEmails feeds a cosmetic surface only; MaintenanceEmails gates the
// maintenance subtree. The two sets are deliberately separate fields even when
// their contents overlap.
type Special struct {
	CelebrationEmails     []string `toml:"celebrationEmails"`
	MaintenanceEmails     []string `toml:"maintenanceEmails"`
	CelebrationDate       string   `toml:"celebrationDate"` // MM-DD
	CelebrationWindowDays int      `toml:"celebrationWindowDays"`
}

// Spotify holds the OAuth2 client settings for Spotify profile linking.
type Spotify struct {
	Enabled      bool   `toml:"enabled"`
	ClientID     string `toml:"clientId"`
	ClientSecret string `toml:"clientSecret"`
	RedirectURL  string `toml:"redirectUrl"`
}
