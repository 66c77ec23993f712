package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/larik-22/howufeelin/internal/web/handler"
	"github.com/larik-22/howufeelin/internal/web/session"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// openPrefixes are served without an authenticated session.
var openPrefixes = []string{"/static", "/logout", "/healthz"}

// Middleware is a Fiber middleware that checks for user authentication.
// Authenticated users land on the dashboard when they revisit the login or
// signup pages; anonymous users are sent to the login page everywhere else.
func Middleware(c *fiber.Ctx) error {
	var (
		isAuthPage    = IsAuthPage(c)
		sessDataValid bool
	)

	originalURL := strings.ToLower(c.OriginalURL())
	for _, prefix := range openPrefixes {
		if strings.HasPrefix(originalURL, prefix) {
			return c.Next()
		}
	}

	// get session cookie
	loginCookie := c.Cookies(session.CookieName)

	// if no session cookie, redirect to login page
	if loginCookie == "" && !isAuthPage {
		return c.Redirect(loginPath)
	}

	// check session validity
	sessData := new(session.Data)
	if err := sessData.Read(loginCookie); err != nil {
		// If we're already on the login or signup page, don't redirect (would cause loop)
		if isAuthPage {
			return c.Next()
		}

		return c.Redirect(loginPath)
	}

	// valid data in session
	if sessData.User.ID > 0 {
		sessDataValid = true
		// Add the current user to locals for template access
		c.Locals(handler.LocalCurrentUser, sessData.User)
	}

	if !sessDataValid && !isAuthPage {
		return c.Redirect(loginPath)
	}

	if sessDataValid && isAuthPage {
		return c.Redirect(dashboardPath)
	}

	return c.Next()
}

// IsAuthPage checks if the current request is for the login or signup page.
func IsAuthPage(c *fiber.Ctx) bool {
	originalURL := strings.ToLower(c.OriginalURL())
	return strings.HasPrefix(originalURL, loginPath) || strings.HasPrefix(originalURL, "/signup")
}
