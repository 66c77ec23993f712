// Package guard decides whether a viewer may enter a privileged route.
// The decision is a pure function over the viewer's resolution state so it
// can be tested without a running server; Middleware applies it to fiber.
package guard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/larik-22/howufeelin/internal/rbac"
	"github.com/larik-22/howufeelin/internal/web/session"
)

// Viewer describes how far the current request's identity has been resolved.
type Viewer struct {
	// Resolved is false while the identity lookup is still in flight.
	Resolved bool
	// Authenticated is only meaningful once Resolved is true.
	Authenticated bool
	// Email is the authenticated account's email, empty otherwise.
	Email string
}

// Decision is the guard's verdict for a request.
type Decision int

const (
	// ShowLoading keeps the viewer on a pending page; no redirect is issued.
	ShowLoading Decision = iota
	// RedirectLogin sends an unauthenticated viewer to the login page.
	RedirectLogin
	// RedirectDashboard sends an authenticated but unprivileged viewer away.
	RedirectDashboard
	// Allow renders the protected content.
	Allow
)

// Decide maps a viewer to a guard decision against the given identity set.
// Unresolved viewers are never redirected; a redirect must only ever be
// issued from a settled state.
func Decide(v Viewer, allowed rbac.IdentitySet) Decision {
	if !v.Resolved {
		return ShowLoading
	}

	if !v.Authenticated {
		return RedirectLogin
	}

	if !allowed.Contains(v.Email) {
		return RedirectDashboard
	}

	return Allow
}

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// Middleware guards a route subtree so only accounts in the given identity
// set may enter. Redirects carry no-store cache headers so the guarded URL
// does not survive in the browser's history cache.
func Middleware(allowed rbac.IdentitySet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := Viewer{Resolved: true}

		cookie := c.Cookies(session.CookieName)
		if cookie != "" {
			data := new(session.Data)
			if err := data.Read(cookie); err == nil && data.User.ID != 0 {
				viewer.Authenticated = true
				viewer.Email = data.User.Email
			}
		}

		switch Decide(viewer, allowed) {
		case RedirectLogin:
			return redirect(c, loginPath)
		case RedirectDashboard:
			log.Debug().Str("email", viewer.Email).Str("path", c.Path()).Msg("unprivileged account redirected from guarded route")

			return redirect(c, dashboardPath)
		case Allow:
			return c.Next()
		default:
			// Never redirect before the identity lookup has settled; ask the
			// client to retry instead.
			c.Set(fiber.HeaderRetryAfter, "1")

			return c.SendStatus(fiber.StatusServiceUnavailable)
		}
	}
}

func redirect(c *fiber.Ctx, target string) error {
	c.Set(fiber.HeaderCacheControl, "no-store")

	return c.Redirect(target, fiber.StatusSeeOther)
}
