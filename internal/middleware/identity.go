package middleware

// identity.go resolves who a request belongs to for rate limiting and
// request logs.  The session middleware must run first.

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/dining-hall-reservation/internal/session"
)

// userKey returns the signed-in email, or "anon".
func userKey(c echo.Context) string {
    if d := session.Get(c); d.SignedIn() {
        return d.User.Email
    }
    return "anon"
}
