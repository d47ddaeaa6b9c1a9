package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/dining-hall-reservation/internal/session"
)

// RequirePageUser redirects anonymous visitors to the sign-in page with
// flash queued on their session.
func RequirePageUser(flash string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            d := session.Get(c)
            if !d.SignedIn() {
                d.Flash(flash)
                return c.Redirect(http.StatusFound, "/")
            }
            return next(c)
        }
    }
}

// RequireAPIUser rejects anonymous requests with 401 and body, which
// defaults to {"error": "Unauthorized"}.
func RequireAPIUser(body echo.Map) echo.MiddlewareFunc {
    if body == nil {
        body = echo.Map{"error": "Unauthorized"}
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !session.Get(c).SignedIn() {
                return c.JSON(http.StatusUnauthorized, body)
            }
            return next(c)
        }
    }
}
