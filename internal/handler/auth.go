package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/dining-hall-reservation/internal/apperror"
    "github.com/iliyamo/dining-hall-reservation/internal/logging"
    "github.com/iliyamo/dining-hall-reservation/internal/service"
    "github.com/iliyamo/dining-hall-reservation/internal/session"
    "github.com/iliyamo/dining-hall-reservation/web"
)

// AuthHandler serves the sign-in, sign-up and logout pages.
type AuthHandler struct {
    Auth *service.AuthService
}

func NewAuthHandler(a *service.AuthService) *AuthHandler {
    return &AuthHandler{Auth: a}
}

// ----- form DTOs -----

type signInForm struct {
    Email    string `form:"email"`
    Roll     string `form:"roll"`
    Password string `form:"password"`
}

type signUpForm struct {
    Email    string `form:"email"`
    Username string `form:"username"`
    Roll     string `form:"roll"`
    Password string `form:"password"`
}

// SignInPage renders the sign-in form, or sends signed-in users to booking.
func (h *AuthHandler) SignInPage(c echo.Context) error {
    if session.Get(c).SignedIn() {
        return c.Redirect(http.StatusFound, "/booking")
    }
    return c.Render(http.StatusOK, web.PageSignIn, authPage{Flashes: flashes(c)})
}

// SignIn checks the credentials and stores the identity in the session.
func (h *AuthHandler) SignIn(c echo.Context) error {
    sess := session.Get(c)
    if sess.SignedIn() {
        return c.Redirect(http.StatusFound, "/booking")
    }
    var f signInForm
    if err := c.Bind(&f); err != nil {
        return c.Render(http.StatusOK, web.PageSignIn, authPage{Flashes: flashes(c, "Please fill in all fields")})
    }

    ctx, cancel := withTimeout(c)
    defer cancel()
    u, err := h.Auth.Authenticate(ctx, f.Email, f.Roll, f.Password)
    if err != nil {
        if !apperror.IsUserFacing(err) {
            logging.Ctx(ctx).Error().Err(err).Msg("sign in failed")
        }
        return c.Render(http.StatusOK, web.PageSignIn, authPage{Flashes: flashes(c, apperror.Message(err, "Invalid email, roll number, or password"))})
    }
    sess.SignIn(u.Identity())
    return c.Redirect(http.StatusFound, "/booking")
}

// SignUpPage renders the registration form.
func (h *AuthHandler) SignUpPage(c echo.Context) error {
    if session.Get(c).SignedIn() {
        return c.Redirect(http.StatusFound, "/booking")
    }
    return c.Render(http.StatusOK, web.PageSignUp, authPage{Flashes: flashes(c)})
}

// SignUp registers the user and sends them to the sign-in page.
func (h *AuthHandler) SignUp(c echo.Context) error {
    if session.Get(c).SignedIn() {
        return c.Redirect(http.StatusFound, "/booking")
    }
    var f signUpForm
    if err := c.Bind(&f); err != nil {
        return c.Render(http.StatusOK, web.PageSignUp, authPage{Flashes: flashes(c, "Please fill in all fields")})
    }

    ctx, cancel := withTimeout(c)
    defer cancel()
    err := h.Auth.Register(ctx, service.RegisterInput{
        Email:    f.Email,
        Username: f.Username,
        Roll:     f.Roll,
        Password: f.Password,
    })
    if err != nil {
        if !apperror.IsUserFacing(err) {
            logging.Ctx(ctx).Error().Err(err).Msg("registration failed")
        }
        return c.Render(http.StatusOK, web.PageSignUp, authPage{Flashes: flashes(c, apperror.Message(err, "Email already registered or invalid roll number"))})
    }
    return redirectWithFlash(c, "/", "Registration successful! Please sign in.")
}

// Logout clears the identity and pending booking.
func (h *AuthHandler) Logout(c echo.Context) error {
    sess := session.Get(c)
    sess.Logout()
    return redirectWithFlash(c, "/", "Logged out successfully")
}
