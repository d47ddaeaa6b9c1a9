// Package session keeps per-browser state in a signed cookie: the
// signed-in identity, the pending reservation between the booking and
// payment pages, and flash messages queued for the next rendered page.
//
// The cookie value is an HS256 JWT.  Its contents are readable by the
// client but cannot be altered without the server secret.
package session

import (
    "errors"
    "fmt"
    "net/http"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/dining-hall-reservation/internal/config"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

const contextKey = "session"

// Data is the decoded session.  Mutate it only through its methods so
// the middleware knows to rewrite the cookie.
type Data struct {
    User    *model.Identity       `json:"user,omitempty"`
    Pending *model.PendingBooking `json:"pending,omitempty"`
    Flashes []string              `json:"flashes,omitempty"`

    dirty bool
}

// SignedIn reports whether a user is attached.
func (d *Data) SignedIn() bool { return d != nil && d.User != nil && d.User.Email != "" }

// SignIn attaches u and drops any previous pending booking.
func (d *Data) SignIn(u model.Identity) {
    d.User = &u
    d.Pending = nil
    d.dirty = true
}

// SetPending stores the reservation awaiting payment.
func (d *Data) SetPending(p model.PendingBooking) {
    d.Pending = &p
    d.dirty = true
}

// ClearPending drops the reservation awaiting payment.
func (d *Data) ClearPending() {
    if d.Pending != nil {
        d.Pending = nil
        d.dirty = true
    }
}

// Flash queues msg for the next rendered page.
func (d *Data) Flash(msg string) {
    d.Flashes = append(d.Flashes, msg)
    d.dirty = true
}

// PopFlashes returns and clears the queued messages.
func (d *Data) PopFlashes() []string {
    out := d.Flashes
    if len(out) > 0 {
        d.Flashes = nil
        d.dirty = true
    }
    return out
}

// Logout removes the identity and the pending booking.  Queued flashes
// are kept so the sign-in page can show them.
func (d *Data) Logout() {
    d.User = nil
    d.Pending = nil
    d.dirty = true
}

func (d *Data) empty() bool {
    return d.User == nil && d.Pending == nil && len(d.Flashes) == 0
}

type claims struct {
    Session Data `json:"sess"`
    jwt.RegisteredClaims
}

// Store signs and verifies session cookies.
type Store struct {
    secret []byte
    ttl    time.Duration
    secure bool
    now    func() time.Time
}

// NewStore returns a Store using cfg's secret and lifetime.
func NewStore(cfg config.SessionConfig) *Store {
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 24 * time.Hour
    }
    return &Store{secret: []byte(cfg.Secret), ttl: ttl, secure: cfg.Secure, now: time.Now}
}

// Encode signs d into a token valid for the store's TTL.
func (s *Store) Encode(d *Data) (string, error) {
    now := s.now().UTC()
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
        Session: *d,
        RegisteredClaims: jwt.RegisteredClaims{
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
        },
    })
    return t.SignedString(s.secret)
}

// Decode verifies raw and returns the session it carries.
func (s *Store) Decode(raw string) (*Data, error) {
    var cl claims
    tok, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
        }
        return s.secret, nil
    }, jwt.WithTimeFunc(s.now))
    if err != nil {
        return nil, err
    }
    if !tok.Valid {
        return nil, errors.New("invalid session token")
    }
    d := cl.Session
    return &d, nil
}

// Load reads the session cookie of c.  A missing, expired or forged
// cookie yields an empty session.
func (s *Store) Load(c echo.Context) *Data {
    ck, err := c.Cookie(CookieName)
    if err != nil || ck.Value == "" {
        return &Data{}
    }
    d, err := s.Decode(ck.Value)
    if err != nil {
        // stale cookie; overwrite it on the way out
        return &Data{dirty: true}
    }
    return d
}

// Save writes d as the session cookie, or expires the cookie when d is empty.
func (s *Store) Save(c echo.Context, d *Data) error {
    ck := &http.Cookie{
        Name:     CookieName,
        Path:     "/",
        HttpOnly: true,
        Secure:   s.secure,
        SameSite: http.SameSiteLaxMode,
    }
    if d.empty() {
        ck.MaxAge = -1
    } else {
        raw, err := s.Encode(d)
        if err != nil {
            return err
        }
        ck.Value = raw
        ck.Expires = s.now().Add(s.ttl)
    }
    c.SetCookie(ck)
    d.dirty = false
    return nil
}

// Middleware loads the session for every request and rewrites the cookie
// before the response is committed when the session changed.
func (s *Store) Middleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            d := s.Load(c)
            c.Set(contextKey, d)
            c.Response().Before(func() {
                if d.dirty {
                    _ = s.Save(c, d)
                }
            })
            return next(c)
        }
    }
}

// Get returns the session loaded by Middleware, or an empty one.
func Get(c echo.Context) *Data {
    if d, ok := c.Get(contextKey).(*Data); ok && d != nil {
        return d
    }
    d := &Data{}
    c.Set(contextKey, d)
    return d
}
