package router // package router wires handlers and middleware onto echo

import (
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/dining-hall-reservation/internal/config"
    "github.com/iliyamo/dining-hall-reservation/internal/handler"
    "github.com/iliyamo/dining-hall-reservation/internal/middleware"
    "github.com/iliyamo/dining-hall-reservation/internal/session"
)

// Deps bundles everything the routes need.
type Deps struct {
    Auth     *handler.AuthHandler
    Booking  *handler.BookingHandler
    Payment  *handler.PaymentHandler
    Health   *handler.HealthHandler
    Sessions *session.Store
    Renderer echo.Renderer

    RateLimit config.RateLimitConfig
    Redis     *redis.Client // nil disables rate limiting
}

// New builds the echo instance with global middleware and all routes.
func New(d Deps) *echo.Echo {
    e := echo.New()
    e.HideBanner = true
    e.HidePort = true
    e.Renderer = d.Renderer

    // Order matters: recover from panics, log with a request id, then
    // load the session so every handler and the limiter can see the user.
    e.Use(echomw.Recover())
    e.Use(middleware.RequestLogger())
    e.Use(d.Sessions.Middleware())

    RegisterRoutes(e, d)
    return e
}

// RegisterRoutes maps every endpoint.  Form and JSON writes share one
// token bucket keyed by client and route.
func RegisterRoutes(e *echo.Echo, d Deps) {
    limit := middleware.RateLimit(d.RateLimit, d.Redis)

    // Operational endpoints; no session required.
    e.GET("/healthz", d.Health.Health)
    e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

    // Sign-in lives at the root.  Signed-in users are redirected by the handlers.
    e.GET("/", d.Auth.SignInPage)
    e.POST("/", d.Auth.SignIn, limit)
    e.GET("/signup", d.Auth.SignUpPage)
    e.POST("/signup", d.Auth.SignUp, limit)
    e.GET("/logout", d.Auth.Logout)

    // Booking pages redirect anonymous visitors with a flash.
    e.GET("/booking", d.Booking.BookingPage, middleware.RequirePageUser("Please sign in to book a meal"))
    e.POST("/booking", d.Booking.Book, middleware.RequirePageUser("Please sign in to book a meal"), limit)

    pay := middleware.RequirePageUser("Please sign in to make a payment")
    e.GET("/payment", d.Payment.PaymentPage, pay)
    e.POST("/payment", d.Payment.Pay, pay, limit)

    // JSON endpoints answer 401 instead of redirecting.
    e.GET("/get_counts", d.Booking.GetCounts, middleware.RequireAPIUser(echo.Map{"error": "Unauthorized"}))
    e.POST("/reset_bookings", d.Booking.ResetBookings,
        middleware.RequireAPIUser(echo.Map{"status": "error", "message": "Unauthorized"}), limit)
}
