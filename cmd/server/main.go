package main // Entry point package

import (
    "context"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/iliyamo/dining-hall-reservation/internal/cache"
    "github.com/iliyamo/dining-hall-reservation/internal/config"
    "github.com/iliyamo/dining-hall-reservation/internal/database"
    "github.com/iliyamo/dining-hall-reservation/internal/handler"
    "github.com/iliyamo/dining-hall-reservation/internal/logging"
    "github.com/iliyamo/dining-hall-reservation/internal/queue"
    "github.com/iliyamo/dining-hall-reservation/internal/repository"
    "github.com/iliyamo/dining-hall-reservation/internal/router"
    "github.com/iliyamo/dining-hall-reservation/internal/scheduler"
    "github.com/iliyamo/dining-hall-reservation/internal/service"
    "github.com/iliyamo/dining-hall-reservation/internal/session"
    "github.com/iliyamo/dining-hall-reservation/internal/supervisor"
    "github.com/iliyamo/dining-hall-reservation/web"
)

func main() {
    cfg := config.MustLoad() // Load environment config
    logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr})

    loc, err := cfg.Location()
    if err != nil {
        logging.Fatal().Err(err).Msg("time zone")
    }

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    db, dialect, err := database.Open(cfg.DB)
    if err != nil {
        logging.Fatal().Err(err).Msg("open database")
    }
    defer db.Close()
    if err := database.Migrate(ctx, db, dialect); err != nil {
        logging.Fatal().Err(err).Msg("migrate database")
    }

    // Redis is optional: without it the counts cache and rate limiter are off.
    rdb := config.NewRedisClient(cfg.Redis)
    if rdb == nil {
        logging.Warn().Msg("redis unavailable, cache and rate limiting disabled")
    } else {
        defer rdb.Close()
    }
    counts := cache.NewCountsCache(cfg.Cache, rdb)

    var events service.EventPublisher = service.NopPublisher{}
    if cfg.Events.Enabled {
        events = service.NewAMQPPublisher(cfg.Events.URL)
    }

    users := repository.NewUserRepo(db)
    bookings := repository.NewBookingRepo(db, dialect)

    authSvc := service.NewAuthService(users, cfg.BcryptCost)
    reservations := service.NewReservationService(bookings, counts, loc)
    payments := service.NewPaymentService(bookings, counts, events, cfg.TicketPrice)
    countsSvc := service.NewCountsService(bookings, counts)
    resets := service.NewResetService(bookings, counts, loc)

    e := router.New(router.Deps{
        Auth:      handler.NewAuthHandler(authSvc),
        Booking:   handler.NewBookingHandler(reservations, countsSvc, resets, cfg.TicketPrice),
        Payment:   handler.NewPaymentHandler(payments, reservations),
        Health:    handler.NewHealthHandler(db),
        Sessions:  session.NewStore(cfg.Session),
        Renderer:  web.MustRenderer(),
        RateLimit: cfg.RateLimit,
        Redis:     rdb,
    })

    addr := ":" + cfg.Port // Address string with port
    srv := &http.Server{
        Addr:              addr,
        Handler:           e,
        ReadHeaderTimeout: 10 * time.Second,
    }

    tree := supervisor.NewTree(supervisor.DefaultTreeConfig())
    tree.AddAPIService(supervisor.NewHTTPService(srv, 10*time.Second))
    if cfg.Reset.Enabled {
        hour, minute, _ := cfg.Reset.Clock() // validated by config.Load
        tree.AddBackgroundService(scheduler.NewDailyReset(resets, hour, minute, loc))
    }
    if cfg.Events.Enabled {
        tree.AddBackgroundService(queue.NewBookingConsumer(cfg.Events.URL, cfg.Events.LogPath))
    }

    logging.Info().
        Str("addr", addr).
        Str("env", cfg.Env).
        Str("db", string(dialect)).
        Bool("events", cfg.Events.Enabled).
        Bool("reset_timer", cfg.Reset.Enabled).
        Msg("listening")

    if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
        logging.Error().Err(err).Msg("supervisor stopped")
    }
    logging.Info().Msg("shutdown complete")
}
