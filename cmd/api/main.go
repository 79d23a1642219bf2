package main

import (
	"context"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/elhossary/offerwall-api/internal/bootstrap"
	"github.com/elhossary/offerwall-api/internal/config"
	"github.com/elhossary/offerwall-api/internal/domain/auth"
	"github.com/elhossary/offerwall-api/internal/domain/dashboard"
	"github.com/elhossary/offerwall-api/internal/domain/earning"
	"github.com/elhossary/offerwall-api/internal/domain/offer"
	"github.com/elhossary/offerwall-api/internal/domain/postback"
	"github.com/elhossary/offerwall-api/internal/domain/profile"
	"github.com/elhossary/offerwall-api/internal/domain/realtime"
	"github.com/elhossary/offerwall-api/internal/domain/user"
	"github.com/elhossary/offerwall-api/internal/domain/withdrawal"
	"github.com/elhossary/offerwall-api/internal/middleware"
	"github.com/elhossary/offerwall-api/internal/pkg/database"
	"github.com/elhossary/offerwall-api/internal/pkg/jwt"
	"github.com/elhossary/offerwall-api/internal/pkg/logger"
	pkgresponse "github.com/elhossary/offerwall-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	if err := setupLogger(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("storage", cfg.StorageDriver).
		Str("ledger", cfg.LedgerDriver).
		Msg("Starting offerwall API")

	ctx := context.Background()

	redisClient, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without it")
		redisClient = nil
	}
	defer database.CloseRedis(redisClient)

	store, err := bootstrap.OpenStore(ctx, cfg, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}

	ledger, err := bootstrap.OpenLedger(ctx, cfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger")
	}
	defer ledger.Close()

	// ---------- Realtime ----------
	hub := realtime.NewHub(redisClient)
	go hub.Run()

	// ---------- Services ----------
	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	earningService := earning.NewService(ledger.Repo,
		earning.WithNotifier(hub),
		earning.WithPersistOnRead(cfg.LedgerPersistOnRead),
	)

	var deduper postback.Deduper
	if cfg.PostbackDedupeEnabled {
		if redisClient != nil {
			deduper = postback.NewRedisDeduper(redisClient, cfg.PostbackDedupeTTL)
		} else {
			deduper = postback.NewMemoryDeduper(cfg.PostbackDedupeTTL)
		}
	}
	postbackService := postback.NewService(earningService, deduper)

	userRepo := user.NewRepository(store)
	authService := auth.NewService(userRepo, jwtService)
	profileService := profile.NewService(userRepo)
	withdrawalService := withdrawal.NewService(withdrawal.NewRepository(store), earningService, cfg.WithdrawalMinAmount)

	catalog := offer.DefaultCatalog()
	var pending offer.PendingRecorder
	if cfg.MockConversionsEnabled {
		pending = earningService
	}

	router := newRouter(cfg, routerDeps{
		jwtService:        jwtService,
		authHandler:       auth.NewHandler(authService),
		profileHandler:    profile.NewHandler(profileService),
		earningHandler:    earning.NewHandler(earningService),
		withdrawalHandler: withdrawal.NewHandler(withdrawalService),
		offerHandler:      offer.NewHandler(catalog, pending),
		dashboardHandler:  dashboard.NewHandler(dashboard.NewService(earningService, catalog)),
		postbackHandler:   postback.NewHandler(postbackService),
		realtimeHandler:   realtime.NewHandler(hub, jwtService, cfg.AllowedOrigins),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Shutdown()

	log.Info().Msg("Server exited properly")
}

type routerDeps struct {
	jwtService        *jwt.Service
	authHandler       *auth.Handler
	profileHandler    *profile.Handler
	earningHandler    *earning.Handler
	withdrawalHandler *withdrawal.Handler
	offerHandler      *offer.Handler
	dashboardHandler  *dashboard.Handler
	postbackHandler   *postback.Handler
	realtimeHandler   *realtime.Handler
}

func newRouter(cfg *config.Config, deps routerDeps) chi.Router {
	authMiddleware := middleware.Auth(deps.jwtService)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint stays outside Compress
	r.Get("/ws", deps.realtimeHandler.WebSocket)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(middleware.Timeout(10 * time.Second))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{
				"status":  "ok",
				"version": "1.0.0",
			})
		})

		// Offer networks call either path depending on how the postback URL was registered.
		r.Get("/api/postback", deps.postbackHandler.Receive)
		r.Get("/postback", deps.postbackHandler.Receive)

		if !cfg.IsProduction() {
			r.Handle("/debug/vars", expvar.Handler())
		}

		r.Route("/api/v1", func(r chi.Router) {
			r.Mount("/auth", deps.authHandler.Routes(authMiddleware))
			r.Mount("/profile", deps.profileHandler.Routes(authMiddleware))
			r.Mount("/earnings", deps.earningHandler.Routes(authMiddleware))
			r.Mount("/withdrawals", deps.withdrawalHandler.Routes(authMiddleware))
			r.Mount("/offers", deps.offerHandler.Routes(authMiddleware))
			r.Mount("/dashboard", dashboard.Routes(deps.dashboardHandler, authMiddleware))
		})
	})

	return r
}

func setupLogger(cfg *config.Config) error {
	return logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	})
}
