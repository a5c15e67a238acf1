package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/menulink/menulink/libs/config"
	"github.com/menulink/menulink/libs/db"
	"github.com/menulink/menulink/libs/httpx"
	otelx "github.com/menulink/menulink/libs/otel"
	"github.com/menulink/menulink/libs/runtime"
	"github.com/menulink/menulink/services/business-service/internal/handlers"
	"github.com/menulink/menulink/services/business-service/internal/sessions"
	"github.com/menulink/menulink/services/business-service/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	service := config.String("SERVICE_NAME", "business-service")
	port, err := config.Port("PORT", "8082")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	dbURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		panic(err)
	}
	pool, err := db.Open(ctx, dbURL)
	if err != nil {
		logger.Error("db connection failed", "err", err)
		panic(err)
	}
	defer pool.Close()

	redisAddr, err := config.RequiredString("REDIS_ADDR")
	if err != nil {
		panic(err)
	}
	redisDB := 0
	if v, err := strconv.Atoi(config.String("REDIS_DB", "0")); err == nil && v >= 0 {
		redisDB = v
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: config.String("REDIS_PASSWORD", ""),
		DB:       redisDB,
	})
	defer func() { _ = rdb.Close() }()

	sessionTTL := 24 * time.Hour
	if v, err := strconv.Atoi(config.String("SESSION_TTL_HOURS", "24")); err == nil && v > 0 {
		sessionTTL = time.Duration(v) * time.Hour
	}
	sessionStore := sessions.NewStore(rdb, sessionTTL)

	users := storage.NewUserRepository(pool)
	businesses := storage.NewBusinessRepository(pool)
	catalog := storage.NewCatalogRepository(pool)
	links := storage.NewLinkRepository(pool)
	billing := storage.NewBillingRepository(pool)

	authHandler := handlers.NewAuthHandler(pool, users, businesses, sessionStore, logger)
	businessHandler := handlers.NewBusinessHandler(businesses, logger)
	catalogHandler := handlers.NewCatalogHandler(catalog)
	linkHandler := handlers.NewLinkHandler(links)
	publicHandler := handlers.NewPublicHandler(businesses, catalog, links)
	stripeHandler := handlers.NewStripeWebhookHandler(billing, logger,
		config.String("STRIPE_WEBHOOK_SECRET", ""), 5*time.Minute)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}},
	)

	withSession := func(next http.HandlerFunc) http.HandlerFunc {
		return handlers.RequireSession(sessionStore, next)
	}

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/v1/auth/me", withSession(authHandler.Me))

	mux.HandleFunc("GET /api/v1/business", withSession(businessHandler.GetProfile))
	mux.HandleFunc("PUT /api/v1/business", withSession(businessHandler.UpdateProfile))

	mux.HandleFunc("POST /api/v1/services", withSession(catalogHandler.CreateService))
	mux.HandleFunc("GET /api/v1/services", withSession(catalogHandler.ListServices))
	mux.HandleFunc("PUT /api/v1/services/{id}", withSession(catalogHandler.UpdateService))
	mux.HandleFunc("DELETE /api/v1/services/{id}", withSession(catalogHandler.DeleteService))

	mux.HandleFunc("POST /api/v1/menu-items", withSession(catalogHandler.CreateMenuItem))
	mux.HandleFunc("GET /api/v1/menu-items", withSession(catalogHandler.ListMenuItems))
	mux.HandleFunc("PUT /api/v1/menu-items/{id}", withSession(catalogHandler.UpdateMenuItem))
	mux.HandleFunc("DELETE /api/v1/menu-items/{id}", withSession(catalogHandler.DeleteMenuItem))

	mux.HandleFunc("POST /api/v1/links", withSession(linkHandler.Create))
	mux.HandleFunc("GET /api/v1/links", withSession(linkHandler.List))
	mux.HandleFunc("PUT /api/v1/links/{id}", withSession(linkHandler.Update))
	mux.HandleFunc("DELETE /api/v1/links/{id}", withSession(linkHandler.Delete))

	mux.HandleFunc("GET /api/v1/public/page", publicHandler.GetPage)
	mux.HandleFunc("POST /api/v1/billing/stripe/webhook", stripeHandler.Handle)

	limitPerMinute := 120
	if v, err := strconv.Atoi(config.String("RATE_LIMIT_PER_MINUTE", "120")); err == nil && v > 0 {
		limitPerMinute = v
	}
	rateLimiter := httpx.NewRedisRateLimiter(rdb, limitPerMinute, time.Minute,
		config.String("RATE_LIMIT_PREFIX", "rl:business"))

	httpHandler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins:   parseList(config.String("CORS_ALLOWED_ORIGINS", "")),
			AllowedMethods:   parseList(config.String("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")),
			AllowedHeaders:   parseList(config.String("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id")),
			AllowCredentials: false,
			MaxAge:           10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
		rateLimiter.Middleware(logger, true),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "business")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
