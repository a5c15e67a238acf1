package main

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/menulink/menulink/libs/config"
	"github.com/menulink/menulink/libs/db"
	"github.com/menulink/menulink/libs/httpx"
	"github.com/menulink/menulink/libs/kafkax"
	otelx "github.com/menulink/menulink/libs/otel"
	"github.com/menulink/menulink/libs/runtime"
	"github.com/menulink/menulink/services/booking-service/internal/handlers"
	"github.com/menulink/menulink/services/booking-service/internal/outbox"
	"github.com/menulink/menulink/services/booking-service/internal/storage"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func parseIntConfig(name, fallback string, logger *slog.Logger) int64 {
	raw := config.String(name, fallback)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		logger.Warn("invalid numeric config, using default", "name", name, "value", raw)
		n, _ = strconv.ParseInt(fallback, 10, 64)
	}
	return n
}

func main() {
	service := config.String("SERVICE_NAME", "booking-service")
	port, err := config.Port("PORT", "8083")
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

	bookingRepo := storage.NewBookingRepository(pool)
	orderRepo := storage.NewOrderRepository(pool)
	businessRepo := storage.NewBusinessRepository(pool)
	outboxRepo := outbox.NewRepository(pool)

	outboxPublisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   config.String("KAFKA_BROKERS", ""),
		PollEvery: 2 * time.Second,
		BatchSize: 50,
	})
	go outboxPublisher.Run(ctx)

	taxRateBps := parseIntConfig("TAX_RATE_BPS", "0", logger)
	deliveryFeeCents := parseIntConfig("DELIVERY_FEE_CENTS", "0", logger)

	availabilityHandler := handlers.NewAvailabilityHandler(businessRepo, bookingRepo, logger)
	bookingHandler := handlers.NewBookingHandler(bookingRepo, businessRepo, outboxRepo, logger)
	orderHandler := handlers.NewOrderHandler(orderRepo, bookingRepo, businessRepo, outboxRepo, logger,
		taxRateBps, deliveryFeeCents)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(config.String("KAFKA_BROKERS", ""))},
	)
	mux.HandleFunc("GET /api/v1/public/availability", availabilityHandler.GetAvailability)
	mux.HandleFunc("POST /api/v1/public/bookings", bookingHandler.Create)
	mux.HandleFunc("PUT /api/v1/bookings/{id}", bookingHandler.Update)
	mux.HandleFunc("GET /api/v1/bookings", bookingHandler.List)
	mux.HandleFunc("POST /api/v1/public/orders", orderHandler.Create)
	mux.HandleFunc("GET /api/v1/orders", orderHandler.List)
	mux.HandleFunc("GET /api/v1/orders/{id}", orderHandler.Get)
	mux.HandleFunc("PUT /api/v1/orders/{id}", orderHandler.UpdateStatus)

	rateLimit := int(parseIntConfig("RATE_LIMIT_PER_MINUTE", "300", logger))
	limiter := httpx.NewRateLimiter(rateLimit, time.Minute)

	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(1<<20),
		httpx.WithTimeout(15*time.Second),
		limiter.Middleware(),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking")
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
