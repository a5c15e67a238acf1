package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/menulink/menulink/libs/config"
	"github.com/menulink/menulink/libs/db"
	"github.com/menulink/menulink/libs/httpx"
	"github.com/menulink/menulink/libs/kafkax"
	otelx "github.com/menulink/menulink/libs/otel"
	"github.com/menulink/menulink/libs/runtime"
	"github.com/menulink/menulink/services/notification-service/internal/consumer"
	"github.com/menulink/menulink/services/notification-service/internal/email"
	"github.com/menulink/menulink/services/notification-service/internal/inbox"
	"github.com/menulink/menulink/services/notification-service/internal/messages"
	"github.com/menulink/menulink/services/notification-service/internal/sms"
	"github.com/menulink/menulink/services/notification-service/internal/storage"
	"github.com/segmentio/kafka-go"
)

// dispatcher fans one rendered message out to the configured channels and
// records every attempt.
type dispatcher struct {
	repo        *storage.Repository
	emailSender email.Sender
	smsSender   sms.Sender
	notifyEmail string
	logger      *slog.Logger
}

func (d *dispatcher) dispatch(ctx context.Context, businessID, phone string, msg messages.Message) {
	if phone != "" {
		status, errText := "sent", ""
		if err := d.smsSender.Send(ctx, phone, msg.Body); err != nil {
			status, errText = "failed", err.Error()
			d.logger.Error("sms send failed", "err", err, "recipient", phone)
		}
		d.record(ctx, storage.Notification{
			BusinessID: businessID,
			Channel:    "sms",
			Recipient:  phone,
			Subject:    msg.Subject,
			Body:       msg.Body,
			Status:     status,
			Error:      errText,
		})
	}

	if d.notifyEmail != "" {
		status, errText := "sent", ""
		if err := d.emailSender.Send(d.notifyEmail, msg.Subject, msg.Body); err != nil {
			status, errText = "failed", err.Error()
			d.logger.Error("email send failed", "err", err, "recipient", d.notifyEmail)
		}
		d.record(ctx, storage.Notification{
			BusinessID: businessID,
			Channel:    "email",
			Recipient:  d.notifyEmail,
			Subject:    msg.Subject,
			Body:       msg.Body,
			Status:     status,
			Error:      errText,
		})
	}
}

func (d *dispatcher) record(ctx context.Context, n storage.Notification) {
	if err := d.repo.Insert(ctx, n); err != nil {
		d.logger.Error("failed to persist notification", "err", err, "channel", n.Channel)
	}
}

func main() {
	service := config.String("SERVICE_NAME", "notification-service")
	port, err := config.Port("PORT", "8085")
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

	inboxRepo := inbox.NewRepository(pool)
	notificationsRepo := storage.NewRepository(pool)

	emailSender := email.NewSMTPSender(
		config.String("SMTP_HOST", "mailpit"),
		config.String("SMTP_PORT", "1025"),
		config.String("SMTP_FROM", "no-reply@menulink.local"),
	)

	var smsSender sms.Sender
	switch strings.ToLower(config.String("SMS_PROVIDER", "log")) {
	case "webhook":
		smsSender = sms.NewWebhookSender(
			config.String("SMS_WEBHOOK_URL", ""),
			config.String("SMS_WEBHOOK_TOKEN", ""),
		)
	default:
		smsSender = sms.NewLogSender(logger)
	}

	d := &dispatcher{
		repo:        notificationsRepo,
		emailSender: emailSender,
		smsSender:   smsSender,
		notifyEmail: strings.TrimSpace(config.String("NOTIFY_EMAIL", "")),
		logger:      logger,
	}

	brokers := config.String("KAFKA_BROKERS", "")
	groupID := config.String("KAFKA_GROUP_ID", "notification-service")

	bookingConsumer := consumer.New(logger, inboxRepo, consumer.Config{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   config.String("KAFKA_BOOKING_TOPIC", "booking.created.v1"),
	}, func(ctx context.Context, msg kafka.Message) error {
		var payload messages.BookingCreatedPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid booking payload", "err", err)
			return nil
		}
		if payload.BookingID == "" || payload.BusinessID == "" {
			logger.Error("missing booking fields")
			return nil
		}
		d.dispatch(ctx, payload.BusinessID, payload.CustomerPhone, messages.BookingCreated(payload))
		logger.Info("booking notification processed", "booking_id", payload.BookingID)
		return nil
	})
	go bookingConsumer.Run(ctx)

	orderConsumer := consumer.New(logger, inboxRepo, consumer.Config{
		Brokers: brokers,
		GroupID: groupID,
		Topic:   config.String("KAFKA_ORDER_TOPIC", "order.status_changed.v1"),
	}, func(ctx context.Context, msg kafka.Message) error {
		var payload messages.OrderStatusChangedPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("invalid order payload", "err", err)
			return nil
		}
		if payload.OrderID == "" || payload.BusinessID == "" {
			logger.Error("missing order fields")
			return nil
		}
		d.dispatch(ctx, payload.BusinessID, payload.CustomerPhone, messages.OrderStatusChanged(payload))
		logger.Info("order notification processed", "order_id", payload.OrderID, "status", payload.Status)
		return nil
	})
	go orderConsumer.Run(ctx)

	mux := runtime.NewBaseMuxWithReady(
		runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)},
		runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)},
	)
	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
	)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
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
