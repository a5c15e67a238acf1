package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/menulink/menulink/services/business-service/internal/model"
	"github.com/menulink/menulink/services/business-service/internal/storage"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

const freeTierMonthlyBookings = 200

// tierLimits maps a subscription tier to its monthly booking allowance.
var tierLimits = map[string]int{
	"free":    freeTierMonthlyBookings,
	"starter": 1000,
	"pro":     10000,
}

// StripeWebhookHandler applies subscription events to business_entitlements.
// Signature verification is the auth; there is no session on this route.
type StripeWebhookHandler struct {
	repo      *storage.BillingRepository
	logger    *slog.Logger
	secret    string
	tolerance time.Duration
}

func NewStripeWebhookHandler(repo *storage.BillingRepository, logger *slog.Logger, secret string, tolerance time.Duration) *StripeWebhookHandler {
	if tolerance <= 0 {
		tolerance = 5 * time.Minute
	}
	return &StripeWebhookHandler{repo: repo, logger: logger, secret: secret, tolerance: tolerance}
}

// Handle serves POST /api/v1/billing/stripe/webhook.
func (h *StripeWebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(h.secret) == "" {
		writeError(w, http.StatusServiceUnavailable, "stripe webhook not configured")
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if strings.TrimSpace(sigHeader) == "" {
		writeError(w, http.StatusBadRequest, "missing Stripe-Signature header")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	evt, err := webhook.ConstructEventWithTolerance(body, sigHeader, h.secret, h.tolerance)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	evtType := string(evt.Type)
	h.logger.Info("stripe event received", "provider_event_id", evt.ID, "event_type", evtType)

	ctx := r.Context()
	tx, err := h.repo.Begin(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := h.repo.InsertProviderEvent(ctx, tx, storage.ProviderEvent{
		Provider:        "stripe",
		ProviderEventID: evt.ID,
		EventType:       evtType,
		Payload:         body,
	}); err != nil {
		if errors.Is(err, storage.ErrDuplicateProviderEvent) {
			h.logger.Info("stripe event duplicate ignored", "provider_event_id", evt.ID)
			writeJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to record provider event")
		return
	}

	switch evtType {
	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(evt.Data.Raw, &sub); err != nil {
			h.logger.Error("stripe: invalid subscription payload", "err", err)
			break
		}
		if sub.Status != stripe.SubscriptionStatusActive && sub.Status != stripe.SubscriptionStatusTrialing {
			break
		}
		businessID := strings.TrimSpace(sub.Metadata["business_id"])
		tier := strings.TrimSpace(strings.ToLower(sub.Metadata["tier"]))
		limit, known := tierLimits[tier]
		if businessID == "" || !known {
			h.logger.Warn("stripe: missing or unknown metadata on subscription",
				"business_id", businessID, "tier", tier)
			break
		}
		if err := h.repo.UpsertEntitlementsTx(ctx, tx, model.Entitlements{
			BusinessID:         businessID,
			Tier:               tier,
			MaxMonthlyBookings: limit,
		}); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to apply entitlements")
			return
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(evt.Data.Raw, &sub); err != nil {
			h.logger.Error("stripe: invalid subscription payload", "err", err)
			break
		}
		businessID := strings.TrimSpace(sub.Metadata["business_id"])
		if businessID == "" {
			h.logger.Warn("stripe: missing business_id metadata on subscription")
			break
		}
		if err := h.repo.UpsertEntitlementsTx(ctx, tx, model.Entitlements{
			BusinessID:         businessID,
			Tier:               "free",
			MaxMonthlyBookings: freeTierMonthlyBookings,
		}); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to apply entitlements")
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to commit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
