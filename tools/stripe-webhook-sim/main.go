// stripe-webhook-sim posts a signed test subscription event to the
// business-service webhook, for local entitlement testing without a Stripe
// account.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/menulink/menulink/libs/runtime"
	"github.com/stripe/stripe-go/v79/webhook"
)

func main() {
	var (
		baseURL  = flag.String("base-url", runtime.Getenv("BASE_URL", "http://localhost:8082"), "business-service base url")
		evtType  = flag.String("type", runtime.Getenv("STRIPE_EVENT_TYPE", "customer.subscription.updated"), "stripe event type")
		business = flag.String("business-id", runtime.Getenv("BUSINESS_ID", ""), "business_id metadata")
		tier     = flag.String("tier", runtime.Getenv("TIER", "starter"), "tier metadata")
		secret   = flag.String("secret", runtime.Getenv("STRIPE_WEBHOOK_SECRET", ""), "stripe webhook signing secret (whsec_...)")
	)
	flag.Parse()

	if strings.TrimSpace(*secret) == "" {
		fatal("STRIPE_WEBHOOK_SECRET is required")
	}
	if strings.TrimSpace(*business) == "" {
		fatal("BUSINESS_ID is required")
	}

	now := time.Now().UTC()
	eventID := fmt.Sprintf("evt_test_%d", now.UnixNano())

	payload, err := buildEventJSON(eventID, *evtType, now, *business, *tier)
	if err != nil {
		fatal(err.Error())
	}

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    *secret,
		Timestamp: now,
		Scheme:    "v1",
	})

	req, err := http.NewRequest(http.MethodPost, strings.TrimRight(*baseURL, "/")+"/api/v1/billing/stripe/webhook", bytes.NewReader(payload))
	if err != nil {
		fatal(err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", signed.Header)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fatal(err.Error())
	}
	defer resp.Body.Close()

	fmt.Printf("status=%d\n", resp.StatusCode)
}

func buildEventJSON(eventID, eventType string, t time.Time, businessID, tier string) ([]byte, error) {
	switch eventType {
	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		return json.Marshal(map[string]any{
			"id":          eventID,
			"object":      "event",
			"created":     t.Unix(),
			"type":        eventType,
			"api_version": "2020-08-27",
			"data": map[string]any{
				"object": map[string]any{
					"id":     "sub_test_123",
					"object": "subscription",
					"status": "active",
					"metadata": map[string]any{
						"business_id": businessID,
						"tier":        tier,
					},
				},
			},
		})
	default:
		return nil, fmt.Errorf("unsupported event type: %s", eventType)
	}
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(2)
}
