package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
	"github.com/stripe/stripe-go/v80/webhook"
)

// Metadata keys attached to every payment intent so the webhook can be
// matched back to a settlement record.
const (
	MetadataOrderID     = "order_id"
	MetadataOrderNumber = "order_number"
	MetadataCustomerID  = "customer_id"
)

// EventPaymentSucceeded is the gateway event type that confirms a payment.
const EventPaymentSucceeded = "payment_intent.succeeded"

// PaymentIntentRequest carries everything the gateway needs to create a
// payment intent: the amount in minor currency units, the receipt
// destination and the order identity used for reconciliation.
type PaymentIntentRequest struct {
	Amount       int64
	Currency     string
	ReceiptEmail string
	OrderID      uuid.UUID
	OrderNumber  string
	CustomerID   uuid.UUID
}

// PaymentIntentResult is the client-side payment handle returned to the
// caller on a committed checkout.
type PaymentIntentResult struct {
	IntentID     string
	ClientSecret string
}

// PaymentGateway is the single outbound dependency on the checkout
// critical path.
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntentResult, error)
}

type StripeService struct {
	SecretKey  string
	WebhookKey string
	Timeout    time.Duration
}

func NewStripeService(secretKey, webhookKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{SecretKey: secretKey, WebhookKey: webhookKey, Timeout: 15 * time.Second}
}

// CreatePaymentIntent requests a payment intent from Stripe. The call has
// no internal retry; it runs under a bounded timeout and any error aborts
// the checkout attempt.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
	}
	params.Context = ctx
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	params.AddMetadata(MetadataOrderID, req.OrderID.String())
	params.AddMetadata(MetadataOrderNumber, req.OrderNumber)
	params.AddMetadata(MetadataCustomerID, req.CustomerID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return &PaymentIntentResult{IntentID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ParseWebhook verifies the Stripe signature against the shared secret and
// returns the event. Unverifiable payloads never reach processing.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))
	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookKey)
}
