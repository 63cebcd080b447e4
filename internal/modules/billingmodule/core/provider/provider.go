// Package provider talks to the hosted checkout provider
package provider

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Checkout modes
const (
	ModePayment      = "payment"
	ModeSubscription = "subscription"
)

// LineItem is one purchasable row. Either PriceID or Name with
// AmountCents is set.
type LineItem struct {
	PriceID     string `json:"price_id,omitempty"`
	Name        string `json:"name,omitempty"`
	AmountCents int64  `json:"amount_cents,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Quantity    int64  `json:"quantity"`
}

// CheckoutRequest describes a session to open
type CheckoutRequest struct {
	Items       []LineItem
	Mode        string
	SuccessURL  string
	CancelURL   string
	ReferenceID string
	Email       string
}

// Session is the provider's answer
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Provider opens hosted checkout sessions
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
}

// StripeProvider creates Stripe Checkout sessions
type StripeProvider struct {
	sc *client.API
}

// NewStripe initializes a Stripe client for key
func NewStripe(key string) (*StripeProvider, error) {
	if key == "" {
		return nil, fmt.Errorf("stripe not configured: missing secret key")
	}
	sc := &client.API{}
	sc.Init(key, nil)
	return &StripeProvider{sc: sc}, nil
}

// CreateCheckoutSession opens a Stripe Checkout session
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(req.Mode),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if req.ReferenceID != "" {
		params.ClientReferenceID = stripe.String(req.ReferenceID)
		params.AddMetadata("lineup_user_id", req.ReferenceID)
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}

	for _, item := range req.Items {
		li := &stripe.CheckoutSessionLineItemParams{Quantity: stripe.Int64(item.Quantity)}
		if item.PriceID != "" {
			li.Price = stripe.String(item.PriceID)
		} else {
			li.PriceData = &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(item.Currency),
				UnitAmount: stripe.Int64(item.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			}
		}
		params.LineItems = append(params.LineItems, li)
	}

	sess, err := p.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout: %w", err)
	}
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}
