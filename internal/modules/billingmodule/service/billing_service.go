// Package service validates checkout requests before they reach the provider
package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/modules/billingmodule/core/provider"
	"github.com/mantonx/lineup/internal/types"
)

// CheckoutInput is what a caller asks for
type CheckoutInput struct {
	Items      []provider.LineItem `json:"items" binding:"required"`
	Mode       string              `json:"mode"`
	SuccessURL string              `json:"success_url"`
	CancelURL  string              `json:"cancel_url"`
	Email      string              `json:"email"`
}

// BillingService opens checkout sessions for viewers
type BillingService struct {
	provider   provider.Provider
	successURL string
	cancelURL  string
	logger     hclog.Logger
}

// NewBillingService creates the service. A nil provider makes every
// checkout fail as unavailable.
func NewBillingService(p provider.Provider, successURL, cancelURL string, logger hclog.Logger) *BillingService {
	return &BillingService{provider: p, successURL: successURL, cancelURL: cancelURL, logger: logger}
}

// Configured reports whether a provider is set
func (s *BillingService) Configured() bool {
	return s.provider != nil
}

// CreateCheckoutSession validates in and asks the provider for a session
func (s *BillingService) CreateCheckoutSession(ctx context.Context, viewer types.Viewer, in CheckoutInput) (*provider.Session, error) {
	const op = "create_checkout_session"
	if s.provider == nil {
		return nil, apperrors.Unavailable(op, "billing")
	}

	req := provider.CheckoutRequest{
		Mode:        strings.ToLower(strings.TrimSpace(in.Mode)),
		SuccessURL:  firstNonEmpty(in.SuccessURL, s.successURL),
		CancelURL:   firstNonEmpty(in.CancelURL, s.cancelURL),
		ReferenceID: viewer.UserID,
		Email:       strings.TrimSpace(in.Email),
	}
	if req.Mode == "" {
		req.Mode = provider.ModePayment
	}
	if req.Mode != provider.ModePayment && req.Mode != provider.ModeSubscription {
		return nil, apperrors.Validationf(op, "mode", "mode must be %s or %s", provider.ModePayment, provider.ModeSubscription)
	}
	if !absoluteURL(req.SuccessURL) {
		return nil, apperrors.Validation(op, "success_url", "success_url must be an absolute URL")
	}
	if !absoluteURL(req.CancelURL) {
		return nil, apperrors.Validation(op, "cancel_url", "cancel_url must be an absolute URL")
	}

	if len(in.Items) == 0 {
		return nil, apperrors.Validation(op, "items", "at least one item is required")
	}
	for _, item := range in.Items {
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if item.Quantity < 0 {
			return nil, apperrors.Validation(op, "quantity", "quantity must be positive")
		}
		item.PriceID = strings.TrimSpace(item.PriceID)
		if item.PriceID == "" {
			if strings.TrimSpace(item.Name) == "" || item.AmountCents <= 0 {
				return nil, apperrors.Validation(op, "items", "each item needs a price_id or a name and positive amount_cents")
			}
			item.Currency = strings.ToLower(firstNonEmpty(item.Currency, "usd"))
		}
		req.Items = append(req.Items, item)
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, req)
	if err != nil {
		s.logger.Error("checkout session failed", "user", viewer.UserID, "error", err)
		return nil, apperrors.NewInternalError("Checkout provider failed", err)
	}
	s.logger.Info("checkout session created", "user", viewer.UserID, "session", sess.ID, "items", len(req.Items))
	return sess, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs() && u.Host != ""
}
