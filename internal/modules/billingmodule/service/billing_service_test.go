package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"github.com/mantonx/lineup/internal/modules/billingmodule/core/provider"
	"github.com/mantonx/lineup/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, req provider.CheckoutRequest) (*provider.Session, error) {
	args := m.Called(ctx, req)
	sess, _ := args.Get(0).(*provider.Session)
	return sess, args.Error(1)
}

var viewer = types.Viewer{UserID: "u1", Role: types.RoleUser, Authenticated: true}

func TestCheckoutUnconfigured(t *testing.T) {
	svc := NewBillingService(nil, "", "", hclog.NewNullLogger())
	_, err := svc.CreateCheckoutSession(context.Background(), viewer, CheckoutInput{})
	assert.Equal(t, apperrors.ErrorTypeUnavailable, apperrors.TypeOf(err))
	assert.False(t, svc.Configured())
}

func TestCheckoutDefaultsAndForwarding(t *testing.T) {
	p := &mockProvider{}
	p.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req provider.CheckoutRequest) bool {
		return req.Mode == provider.ModePayment &&
			req.SuccessURL == "https://lineup.example/ok" &&
			req.CancelURL == "https://lineup.example/cancel" &&
			req.ReferenceID == "u1" &&
			len(req.Items) == 2 &&
			req.Items[0].Quantity == 1 &&
			req.Items[1].Currency == "usd"
	})).Return(&provider.Session{ID: "cs_1", URL: "https://checkout.example/cs_1"}, nil)

	svc := NewBillingService(p, "https://lineup.example/ok", "https://lineup.example/cancel", hclog.NewNullLogger())
	sess, err := svc.CreateCheckoutSession(context.Background(), viewer, CheckoutInput{
		Items: []provider.LineItem{
			{PriceID: "price_premium"},
			{Name: "Rental", AmountCents: 399, Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", sess.ID)
	assert.Equal(t, "https://checkout.example/cs_1", sess.URL)
	p.AssertExpectations(t)
}

func TestCheckoutValidation(t *testing.T) {
	p := &mockProvider{}
	svc := NewBillingService(p, "https://lineup.example/ok", "https://lineup.example/cancel", hclog.NewNullLogger())
	ctx := context.Background()

	cases := map[string]CheckoutInput{
		"no items":     {},
		"bad mode":     {Mode: "rental", Items: []provider.LineItem{{PriceID: "p"}}},
		"relative url": {SuccessURL: "/ok", Items: []provider.LineItem{{PriceID: "p"}}},
		"no amount":    {Items: []provider.LineItem{{Name: "x"}}},
		"negative qty": {Items: []provider.LineItem{{PriceID: "p", Quantity: -1}}},
	}
	for name, in := range cases {
		_, err := svc.CreateCheckoutSession(ctx, viewer, in)
		assert.True(t, apperrors.IsValidation(err), name)
	}
	p.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCheckoutProviderFailure(t *testing.T) {
	p := &mockProvider{}
	p.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, errors.New("card_declined"))
	svc := NewBillingService(p, "https://a.example/ok", "https://a.example/no", hclog.NewNullLogger())

	_, err := svc.CreateCheckoutSession(context.Background(), viewer, CheckoutInput{Items: []provider.LineItem{{PriceID: "p"}}})
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.FromError(err).HTTPStatus)
}
