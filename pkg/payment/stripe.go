package payment

import (
	"context"
	"fmt"

	"yoga-studio/pkg/utils"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.uber.org/zap"
)

type stripeProvider struct {
	api *client.API
	log *zap.Logger
}

// NewStripeProvider builds a Provider backed by Stripe Checkout.
func NewStripeProvider(config utils.StripeConfig, log *zap.Logger) Provider {
	api := &client.API{}
	api.Init(config.SecretKey, nil)

	return &stripeProvider{
		api: api,
		log: log.With(zap.String("component", "stripe")),
	}
}

func (p *stripeProvider) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	listParams := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)

	it := p.api.Customers.List(listParams)
	if it.Next() {
		return it.Customer().ID, nil
	}
	if err := it.Err(); err != nil {
		p.log.Error("Failed to look up customer", zap.Error(err), zap.String("email", email))
		return "", fmt.Errorf("look up customer: %w", err)
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx

	cust, err := p.api.Customers.New(params)
	if err != nil {
		p.log.Error("Failed to create customer", zap.Error(err), zap.String("email", email))
		return "", fmt.Errorf("create customer: %w", err)
	}

	p.log.Info("Stripe customer created", zap.String("customer_id", cust.ID))
	return cust.ID, nil
}

func (p *stripeProvider) CreateCheckoutSession(ctx context.Context, sp CreateSessionParams) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		Customer:   stripe.String(sp.CustomerID),
		SuccessURL: stripe.String(sp.SuccessURL),
		CancelURL:  stripe.String(sp.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(sp.Currency),
					UnitAmount: stripe.Int64(sp.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(sp.ProductName),
					},
				},
			},
		},
	}
	params.Context = ctx
	for k, v := range sp.Metadata.ToMap() {
		params.AddMetadata(k, v)
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		p.log.Error("Failed to create checkout session",
			zap.Error(err), zap.Int64("amount_cents", sp.AmountCents))
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	p.log.Info("Checkout session created",
		zap.String("session_id", sess.ID),
		zap.Int64("amount_cents", sp.AmountCents),
	)

	return fromStripeSession(sess), nil
}

func (p *stripeProvider) GetCheckoutSession(ctx context.Context, sessionID string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		p.log.Error("Failed to retrieve checkout session",
			zap.Error(err), zap.String("session_id", sessionID))
		return nil, fmt.Errorf("retrieve checkout session %s: %w", sessionID, err)
	}

	return fromStripeSession(sess), nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *Session {
	s := &Session{
		ID:            sess.ID,
		URL:           sess.URL,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Currency:      string(sess.Currency),
		Metadata:      sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		s.PaymentIntentID = sess.PaymentIntent.ID
	}
	return s
}
