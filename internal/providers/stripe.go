package providers

import (
	"context"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/aymerigermain/dashboard-acadi/internal/models"
)

// PageLimit is the provider's maximum page size.
const PageLimit = 100

// ChargeFilters narrows a charge listing by creation time and selects
// which linked objects the provider expands inline. Fee data rides on
// the balance transaction, customer email on the customer object.
type ChargeFilters struct {
	CreatedGTE     int64
	CreatedLTE     int64
	ExpandFees     bool
	ExpandCustomer bool
}

type ChargePage struct {
	Charges []models.Charge
	HasMore bool
}

type RefundPage struct {
	Refunds []models.Refund
	HasMore bool
}

// ChargeLister fetches a single page of charges starting after cursor.
// The cursor is the ID of the last record of the previous page.
type ChargeLister interface {
	ListCharges(ctx context.Context, cursor string, filters ChargeFilters) (ChargePage, error)
}

// RefundLister fetches a single page of refunds starting after cursor.
type RefundLister interface {
	ListRefunds(ctx context.Context, cursor string) (RefundPage, error)
}

// StripeClient implements ChargeLister and RefundLister against the
// Stripe API.
type StripeClient struct {
	api *client.API
}

func NewStripeClient(apiKey string) *StripeClient {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeClient{api: api}
}

func (s *StripeClient) ListCharges(ctx context.Context, cursor string, filters ChargeFilters) (ChargePage, error) {
	params := &stripe.ChargeListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(PageLimit)
	params.Single = true

	if cursor != "" {
		params.StartingAfter = stripe.String(cursor)
	}
	if filters.ExpandFees {
		params.AddExpand("data.balance_transaction")
	}
	if filters.ExpandCustomer {
		params.AddExpand("data.customer")
	}
	if filters.CreatedGTE > 0 || filters.CreatedLTE > 0 {
		params.CreatedRange = &stripe.RangeQueryParams{
			GreaterThanOrEqual: filters.CreatedGTE,
			LesserThanOrEqual:  filters.CreatedLTE,
		}
	}

	it := s.api.Charges.List(params)

	var page ChargePage
	for it.Next() {
		page.Charges = append(page.Charges, chargeFromStripe(it.Charge()))
	}
	if err := it.Err(); err != nil {
		return ChargePage{}, err
	}
	page.HasMore = it.ChargeList().HasMore
	return page, nil
}

func (s *StripeClient) ListRefunds(ctx context.Context, cursor string) (RefundPage, error) {
	params := &stripe.RefundListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(PageLimit)
	params.Single = true
	params.AddExpand("data.balance_transaction")

	if cursor != "" {
		params.StartingAfter = stripe.String(cursor)
	}

	it := s.api.Refunds.List(params)

	var page RefundPage
	for it.Next() {
		page.Refunds = append(page.Refunds, refundFromStripe(it.Refund()))
	}
	if err := it.Err(); err != nil {
		return RefundPage{}, err
	}
	page.HasMore = it.RefundList().HasMore
	return page, nil
}

func chargeFromStripe(c *stripe.Charge) models.Charge {
	out := models.Charge{
		ID:          c.ID,
		Amount:      c.Amount,
		Currency:    string(c.Currency),
		Created:     c.Created,
		Status:      models.ChargeStatus(c.Status),
		Description: c.Description,
	}
	if c.BalanceTransaction != nil {
		out.Fee = c.BalanceTransaction.Fee
	}
	if c.BillingDetails != nil && c.BillingDetails.Email != "" {
		out.CustomerEmail = c.BillingDetails.Email
	} else if c.Customer != nil {
		out.CustomerEmail = c.Customer.Email
	}
	return out
}

func refundFromStripe(r *stripe.Refund) models.Refund {
	out := models.Refund{
		ID:      r.ID,
		Amount:  r.Amount,
		Created: r.Created,
	}
	if r.BalanceTransaction != nil {
		out.Fee = r.BalanceTransaction.Fee
	}
	return out
}
