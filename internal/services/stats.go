package services

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aymerigermain/dashboard-acadi/internal/config"
	"github.com/aymerigermain/dashboard-acadi/internal/errors"
	"github.com/aymerigermain/dashboard-acadi/internal/models"
	"github.com/aymerigermain/dashboard-acadi/internal/providers"
)

const (
	defaultDescription = "Formation Stratégie"
	missingEmail       = "N/A"
)

// DateRange bounds a payment listing by creation time. Zero values
// leave that side unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Stats aggregates payment, refund, survey and external purchase data
// into the reporting payload. All provider access goes through the
// injected capabilities, so the service carries no global state and
// tests can substitute fakes.
type Stats struct {
	charges providers.ChargeLister
	refunds providers.RefundLister
	sheets  providers.SheetReader
	cfg     *config.Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewStats wires the aggregation service. sheets may be nil when no
// spreadsheet credentials are configured; the corresponding aggregates
// then come back zero-valued.
func NewStats(charges providers.ChargeLister, refunds providers.RefundLister, sheets providers.SheetReader, cfg *config.Config, logger *slog.Logger) *Stats {
	return &Stats{
		charges: charges,
		refunds: refunds,
		sheets:  sheets,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// ComputeStats runs one full aggregation pass: charges and refunds are
// fetched concurrently alongside the two independent sheet reads, then
// folded into weekly buckets and global totals. Any provider fetch
// failure aborts the whole request; malformed cells never do.
func (s *Stats) ComputeStats(ctx context.Context) (*models.Stats, error) {
	var (
		charges      []models.Charge
		refunds      []models.Refund
		surveyGrid   [][]string
		externalRows [][]string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		charges, err = s.fetchAllCharges(gctx, providers.ChargeFilters{ExpandFees: true})
		if err != nil {
			return errors.UpstreamWrap(err, "failed to list charges")
		}
		return nil
	})

	g.Go(func() error {
		var err error
		refunds, err = s.fetchAllRefunds(gctx)
		if err != nil {
			return errors.UpstreamWrap(err, "failed to list refunds")
		}
		return nil
	})

	if s.surveyEnabled() {
		g.Go(func() error {
			grid, err := s.sheets.Read(gctx, s.cfg.Sheets.SatisfactionSheetID, s.cfg.Sheets.SatisfactionRange)
			if err != nil {
				return errors.UpstreamWrap(err, "failed to read satisfaction sheet")
			}
			surveyGrid = grid
			return nil
		})
	}

	if s.externalEnabled() {
		g.Go(func() error {
			rows, err := s.sheets.Read(gctx, s.cfg.Sheets.ExternalSheetID, s.cfg.Sheets.ExternalRange)
			if err != nil {
				return errors.UpstreamWrap(err, "failed to read external revenues sheet")
			}
			externalRows = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	payments := SuccessfulPayments(charges)
	s.logger.Debug("fetched provider data",
		"charges", len(charges),
		"successful_payments", len(payments),
		"refunds", len(refunds),
	)

	purchases, externalMetrics := NormalizeExternalPurchases(externalRows)
	survey := AggregateSurvey(surveyGrid, s.cfg.Survey)

	weekly, currentWeek := s.aggregateWeekly(payments, refunds, purchases)

	// Global totals come from the full record sets rather than the
	// buckets, so bucket-level accumulation cannot drift them.
	var gross, totalRefunds, chargeFees, refundFees float64
	for _, p := range payments {
		gross += float64(p.Amount) / 100
		chargeFees += float64(p.Fee) / 100
	}
	for _, r := range refunds {
		totalRefunds += float64(r.Amount) / 100
		refundFees += float64(r.Fee) / 100
	}

	net := gross - totalRefunds - chargeFees + refundFees
	totalCustomers := len(payments)

	stats := &models.Stats{
		TotalRevenue:   net,
		GrossRevenue:   gross,
		TotalRefunds:   totalRefunds,
		TotalFees:      chargeFees - refundFees,
		NetRevenue:     net,
		TotalCustomers: totalCustomers,

		LastUpdate:  s.now().UTC(),
		WeeklyStats: weekly,
		CurrentWeek: currentWeek,

		Satisfaction: survey.Satisfaction,
		NPS:          survey.NPS,
		Survey:       survey.Survey,

		ExternalRevenues:        purchases,
		ExternalRevenuesMetrics: externalMetrics,
	}
	if totalCustomers > 0 {
		stats.AverageOrderValue = gross / float64(totalCustomers)
	}

	return stats, nil
}

// ListPayments returns the successful charges within the optional date
// range, transformed for the payments table.
func (s *Stats) ListPayments(ctx context.Context, dr DateRange) ([]models.Payment, error) {
	filters := providers.ChargeFilters{ExpandCustomer: true}
	if !dr.Start.IsZero() {
		filters.CreatedGTE = dr.Start.Unix()
	}
	if !dr.End.IsZero() {
		filters.CreatedLTE = dr.End.Unix()
	}

	charges, err := s.fetchAllCharges(ctx, filters)
	if err != nil {
		return nil, errors.UpstreamWrap(err, "failed to list charges")
	}

	successful := SuccessfulPayments(charges)
	payments := make([]models.Payment, 0, len(successful))
	for _, c := range successful {
		description := c.Description
		if description == "" {
			description = defaultDescription
		}
		email := c.CustomerEmail
		if email == "" {
			email = missingEmail
		}

		payments = append(payments, models.Payment{
			ID:            c.ID,
			Amount:        float64(c.Amount) / 100,
			Currency:      c.Currency,
			Created:       c.Created * 1000,
			Description:   description,
			CustomerEmail: email,
			Status:        string(c.Status),
		})
	}

	return payments, nil
}

// Describe reports wiring facts for the admin endpoint.
func (s *Stats) Describe() map[string]any {
	return map[string]any{
		"survey_enabled":            s.surveyEnabled(),
		"external_revenues_enabled": s.externalEnabled(),
		"page_limit":                providers.PageLimit,
		"safety_ceiling":            maxRecords,
	}
}

func (s *Stats) fetchAllCharges(ctx context.Context, filters providers.ChargeFilters) ([]models.Charge, error) {
	return fetchAll(ctx, s.logger, "charges",
		func(ctx context.Context, cursor string) ([]models.Charge, bool, error) {
			page, err := s.charges.ListCharges(ctx, cursor, filters)
			if err != nil {
				return nil, false, err
			}
			return page.Charges, page.HasMore, nil
		},
		func(c models.Charge) string { return c.ID },
	)
}

func (s *Stats) fetchAllRefunds(ctx context.Context) ([]models.Refund, error) {
	return fetchAll(ctx, s.logger, "refunds",
		func(ctx context.Context, cursor string) ([]models.Refund, bool, error) {
			page, err := s.refunds.ListRefunds(ctx, cursor)
			if err != nil {
				return nil, false, err
			}
			return page.Refunds, page.HasMore, nil
		},
		func(r models.Refund) string { return r.ID },
	)
}

func (s *Stats) surveyEnabled() bool {
	return s.sheets != nil && s.cfg.Sheets.SatisfactionSheetID != ""
}

func (s *Stats) externalEnabled() bool {
	return s.sheets != nil && s.cfg.Sheets.ExternalSheetID != ""
}

// aggregateWeekly folds payments, refunds and dated external purchases
// into Monday-keyed buckets. Each pass only adds to the fields it
// owns, so pass order cannot change the totals. Undated external
// purchases are skipped here; they still count in the external
// metrics.
func (s *Stats) aggregateWeekly(payments []models.Charge, refunds []models.Refund, purchases []models.ExternalPurchase) ([]models.WeeklyStat, models.WeeklyStat) {
	buckets := make(map[string]*models.WeeklyStat)

	bucket := func(key string) *models.WeeklyStat {
		b, ok := buckets[key]
		if !ok {
			b = &models.WeeklyStat{Week: key}
			buckets[key] = b
		}
		return b
	}

	for _, c := range payments {
		b := bucket(WeekKey(time.Unix(c.Created, 0)))
		b.Sales++
		b.GrossRevenue += float64(c.Amount) / 100
		b.Fees += float64(c.Fee) / 100
	}

	for _, r := range refunds {
		b := bucket(WeekKey(time.Unix(r.Created, 0)))
		b.Refunds += float64(r.Amount) / 100
		// Refund fees are credited back to the merchant.
		b.Fees -= float64(r.Fee) / 100
	}

	for _, p := range purchases {
		if p.Date == nil {
			continue
		}
		b := bucket(WeekKey(*p.Date))
		b.Sales += p.Quantity
		b.GrossRevenue += p.Total
	}

	weekly := make([]models.WeeklyStat, 0, len(buckets))
	for _, b := range buckets {
		b.NetRevenue = b.GrossRevenue - b.Refunds - b.Fees
		weekly = append(weekly, *b)
	}
	slices.SortFunc(weekly, func(a, b models.WeeklyStat) int {
		return strings.Compare(a.Week, b.Week)
	})

	currentKey := WeekKey(s.now())
	currentWeek := models.WeeklyStat{Week: currentKey}
	if b, ok := buckets[currentKey]; ok {
		currentWeek = *b
	}

	return weekly, currentWeek
}
