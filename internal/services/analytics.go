package service

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/cache"
	appErrors "github.com/aaravmahajanofficial/stock-manager/internal/errors"
	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	repository "github.com/aaravmahajanofficial/stock-manager/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

type AnalyticsService interface {
	// DashboardSummary reports today's ledger activity and catalog totals.
	DashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
	AnalyticsReport(ctx context.Context, window models.AnalyticsWindow) (*models.SalesReport, error)
}

type AnalyticsOptions struct {
	Location     *time.Location
	Clock        func() time.Time
	DashboardTTL time.Duration
}

type analyticsService struct {
	repo  repository.AnalyticsRepository
	cache cache.Cache
	opts  AnalyticsOptions
}

func NewAnalyticsService(repo repository.AnalyticsRepository, c cache.Cache, opts AnalyticsOptions) AnalyticsService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &analyticsService{repo: repo, cache: c, opts: opts}
}

func (s *analyticsService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.DashboardSummary")
	defer span.End()

	var cached models.DashboardSummary
	if cacheGet(ctx, s.cache, cache.DashboardSummaryKey, &cached) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &cached, nil
	}

	now := s.opts.Clock().In(s.opts.Location)

	today := models.StartOfDay(now, s.opts.Location)

	summary, err := s.repo.DashboardTotals(ctx, today, now)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to compute dashboard summary").WithError(err)
	}

	// a summary never outlives the local day it describes
	ttl := s.opts.DashboardTTL
	if left := today.AddDate(0, 0, 1).Sub(now); ttl <= 0 || left < ttl {
		ttl = left
	}

	cacheSet(ctx, s.cache, cache.DashboardSummaryKey, summary, ttl)

	return summary, nil
}

func (s *analyticsService) AnalyticsReport(ctx context.Context, window models.AnalyticsWindow) (*models.SalesReport, error) {
	ctx, span := tracer.Start(ctx, "AnalyticsService.AnalyticsReport")
	defer span.End()

	start, end, err := window.Resolve(s.opts.Location)
	if err != nil {
		if errors.Is(err, models.ErrInvalidWindow) {
			return nil, appErrors.InvalidWindowError(err.Error()).WithError(err)
		}

		return nil, appErrors.InternalError("Failed to resolve analytics window").WithError(err)
	}

	sales, err := s.repo.SalesInWindow(ctx, start, end)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch sales").WithError(err)
	}

	span.SetAttributes(attribute.Int("analytics.sales", len(sales)))

	return BuildSalesReport(sales, start, end), nil
}

// BuildSalesReport folds sales into totals and per-product performance, ordered by
// revenue descending with product id ascending as tie-break.
func BuildSalesReport(sales []*models.Transaction, start, end time.Time) *models.SalesReport {
	report := &models.SalesReport{
		TotalSales:         len(sales),
		TotalRevenue:       decimal.Zero,
		ProductPerformance: []models.ProductPerformance{},
		PeriodStart:        start,
		PeriodEnd:          end,
	}

	byProduct := make(map[uuid.UUID]*models.ProductPerformance)

	for _, sale := range sales {
		for _, item := range sale.Items {
			report.TotalRevenue = report.TotalRevenue.Add(item.Total)
			report.ItemsSold += item.Quantity

			perf, ok := byProduct[item.ProductID]
			if !ok {
				perf = &models.ProductPerformance{ProductID: item.ProductID, Revenue: decimal.Zero}
				if item.Product != nil {
					perf.Name = item.Product.Name
				}

				byProduct[item.ProductID] = perf
			}

			perf.QuantitySold += item.Quantity
			perf.Revenue = perf.Revenue.Add(item.Total)
		}
	}

	for _, perf := range byProduct {
		report.ProductPerformance = append(report.ProductPerformance, *perf)
	}

	slices.SortFunc(report.ProductPerformance, func(a, b models.ProductPerformance) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}

		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})

	return report
}
