package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/api/middleware"
	"github.com/aaravmahajanofficial/stock-manager/internal/cache"
	appErrors "github.com/aaravmahajanofficial/stock-manager/internal/errors"
	"github.com/aaravmahajanofficial/stock-manager/internal/metrics"
	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	repository "github.com/aaravmahajanofficial/stock-manager/internal/repositories"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LedgerService records purchases and sales. Every recorded entry moves stock
// by exactly its line quantities, or nothing is written at all.
type LedgerService interface {
	RecordPurchase(ctx context.Context, req *models.RecordTransactionRequest) (*models.Transaction, error)
	RecordSale(ctx context.Context, req *models.RecordTransactionRequest) (*models.Transaction, error)
	ListPurchases(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error)
	ListSales(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error)
}

type LedgerOptions struct {
	// RejectOversell refuses sales that would drive stock below zero.
	RejectOversell bool
	Location       *time.Location
	Clock          func() time.Time
}

type ledgerService struct {
	repo     repository.LedgerRepository
	cache    cache.Cache
	notifier LowStockNotifier
	opts     LedgerOptions
}

func NewLedgerService(repo repository.LedgerRepository, c cache.Cache, notifier LowStockNotifier, opts LedgerOptions) LedgerService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	if opts.Location == nil {
		opts.Location = time.Local
	}

	if notifier == nil {
		notifier = NewNoopLowStockNotifier()
	}

	return &ledgerService{repo: repo, cache: c, notifier: notifier, opts: opts}
}

func (s *ledgerService) RecordPurchase(ctx context.Context, req *models.RecordTransactionRequest) (*models.Transaction, error) {
	return s.record(ctx, models.KindPurchase, req)
}

func (s *ledgerService) RecordSale(ctx context.Context, req *models.RecordTransactionRequest) (*models.Transaction, error) {
	return s.record(ctx, models.KindSale, req)
}

func (s *ledgerService) record(ctx context.Context, kind models.TransactionKind, req *models.RecordTransactionRequest) (*models.Transaction, error) {
	ctx, span := tracer.Start(ctx, "LedgerService.record", trace.WithAttributes(attribute.String("ledger.kind", string(kind))))
	defer span.End()

	logger := middleware.LoggerFromContext(ctx)

	if err := validateLines(req); err != nil {
		metrics.RecordLedgerEntry(string(kind), metrics.OutcomeInvalid)
		return nil, err
	}

	txn := models.NewTransaction(kind, req.Items, s.opts.Clock())

	err := s.repo.Record(ctx, txn, repository.RecordOptions{RejectOversell: s.opts.RejectOversell})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "record failed")

		switch {
		case errors.Is(err, repository.ErrProductReferenceMissing):
			metrics.RecordLedgerEntry(string(kind), metrics.OutcomeInvalid)
			return nil, appErrors.ValidationError("Referenced product does not exist").WithDetail(err.Error()).WithError(err)
		case errors.Is(err, repository.ErrInsufficientStock):
			metrics.RecordLedgerEntry(string(kind), metrics.OutcomeInvalid)
			return nil, appErrors.InsufficientStockError("Not enough stock to record the sale").WithDetail(err.Error()).WithError(err)
		default:
			metrics.RecordLedgerEntry(string(kind), metrics.OutcomeFailure)
			logger.Error("Failed to record ledger entry", slog.String("kind", string(kind)), slog.Any("error", err))

			return nil, appErrors.PersistenceError(fmt.Sprintf("Failed to record %s", kind)).WithError(err)
		}
	}

	span.SetAttributes(attribute.String("ledger.id", txn.ID.String()), attribute.Int("ledger.lines", len(txn.Items)))
	metrics.RecordLedgerEntry(string(kind), metrics.OutcomeSuccess)
	metrics.ObserveLedgerValue(string(kind), txn.Total, totalUnits(txn))

	logger.Info("Ledger entry recorded",
		slog.String("kind", string(kind)),
		slog.String("id", txn.ID.String()),
		slog.Int("lines", len(txn.Items)),
		slog.String("total", txn.Total.StringFixed(2)))

	keys := []string{cache.DashboardSummaryKey}
	for _, id := range txn.ProductIDs() {
		keys = append(keys, productKey(id))
	}

	invalidate(ctx, s.cache, keys...)

	if kind == models.KindSale {
		if alerts := lowStockCrossings(txn); len(alerts) > 0 {
			if err := s.notifier.NotifyLowStock(ctx, alerts); err != nil {
				logger.Warn("Low stock alert failed", slog.Any("error", err))
			}
		}
	}

	return txn, nil
}

func validateLines(req *models.RecordTransactionRequest) error {
	if req == nil || len(req.Items) == 0 {
		return appErrors.AddValidationError("items", "at least one line item is required")
	}

	for i, item := range req.Items {
		field := fmt.Sprintf("items[%d]", i)

		switch {
		case item.ProductID == uuid.Nil:
			return appErrors.AddValidationError(field+".productId", "is required")
		case item.Quantity < 1:
			return appErrors.AddValidationError(field+".quantity", "must be at least 1")
		case item.Price.IsNegative():
			return appErrors.AddValidationError(field+".price", "must not be negative")
		case !models.IsCurrencyAmount(item.Price):
			return appErrors.AddValidationError(field+".price", fmt.Sprintf("must have at most %d decimal places", models.CurrencyPlaces))
		}
	}

	return nil
}

func totalUnits(txn *models.Transaction) int64 {
	var units int64
	for _, item := range txn.Items {
		units += item.Quantity
	}

	return units
}

// lowStockCrossings finds products that were above the threshold before the sale
// and are at or below it after. Product summaries carry post-sale stock.
func lowStockCrossings(txn *models.Transaction) []LowStockAlert {
	sold := make(map[uuid.UUID]int64)
	after := make(map[uuid.UUID]*models.ProductSummary)

	for _, item := range txn.Items {
		sold[item.ProductID] += item.Quantity
		if item.Product != nil {
			after[item.ProductID] = item.Product
		}
	}

	var alerts []LowStockAlert

	for _, id := range txn.ProductIDs() {
		product, ok := after[id]
		if !ok {
			continue
		}

		before := product.InStock + sold[id]
		if before > models.LowStockThreshold && product.InStock <= models.LowStockThreshold {
			alerts = append(alerts, LowStockAlert{
				ProductID: id,
				Name:      product.Name,
				InStock:   product.InStock,
				Threshold: models.LowStockThreshold,
			})
		}
	}

	return alerts
}

func (s *ledgerService) ListPurchases(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error) {
	filter.Kind = models.KindPurchase
	return s.list(ctx, filter)
}

func (s *ledgerService) ListSales(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error) {
	filter.Kind = models.KindSale
	return s.list(ctx, filter)
}

func (s *ledgerService) list(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error) {
	filter.Page, filter.Limit = models.NormalizePage(filter.Page, filter.Limit)

	if (filter.StartDate == nil) != (filter.EndDate == nil) {
		return nil, appErrors.ValidationError("startDate and endDate must be given together")
	}

	if filter.StartDate != nil {
		start := models.StartOfDay(*filter.StartDate, s.opts.Location)
		end := models.EndOfDay(*filter.EndDate, s.opts.Location)

		if end.Before(start) {
			return nil, appErrors.ValidationError("startDate must not be after endDate")
		}

		filter.StartDate, filter.EndDate = &start, &end
	}

	txns, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.DatabaseError(fmt.Sprintf("Failed to fetch %s entries", filter.Kind)).WithError(err)
	}

	return &models.TransactionListResponse{
		Transactions: txns,
		Pagination:   models.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}
