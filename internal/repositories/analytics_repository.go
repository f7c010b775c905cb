package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AnalyticsRepository interface {
	// DashboardTotals counts ledger activity in [since, until] plus catalog totals, in one statement.
	DashboardTotals(ctx context.Context, since, until time.Time) (*models.DashboardSummary, error)
	// SalesInWindow returns every sale dated in [start, end] with its lines and product names.
	SalesInWindow(ctx context.Context, start, end time.Time) ([]*models.Transaction, error)
}

type analyticsRepository struct {
	DB *sql.DB
}

func NewAnalyticsRepo(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{DB: db}
}

func (r *analyticsRepository) DashboardTotals(ctx context.Context, since, until time.Time) (*models.DashboardSummary, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT
			(SELECT COUNT(*) FROM sales WHERE date >= $1 AND date <= $2),
			(SELECT COALESCE(SUM(total), 0) FROM sales WHERE date >= $1 AND date <= $2),
			(SELECT COUNT(*) FROM purchases WHERE date >= $1 AND date <= $2),
			(SELECT COALESCE(SUM(total), 0) FROM purchases WHERE date >= $1 AND date <= $2),
			(SELECT COUNT(*) FROM products WHERE in_stock <= $3),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM categories)`

	var summary models.DashboardSummary

	err := r.DB.QueryRowContext(dbCtx, query, since, until, models.LowStockThreshold).Scan(
		&summary.TodaySales.Count, &summary.TodaySales.Total,
		&summary.TodayPurchases.Count, &summary.TodayPurchases.Total,
		&summary.LowStockProducts, &summary.TotalProducts, &summary.TotalCategories,
	)
	if err != nil {
		return nil, fmt.Errorf("querying dashboard totals: %w", err)
	}

	return &summary, nil
}

func (r *analyticsRepository) SalesInWindow(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT s.id, s.date, s.total, si.id, si.product_id, p.name, si.quantity, si.price, si.total
		FROM sales s
		JOIN sale_items si ON si.sale_id = s.id
		JOIN products p ON p.id = si.product_id
		WHERE s.date >= $1 AND s.date <= $2
		ORDER BY s.date ASC, s.id ASC, si.line_no ASC`

	rows, err := r.DB.QueryContext(dbCtx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sales in window: %w", err)
	}
	defer rows.Close()

	sales := make([]*models.Transaction, 0)

	var current *models.Transaction

	for rows.Next() {
		var (
			saleID    uuid.UUID
			date      time.Time
			saleTotal decimal.Decimal
			item      models.LineItem
			name      string
		)

		if err := rows.Scan(&saleID, &date, &saleTotal, &item.ID, &item.ProductID, &name, &item.Quantity, &item.Price, &item.Total); err != nil {
			return nil, fmt.Errorf("scanning sale line: %w", err)
		}

		if current == nil || current.ID != saleID {
			current = &models.Transaction{ID: saleID, Kind: models.KindSale, Date: date, Total: saleTotal}
			sales = append(sales, current)
		}

		item.TransactionID = saleID
		item.Product = &models.ProductSummary{ID: item.ProductID, Name: name}
		current.Items = append(current.Items, item)
	}

	return sales, rows.Err()
}
