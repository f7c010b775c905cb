package mocks

import (
	"context"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	repository "github.com/aaravmahajanofficial/stock-manager/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) BulkCreateProducts(ctx context.Context, products []*models.Product) (int, error) {
	args := m.Called(ctx, products)
	return args.Int(0), args.Error(1)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductRepository) GetRecentSales(ctx context.Context, id uuid.UUID, limit int) ([]models.ProductSale, error) {
	args := m.Called(ctx, id, limit)
	if res := args.Get(0); res != nil {
		return res.([]models.ProductSale), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]*models.Product), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

type CategoryRepository struct {
	mock.Mock
}

func (m *CategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *CategoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *CategoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type LedgerRepository struct {
	mock.Mock
}

func (m *LedgerRepository) Record(ctx context.Context, txn *models.Transaction, opts repository.RecordOptions) error {
	return m.Called(ctx, txn, opts).Error(0)
}

func (m *LedgerRepository) List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, int, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.([]*models.Transaction), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

type AnalyticsRepository struct {
	mock.Mock
}

func (m *AnalyticsRepository) DashboardTotals(ctx context.Context, since, until time.Time) (*models.DashboardSummary, error) {
	args := m.Called(ctx, since, until)
	if res := args.Get(0); res != nil {
		return res.(*models.DashboardSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnalyticsRepository) SalesInWindow(ctx context.Context, start, end time.Time) ([]*models.Transaction, error) {
	args := m.Called(ctx, start, end)
	if res := args.Get(0); res != nil {
		return res.([]*models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

var (
	_ repository.ProductRepository   = (*ProductRepository)(nil)
	_ repository.CategoryRepository  = (*CategoryRepository)(nil)
	_ repository.LedgerRepository    = (*LedgerRepository)(nil)
	_ repository.AnalyticsRepository = (*AnalyticsRepository)(nil)
)
