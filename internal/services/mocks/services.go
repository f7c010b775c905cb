package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	service "github.com/aaravmahajanofficial/stock-manager/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ProductService struct {
	mock.Mock
}

func (m *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) BulkCreateProducts(ctx context.Context, req *models.BulkCreateProductsRequest) (*models.BulkCreateProductsResponse, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.BulkCreateProductsResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.ProductDetail, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.ProductDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductListResponse, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.(*models.ProductListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type CategoryService struct {
	mock.Mock
}

func (m *CategoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) ListCategoryTree(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, id, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type LedgerService struct {
	mock.Mock
}

func (m *LedgerService) RecordPurchase(ctx context.Context, req *models.RecordTransactionRequest) (*models.Transaction, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerService) RecordSale(ctx context.Context, req *models.RecordTransactionRequest) (*models.Transaction, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerService) ListPurchases(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.(*models.TransactionListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LedgerService) ListSales(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error) {
	args := m.Called(ctx, filter)
	if res := args.Get(0); res != nil {
		return res.(*models.TransactionListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type AnalyticsService struct {
	mock.Mock
}

func (m *AnalyticsService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.(*models.DashboardSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AnalyticsService) AnalyticsReport(ctx context.Context, window models.AnalyticsWindow) (*models.SalesReport, error) {
	args := m.Called(ctx, window)
	if res := args.Get(0); res != nil {
		return res.(*models.SalesReport), args.Error(1)
	}
	return nil, args.Error(1)
}

type LowStockNotifier struct {
	mock.Mock
}

func (m *LowStockNotifier) NotifyLowStock(ctx context.Context, alerts []service.LowStockAlert) error {
	return m.Called(ctx, alerts).Error(0)
}

var (
	_ service.ProductService   = (*ProductService)(nil)
	_ service.CategoryService  = (*CategoryService)(nil)
	_ service.LedgerService    = (*LedgerService)(nil)
	_ service.AnalyticsService = (*AnalyticsService)(nil)
	_ service.LowStockNotifier = (*LowStockNotifier)(nil)
)
