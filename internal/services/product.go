package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/cache"
	appErrors "github.com/aaravmahajanofficial/stock-manager/internal/errors"
	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	repository "github.com/aaravmahajanofficial/stock-manager/internal/repositories"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecentSalesLimit is how many sale lines a product detail carries.
const RecentSalesLimit = 10

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	BulkCreateProducts(ctx context.Context, req *models.BulkCreateProductsRequest) (*models.BulkCreateProductsResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.ProductDetail, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductListResponse, error)
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	cache      cache.Cache
	ttl        time.Duration
}

func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository, c cache.Cache, ttl time.Duration) ProductService {
	return &productService{repo: repo, categories: categories, cache: c, ttl: ttl}
}

func (s *productService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}

	if _, err := s.categories.GetCategoryByID(ctx, *id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return appErrors.ValidationError("Category does not exist").WithDetail(id.String())
		}

		return appErrors.DatabaseError("Failed to look up category").WithError(err)
	}

	return nil
}

func checkPrice(field string, price decimal.Decimal) error {
	if !models.IsCurrencyAmount(price) {
		return appErrors.AddValidationError(field, fmt.Sprintf("must have at most %d decimal places", models.CurrencyPlaces))
	}

	return nil
}

func newProduct(req *models.CreateProductRequest) (*models.Product, error) {
	name := utils.SanitizeText(req.Name)
	if name == "" {
		return nil, appErrors.AddValidationError("name", "must contain text")
	}

	if err := checkPrice("buyingPrice", req.BuyingPrice); err != nil {
		return nil, err
	}

	if err := checkPrice("sellingPrice", req.SellingPrice); err != nil {
		return nil, err
	}

	return &models.Product{
		Name:         name,
		Image:        req.Image,
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
		InStock:      req.InStock,
		CategoryID:   req.CategoryID,
	}, nil
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	product, err := newProduct(req)
	if err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, mapProductWriteError(err, "Failed to create product")
	}

	invalidate(ctx, s.cache, cache.DashboardSummaryKey)

	return product, nil
}

func (s *productService) BulkCreateProducts(ctx context.Context, req *models.BulkCreateProductsRequest) (*models.BulkCreateProductsResponse, error) {
	products := make([]*models.Product, 0, len(req.Products))
	checked := make(map[uuid.UUID]struct{})

	for i := range req.Products {
		product, err := newProduct(&req.Products[i])
		if err != nil {
			return nil, err
		}

		if id := product.CategoryID; id != nil {
			if _, ok := checked[*id]; !ok {
				if err := s.checkCategory(ctx, id); err != nil {
					return nil, err
				}

				checked[*id] = struct{}{}
			}
		}

		products = append(products, product)
	}

	count, err := s.repo.BulkCreateProducts(ctx, products)
	if err != nil {
		return nil, mapProductWriteError(err, "Failed to create products")
	}

	invalidate(ctx, s.cache, cache.DashboardSummaryKey)

	return &models.BulkCreateProductsResponse{Message: "Products created successfully", Count: count}, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.ProductDetail, error) {
	key := productKey(id)

	var cached models.ProductDetail
	if cacheGet(ctx, s.cache, key, &cached) {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, mapProductReadError(err)
	}

	sales, err := s.repo.GetRecentSales(ctx, id, RecentSalesLimit)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch recent sales").WithError(err)
	}

	detail := &models.ProductDetail{Product: product, RecentSales: sales}
	cacheSet(ctx, s.cache, key, detail, s.ttl)

	return detail, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, mapProductReadError(err)
	}

	if req.Name != nil {
		name := utils.SanitizeText(*req.Name)
		if name == "" {
			return nil, appErrors.AddValidationError("name", "must contain text")
		}

		product.Name = name
	}

	if req.Image != nil {
		product.Image = *req.Image
	}

	if req.BuyingPrice != nil {
		if err := checkPrice("buyingPrice", *req.BuyingPrice); err != nil {
			return nil, err
		}

		product.BuyingPrice = *req.BuyingPrice
	}

	if req.SellingPrice != nil {
		if err := checkPrice("sellingPrice", *req.SellingPrice); err != nil {
			return nil, err
		}

		product.SellingPrice = *req.SellingPrice
	}

	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	if req.CategoryID != nil {
		if err := s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}

		product.CategoryID = req.CategoryID
		product.Category = nil
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, mapProductWriteError(err, "Failed to update product")
	}

	invalidate(ctx, s.cache, productKey(id), cache.DashboardSummaryKey)

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			return appErrors.NotFoundError("Product not found").WithError(err)
		case errors.Is(err, repository.ErrReferenced):
			return appErrors.ConflictError("Product has recorded purchases or sales and cannot be deleted").WithError(err)
		default:
			return appErrors.DatabaseError("Failed to delete product").WithError(err)
		}
	}

	invalidate(ctx, s.cache, productKey(id), cache.DashboardSummaryKey)

	return nil
}

func (s *productService) ListProducts(ctx context.Context, filter models.ProductFilter) (*models.ProductListResponse, error) {
	filter.Page, filter.Limit = models.NormalizePage(filter.Page, filter.Limit)
	filter.Search = utils.SanitizeText(filter.Search)

	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, appErrors.ValidationError("minPrice must not exceed maxPrice")
	}

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return &models.ProductListResponse{
		Products:   products,
		Pagination: models.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

func mapProductReadError(err error) error {
	if errors.Is(err, repository.ErrProductNotFound) {
		return appErrors.NotFoundError("Product not found").WithError(err)
	}

	return appErrors.DatabaseError("Failed to fetch product").WithError(err)
}

func mapProductWriteError(err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return appErrors.NotFoundError("Product not found").WithError(err)
	case errors.Is(err, repository.ErrCategoryNotFound):
		return appErrors.ValidationError("Category does not exist").WithError(err)
	case errors.Is(err, repository.ErrConstraintViolation):
		return appErrors.ValidationError("Product values are out of range").WithError(err)
	default:
		return appErrors.DatabaseError(message).WithError(err)
	}
}
