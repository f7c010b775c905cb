package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level at or below which a product counts as low stock.
const LowStockThreshold int64 = 10

type Product struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Image        string          `json:"image,omitempty"`
	BuyingPrice  decimal.Decimal `json:"buyingPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	InStock      int64           `json:"inStock"`
	CategoryID   *uuid.UUID      `json:"categoryId"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Category     *Category       `json:"category,omitempty"`
	LastSold     *time.Time      `json:"lastSold,omitempty"`
}

// ProductSale is one sale line of a product, used for the product detail view.
type ProductSale struct {
	SaleID   uuid.UUID       `json:"saleId"`
	Date     time.Time       `json:"date"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

type ProductDetail struct {
	*Product
	RecentSales []ProductSale `json:"recentSales"`
}

type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Image        string          `json:"image,omitempty" validate:"omitempty,max=5000000"`
	BuyingPrice  decimal.Decimal `json:"buyingPrice" validate:"gte=0"`
	SellingPrice decimal.Decimal `json:"sellingPrice" validate:"gte=0"`
	InStock      int64           `json:"inStock" validate:"gte=0"`
	CategoryID   *uuid.UUID      `json:"categoryId,omitempty"`
}

type BulkCreateProductsRequest struct {
	Products []CreateProductRequest `json:"products" validate:"required,min=1,max=1000,dive"`
}

type BulkCreateProductsResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Image        *string          `json:"image,omitempty" validate:"omitempty,max=5000000"`
	BuyingPrice  *decimal.Decimal `json:"buyingPrice,omitempty" validate:"omitempty,gte=0"`
	SellingPrice *decimal.Decimal `json:"sellingPrice,omitempty" validate:"omitempty,gte=0"`
	InStock      *int64           `json:"inStock,omitempty" validate:"omitempty,gte=0"`
	CategoryID   *uuid.UUID       `json:"categoryId,omitempty"`
}

// ProductFilter narrows a product listing. Zero values mean "no constraint".
type ProductFilter struct {
	Page       int
	Limit      int
	Search     string
	CategoryID *uuid.UUID
	InStock    bool
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

type ProductListResponse struct {
	Products   []*Product `json:"products"`
	Pagination Pagination `json:"pagination"`
}
