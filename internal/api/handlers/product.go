package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/stock-manager/internal/api/middleware"
	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	service "github.com/aaravmahajanofficial/stock-manager/internal/services"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: utils.NewValidator()}
}

// CreateProduct godoc
//	@Summary		Create a product
//	@Description	Adds a product to the catalog. The category, when given, must exist.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product details"
//	@Success		201		{object}	response.APIResponse{data=models.Product}
//	@Failure		400		{object}	response.APIResponse	"Validation error or unknown category"
//	@Failure		500		{object}	response.APIResponse	"Internal server error"
//	@Router			/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product created successfully", slog.String("productId", product.ID.String()))
		response.Success(w, http.StatusCreated, product)
	}
}

// BulkCreateProducts godoc
//	@Summary		Create many products
//	@Description	Inserts all given products in one transaction. Either every product is created or none.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			products	body		models.BulkCreateProductsRequest	true	"Products"
//	@Success		201			{object}	response.APIResponse{data=models.BulkCreateProductsResponse}
//	@Failure		400			{object}	response.APIResponse	"Validation error or unknown category"
//	@Failure		500			{object}	response.APIResponse	"Internal server error"
//	@Router			/products/bulk [post]
func (h *ProductHandler) BulkCreateProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.BulkCreateProductsRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid bulk create input")
			return
		}

		result, err := h.productService.BulkCreateProducts(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to bulk create products", slog.Int("requested", len(req.Products)), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Products created successfully", slog.Int("count", result.Count))
		response.Success(w, http.StatusCreated, result)
	}
}

// GetProduct godoc
//	@Summary		Get a product
//	@Description	Returns the product with its category and its most recent sale lines.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	response.APIResponse{data=models.ProductDetail}
//	@Failure		400	{object}	response.APIResponse	"Invalid product ID"
//	@Failure		404	{object}	response.APIResponse	"Product not found"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// UpdateProduct godoc
//	@Summary		Update a product
//	@Description	Applies the given fields. Editing inStock here bypasses the ledger.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Product ID (UUID)"	Format(uuid)
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to change"
//	@Success		200		{object}	response.APIResponse{data=models.Product}
//	@Failure		400		{object}	response.APIResponse	"Validation error"
//	@Failure		404		{object}	response.APIResponse	"Product not found"
//	@Router			/products/{id} [put]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input")
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated successfully", slog.String("productId", id.String()))
		response.Success(w, http.StatusOK, product)
	}
}

// DeleteProduct godoc
//	@Summary		Delete a product
//	@Description	Removes a product that has never been purchased or sold.
//	@Tags			Products
//	@Param			id	path	string	true	"Product ID (UUID)"	Format(uuid)
//	@Success		204
//	@Failure		404	{object}	response.APIResponse	"Product not found"
//	@Failure		409	{object}	response.APIResponse	"Product is referenced by the ledger"
//	@Router			/products/{id} [delete]
func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			logger.Error("Failed to delete product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product deleted successfully", slog.String("productId", id.String()))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListProducts godoc
//	@Summary		List products
//	@Description	Pages through the catalog ordered by name.
//	@Tags			Products
//	@Produce		json
//	@Param			page		query		int		false	"Page number (default 1)"	minimum(1)
//	@Param			limit		query		int		false	"Page size (default 10, max 100)"	minimum(1)	maximum(100)
//	@Param			search		query		string	false	"Case-insensitive name search"
//	@Param			category	query		string	false	"Category ID"	Format(uuid)
//	@Param			inStock		query		bool	false	"Only products with stock"
//	@Param			minPrice	query		number	false	"Minimum selling price"
//	@Param			maxPrice	query		number	false	"Maximum selling price"
//	@Success		200			{object}	response.APIResponse{data=models.ProductListResponse}
//	@Failure		400			{object}	response.APIResponse	"Invalid query parameter"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		filter, err := productFilter(r)
		if err != nil {
			logger.Warn("Invalid product list query", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		products, err := h.productService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func productFilter(r *http.Request) (models.ProductFilter, error) {
	var (
		filter models.ProductFilter
		err    error
	)

	if filter.Page, err = utils.QueryInt(r, "page", models.DefaultPage); err != nil {
		return filter, err
	}

	if filter.Limit, err = utils.QueryInt(r, "limit", models.DefaultLimit); err != nil {
		return filter, err
	}

	if filter.CategoryID, err = utils.QueryUUID(r, "category"); err != nil {
		return filter, err
	}

	if filter.InStock, err = utils.QueryBool(r, "inStock"); err != nil {
		return filter, err
	}

	if filter.MinPrice, err = utils.QueryDecimal(r, "minPrice"); err != nil {
		return filter, err
	}

	if filter.MaxPrice, err = utils.QueryDecimal(r, "maxPrice"); err != nil {
		return filter, err
	}

	filter.Search = r.URL.Query().Get("search")

	return filter, nil
}
