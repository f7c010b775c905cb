package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/stock-manager/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/stock-manager/internal/errors"
	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	"github.com/aaravmahajanofficial/stock-manager/internal/services/mocks"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct(t *testing.T) {
	t.Run("Success - Product created", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)

		body := mustJSON(t, map[string]any{"name": "Widget", "buyingPrice": "3.50", "sellingPrice": "5.00", "inStock": 4})
		created := &models.Product{ID: uuid.New(), Name: "Widget", InStock: 4}

		svc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(req *models.CreateProductRequest) bool {
			return req.Name == "Widget" && req.SellingPrice.Equal(decimal.NewFromInt(5))
		})).Return(created, nil).Once()

		rr := httptest.NewRecorder()

		// Act
		h.CreateProduct().ServeHTTP(rr, newTestRequest(http.MethodPost, "/api/v1/products", body))

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var product models.Product
		env := decodeEnvelope(t, rr, &product)
		assert.True(t, env.Success)
		assert.Equal(t, created.ID, product.ID)
		svc.AssertExpectations(t)
	})

	t.Run("Invalid Input - Bad JSON", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)
		rr := httptest.NewRecorder()

		// Act
		h.CreateProduct().ServeHTTP(rr, newTestRequest(http.MethodPost, "/api/v1/products", []byte("{invalid json")))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Input - Negative price", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)
		body := mustJSON(t, map[string]any{"name": "Widget", "buyingPrice": "-1", "sellingPrice": "5"})
		rr := httptest.NewRecorder()

		// Act
		h.CreateProduct().ServeHTTP(rr, newTestRequest(http.MethodPost, "/api/v1/products", body))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		env := decodeEnvelope(t, rr, nil)
		require.NotNil(t, env.Error)
		assert.Equal(t, appErrors.ErrCodeValidation, env.Error.Code)
		assert.Contains(t, env.Error.Details[0], "buyingPrice")
		svc.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown category", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)
		body := mustJSON(t, map[string]any{"name": "Widget", "buyingPrice": "1", "sellingPrice": "2", "categoryId": uuid.NewString()})
		svc.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, appErrors.ValidationError("Category does not exist")).Once()
		rr := httptest.NewRecorder()

		// Act
		h.CreateProduct().ServeHTTP(rr, newTestRequest(http.MethodPost, "/api/v1/products", body))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		env := decodeEnvelope(t, rr, nil)
		assert.Equal(t, "Category does not exist", env.Error.Message)
	})
}

func TestBulkCreateProducts(t *testing.T) {
	// Arrange
	svc := new(mocks.ProductService)
	h := handlers.NewProductHandler(svc)
	body := mustJSON(t, map[string]any{"products": []map[string]any{
		{"name": "A", "buyingPrice": "1", "sellingPrice": "2"},
		{"name": "B", "buyingPrice": "1", "sellingPrice": "2"},
	}})

	svc.On("BulkCreateProducts", mock.Anything, mock.MatchedBy(func(req *models.BulkCreateProductsRequest) bool {
		return len(req.Products) == 2
	})).Return(&models.BulkCreateProductsResponse{Message: "Products created successfully", Count: 2}, nil).Once()

	rr := httptest.NewRecorder()

	// Act
	h.BulkCreateProducts().ServeHTTP(rr, newTestRequest(http.MethodPost, "/api/v1/products/bulk", body))

	// Assert
	assert.Equal(t, http.StatusCreated, rr.Code)

	var result models.BulkCreateProductsResponse
	decodeEnvelope(t, rr, &result)
	assert.Equal(t, 2, result.Count)
}

func TestGetProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)
		id := uuid.New()

		svc.On("GetProduct", mock.Anything, id).Return(&models.ProductDetail{
			Product:     &models.Product{ID: id, Name: "Widget"},
			RecentSales: []models.ProductSale{{SaleID: uuid.New(), Quantity: 1}},
		}, nil).Once()

		req := newTestRequest(http.MethodGet, "/api/v1/products/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		h.GetProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var detail models.ProductDetail
		decodeEnvelope(t, rr, &detail)
		assert.Equal(t, "Widget", detail.Name)
		assert.Len(t, detail.RecentSales, 1)
	})

	t.Run("Invalid Input - Bad id", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)
		req := newTestRequest(http.MethodGet, "/api/v1/products/nope", nil)
		req.SetPathValue("id", "nope")
		rr := httptest.NewRecorder()

		// Act
		h.GetProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Not found", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)
		id := uuid.New()
		svc.On("GetProduct", mock.Anything, id).Return(nil, appErrors.NotFoundError("Product not found")).Once()

		req := newTestRequest(http.MethodGet, "/api/v1/products/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		h.GetProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		env := decodeEnvelope(t, rr, nil)
		assert.False(t, env.Success)
		assert.Equal(t, appErrors.ErrCodeNotFound, env.Error.Code)
	})
}

func TestUpdateProduct(t *testing.T) {
	// Arrange
	svc := new(mocks.ProductService)
	h := handlers.NewProductHandler(svc)
	id := uuid.New()

	svc.On("UpdateProduct", mock.Anything, id, mock.MatchedBy(func(req *models.UpdateProductRequest) bool {
		return req.InStock != nil && *req.InStock == 12 && req.Name == nil
	})).Return(&models.Product{ID: id, InStock: 12}, nil).Once()

	req := newTestRequest(http.MethodPut, "/api/v1/products/"+id.String(), []byte(`{"inStock":12}`))
	req.SetPathValue("id", id.String())
	rr := httptest.NewRecorder()

	// Act
	h.UpdateProduct().ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestDeleteProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)
		id := uuid.New()
		svc.On("DeleteProduct", mock.Anything, id).Return(nil).Once()

		req := newTestRequest(http.MethodDelete, "/api/v1/products/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		h.DeleteProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Failure - Referenced", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)
		id := uuid.New()
		svc.On("DeleteProduct", mock.Anything, id).Return(appErrors.ConflictError("Product has recorded purchases or sales and cannot be deleted")).Once()

		req := newTestRequest(http.MethodDelete, "/api/v1/products/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		h.DeleteProduct().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestListProducts(t *testing.T) {
	t.Run("Success - Query parameters become the filter", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)
		categoryID := uuid.New()
		minPrice := decimal.RequireFromString("1.5")

		svc.On("ListProducts", mock.Anything, mock.MatchedBy(func(f models.ProductFilter) bool {
			return f.Page == 2 && f.Limit == 5 && f.Search == "wid" && *f.CategoryID == categoryID &&
				f.InStock && f.MinPrice.Equal(minPrice) && f.MaxPrice == nil
		})).Return(&models.ProductListResponse{
			Products:   []*models.Product{},
			Pagination: models.NewPagination(2, 5, 6),
		}, nil).Once()

		target := "/api/v1/products?page=2&limit=5&search=wid&inStock=true&minPrice=1.5&category=" + categoryID.String()
		rr := httptest.NewRecorder()

		// Act
		h.ListProducts().ServeHTTP(rr, newTestRequest(http.MethodGet, target, nil))

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var list models.ProductListResponse
		decodeEnvelope(t, rr, &list)
		assert.Equal(t, 2, list.Pagination.TotalPages)
		svc.AssertExpectations(t)
	})

	t.Run("Invalid Input - Bad page", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)
		rr := httptest.NewRecorder()

		// Act
		h.ListProducts().ServeHTTP(rr, newTestRequest(http.MethodGet, "/api/v1/products?page=two", nil))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Service error", func(t *testing.T) {
		// Arrange
		svc := new(mocks.ProductService)
		h := handlers.NewProductHandler(svc)
		svc.On("ListProducts", mock.Anything, mock.Anything).Return(nil, errors.New("unexpected")).Once()
		rr := httptest.NewRecorder()

		// Act
		h.ListProducts().ServeHTTP(rr, newTestRequest(http.MethodGet, "/api/v1/products", nil))

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		env := decodeEnvelope(t, rr, nil)
		assert.Equal(t, appErrors.ErrCodeInternal, env.Error.Code)
	})
}
