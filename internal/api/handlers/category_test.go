package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/stock-manager/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/stock-manager/internal/errors"
	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	"github.com/aaravmahajanofficial/stock-manager/internal/services/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc := new(mocks.CategoryService)
		h := handlers.NewCategoryHandler(svc)
		parentID := uuid.New()

		svc.On("CreateCategory", mock.Anything, &models.CreateCategoryRequest{Name: "Drills", ParentID: &parentID}).
			Return(&models.Category{ID: uuid.New(), Name: "Drills", ParentID: &parentID}, nil).Once()

		body := mustJSON(t, map[string]any{"name": "Drills", "parentId": parentID})
		rr := httptest.NewRecorder()

		// Act
		h.CreateCategory().ServeHTTP(rr, newTestRequest(http.MethodPost, "/api/v1/categories", body))

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Invalid Input - Missing name", func(t *testing.T) {
		// Arrange
		svc := new(mocks.CategoryService)
		h := handlers.NewCategoryHandler(svc)
		rr := httptest.NewRecorder()

		// Act
		h.CreateCategory().ServeHTTP(rr, newTestRequest(http.MethodPost, "/api/v1/categories", []byte(`{}`)))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		env := decodeEnvelope(t, rr, nil)
		assert.Equal(t, appErrors.ErrCodeValidation, env.Error.Code)
		svc.AssertNotCalled(t, "CreateCategory", mock.Anything, mock.Anything)
	})
}

func TestListCategories(t *testing.T) {
	// Arrange
	svc := new(mocks.CategoryService)
	h := handlers.NewCategoryHandler(svc)

	root := &models.Category{ID: uuid.New(), Name: "Tools"}
	root.Children = []*models.Category{{ID: uuid.New(), Name: "Drills", ParentID: &root.ID}}
	svc.On("ListCategoryTree", mock.Anything).Return([]*models.Category{root}, nil).Once()

	rr := httptest.NewRecorder()

	// Act
	h.ListCategories().ServeHTTP(rr, newTestRequest(http.MethodGet, "/api/v1/categories", nil))

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)

	var tree []*models.Category
	decodeEnvelope(t, rr, &tree)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Drills", tree[0].Children[0].Name)
}

func TestGetCategory(t *testing.T) {
	// Arrange
	svc := new(mocks.CategoryService)
	h := handlers.NewCategoryHandler(svc)
	id := uuid.New()
	svc.On("GetCategory", mock.Anything, id).Return(nil, appErrors.NotFoundError("Category not found")).Once()

	req := newTestRequest(http.MethodGet, "/api/v1/categories/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rr := httptest.NewRecorder()

	// Act
	h.GetCategory().ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateCategory(t *testing.T) {
	t.Run("Success - Detach", func(t *testing.T) {
		// Arrange
		svc := new(mocks.CategoryService)
		h := handlers.NewCategoryHandler(svc)
		id := uuid.New()

		svc.On("UpdateCategory", mock.Anything, id, &models.UpdateCategoryRequest{DetachParent: true}).
			Return(&models.Category{ID: id, Name: "Drills"}, nil).Once()

		req := newTestRequest(http.MethodPut, "/api/v1/categories/"+id.String(), []byte(`{"detachParent":true}`))
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		h.UpdateCategory().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Failure - Cycle", func(t *testing.T) {
		// Arrange
		svc := new(mocks.CategoryService)
		h := handlers.NewCategoryHandler(svc)
		id, parentID := uuid.New(), uuid.New()

		svc.On("UpdateCategory", mock.Anything, id, mock.Anything).
			Return(nil, appErrors.ValidationError("Moving the category there would create a cycle")).Once()

		req := newTestRequest(http.MethodPut, "/api/v1/categories/"+id.String(), mustJSON(t, map[string]any{"parentId": parentID}))
		req.SetPathValue("id", id.String())
		rr := httptest.NewRecorder()

		// Act
		h.UpdateCategory().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteCategory(t *testing.T) {
	// Arrange
	svc := new(mocks.CategoryService)
	h := handlers.NewCategoryHandler(svc)
	id := uuid.New()
	svc.On("DeleteCategory", mock.Anything, id).Return(appErrors.ConflictError("Category has subcategories and cannot be deleted")).Once()

	req := newTestRequest(http.MethodDelete, "/api/v1/categories/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rr := httptest.NewRecorder()

	// Act
	h.DeleteCategory().ServeHTTP(rr, req)

	// Assert
	assert.Equal(t, http.StatusConflict, rr.Code)
	env := decodeEnvelope(t, rr, nil)
	assert.Equal(t, appErrors.ErrCodeConflict, env.Error.Code)
}
