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

type CategoryHandler struct {
	categoryService service.CategoryService
	validator       *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, validator: utils.NewValidator()}
}

// CreateCategory godoc
//	@Summary		Create a category
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			category	body		models.CreateCategoryRequest	true	"Category details"
//	@Success		201			{object}	response.APIResponse{data=models.Category}
//	@Failure		400			{object}	response.APIResponse	"Validation error or unknown parent"
//	@Router			/categories [post]
func (h *CategoryHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create category input")
			return
		}

		category, err := h.categoryService.CreateCategory(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create category", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Category created successfully", slog.String("categoryId", category.ID.String()))
		response.Success(w, http.StatusCreated, category)
	}
}

// ListCategories godoc
//	@Summary		Category tree
//	@Description	Returns root categories with their subcategories nested at any depth.
//	@Tags			Categories
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=[]models.Category}
//	@Router			/categories [get]
func (h *CategoryHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tree, err := h.categoryService.ListCategoryTree(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, tree)
	}
}

// GetCategory godoc
//	@Summary		Get a category
//	@Tags			Categories
//	@Produce		json
//	@Param			id	path		string	true	"Category ID (UUID)"	Format(uuid)
//	@Success		200	{object}	response.APIResponse{data=models.Category}
//	@Failure		404	{object}	response.APIResponse	"Category not found"
//	@Router			/categories/{id} [get]
func (h *CategoryHandler) GetCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		category, err := h.categoryService.GetCategory(r.Context(), id)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to get category", slog.String("categoryId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// UpdateCategory godoc
//	@Summary		Rename or move a category
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string							true	"Category ID (UUID)"	Format(uuid)
//	@Param			category	body		models.UpdateCategoryRequest	true	"Changes"
//	@Success		200			{object}	response.APIResponse{data=models.Category}
//	@Failure		400			{object}	response.APIResponse	"Validation error or cycle"
//	@Failure		404			{object}	response.APIResponse	"Category not found"
//	@Router			/categories/{id} [put]
func (h *CategoryHandler) UpdateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update category input")
			return
		}

		category, err := h.categoryService.UpdateCategory(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update category", slog.String("categoryId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// DeleteCategory godoc
//	@Summary		Delete a category
//	@Description	Only categories without subcategories can be deleted. Their products become uncategorised.
//	@Tags			Categories
//	@Param			id	path	string	true	"Category ID (UUID)"	Format(uuid)
//	@Success		204
//	@Failure		404	{object}	response.APIResponse	"Category not found"
//	@Failure		409	{object}	response.APIResponse	"Category has subcategories"
//	@Router			/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to delete category", slog.String("categoryId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
