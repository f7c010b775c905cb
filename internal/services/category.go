package service

import (
	"context"
	"errors"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/cache"
	appErrors "github.com/aaravmahajanofficial/stock-manager/internal/errors"
	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	repository "github.com/aaravmahajanofficial/stock-manager/internal/repositories"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils"
	"github.com/google/uuid"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	// ListCategoryTree returns every category linked into root-level trees.
	ListCategoryTree(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewCategoryService(repo repository.CategoryRepository, c cache.Cache, ttl time.Duration) CategoryService {
	return &categoryService{repo: repo, cache: c, ttl: ttl}
}

func (s *categoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	name := utils.SanitizeText(req.Name)
	if name == "" {
		return nil, appErrors.AddValidationError("name", "must contain text")
	}

	category := &models.Category{Name: name, ParentID: req.ParentID}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, appErrors.ValidationError("Parent category does not exist").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to create category").WithError(err)
	}

	invalidate(ctx, s.cache, cache.CategoryTreeKey, cache.DashboardSummaryKey)

	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, mapCategoryReadError(err)
	}

	return category, nil
}

func (s *categoryService) ListCategoryTree(ctx context.Context) ([]*models.Category, error) {
	var tree []*models.Category
	if cacheGet(ctx, s.cache, cache.CategoryTreeKey, &tree) {
		return tree, nil
	}

	flat, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	tree = models.BuildCategoryTree(flat)
	cacheSet(ctx, s.cache, cache.CategoryTreeKey, tree, s.ttl)

	return tree, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, mapCategoryReadError(err)
	}

	if req.Name != nil {
		name := utils.SanitizeText(*req.Name)
		if name == "" {
			return nil, appErrors.AddValidationError("name", "must contain text")
		}

		category.Name = name
	}

	switch {
	case req.DetachParent:
		category.ParentID = nil
	case req.ParentID != nil:
		if err := s.checkParent(ctx, id, *req.ParentID); err != nil {
			return nil, err
		}

		category.ParentID = req.ParentID
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return nil, appErrors.NotFoundError("Category not found").WithError(err)
		default:
			return nil, appErrors.DatabaseError("Failed to update category").WithError(err)
		}
	}

	invalidate(ctx, s.cache, cache.CategoryTreeKey)

	return category, nil
}

// checkParent rejects a parent that is missing or that would close a cycle through id.
func (s *categoryService) checkParent(ctx context.Context, id, parentID uuid.UUID) error {
	if parentID == id {
		return appErrors.ValidationError("A category cannot be its own parent")
	}

	flat, err := s.repo.ListCategories(ctx)
	if err != nil {
		return appErrors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	parents := make(map[uuid.UUID]*uuid.UUID, len(flat))
	for _, c := range flat {
		parents[c.ID] = c.ParentID
	}

	if _, ok := parents[parentID]; !ok {
		return appErrors.ValidationError("Parent category does not exist").WithDetail(parentID.String())
	}

	for cur := &parentID; cur != nil; cur = parents[*cur] {
		if *cur == id {
			return appErrors.ValidationError("Moving the category there would create a cycle")
		}
	}

	return nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			return appErrors.NotFoundError("Category not found").WithError(err)
		case errors.Is(err, repository.ErrReferenced):
			return appErrors.ConflictError("Category has subcategories and cannot be deleted").WithError(err)
		default:
			return appErrors.DatabaseError("Failed to delete category").WithError(err)
		}
	}

	invalidate(ctx, s.cache, cache.CategoryTreeKey, cache.DashboardSummaryKey)

	return nil
}

func mapCategoryReadError(err error) error {
	if errors.Is(err, repository.ErrCategoryNotFound) {
		return appErrors.NotFoundError("Category not found").WithError(err)
	}

	return appErrors.DatabaseError("Failed to fetch category").WithError(err)
}
