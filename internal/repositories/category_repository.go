package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils"
	"github.com/google/uuid"
)

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepo(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, category.Name, nullUUID(category.ParentID)).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return fmt.Errorf("%w: parent", ErrCategoryNotFound)
		}

		return fmt.Errorf("inserting category: %w", err)
	}

	return nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var (
		category models.Category
		parentID uuid.NullUUID
	)

	query := `SELECT id, name, parent_id, created_at, updated_at FROM categories WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&category.ID, &category.Name, &parentID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}

		return nil, fmt.Errorf("querying category: %w", err)
	}

	category.ParentID = uuidPtr(parentID)

	return &category, nil
}

// ListCategories returns every category as a flat list ordered by name.
func (r *categoryRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT id, name, parent_id, created_at, updated_at FROM categories ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)

	for rows.Next() {
		var (
			category models.Category
			parentID uuid.NullUUID
		)

		if err := rows.Scan(&category.ID, &category.Name, &parentID, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		category.ParentID = uuidPtr(parentID)
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE categories SET name = $1, parent_id = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, category.Name, nullUUID(category.ParentID), category.ID).Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}

		if pqCode(err) == pqForeignKeyViolation {
			return fmt.Errorf("%w: parent", ErrCategoryNotFound)
		}

		return fmt.Errorf("updating category: %w", err)
	}

	return nil
}

// DeleteCategory removes a leaf category. Products in it keep existing without a category.
func (r *categoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(dbCtx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return fmt.Errorf("%w: category has subcategories", ErrReferenced)
		}

		return fmt.Errorf("deleting category: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}

	if n == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
