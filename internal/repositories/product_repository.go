package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	BulkCreateProducts(ctx context.Context, products []*models.Product) (int, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetRecentSales(ctx context.Context, id uuid.UUID, limit int) ([]models.ProductSale, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `
	SELECT p.id, p.name, p.image, p.buying_price, p.selling_price, p.in_stock,
	       p.category_id, p.created_at, p.updated_at,
	       c.id, c.name, c.parent_id,
	       (SELECT MAX(s.date) FROM sale_items si JOIN sales s ON s.id = si.sale_id WHERE si.product_id = p.id)
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		product    models.Product
		categoryID uuid.NullUUID
		category   joinedCategory
		lastSold   sql.NullTime
	)

	dest := []any{
		&product.ID, &product.Name, &product.Image, &product.BuyingPrice, &product.SellingPrice, &product.InStock,
		&categoryID, &product.CreatedAt, &product.UpdatedAt,
	}
	dest = append(dest, category.dest()...)
	dest = append(dest, &lastSold)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	product.CategoryID = uuidPtr(categoryID)
	product.Category = category.category()

	if lastSold.Valid {
		t := lastSold.Time
		product.LastSold = &t
	}

	return &product, nil
}

func mapProductWriteError(err error) error {
	switch pqCode(err) {
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: %w", ErrCategoryNotFound, err)
	case pqCheckViolation:
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}

	return err
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO products (name, image, buying_price, selling_price, in_stock, category_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query,
		product.Name, product.Image, product.BuyingPrice, product.SellingPrice, product.InStock, nullUUID(product.CategoryID),
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting product: %w", mapProductWriteError(err))
	}

	return nil
}

// BulkCreateProducts streams every product through COPY inside one transaction;
// either all rows land or none do.
func (r *productRepository) BulkCreateProducts(ctx context.Context, products []*models.Product) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning bulk insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(dbCtx, pq.CopyIn("products", "name", "image", "buying_price", "selling_price", "in_stock", "category_id"))
	if err != nil {
		return 0, fmt.Errorf("preparing bulk insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range products {
		if _, err := stmt.ExecContext(dbCtx, p.Name, p.Image, p.BuyingPrice, p.SellingPrice, p.InStock, nullUUID(p.CategoryID)); err != nil {
			return 0, fmt.Errorf("queueing product %q: %w", p.Name, err)
		}
	}

	if _, err := stmt.ExecContext(dbCtx); err != nil {
		return 0, fmt.Errorf("flushing bulk insert: %w", mapProductWriteError(err))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing bulk insert: %w", err)
	}

	return len(products), nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, productColumns+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		return nil, fmt.Errorf("querying product: %w", err)
	}

	return product, nil
}

func (r *productRepository) GetRecentSales(ctx context.Context, id uuid.UUID, limit int) ([]models.ProductSale, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT s.id, s.date, si.quantity, si.price, si.total
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE si.product_id = $1
		ORDER BY s.date DESC, si.line_no ASC
		LIMIT $2`

	rows, err := r.DB.QueryContext(dbCtx, query, id, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent sales: %w", err)
	}
	defer rows.Close()

	sales := make([]models.ProductSale, 0, limit)

	for rows.Next() {
		var sale models.ProductSale
		if err := rows.Scan(&sale.SaleID, &sale.Date, &sale.Quantity, &sale.Price, &sale.Total); err != nil {
			return nil, fmt.Errorf("scanning recent sale: %w", err)
		}

		sales = append(sales, sale)
	}

	return sales, rows.Err()
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET name = $1, image = $2, buying_price = $3, selling_price = $4, in_stock = $5, category_id = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.DB.QueryRowContext(dbCtx, query,
		product.Name, product.Image, product.BuyingPrice, product.SellingPrice, product.InStock, nullUUID(product.CategoryID), product.ID,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}

		return fmt.Errorf("updating product: %w", mapProductWriteError(err))
	}

	return nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return fmt.Errorf("%w: product has ledger lines", ErrReferenced)
		}

		return fmt.Errorf("deleting product: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	if n == 0 {
		return ErrProductNotFound
	}

	return nil
}

func productFilterClause(filter models.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Search != "" {
		add("p.name ILIKE $%d", containsPattern(filter.Search))
	}

	if filter.CategoryID != nil {
		add("p.category_id = $%d", *filter.CategoryID)
	}

	if filter.InStock {
		conds = append(conds, "p.in_stock > 0")
	}

	if filter.MinPrice != nil {
		add("p.selling_price >= $%d", *filter.MinPrice)
	}

	if filter.MaxPrice != nil {
		add("p.selling_price <= $%d", *filter.MaxPrice)
	}

	if len(conds) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *productRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where, args := productFilterClause(filter)

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := productColumns + where +
		fmt.Sprintf(" ORDER BY p.name ASC, p.id ASC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	rows, err := r.DB.QueryContext(dbCtx, query, append(args, filter.Limit, models.Offset(filter.Page, filter.Limit))...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0, filter.Limit)

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
