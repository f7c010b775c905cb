package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	repository "github.com/aaravmahajanofficial/stock-manager/internal/repositories"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{
	"p.id", "p.name", "p.image", "p.buying_price", "p.selling_price", "p.in_stock",
	"p.category_id", "p.created_at", "p.updated_at", "c.id", "c.name", "c.parent_id", "max",
}

func TestNewProductRepo(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.NotNil(t, repository.NewProductRepo(db))
}

func TestProductRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewProductRepo(db)
	ctx := t.Context()
	now := time.Now()

	t.Run("CreateProduct", func(t *testing.T) {
		insertSQL := regexp.QuoteMeta(`INSERT INTO products (name, image, buying_price, selling_price, in_stock, category_id)`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			categoryID := uuid.New()
			product := &models.Product{
				Name:         "Espresso Beans",
				BuyingPrice:  decimal.RequireFromString("7.50"),
				SellingPrice: decimal.RequireFromString("12.00"),
				InStock:      40,
				CategoryID:   &categoryID,
			}
			newID := uuid.New()

			mock.ExpectQuery(insertSQL).
				WithArgs(product.Name, "", product.BuyingPrice, product.SellingPrice, int64(40), uuid.NullUUID{UUID: categoryID, Valid: true}).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(newID.String(), now, now))

			// Act
			err := repo.CreateProduct(ctx, product)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, newID, product.ID)
			assert.Equal(t, now, product.CreatedAt)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Unknown Category", func(t *testing.T) {
			// Arrange
			categoryID := uuid.New()
			product := &models.Product{Name: "Orphan", CategoryID: &categoryID}

			mock.ExpectQuery(insertSQL).WillReturnError(&pq.Error{Code: "23503"})

			// Act
			err := repo.CreateProduct(ctx, product)

			// Assert
			assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("BulkCreateProducts", func(t *testing.T) {
		products := []*models.Product{
			{Name: "A", BuyingPrice: decimal.NewFromInt(1), SellingPrice: decimal.NewFromInt(2), InStock: 3},
			{Name: "B", BuyingPrice: decimal.NewFromInt(4), SellingPrice: decimal.NewFromInt(5), InStock: 6},
		}

		t.Run("Success - One Transaction", func(t *testing.T) {
			// Arrange
			mock.ExpectBegin()
			prep := mock.ExpectPrepare(regexp.QuoteMeta(`COPY "products"`))
			prep.ExpectExec().
				WithArgs("A", "", products[0].BuyingPrice, products[0].SellingPrice, int64(3), uuid.NullUUID{}).
				WillReturnResult(sqlmock.NewResult(0, 1))
			prep.ExpectExec().
				WithArgs("B", "", products[1].BuyingPrice, products[1].SellingPrice, int64(6), uuid.NullUUID{}).
				WillReturnResult(sqlmock.NewResult(0, 1))
			prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 2))
			mock.ExpectCommit()

			// Act
			count, err := repo.BulkCreateProducts(ctx, products)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 2, count)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Flush Error Rolls Back", func(t *testing.T) {
			// Arrange
			mock.ExpectBegin()
			prep := mock.ExpectPrepare(regexp.QuoteMeta(`COPY "products"`))
			prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
			prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
			prep.ExpectExec().WillReturnError(&pq.Error{Code: "23514"})
			mock.ExpectRollback()

			// Act
			count, err := repo.BulkCreateProducts(ctx, products)

			// Assert
			assert.ErrorIs(t, err, repository.ErrConstraintViolation)
			assert.Zero(t, count)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetProductByID", func(t *testing.T) {
		productID := uuid.New()
		selectSQL := regexp.QuoteMeta(`WHERE p.id = $1`)

		t.Run("Success - With Category And Last Sale", func(t *testing.T) {
			// Arrange
			categoryID := uuid.New()
			lastSold := now.Add(-time.Hour)

			mock.ExpectQuery(selectSQL).
				WithArgs(productID).
				WillReturnRows(sqlmock.NewRows(productCols).AddRow(
					productID.String(), "Espresso Beans", "", "7.50", "12.00", int64(40),
					categoryID.String(), now, now, categoryID.String(), "Coffee", nil, lastSold,
				))

			// Act
			product, err := repo.GetProductByID(ctx, productID)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, productID, product.ID)
			assert.True(t, product.SellingPrice.Equal(decimal.NewFromInt(12)))
			require.NotNil(t, product.CategoryID)
			assert.Equal(t, categoryID, *product.CategoryID)
			require.NotNil(t, product.Category)
			assert.Equal(t, "Coffee", product.Category.Name)
			require.NotNil(t, product.LastSold)
			assert.Equal(t, lastSold, *product.LastSold)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Success - Uncategorised And Never Sold", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(selectSQL).
				WithArgs(productID).
				WillReturnRows(sqlmock.NewRows(productCols).AddRow(
					productID.String(), "Loose Tea", "", "1.00", "2.00", int64(0),
					nil, now, now, nil, nil, nil, nil,
				))

			// Act
			product, err := repo.GetProductByID(ctx, productID)

			// Assert
			require.NoError(t, err)
			assert.Nil(t, product.CategoryID)
			assert.Nil(t, product.Category)
			assert.Nil(t, product.LastSold)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("NotFound", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(selectSQL).WithArgs(productID).WillReturnError(sql.ErrNoRows)

			// Act
			product, err := repo.GetProductByID(ctx, productID)

			// Assert
			assert.ErrorIs(t, err, repository.ErrProductNotFound)
			assert.Nil(t, product)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetRecentSales", func(t *testing.T) {
		// Arrange
		productID := uuid.New()
		saleID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`FROM sale_items si`)).
			WithArgs(productID, 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "date", "quantity", "price", "total"}).
				AddRow(saleID.String(), now, int64(2), "12.00", "24.00"))

		// Act
		sales, err := repo.GetRecentSales(ctx, productID, 10)

		// Assert
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, saleID, sales[0].SaleID)
		assert.True(t, sales[0].Total.Equal(decimal.NewFromInt(24)))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateProduct", func(t *testing.T) {
		updateSQL := regexp.QuoteMeta(`UPDATE products SET name = $1`)
		product := &models.Product{ID: uuid.New(), Name: "Renamed", InStock: 3}

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(updateSQL).
				WithArgs(product.Name, "", product.BuyingPrice, product.SellingPrice, int64(3), uuid.NullUUID{}, product.ID).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

			// Act
			err := repo.UpdateProduct(ctx, product)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, now, product.UpdatedAt)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("NotFound", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(updateSQL).WillReturnError(sql.ErrNoRows)

			// Act
			err := repo.UpdateProduct(ctx, product)

			// Assert
			assert.ErrorIs(t, err, repository.ErrProductNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("DeleteProduct", func(t *testing.T) {
		deleteSQL := regexp.QuoteMeta(`DELETE FROM products WHERE id = $1`)
		productID := uuid.New()

		t.Run("Success", func(t *testing.T) {
			mock.ExpectExec(deleteSQL).WithArgs(productID).WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, repo.DeleteProduct(ctx, productID))
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("NotFound", func(t *testing.T) {
			mock.ExpectExec(deleteSQL).WithArgs(productID).WillReturnResult(sqlmock.NewResult(0, 0))

			assert.ErrorIs(t, repo.DeleteProduct(ctx, productID), repository.ErrProductNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Referenced By Ledger", func(t *testing.T) {
			mock.ExpectExec(deleteSQL).WithArgs(productID).WillReturnError(&pq.Error{Code: "23503"})

			assert.ErrorIs(t, repo.DeleteProduct(ctx, productID), repository.ErrReferenced)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("ListProducts", func(t *testing.T) {
		t.Run("Success - Second Page Of Fifteen", func(t *testing.T) {
			// Arrange
			rows := sqlmock.NewRows(productCols)
			for i := 0; i < 5; i++ {
				rows.AddRow(uuid.NewString(), "Item", "", "1.00", "2.00", int64(i), nil, now, now, nil, nil, nil, nil)
			}

			mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products p`)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))
			mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY p.name ASC, p.id ASC LIMIT $1 OFFSET $2`)).
				WithArgs(10, 10).
				WillReturnRows(rows)

			// Act
			products, total, err := repo.ListProducts(ctx, models.ProductFilter{Page: 2, Limit: 10})

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 15, total)
			assert.Len(t, products, 5)
			assert.Equal(t, 2, models.NewPagination(2, 10, total).TotalPages)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Success - Every Filter Applied", func(t *testing.T) {
			// Arrange
			categoryID := uuid.New()
			minPrice := decimal.NewFromInt(5)
			maxPrice := decimal.NewFromInt(50)
			filter := models.ProductFilter{
				Page: 1, Limit: 20, Search: "50%_off", CategoryID: &categoryID,
				InStock: true, MinPrice: &minPrice, MaxPrice: &maxPrice,
			}
			where := regexp.QuoteMeta(`WHERE p.name ILIKE $1 AND p.category_id = $2 AND p.in_stock > 0 AND p.selling_price >= $3 AND p.selling_price <= $4`)

			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products p ` + where).
				WithArgs(`%50\%\_off%`, categoryID, minPrice, maxPrice).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
			mock.ExpectQuery(where + regexp.QuoteMeta(` ORDER BY p.name ASC, p.id ASC LIMIT $5 OFFSET $6`)).
				WithArgs(`%50\%\_off%`, categoryID, minPrice, maxPrice, 20, 0).
				WillReturnRows(sqlmock.NewRows(productCols))

			// Act
			products, total, err := repo.ListProducts(ctx, filter)

			// Assert
			require.NoError(t, err)
			assert.Zero(t, total)
			assert.Empty(t, products)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Count Error", func(t *testing.T) {
			// Arrange
			dbErr := errors.New("connection refused")
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products p`)).WillReturnError(dbErr)

			// Act
			_, _, err := repo.ListProducts(ctx, models.ProductFilter{Page: 1, Limit: 10})

			// Assert
			assert.ErrorIs(t, err, dbErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
