package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RecordOptions tunes how a ledger write applies its stock effect.
type RecordOptions struct {
	// RejectOversell makes a sale line fail with ErrInsufficientStock instead of
	// driving stock below zero.
	RejectOversell bool
}

type LedgerRepository interface {
	// Record inserts the entry and its lines and applies every line's stock delta
	// in one transaction. On success each line carries its product summary.
	Record(ctx context.Context, txn *models.Transaction, opts RecordOptions) error
	List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, int, error)
}

type ledgerRepository struct {
	DB *sql.DB
}

func NewLedgerRepo(db *sql.DB) LedgerRepository {
	return &ledgerRepository{DB: db}
}

func (r *ledgerRepository) Record(ctx context.Context, txn *models.Transaction, opts RecordOptions) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("beginning %s: %w", txn.Kind, err)
	}
	defer tx.Rollback()

	header := fmt.Sprintf(`INSERT INTO %s (id, date, total) VALUES ($1, $2, $3) RETURNING created_at`, txn.Kind.HeaderTable())

	if err := tx.QueryRowContext(dbCtx, header, txn.ID, txn.Date, txn.Total).Scan(&txn.CreatedAt); err != nil {
		return fmt.Errorf("inserting %s: %w", txn.Kind, err)
	}

	line := fmt.Sprintf(`INSERT INTO %s (id, %s, line_no, product_id, quantity, price, total) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		txn.Kind.ItemTable(), txn.Kind.ItemForeignKey())

	for i := range txn.Items {
		item := &txn.Items[i]

		if err := applyStockDelta(dbCtx, tx, txn.Kind, item, opts); err != nil {
			return err
		}

		if _, err := tx.ExecContext(dbCtx, line, item.ID, txn.ID, i+1, item.ProductID, item.Quantity, item.Price, item.Total); err != nil {
			if pqCode(err) == pqForeignKeyViolation {
				return fmt.Errorf("%w: %s", ErrProductReferenceMissing, item.ProductID)
			}

			return fmt.Errorf("inserting %s line %d: %w", txn.Kind, i+1, err)
		}
	}

	summaries, err := productSummaries(dbCtx, tx, txn.ProductIDs())
	if err != nil {
		return err
	}

	for i := range txn.Items {
		txn.Items[i].Product = summaries[txn.Items[i].ProductID]
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", txn.Kind, err)
	}

	return nil
}

func applyStockDelta(ctx context.Context, db DBTX, kind models.TransactionKind, item *models.LineItem, opts RecordOptions) error {
	delta := kind.StockDelta(item.Quantity)
	guarded := kind == models.KindSale && opts.RejectOversell

	var (
		res sql.Result
		err error
	)

	if guarded {
		res, err = db.ExecContext(ctx,
			`UPDATE products SET in_stock = in_stock + $1, updated_at = NOW() WHERE id = $2 AND in_stock >= $3`,
			delta, item.ProductID, item.Quantity)
	} else {
		res, err = db.ExecContext(ctx,
			`UPDATE products SET in_stock = in_stock + $1, updated_at = NOW() WHERE id = $2`,
			delta, item.ProductID)
	}

	if err != nil {
		return fmt.Errorf("adjusting stock of %s: %w", item.ProductID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjusting stock of %s: %w", item.ProductID, err)
	}

	if n > 0 {
		return nil
	}

	if !guarded {
		return fmt.Errorf("%w: %s", ErrProductReferenceMissing, item.ProductID)
	}

	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, item.ProductID).Scan(&exists); err != nil {
		return fmt.Errorf("checking product %s: %w", item.ProductID, err)
	}

	if !exists {
		return fmt.Errorf("%w: %s", ErrProductReferenceMissing, item.ProductID)
	}

	return fmt.Errorf("%w: product %s has fewer than %d units", ErrInsufficientStock, item.ProductID, item.Quantity)
}

const summaryColumns = `p.id, p.name, p.buying_price, p.selling_price, p.in_stock, p.created_at, p.updated_at, c.id, c.name, c.parent_id`

func scanSummary(dest []any, summary *models.ProductSummary, category *joinedCategory) []any {
	dest = append(dest, &summary.ID, &summary.Name, &summary.BuyingPrice, &summary.SellingPrice,
		&summary.InStock, &summary.CreatedAt, &summary.UpdatedAt)

	return append(dest, category.dest()...)
}

func productSummaries(ctx context.Context, db DBTX, ids []uuid.UUID) (map[uuid.UUID]*models.ProductSummary, error) {
	query := `SELECT ` + summaryColumns + `
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = ANY($1)`

	rows, err := db.QueryContext(ctx, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("loading product summaries: %w", err)
	}
	defer rows.Close()

	summaries := make(map[uuid.UUID]*models.ProductSummary, len(ids))

	for rows.Next() {
		var (
			summary  models.ProductSummary
			category joinedCategory
		)

		if err := rows.Scan(scanSummary(nil, &summary, &category)...); err != nil {
			return nil, fmt.Errorf("scanning product summary: %w", err)
		}

		summary.Category = category.category()
		summaries[summary.ID] = &summary
	}

	return summaries, rows.Err()
}

func (r *ledgerRepository) List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	kind := filter.Kind
	table := kind.HeaderTable()

	var (
		conds []string
		args  []any
	)

	if filter.StartDate != nil && filter.EndDate != nil {
		args = append(args, *filter.StartDate, *filter.EndDate)
		conds = append(conds, "date >= $1 AND date <= $2")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM `+table+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting %s entries: %w", kind, err)
	}

	query := fmt.Sprintf(`SELECT id, date, total, created_at FROM %s%s ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d`,
		table, where, len(args)+1, len(args)+2)

	rows, err := r.DB.QueryContext(dbCtx, query, append(args, filter.Limit, models.Offset(filter.Page, filter.Limit))...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing %s entries: %w", kind, err)
	}
	defer rows.Close()

	txns := make([]*models.Transaction, 0, filter.Limit)
	byID := make(map[uuid.UUID]*models.Transaction)

	for rows.Next() {
		txn := &models.Transaction{Kind: kind, Items: []models.LineItem{}}
		if err := rows.Scan(&txn.ID, &txn.Date, &txn.Total, &txn.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning %s entry: %w", kind, err)
		}

		txns = append(txns, txn)
		byID[txn.ID] = txn
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(txns) == 0 {
		return txns, total, nil
	}

	ids := make([]uuid.UUID, 0, len(txns))
	for _, txn := range txns {
		ids = append(ids, txn.ID)
	}

	if err := loadLines(dbCtx, r.DB, kind, ids, byID); err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}

// loadLines attaches the lines of every entry in byID, with product summaries, in one query.
func loadLines(ctx context.Context, db DBTX, kind models.TransactionKind, ids []uuid.UUID, byID map[uuid.UUID]*models.Transaction) error {
	query := fmt.Sprintf(`
		SELECT i.id, i.%[2]s, i.product_id, i.quantity, i.price, i.total, %[3]s
		FROM %[1]s i
		JOIN products p ON p.id = i.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE i.%[2]s = ANY($1)
		ORDER BY i.%[2]s, i.line_no`, kind.ItemTable(), kind.ItemForeignKey(), summaryColumns)

	rows, err := db.QueryContext(ctx, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return fmt.Errorf("loading %s lines: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item     models.LineItem
			summary  models.ProductSummary
			category joinedCategory
		)

		dest := []any{&item.ID, &item.TransactionID, &item.ProductID, &item.Quantity, &item.Price, &item.Total}
		if err := rows.Scan(scanSummary(dest, &summary, &category)...); err != nil {
			return fmt.Errorf("scanning %s line: %w", kind, err)
		}

		summary.Category = category.category()
		item.Product = &summary

		if txn, ok := byID[item.TransactionID]; ok {
			txn.Items = append(txn.Items, item)
		}
	}

	return rows.Err()
}
