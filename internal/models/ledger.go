package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind selects which side of the ledger an entry belongs to.
type TransactionKind string

const (
	KindPurchase TransactionKind = "purchase"
	KindSale     TransactionKind = "sale"
)

func (k TransactionKind) Valid() bool {
	return k == KindPurchase || k == KindSale
}

// HeaderTable is the ledger table holding entries of this kind.
func (k TransactionKind) HeaderTable() string {
	if k == KindSale {
		return "sales"
	}

	return "purchases"
}

// ItemTable is the table holding line items of this kind.
func (k TransactionKind) ItemTable() string {
	if k == KindSale {
		return "sale_items"
	}

	return "purchase_items"
}

// ItemForeignKey is the column in ItemTable that references HeaderTable.
func (k TransactionKind) ItemForeignKey() string {
	if k == KindSale {
		return "sale_id"
	}

	return "purchase_id"
}

// StockDelta is the signed change a line of the given quantity applies to stock:
// purchases add, sales remove.
func (k TransactionKind) StockDelta(quantity int64) int64 {
	if k == KindSale {
		return -quantity
	}

	return quantity
}

// ProductSummary is the product snapshot embedded in line items.
type ProductSummary struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	BuyingPrice  decimal.Decimal `json:"buyingPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	InStock      int64           `json:"inStock"`
	Category     *Category       `json:"category,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type LineItem struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID uuid.UUID       `json:"transactionId"`
	ProductID     uuid.UUID       `json:"productId"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	Product       *ProductSummary `json:"product,omitempty"`
}

// Transaction is a Purchase or a Sale. Entries are immutable once recorded.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	Kind      TransactionKind `json:"kind"`
	Date      time.Time       `json:"date"`
	Total     decimal.Decimal `json:"total"`
	Items     []LineItem      `json:"items"`
	CreatedAt time.Time       `json:"createdAt"`
}

type TransactionItemRequest struct {
	ProductID uuid.UUID       `json:"productId" validate:"required"`
	Quantity  int64           `json:"quantity" validate:"required,gte=1"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
}

type RecordTransactionRequest struct {
	Items []TransactionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CurrencyPlaces is the number of fractional digits every money column stores.
const CurrencyPlaces int32 = 2

// IsCurrencyAmount reports whether d is stored without rounding at currency precision.
func IsCurrencyAmount(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(CurrencyPlaces))
}

// LineTotal is quantity × price in exact decimal arithmetic.
func LineTotal(quantity int64, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(quantity))
}

// NewTransaction assembles an unsaved ledger entry from request lines,
// deriving every line total and the entry total.
func NewTransaction(kind TransactionKind, items []TransactionItemRequest, now time.Time) *Transaction {
	txn := &Transaction{
		ID:        uuid.New(),
		Kind:      kind,
		Date:      now,
		Total:     decimal.Zero,
		Items:     make([]LineItem, 0, len(items)),
		CreatedAt: now,
	}

	for _, item := range items {
		line := LineItem{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			Price:         item.Price,
			Total:         LineTotal(item.Quantity, item.Price),
		}

		txn.Total = txn.Total.Add(line.Total)
		txn.Items = append(txn.Items, line)
	}

	return txn
}

// ProductIDs returns the distinct products referenced by the entry, in first-seen order.
func (t *Transaction) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(t.Items))
	ids := make([]uuid.UUID, 0, len(t.Items))

	for _, item := range t.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}

		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	return ids
}

// TransactionFilter selects a page of ledger entries, optionally bounded by date.
type TransactionFilter struct {
	Kind      TransactionKind
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

type TransactionListResponse struct {
	Transactions []*Transaction `json:"transactions"`
	Pagination   Pagination     `json:"pagination"`
}
