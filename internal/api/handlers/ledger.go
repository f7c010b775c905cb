package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/api/middleware"
	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	service "github.com/aaravmahajanofficial/stock-manager/internal/services"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type LedgerHandler struct {
	ledgerService service.LedgerService
	validator     *validator.Validate
	loc           *time.Location
}

func NewLedgerHandler(ledgerService service.LedgerService, loc *time.Location) *LedgerHandler {
	if loc == nil {
		loc = time.Local
	}

	return &LedgerHandler{ledgerService: ledgerService, validator: utils.NewValidator(), loc: loc}
}

// CreatePurchase godoc
//	@Summary		Record a purchase
//	@Description	Records incoming stock. Every line adds its quantity to the product's stock in one transaction.
//	@Tags			Ledger
//	@Accept			json
//	@Produce		json
//	@Param			purchase	body		models.RecordTransactionRequest	true	"Purchase lines"
//	@Success		201			{object}	response.APIResponse{data=models.Transaction}
//	@Failure		400			{object}	response.APIResponse	"Validation error or unknown product"
//	@Failure		429			{object}	response.APIResponse	"Too many ledger writes"
//	@Failure		500			{object}	response.APIResponse	"Nothing was recorded"
//	@Router			/purchases [post]
func (h *LedgerHandler) CreatePurchase() http.HandlerFunc {
	return h.record(models.KindPurchase, h.ledgerService.RecordPurchase)
}

// CreateSale godoc
//	@Summary		Record a sale
//	@Description	Records outgoing stock. Every line removes its quantity from the product's stock in one transaction.
//	@Tags			Ledger
//	@Accept			json
//	@Produce		json
//	@Param			sale	body		models.RecordTransactionRequest	true	"Sale lines"
//	@Success		201		{object}	response.APIResponse{data=models.Transaction}
//	@Failure		400		{object}	response.APIResponse	"Validation error or unknown product"
//	@Failure		409		{object}	response.APIResponse	"Insufficient stock"
//	@Failure		429		{object}	response.APIResponse	"Too many ledger writes"
//	@Failure		500		{object}	response.APIResponse	"Nothing was recorded"
//	@Router			/sales [post]
func (h *LedgerHandler) CreateSale() http.HandlerFunc {
	return h.record(models.KindSale, h.ledgerService.RecordSale)
}

type recordFunc func(ctx context.Context, req *models.RecordTransactionRequest) (*models.Transaction, error)

func (h *LedgerHandler) record(kind models.TransactionKind, record recordFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context()).With(slog.String("kind", string(kind)))

		var req models.RecordTransactionRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid ledger entry input")
			return
		}

		txn, err := record(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to record ledger entry", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Ledger entry created", slog.String("id", txn.ID.String()))
		response.Success(w, http.StatusCreated, txn)
	}
}

// ListPurchases godoc
//	@Summary		List purchases
//	@Description	Pages through purchases, newest first. startDate and endDate must be given together.
//	@Tags			Ledger
//	@Produce		json
//	@Param			startDate	query		string	false	"First day (YYYY-MM-DD or RFC 3339)"
//	@Param			endDate		query		string	false	"Last day (YYYY-MM-DD or RFC 3339)"
//	@Param			page		query		int		false	"Page number (default 1)"	minimum(1)
//	@Param			limit		query		int		false	"Page size (default 10, max 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	response.APIResponse{data=models.TransactionListResponse}
//	@Failure		400			{object}	response.APIResponse	"Invalid query parameter"
//	@Router			/purchases [get]
func (h *LedgerHandler) ListPurchases() http.HandlerFunc {
	return h.list(models.KindPurchase, h.ledgerService.ListPurchases)
}

// ListSales godoc
//	@Summary		List sales
//	@Description	Pages through sales, newest first. startDate and endDate must be given together.
//	@Tags			Ledger
//	@Produce		json
//	@Param			startDate	query		string	false	"First day (YYYY-MM-DD or RFC 3339)"
//	@Param			endDate		query		string	false	"Last day (YYYY-MM-DD or RFC 3339)"
//	@Param			page		query		int		false	"Page number (default 1)"	minimum(1)
//	@Param			limit		query		int		false	"Page size (default 10, max 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	response.APIResponse{data=models.TransactionListResponse}
//	@Failure		400			{object}	response.APIResponse	"Invalid query parameter"
//	@Router			/sales [get]
func (h *LedgerHandler) ListSales() http.HandlerFunc {
	return h.list(models.KindSale, h.ledgerService.ListSales)
}

type listFunc func(ctx context.Context, filter models.TransactionFilter) (*models.TransactionListResponse, error)

func (h *LedgerHandler) list(kind models.TransactionKind, list listFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context()).With(slog.String("kind", string(kind)))

		filter, err := h.transactionFilter(r)
		if err != nil {
			logger.Warn("Invalid ledger list query", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		result, err := list(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to list ledger entries", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}

func (h *LedgerHandler) transactionFilter(r *http.Request) (models.TransactionFilter, error) {
	var (
		filter models.TransactionFilter
		err    error
	)

	if filter.Page, err = utils.QueryInt(r, "page", models.DefaultPage); err != nil {
		return filter, err
	}

	if filter.Limit, err = utils.QueryInt(r, "limit", models.DefaultLimit); err != nil {
		return filter, err
	}

	if filter.StartDate, err = utils.QueryDate(r, "startDate", h.loc); err != nil {
		return filter, err
	}

	if filter.EndDate, err = utils.QueryDate(r, "endDate", h.loc); err != nil {
		return filter, err
	}

	return filter, nil
}
