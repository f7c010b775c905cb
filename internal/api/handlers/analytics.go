package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/stock-manager/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/stock-manager/internal/errors"
	"github.com/aaravmahajanofficial/stock-manager/internal/models"
	service "github.com/aaravmahajanofficial/stock-manager/internal/services"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils"
	"github.com/aaravmahajanofficial/stock-manager/internal/utils/response"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	loc              *time.Location
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService, loc *time.Location) *AnalyticsHandler {
	if loc == nil {
		loc = time.Local
	}

	return &AnalyticsHandler{analyticsService: analyticsService, loc: loc}
}

// DashboardSummary godoc
//	@Summary		Dashboard summary
//	@Description	Today's sale and purchase counts and totals, low stock count and catalog size.
//	@Tags			Analytics
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=models.DashboardSummary}
//	@Failure		500	{object}	response.APIResponse	"Internal server error"
//	@Router			/dashboard/summary [get]
func (h *AnalyticsHandler) DashboardSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := h.analyticsService.DashboardSummary(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to build dashboard summary", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, summary)
	}
}

// Analytics godoc
//	@Summary		Sales report
//	@Description	Aggregates sales in one window: a single date, a startDate/endDate pair, or a year/month pair.
//	@Tags			Analytics
//	@Produce		json
//	@Param			date		query		string	false	"Single day (YYYY-MM-DD)"
//	@Param			startDate	query		string	false	"First day of a range"
//	@Param			endDate		query		string	false	"Last day of a range"
//	@Param			year		query		int		false	"Calendar year"
//	@Param			month		query		int		false	"Calendar month (1-12)"	minimum(1)	maximum(12)
//	@Success		200			{object}	response.APIResponse{data=models.SalesReport}
//	@Failure		400			{object}	response.APIResponse	"Invalid window"
//	@Router			/analytics [get]
func (h *AnalyticsHandler) Analytics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		window, err := h.analyticsWindow(r)
		if err != nil {
			logger.Warn("Invalid analytics query", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		report, err := h.analyticsService.AnalyticsReport(r.Context(), window)
		if err != nil {
			logger.Warn("Failed to build analytics report", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, report)
	}
}

// analyticsWindow reads the window parameters. Any that fail to parse make the
// window malformed, which is reported like an underspecified one.
func (h *AnalyticsHandler) analyticsWindow(r *http.Request) (models.AnalyticsWindow, error) {
	var (
		window models.AnalyticsWindow
		err    error
	)

	if window.Date, err = utils.QueryDate(r, "date", h.loc); err != nil {
		return window, invalidWindow(err)
	}

	if window.StartDate, err = utils.QueryDate(r, "startDate", h.loc); err != nil {
		return window, invalidWindow(err)
	}

	if window.EndDate, err = utils.QueryDate(r, "endDate", h.loc); err != nil {
		return window, invalidWindow(err)
	}

	if window.Year, err = utils.QueryIntPtr(r, "year"); err != nil {
		return window, invalidWindow(err)
	}

	if window.Month, err = utils.QueryIntPtr(r, "month"); err != nil {
		return window, invalidWindow(err)
	}

	return window, nil
}

func invalidWindow(err error) error {
	return appErrors.InvalidWindowError("Invalid analytics window: " + err.Error()).WithError(err)
}
