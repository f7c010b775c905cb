package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidWindow = errors.New("invalid analytics window")

const dateLayout = "2006-01-02"

type PeriodTotals struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type DashboardSummary struct {
	TodaySales       PeriodTotals `json:"todaySales"`
	TodayPurchases   PeriodTotals `json:"todayPurchases"`
	LowStockProducts int64        `json:"lowStockProducts"`
	TotalProducts    int64        `json:"totalProducts"`
	TotalCategories  int64        `json:"totalCategories"`
}

type ProductPerformance struct {
	ProductID    uuid.UUID       `json:"productId"`
	Name         string          `json:"name"`
	QuantitySold int64           `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type SalesReport struct {
	TotalSales         int                  `json:"totalSales"`
	TotalRevenue       decimal.Decimal      `json:"totalRevenue"`
	ItemsSold          int64                `json:"itemsSold"`
	ProductPerformance []ProductPerformance `json:"productPerformance"`
	PeriodStart        time.Time            `json:"periodStart"`
	PeriodEnd          time.Time            `json:"periodEnd"`
}

// AnalyticsWindow holds the three mutually exclusive ways of naming a report period.
type AnalyticsWindow struct {
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Year      *int
	Month     *int
}

// Resolve turns the window into an inclusive [start, end] range in loc.
// Exactly one form must be present: a single date, a start/end pair, or a year/month pair.
func (w AnalyticsWindow) Resolve(loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	hasDate := w.Date != nil
	hasRange := w.StartDate != nil || w.EndDate != nil
	hasMonth := w.Year != nil || w.Month != nil

	forms := 0
	for _, present := range []bool{hasDate, hasRange, hasMonth} {
		if present {
			forms++
		}
	}

	switch {
	case forms == 0:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: one of date, startDate+endDate or year+month is required", ErrInvalidWindow)
	case forms > 1:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: only one of date, startDate+endDate or year+month may be given", ErrInvalidWindow)
	}

	switch {
	case hasDate:
		start := StartOfDay(*w.Date, loc)
		return start, EndOfDay(start, loc), nil

	case hasRange:
		if w.StartDate == nil || w.EndDate == nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate and endDate must be given together", ErrInvalidWindow)
		}

		start := StartOfDay(*w.StartDate, loc)
		end := EndOfDay(*w.EndDate, loc)

		if end.Before(start) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate is after endDate", ErrInvalidWindow)
		}

		return start, end, nil

	default:
		if w.Year == nil || w.Month == nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: year and month must be given together", ErrInvalidWindow)
		}

		if *w.Month < 1 || *w.Month > 12 {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidWindow)
		}

		if *w.Year < 1 || *w.Year > 9999 {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: year out of range", ErrInvalidWindow)
		}

		start := time.Date(*w.Year, time.Month(*w.Month), 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, 0).Add(-time.Millisecond)

		return start, end, nil
	}
}

// StartOfDay is local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay is 23:59:59.999 of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// ParseDate accepts YYYY-MM-DD (interpreted in loc) or RFC 3339.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", value)
	}

	return t.In(loc), nil
}
