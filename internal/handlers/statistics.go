package handlers

import (
	"net/http"
	"strconv"
	"time"

	"finance-predictor/internal/models"
)

// StatsViewModel is the data passed to the statistics view template.
type StatsViewModel struct {
	Year           int
	Month          int
	MonthName      string
	Summary        *models.MonthlySummary
	SavingsRate    float64
	PrevYear       int
	PrevMonth      int
	NextYear       int
	NextMonth      int
	IsCurrentMonth bool
}

// Statistics renders the monthly summary of the user's saved records.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	// Get year and month from query params, default to current month
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
		year = y
	}
	if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && m >= 1 && m <= 12 {
		month = m
	}

	user := GetUserFromContext(r)
	summary, err := h.db.MonthlySummary(r.Context(), user.Username, year, time.Month(month))
	if err != nil {
		h.fail(w, r, "monthly summary", err)
		return
	}

	savingsRate := 0.0
	if summary.TotalIncome > 0 {
		savingsRate = summary.TotalBalance / summary.TotalIncome * 100
	}

	// Calculate previous and next month
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	prevDate := first.AddDate(0, -1, 0)
	nextDate := first.AddDate(0, 1, 0)

	h.render(w, r, "stats.html", StatsViewModel{
		Year:           year,
		Month:          month,
		MonthName:      time.Month(month).String(),
		Summary:        summary,
		SavingsRate:    savingsRate,
		PrevYear:       prevDate.Year(),
		PrevMonth:      int(prevDate.Month()),
		NextYear:       nextDate.Year(),
		NextMonth:      int(nextDate.Month()),
		IsCurrentMonth: year == now.Year() && month == int(now.Month()),
	})
}
