package models

import "time"

// ExpenseRecord is a saved snapshot of one computed prediction.
type ExpenseRecord struct {
	ID                      int64   `json:"id"`
	Username                string  `json:"username"`
	Income                  float64 `json:"income"`
	Age                     int     `json:"age"`
	Dependents              int     `json:"dependents"`
	Occupation              int     `json:"occupation"`
	CityTier                int     `json:"city_tier"`
	TotalExpenses           float64 `json:"total_expenses"`
	Balance                 float64 `json:"balance"`
	PredictedExpense        float64 `json:"predicted_expense"`
	PredictedFinancialScore float64 `json:"predicted_financial_score"`
	Date                    string  `json:"date"`
	Month                   string  `json:"month"`
}

// MonthlySummary aggregates the saved records of one calendar month.
type MonthlySummary struct {
	Count               int
	TotalIncome         float64
	TotalExpenses       float64
	TotalBalance        float64
	AvgPredictedExpense float64
	AvgFinancialScore   float64
}

// User represents a user account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
