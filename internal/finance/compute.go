// Package finance turns a user's income and expense breakdown into the
// balance, warnings and model predictions shown on the result page.
package finance

import (
	"time"

	"finance-predictor/internal/models"
	"finance-predictor/internal/predict"

	"github.com/shopspring/decimal"
)

// OverspendWarning is attached when expenses exceed income.
const OverspendWarning = "⚠️ Warning: Your total expenses exceed your income. Balance is set to ₹0."

const dateLayout = "2006-01-02"

// Predictor is the part of the prediction service the calculator needs.
type Predictor interface {
	PredictExpense(in predict.ExpenseInput) (float64, error)
	PredictFinancialScore(in predict.ScoreInput) (float64, error)
}

// Result is a computed, unsaved prediction.
type Result struct {
	Input

	Date                    string
	Month                   string
	Total                   float64
	Balance                 float64
	PredictedExpense        float64
	PredictedFinancialScore float64
	Warning                 string
}

// Labels returns the breakdown labels in submission order.
func (r *Result) Labels() []string {
	labels := make([]string, len(r.Items))
	for i, it := range r.Items {
		labels[i] = it.Label
	}
	return labels
}

// Values returns the breakdown amounts in submission order.
func (r *Result) Values() []float64 {
	values := make([]float64, len(r.Items))
	for i, it := range r.Items {
		values[i] = it.Amount
	}
	return values
}

// Record converts the result into a storable snapshot owned by username.
func (r *Result) Record(username string) *models.ExpenseRecord {
	return &models.ExpenseRecord{
		Username:                username,
		Income:                  r.Income,
		Age:                     r.Age,
		Dependents:              r.Dependents,
		Occupation:              r.Occupation,
		CityTier:                r.CityTier,
		TotalExpenses:           r.Total,
		Balance:                 r.Balance,
		PredictedExpense:        r.PredictedExpense,
		PredictedFinancialScore: r.PredictedFinancialScore,
		Date:                    r.Date,
		Month:                   r.Month,
	}
}

// Calculator runs the compute flow. It holds no per-request state.
type Calculator struct {
	predictor Predictor
	now       func() time.Time
}

func NewCalculator(p Predictor) *Calculator {
	return &Calculator{predictor: p, now: time.Now}
}

// Compute validates in, derives total and balance, and runs both models.
// Nothing is persisted.
func (c *Calculator) Compute(in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	total, balance, warning := Balance(in.Income, in.Items)

	predictedExpense, err := c.predictor.PredictExpense(predict.ExpenseInput{
		Income:     in.Income,
		Age:        in.Age,
		Dependents: in.Dependents,
		Occupation: in.Occupation,
		CityTier:   in.CityTier,
	})
	if err != nil {
		return nil, err
	}

	score, err := c.predictor.PredictFinancialScore(predict.ScoreInput{
		Income:           in.Income,
		DisposableIncome: in.DisposableIncome,
		DesiredSavings:   in.DesiredSavings,
		LoanRepayment:    in.LoanRepayment,
	})
	if err != nil {
		return nil, err
	}

	today := c.now()
	return &Result{
		Input:                   in,
		Date:                    today.Format(dateLayout),
		Month:                   today.Month().String(),
		Total:                   total,
		Balance:                 balance,
		PredictedExpense:        predictedExpense,
		PredictedFinancialScore: predict.Round2(score),
		Warning:                 warning,
	}, nil
}

// Balance sums the breakdown and returns income minus that total, floored at
// zero. A non-empty warning is returned exactly when the floor applied.
func Balance(income float64, items []Item) (total, balance float64, warning string) {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Amount))
	}

	diff := decimal.NewFromFloat(income).Sub(sum)
	if diff.IsNegative() {
		diff = decimal.Zero
		warning = OverspendWarning
	}

	total, _ = sum.Float64()
	balance, _ = diff.Float64()
	return total, balance, warning
}

// DemoItems is the static breakdown shown on the demo result page.
func DemoItems() []Item {
	return []Item{
		{Label: "Rent", Amount: 12000},
		{Label: "Groceries", Amount: 4500},
		{Label: "Transport", Amount: 2300},
		{Label: "Healthcare", Amount: 1100},
		{Label: "Entertainment", Amount: 3400},
	}
}
