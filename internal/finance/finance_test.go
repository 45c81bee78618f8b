package finance

import (
	"net/url"
	"testing"
	"time"

	"finance-predictor/internal/apperr"
	"finance-predictor/internal/predict"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPredictor struct {
	calls    int
	expense  predict.ExpenseInput
	score    predict.ScoreInput
	expected float64
	rating   float64
}

func (s *stubPredictor) PredictExpense(in predict.ExpenseInput) (float64, error) {
	s.calls++
	s.expense = in
	return s.expected, nil
}

func (s *stubPredictor) PredictFinancialScore(in predict.ScoreInput) (float64, error) {
	s.calls++
	s.score = in
	return s.rating, nil
}

func newCalculator(p Predictor) *Calculator {
	c := NewCalculator(p)
	c.now = func() time.Time { return time.Date(2026, time.October, 15, 9, 30, 0, 0, time.Local) }
	return c
}

func amounts(vs ...float64) []Item {
	items := make([]Item, len(vs))
	for i, v := range vs {
		items[i] = Item{Label: "x", Amount: v}
	}
	return items
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name        string
		income      float64
		items       []Item
		wantTotal   float64
		wantBalance float64
		wantWarning bool
	}{
		{"under budget", 50000, amounts(12000, 4500, 2300, 1100, 3400), 23300, 26700, false},
		{"overspent", 10000, amounts(20000), 20000, 0, true},
		{"exactly even", 5000, amounts(2500, 2500), 5000, 0, false},
		{"no items", 800, nil, 0, 800, false},
		{"cents add up", 1, amounts(0.1, 0.2), 0.3, 0.7, false},
		{"zero income", 0, amounts(0.01), 0.01, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, balance, warning := Balance(tt.income, tt.items)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantBalance, balance)
			if tt.wantWarning {
				assert.Equal(t, OverspendWarning, warning)
			} else {
				assert.Empty(t, warning)
			}
		})
	}
}

func TestCompute_Scenario(t *testing.T) {
	p := &stubPredictor{expected: 21034.5, rating: 63.4567}
	c := newCalculator(p)

	res, err := c.Compute(Input{
		Income: 50000, Age: 30, Dependents: 2, Occupation: 3, CityTier: 1,
		Items: []Item{
			{"Rent", 12000}, {"Groceries", 4500}, {"Transport", 2300}, {"Healthcare", 1100}, {"Entertainment", 3400},
		},
		DisposableIncome: 26700, DesiredSavings: 5000, LoanRepayment: 2000,
	})
	require.NoError(t, err)

	assert.Equal(t, 23300.0, res.Total)
	assert.Equal(t, 26700.0, res.Balance)
	assert.Empty(t, res.Warning)
	assert.Equal(t, 21034.5, res.PredictedExpense)
	assert.Equal(t, 63.46, res.PredictedFinancialScore)
	assert.Equal(t, "2026-10-15", res.Date)
	assert.Equal(t, "October", res.Month)
	assert.Equal(t, []string{"Rent", "Groceries", "Transport", "Healthcare", "Entertainment"}, res.Labels())
	assert.Equal(t, []float64{12000, 4500, 2300, 1100, 3400}, res.Values())

	assert.Equal(t, predict.ExpenseInput{Income: 50000, Age: 30, Dependents: 2, Occupation: 3, CityTier: 1}, p.expense)
	assert.Equal(t, predict.ScoreInput{Income: 50000, DisposableIncome: 26700, DesiredSavings: 5000, LoanRepayment: 2000}, p.score)
}

func TestCompute_Overspent(t *testing.T) {
	c := newCalculator(&stubPredictor{})

	res, err := c.Compute(Input{Income: 10000, CityTier: 2, Items: amounts(20000)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Balance)
	assert.Equal(t, OverspendWarning, res.Warning)
}

func TestCompute_RejectsCityTierBeforeModels(t *testing.T) {
	for _, tier := range []int{0, 4, -1, 10} {
		p := &stubPredictor{}
		_, err := newCalculator(p).Compute(Input{Income: 100, CityTier: tier})
		assert.True(t, errors.Is(err, apperr.ErrInvalidInput), "tier %d", tier)
		assert.Zero(t, p.calls, "tier %d must not reach the models", tier)
	}
}

func TestCompute_RejectsNegativeAmount(t *testing.T) {
	p := &stubPredictor{}
	_, err := newCalculator(p).Compute(Input{CityTier: 1, Items: amounts(10, -5)})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	assert.Zero(t, p.calls)
}

func TestResult_Record(t *testing.T) {
	c := newCalculator(&stubPredictor{expected: 900, rating: 55})
	res, err := c.Compute(Input{Income: 1000, Age: 40, Dependents: 1, Occupation: 2, CityTier: 3, Items: amounts(100)})
	require.NoError(t, err)

	rec := res.Record("alice")
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, 1000.0, rec.Income)
	assert.Equal(t, 100.0, rec.TotalExpenses)
	assert.Equal(t, 900.0, rec.Balance)
	assert.Equal(t, 900.0, rec.PredictedExpense)
	assert.Equal(t, 55.0, rec.PredictedFinancialScore)
	assert.Equal(t, 3, rec.CityTier)
	assert.Equal(t, "2026-10-15", rec.Date)
	assert.Equal(t, "October", rec.Month)
}

func TestParseInput_JSONItems(t *testing.T) {
	form := url.Values{
		FieldIncome:           {"50000"},
		FieldAge:              {"30"},
		FieldDependents:       {"2"},
		FieldOccupation:       {"1"},
		FieldCityTier:         {"2"},
		FieldExpenses:         {`[{"label":"Rent","amount":12000},{"label":"","amount":450.5}]`},
		FieldDisposableIncome: {"20000"},
		FieldDesiredSavings:   {"5000"},
		FieldLoanRepayment:    {""},
	}

	in, err := ParseInput(form)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, in.Income)
	assert.Equal(t, 30, in.Age)
	assert.Equal(t, 2, in.CityTier)
	assert.Equal(t, []Item{{"Rent", 12000}, {"Item 2", 450.5}}, in.Items)
	assert.Equal(t, 20000.0, in.DisposableIncome)
	assert.Zero(t, in.LoanRepayment)

	again, err := ParseInput(url.Values{FieldCityTier: {"2"}, FieldExpenses: {in.ItemsJSON()}})
	require.NoError(t, err)
	assert.Equal(t, in.Items, again.Items)
}

func TestParseInput_LegacyPairs(t *testing.T) {
	form := url.Values{
		FieldCityTier: {"1"},
		"label_10":    {"Travel"},
		"expense_10":  {"700"},
		"label_2":     {"Food"},
		"expense_2":   {"300"},
		"label_3":     {"Skipped"},
		"expense_3":   {""},
	}

	in, err := ParseInput(form)
	require.NoError(t, err)
	assert.Equal(t, []Item{{"Food", 300}, {"Travel", 700}}, in.Items)
}

func TestParseInput_Errors(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"bad income", url.Values{FieldIncome: {"lots"}, FieldCityTier: {"1"}}, "income must be a number"},
		{"nan income", url.Values{FieldIncome: {"NaN"}, FieldCityTier: {"1"}}, "income must be a number"},
		{"fractional age", url.Values{FieldAge: {"30.5"}, FieldCityTier: {"1"}}, "age must be a whole number"},
		{"missing tier", url.Values{FieldIncome: {"10"}}, "Invalid City Tier"},
		{"tier four", url.Values{FieldCityTier: {"4"}}, "Invalid City Tier"},
		{"bad json", url.Values{FieldCityTier: {"1"}, FieldExpenses: {"[1,2"}}, "JSON list"},
		{"bad legacy amount", url.Values{FieldCityTier: {"1"}, "expense_1": {"ten"}}, "expense_1 must be a number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInput(tt.form)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScoreInput(t *testing.T) {
	in, err := ParseScoreInput(url.Values{
		"Income":              {"40000"},
		FieldDisposableIncome: {"12000"},
		FieldDesiredSavings:   {"3000"},
		FieldLoanRepayment:    {"800"},
	})
	require.NoError(t, err)
	assert.Equal(t, 40000.0, in.Income)
	assert.Equal(t, 800.0, in.LoanRepayment)

	_, err = ParseScoreInput(url.Values{"Income": {"x"}})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
}

func TestDemoItems(t *testing.T) {
	total, balance, _ := Balance(50000, DemoItems())
	assert.Equal(t, 23300.0, total)
	assert.Equal(t, 26700.0, balance)
}
