// Package predict wraps the two trained regression models: the expense
// predictor and the financial score predictor.
//
// Both models take positional feature vectors whose order is fixed at training
// time. ExpenseFeatures and FinancialScoreFeatures document that order; the
// model files carry the same list and loading fails on any difference.
package predict

import (
	"finance-predictor/internal/apperr"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Feature orders the models were trained with.
var (
	ExpenseFeatures        = []string{"income", "age", "dependents", "occupation", "city_tier"}
	FinancialScoreFeatures = []string{"income", "disposable_income", "desired_savings", "loan_repayment"}
)

// Kind names one of the two models.
type Kind string

const (
	KindExpense        Kind = "expense"
	KindFinancialScore Kind = "financial"
)

// ExpenseInput is the expense model's feature vector in named form.
type ExpenseInput struct {
	Income     float64
	Age        int
	Dependents int
	Occupation int
	CityTier   int
}

// Vector returns the features in training order.
func (in ExpenseInput) Vector() []float64 {
	return []float64{in.Income, float64(in.Age), float64(in.Dependents), float64(in.Occupation), float64(in.CityTier)}
}

// ScoreInput is the financial score model's feature vector in named form.
type ScoreInput struct {
	Income           float64
	DisposableIncome float64
	DesiredSavings   float64
	LoanRepayment    float64
}

// Vector returns the features in training order.
func (in ScoreInput) Vector() []float64 {
	return []float64{in.Income, in.DisposableIncome, in.DesiredSavings, in.LoanRepayment}
}

// Service holds both models. It is immutable after construction and safe for
// concurrent use as long as the regressors are.
type Service struct {
	expense Regressor
	score   Regressor
}

func NewService(expense, score Regressor) *Service {
	return &Service{expense: expense, score: score}
}

// Load reads both model files.
func Load(expensePath, scorePath string) (*Service, error) {
	expense, err := LoadLinearModel(expensePath, ExpenseFeatures)
	if err != nil {
		return nil, errors.Wrap(err, "loading expense model")
	}
	score, err := LoadLinearModel(scorePath, FinancialScoreFeatures)
	if err != nil {
		return nil, errors.Wrap(err, "loading financial score model")
	}
	return NewService(expense, score), nil
}

// PredictExpense runs the expense model.
func (s *Service) PredictExpense(in ExpenseInput) (float64, error) {
	return s.Predict(KindExpense, in.Vector())
}

// PredictFinancialScore runs the financial score model and rounds to 2 dp.
func (s *Service) PredictFinancialScore(in ScoreInput) (float64, error) {
	y, err := s.Predict(KindFinancialScore, in.Vector())
	if err != nil {
		return 0, err
	}
	return Round2(y), nil
}

// Predict feeds a raw vector to the chosen model. Non-finite inputs are
// rejected as invalid input; non-finite outputs are internal errors.
func (s *Service) Predict(kind Kind, features []float64) (float64, error) {
	for _, x := range features {
		if !finite(x) {
			return 0, apperr.InvalidInput("non-finite feature")
		}
	}

	var m Regressor
	switch kind {
	case KindExpense:
		m = s.expense
	case KindFinancialScore:
		m = s.score
	default:
		return 0, errors.Errorf("unknown model %q", kind)
	}

	y, err := m.Predict(features)
	if err != nil {
		return 0, errors.Wrapf(err, "%s model", kind)
	}
	if !finite(y) {
		return 0, errors.Errorf("%s model produced a non-finite value", kind)
	}
	return y, nil
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
