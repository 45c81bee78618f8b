package finance

import (
	"encoding/json"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"finance-predictor/internal/apperr"
)

// Form field names.
const (
	FieldIncome           = "income"
	FieldAge              = "age"
	FieldDependents       = "dependents"
	FieldOccupation       = "occupation"
	FieldCityTier         = "city_tier"
	FieldExpenses         = "expenses"
	FieldDisposableIncome = "Disposable_income"
	FieldDesiredSavings   = "Desired_savings"
	FieldLoanRepayment    = "Loan_repayment"

	legacyLabelPrefix   = "label_"
	legacyExpensePrefix = "expense_"
)

// Item is one labelled line of the user's expense breakdown.
type Item struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Input is a parsed compute request.
type Input struct {
	Income           float64
	Age              int
	Dependents       int
	Occupation       int
	CityTier         int
	Items            []Item
	DisposableIncome float64
	DesiredSavings   float64
	LoanRepayment    float64
}

// ParseInput reads a compute request from form values. Missing numeric fields
// default to zero; malformed ones are apperr.ErrInvalidInput.
//
// The breakdown comes from the "expenses" field, a JSON array of
// {"label", "amount"} objects. When it is absent the older label_N/expense_N
// field pairs are read instead, matched by their N suffix.
func ParseInput(form url.Values) (Input, error) {
	var (
		in  Input
		err error
	)

	floats := []struct {
		field string
		dst   *float64
	}{
		{FieldIncome, &in.Income},
		{FieldDisposableIncome, &in.DisposableIncome},
		{FieldDesiredSavings, &in.DesiredSavings},
		{FieldLoanRepayment, &in.LoanRepayment},
	}
	for _, f := range floats {
		if *f.dst, err = formFloat(form, f.field); err != nil {
			return Input{}, err
		}
	}

	ints := []struct {
		field string
		dst   *int
	}{
		{FieldAge, &in.Age},
		{FieldDependents, &in.Dependents},
		{FieldOccupation, &in.Occupation},
		{FieldCityTier, &in.CityTier},
	}
	for _, f := range ints {
		if *f.dst, err = formInt(form, f.field); err != nil {
			return Input{}, err
		}
	}

	if raw := strings.TrimSpace(form.Get(FieldExpenses)); raw != "" {
		in.Items, err = parseItems(raw)
	} else {
		in.Items, err = parseLegacyItems(form)
	}
	if err != nil {
		return Input{}, err
	}

	return in, in.Validate()
}

// ParseScoreInput reads the fields of the score-only prediction form.
func ParseScoreInput(form url.Values) (Input, error) {
	var (
		in  Input
		err error
	)
	if in.Income, err = formFloat(form, "Income"); err != nil {
		return Input{}, err
	}
	if in.DisposableIncome, err = formFloat(form, FieldDisposableIncome); err != nil {
		return Input{}, err
	}
	if in.DesiredSavings, err = formFloat(form, FieldDesiredSavings); err != nil {
		return Input{}, err
	}
	if in.LoanRepayment, err = formFloat(form, FieldLoanRepayment); err != nil {
		return Input{}, err
	}
	return in, nil
}

// Validate checks the constraints that must hold before any model runs.
func (in Input) Validate() error {
	if in.CityTier < 1 || in.CityTier > 3 {
		return apperr.InvalidInput("Invalid City Tier. Must be 1, 2, or 3")
	}
	if in.Age < 0 || in.Dependents < 0 {
		return apperr.InvalidInput("age and dependents cannot be negative")
	}
	for _, it := range in.Items {
		if !finite(it.Amount) || it.Amount < 0 {
			return apperr.InvalidInput("expense %q must be a non-negative amount", it.Label)
		}
	}
	return nil
}

// ItemsJSON encodes the breakdown the way the "expenses" field expects it.
func (in Input) ItemsJSON() string {
	items := in.Items
	if items == nil {
		items = []Item{}
	}
	b, _ := json.Marshal(items)
	return string(b)
}

func parseItems(raw string) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, apperr.InvalidInput("expenses must be a JSON list of {label, amount}")
	}
	for i := range items {
		items[i].Label = defaultLabel(items[i].Label, i)
	}
	return items, nil
}

func parseLegacyItems(form url.Values) ([]Item, error) {
	suffixes := make([]string, 0)
	for key := range form {
		if s, ok := strings.CutPrefix(key, legacyExpensePrefix); ok && strings.TrimSpace(form.Get(key)) != "" {
			suffixes = append(suffixes, s)
		}
	}
	sort.Slice(suffixes, func(i, j int) bool {
		a, errA := strconv.Atoi(suffixes[i])
		b, errB := strconv.Atoi(suffixes[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return suffixes[i] < suffixes[j]
	})

	items := make([]Item, 0, len(suffixes))
	for i, s := range suffixes {
		amount, err := formFloat(form, legacyExpensePrefix+s)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{
			Label:  defaultLabel(form.Get(legacyLabelPrefix+s), i),
			Amount: amount,
		})
	}
	return items, nil
}

func defaultLabel(label string, i int) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "Item " + strconv.Itoa(i+1)
	}
	return label
}

func formFloat(form url.Values, field string) (float64, error) {
	raw := strings.TrimSpace(form.Get(field))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !finite(v) {
		return 0, apperr.InvalidInput("%s must be a number", field)
	}
	return v, nil
}

func formInt(form url.Values, field string) (int, error) {
	raw := strings.TrimSpace(form.Get(field))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidInput("%s must be a whole number", field)
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
