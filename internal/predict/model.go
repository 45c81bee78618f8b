package predict

import (
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"
)

// ErrFeatureCount is returned when a feature vector does not match the model.
var ErrFeatureCount = errors.New("feature count mismatch")

// Regressor maps a fixed-order feature vector to a scalar.
type Regressor interface {
	Predict(features []float64) (float64, error)
}

// RegressorFunc adapts a plain function to Regressor.
type RegressorFunc func(features []float64) (float64, error)

func (f RegressorFunc) Predict(features []float64) (float64, error) {
	return f(features)
}

// LinearModel is a trained linear regression exported as JSON:
//
//	{"name": "...", "features": ["income", ...], "coefficients": [...], "intercept": 0.0}
//
// The feature names record the training-time column order and must match the
// order callers build vectors in.
type LinearModel struct {
	Name         string    `json:"name"`
	Features     []string  `json:"features"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LoadLinearModel reads a model file and verifies its feature order equals want.
func LoadLinearModel(path string, want []string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading model file")
	}

	var m LinearModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing model %s", path)
	}
	if err := m.check(want); err != nil {
		return nil, errors.Wrapf(err, "model %s", path)
	}
	return &m, nil
}

func (m *LinearModel) check(want []string) error {
	if len(m.Coefficients) != len(m.Features) {
		return errors.Errorf("%d coefficients for %d features", len(m.Coefficients), len(m.Features))
	}
	if len(m.Features) != len(want) {
		return errors.Wrapf(ErrFeatureCount, "model has %v, expected %v", m.Features, want)
	}
	for i := range want {
		if m.Features[i] != want[i] {
			return errors.Errorf("feature %d is %q, expected %q", i, m.Features[i], want[i])
		}
	}
	if !finite(m.Intercept) {
		return errors.New("non-finite intercept")
	}
	for _, c := range m.Coefficients {
		if !finite(c) {
			return errors.New("non-finite coefficient")
		}
	}
	return nil
}

// Predict returns intercept + Σ coefficient·feature.
func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, errors.Wrapf(ErrFeatureCount, "%s takes %d features, got %d",
			m.Name, len(m.Coefficients), len(features))
	}

	y := m.Intercept
	for i, x := range features {
		y += m.Coefficients[i] * x
	}
	return y, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
