// Package regression fits linear, polynomial and logistic models and
// reports their coefficients and goodness of fit.
package regression

import (
	"fmt"

	"statkit/domain/core"
	"statkit/domain/dataset"
	"statkit/domain/stats"
	"statkit/internal/validation"
)

// DefaultDegree is the polynomial degree used when a request leaves it unset
const DefaultDegree = 2

// Method is the model family to fit
type Method string

const (
	MethodLinear     Method = "lineaire"
	MethodPolynomial Method = "polynomiale"
	MethodLogistic   Method = "logistique"
)

// ParseMethod maps a method identifier onto a Method
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodLinear, MethodPolynomial, MethodLogistic:
		return m, nil
	default:
		return "", core.NewUnsupportedMethodError("regression", s)
	}
}

// Request configures a regression of YCol on XCols. Degree is only read by
// the polynomial method.
type Request struct {
	Method Method
	XCols  []string
	YCol   string
	Degree int
}

// Analyze fits the requested model on the whole table and summarizes the
// in-sample fit.
func Analyze(data any, req Request) (*stats.Result, error) {
	if _, err := ParseMethod(string(req.Method)); err != nil {
		return nil, err
	}
	if len(req.XCols) == 0 {
		return nil, core.NewInvalidParameterError("x_cols", req.XCols, "non-empty")
	}
	degree := req.Degree
	if req.Method == MethodPolynomial {
		if degree == 0 {
			degree = DefaultDegree
		}
		if degree < 1 {
			return nil, core.NewInvalidParameterError("degree", req.Degree, ">= 1")
		}
	}

	columns := append(append([]string(nil), req.XCols...), req.YCol)
	table, err := validation.Validate(data, validation.Shape{
		Columns:   columns,
		MinLength: 2,
		Numeric:   true,
		Complete:  true,
	})
	if err != nil {
		return nil, err
	}
	X, y, err := matrix(table, req.XCols, req.YCol)
	if err != nil {
		return nil, err
	}

	switch req.Method {
	case MethodLinear:
		m := NewLinearRegression()
		if err := m.Fit(X, y); err != nil {
			return nil, fmt.Errorf("linear regression: %w", err)
		}
		b := stats.NewBuilder(stats.KindLinearRegression).Terms(req.XCols)
		return fitSummary(b, m, X, y, m.Coefficients(), m.Intercept()).Build(), nil

	case MethodPolynomial:
		m := NewPolynomialRegression(degree)
		if err := m.Fit(X, y); err != nil {
			return nil, fmt.Errorf("polynomial regression: %w", err)
		}
		b := stats.NewBuilder(stats.KindPolynomialRegression).
			Terms(m.Terms(req.XCols)).
			Metric(stats.KeyDegree, float64(degree))
		return fitSummary(b, m, X, y, m.Coefficients(), m.Intercept()).Build(), nil

	default:
		m := NewLogisticRegression()
		if err := m.Fit(X, y); err != nil {
			return nil, fmt.Errorf("logistic regression: %w", err)
		}
		accuracy, err := m.Score(X, y)
		if err != nil {
			return nil, err
		}
		return stats.NewBuilder(stats.KindLogisticRegression).
			Terms(req.XCols).
			Metric(stats.KeyAccuracy, accuracy).
			Metric(stats.KeyIntercept, m.Intercept()).
			Metric(stats.KeyObservations, float64(len(y))).
			Vector(stats.KeyCoefficients, m.Coefficients()).
			Build(), nil
	}
}

func fitSummary(b *stats.Builder, m Model, X [][]float64, y []float64, coef []float64, intercept float64) *stats.Builder {
	pred, _ := m.Predict(X)
	r2 := R2(y, pred)
	return b.
		Metric(stats.KeyR2, r2).
		Metric(stats.KeyAdjustedR2, AdjustedR2(r2, len(y), len(coef))).
		Metric(stats.KeyMSE, MSE(y, pred)).
		Metric(stats.KeyRMSE, RMSE(y, pred)).
		Metric(stats.KeyMAE, MAE(y, pred)).
		Metric(stats.KeyIntercept, intercept).
		Metric(stats.KeyObservations, float64(len(y))).
		Vector(stats.KeyCoefficients, coef)
}

// matrix extracts row-major features and the target from a validated table
func matrix(table *dataset.Table, xCols []string, yCol string) ([][]float64, []float64, error) {
	y, err := table.Numbers(yCol)
	if err != nil {
		return nil, nil, err
	}
	X := make([][]float64, table.Len())
	for i := range X {
		X[i] = make([]float64, len(xCols))
	}
	for j, name := range xCols {
		col, err := table.Numbers(name)
		if err != nil {
			return nil, nil, err
		}
		for i, v := range col {
			X[i][j] = v
		}
	}
	return X, y, nil
}
