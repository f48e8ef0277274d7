package regression

import (
	"fmt"

	"statkit/domain/core"

	"gonum.org/v1/gonum/mat"
)

// Model is a supervised model over row-major features
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
	// Score is R² for regressors and accuracy for classifiers
	Score(X [][]float64, y []float64) (float64, error)
}

var errNotFitted = fmt.Errorf("%w: model is not fitted", core.ErrNoResultAvailable)

// checkXY validates a feature matrix against its target and returns its shape
func checkXY(X [][]float64, y []float64) (n, p int, err error) {
	n = len(X)
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: no training rows", core.ErrEmptyInput)
	}
	if len(y) != n {
		return 0, 0, fmt.Errorf("%w: %d rows of features for %d targets", core.ErrLengthMismatch, n, len(y))
	}
	p, err = checkX(X, -1)
	return n, p, err
}

// checkX validates that every row has the same width (want, when >= 0)
func checkX(X [][]float64, want int) (int, error) {
	if len(X) == 0 {
		return 0, fmt.Errorf("%w: no rows", core.ErrEmptyInput)
	}
	p := len(X[0])
	if p == 0 {
		return 0, fmt.Errorf("%w: rows have no features", core.ErrEmptyInput)
	}
	if want >= 0 && p != want {
		return 0, fmt.Errorf("%w: expected %d features, got %d", core.ErrLengthMismatch, want, p)
	}
	for i, row := range X {
		if len(row) != p {
			return 0, fmt.Errorf("%w: row %d has %d features, expected %d", core.ErrLengthMismatch, i, len(row), p)
		}
	}
	return p, nil
}

// designMatrix prepends a column of ones to X
func designMatrix(X [][]float64) *mat.Dense {
	n, p := len(X), len(X[0])
	A := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		A.Set(i, 0, 1)
		for j, v := range row {
			A.Set(i, j+1, v)
		}
	}
	return A
}

// LinearRegression is ordinary least squares with an intercept
type LinearRegression struct {
	coef      []float64
	intercept float64
	residuals []float64
}

// NewLinearRegression creates an unfitted model
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit solves min ||y - b0 - Xb||² by QR decomposition
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	n, p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	if n < p+1 {
		return core.NewInsufficientDataError("least squares rows", p+1, n)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(designMatrix(X), mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		return fmt.Errorf("%w: least squares: %v", core.ErrDegenerateData, err)
	}

	m.intercept = beta.AtVec(0)
	m.coef = make([]float64, p)
	for j := range m.coef {
		m.coef[j] = beta.AtVec(j + 1)
	}

	fitted, _ := m.Predict(X)
	m.residuals = make([]float64, n)
	for i := range y {
		m.residuals[i] = y[i] - fitted[i]
	}
	return nil
}

// Predict evaluates the fitted hyperplane
func (m *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if m.coef == nil {
		return nil, errNotFitted
	}
	if _, err := checkX(X, len(m.coef)); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		v := m.intercept
		for j, x := range row {
			v += m.coef[j] * x
		}
		out[i] = v
	}
	return out, nil
}

// Score returns R² on (X, y)
func (m *LinearRegression) Score(X [][]float64, y []float64) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(pred) != len(y) {
		return 0, fmt.Errorf("%w: %d predictions for %d targets", core.ErrLengthMismatch, len(pred), len(y))
	}
	return R2(y, pred), nil
}

// Coefficients returns the slope of each feature
func (m *LinearRegression) Coefficients() []float64 {
	return append([]float64(nil), m.coef...)
}

// Intercept returns the fitted constant term
func (m *LinearRegression) Intercept() float64 {
	return m.intercept
}

// Residuals returns y - ŷ over the training data
func (m *LinearRegression) Residuals() []float64 {
	return append([]float64(nil), m.residuals...)
}

// PolynomialRegression fits OLS on every monomial of total degree 1..Degree
type PolynomialRegression struct {
	Degree   int
	features int
	linear   *LinearRegression
}

// NewPolynomialRegression creates an unfitted model of the given degree
func NewPolynomialRegression(degree int) *PolynomialRegression {
	return &PolynomialRegression{Degree: degree}
}

// Fit expands X into polynomial features and fits them linearly
func (m *PolynomialRegression) Fit(X [][]float64, y []float64) error {
	if m.Degree < 1 {
		return core.NewInvalidParameterError("degree", m.Degree, ">= 1")
	}
	_, p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	linear := NewLinearRegression()
	if err := linear.Fit(expand(X, m.Degree), y); err != nil {
		return err
	}
	m.features = p
	m.linear = linear
	return nil
}

// Predict evaluates the fitted polynomial
func (m *PolynomialRegression) Predict(X [][]float64) ([]float64, error) {
	if m.linear == nil {
		return nil, errNotFitted
	}
	if _, err := checkX(X, m.features); err != nil {
		return nil, err
	}
	return m.linear.Predict(expand(X, m.Degree))
}

// Score returns R² on (X, y)
func (m *PolynomialRegression) Score(X [][]float64, y []float64) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(pred) != len(y) {
		return 0, fmt.Errorf("%w: %d predictions for %d targets", core.ErrLengthMismatch, len(pred), len(y))
	}
	return R2(y, pred), nil
}

// Coefficients returns one coefficient per expanded feature, in Terms order
func (m *PolynomialRegression) Coefficients() []float64 {
	if m.linear == nil {
		return nil
	}
	return m.linear.Coefficients()
}

// Intercept returns the fitted constant term
func (m *PolynomialRegression) Intercept() float64 {
	if m.linear == nil {
		return 0
	}
	return m.linear.Intercept()
}

// Residuals returns y - ŷ over the training data
func (m *PolynomialRegression) Residuals() []float64 {
	if m.linear == nil {
		return nil
	}
	return m.linear.Residuals()
}

// Terms names the expanded features, e.g. "x", "x^2", "x z"
func (m *PolynomialRegression) Terms(names []string) []string {
	out := make([]string, 0)
	for _, combo := range monomials(len(names), m.Degree) {
		out = append(out, monomialName(combo, names))
	}
	return out
}
