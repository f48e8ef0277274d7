package regression

import (
	"fmt"
	"math"

	"statkit/domain/core"

	"gonum.org/v1/gonum/mat"
)

// LogisticRegression is a binary classifier with L2 penalty 1/(2C)·||w||² on
// the feature weights (the intercept is not penalized), fitted by Newton's
// method (iteratively reweighted least squares).
type LogisticRegression struct {
	C       float64
	MaxIter int
	Tol     float64

	coef      []float64
	intercept float64
	iters     int
}

// NewLogisticRegression returns a model with C=1, 100 iterations and tolerance 1e-6
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{C: 1, MaxIter: 100, Tol: 1e-6}
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// Fit estimates the weights. y must only hold 0 and 1 and both classes must
// be present.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	n, p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	if m.C <= 0 {
		return core.NewInvalidParameterError("C", m.C, "> 0")
	}
	positives := 0
	for i, v := range y {
		switch v {
		case 1:
			positives++
		case 0:
		default:
			return fmt.Errorf("%w: target %d is %v, expected 0 or 1", core.ErrTypeMismatch, i, v)
		}
	}
	if positives == 0 || positives == n {
		return fmt.Errorf("%w: target has a single class", core.ErrDegenerateData)
	}

	maxIter := m.MaxIter
	if maxIter <= 0 {
		maxIter = 100
	}
	lambda := 1 / m.C
	A := designMatrix(X)
	beta := mat.NewVecDense(p+1, nil)

	var eta, grad, step mat.VecDense
	var hess mat.Dense
	weighted := mat.NewDense(n, p+1, nil)
	resid := mat.NewVecDense(n, nil)

	iter := 0
	for iter = 1; iter <= maxIter; iter++ {
		eta.MulVec(A, beta)
		for i := 0; i < n; i++ {
			prob := sigmoid(eta.AtVec(i))
			resid.SetVec(i, prob-y[i])
			w := prob * (1 - prob)
			for j := 0; j <= p; j++ {
				weighted.Set(i, j, w*A.At(i, j))
			}
		}

		// gradient X'(p - y) + λw, Hessian X'WX + λI (intercept unpenalized)
		grad.MulVec(A.T(), resid)
		hess.Mul(A.T(), weighted)
		for j := 1; j <= p; j++ {
			grad.SetVec(j, grad.AtVec(j)+lambda*beta.AtVec(j))
			hess.Set(j, j, hess.At(j, j)+lambda)
		}

		if err := step.SolveVec(&hess, &grad); err != nil {
			return fmt.Errorf("%w: Newton step: %v", core.ErrDegenerateData, err)
		}
		beta.SubVec(beta, &step)

		if mat.Norm(&step, math.Inf(1)) < m.Tol {
			break
		}
	}

	m.iters = min(iter, maxIter)
	m.intercept = beta.AtVec(0)
	m.coef = make([]float64, p)
	for j := range m.coef {
		m.coef[j] = beta.AtVec(j + 1)
	}
	return nil
}

func (m *LogisticRegression) positiveProba(X [][]float64) ([]float64, error) {
	if m.coef == nil {
		return nil, errNotFitted
	}
	if _, err := checkX(X, len(m.coef)); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		z := m.intercept
		for j, x := range row {
			z += m.coef[j] * x
		}
		out[i] = sigmoid(z)
	}
	return out, nil
}

// PredictProba returns [P(y=0), P(y=1)] per row
func (m *LogisticRegression) PredictProba(X [][]float64) ([][2]float64, error) {
	probs, err := m.positiveProba(X)
	if err != nil {
		return nil, err
	}
	out := make([][2]float64, len(probs))
	for i, p := range probs {
		out[i] = [2]float64{1 - p, p}
	}
	return out, nil
}

// Predict returns the class (0 or 1) with the larger probability
func (m *LogisticRegression) Predict(X [][]float64) ([]float64, error) {
	probs, err := m.positiveProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(probs))
	for i, p := range probs {
		if p > 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// Score returns the accuracy on (X, y)
func (m *LogisticRegression) Score(X [][]float64, y []float64) (float64, error) {
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	return Accuracy(y, pred)
}

// Coefficients returns the weight of each feature
func (m *LogisticRegression) Coefficients() []float64 {
	return append([]float64(nil), m.coef...)
}

// Intercept returns the fitted bias
func (m *LogisticRegression) Intercept() float64 {
	return m.intercept
}

// Iterations returns how many Newton steps the last Fit took
func (m *LogisticRegression) Iterations() int {
	return m.iters
}
