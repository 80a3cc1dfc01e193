package ml

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is an affine model: y = Weights·x + Intercept.
type LinearModel struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// FitLinear fits ordinary least squares with an intercept.
//
// Columns are centered and the weights are the minimum-norm solution of the
// centered system, so constant or collinear features (one region, one
// customer) do not make the fit fail.
func FitLinear(x [][]float64, y []float64) (*LinearModel, error) {
	m := len(x)
	if m == 0 {
		return nil, ErrInsufficientData
	}
	if len(y) != m {
		return nil, fmt.Errorf("feature rows %d != targets %d", m, len(y))
	}
	n := len(x[0])
	if n == 0 {
		return nil, errors.New("no features")
	}

	xMean := make([]float64, n)
	var yMean float64
	for i, row := range x {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), n)
		}
		for j, v := range row {
			xMean[j] += v
		}
		yMean += y[i]
	}
	for j := range xMean {
		xMean[j] /= float64(m)
	}
	yMean /= float64(m)

	a := mat.NewDense(m, n, nil)
	b := mat.NewVecDense(m, nil)
	for i, row := range x {
		for j, v := range row {
			a.Set(i, j, v-xMean[j])
		}
		b.SetVec(i, y[i]-yMean)
	}

	weights := make([]float64, n)

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, errors.New("svd factorization failed")
	}

	rcond := math.Nextafter(1, 2) - 1
	rcond *= float64(max(m, n))
	if rank := svd.Rank(rcond); rank > 0 {
		var w mat.VecDense
		svd.SolveVecTo(&w, b, rank)
		for j := range weights {
			weights[j] = w.AtVec(j)
		}
	}

	intercept := yMean
	for j, w := range weights {
		intercept -= w * xMean[j]
	}

	model := &LinearModel{Weights: weights, Intercept: intercept}
	if err := model.validate(n); err != nil {
		return nil, err
	}
	return model, nil
}

// Predict applies the model. Features must have len(Weights) entries.
func (lm *LinearModel) Predict(features []float64) float64 {
	y := lm.Intercept
	for i, w := range lm.Weights {
		y += w * features[i]
	}
	return y
}

func (lm *LinearModel) validate(features int) error {
	if len(lm.Weights) != features {
		return fmt.Errorf("%w: model has %d weights, want %d", ErrInvalidBundle, len(lm.Weights), features)
	}
	for _, w := range append([]float64{lm.Intercept}, lm.Weights...) {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: non-finite model coefficient", ErrInvalidBundle)
		}
	}
	return nil
}
