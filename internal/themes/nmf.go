// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package themes

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const (
	nmfTolerance = 1e-4
	nmfEpsilon   = 1e-9
)

// factorize decomposes the non-negative matrix v (documents x terms) into
// w (documents x k) and h (k x terms), both entrywise non-negative, using
// multiplicative updates on the Frobenius objective. Initialization is
// drawn from a generator seeded with seed, so identical inputs produce
// identical factors (R3.2). Iteration stops at maxIter or when the
// objective improvement since the last check drops below nmfTolerance
// relative to the starting objective.
func factorize(v *mat.Dense, k int, seed int64, maxIter int) (w, h *mat.Dense, err error) {
	n, m := v.Dims()
	if n == 0 || m == 0 {
		return nil, nil, errors.New("empty weight matrix")
	}
	if k <= 0 {
		return nil, nil, errors.New("theme count must be positive")
	}

	var total float64
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			x := v.At(i, j)
			if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, nil, errors.New("weight matrix has negative or non-finite entries")
			}
			total += x
		}
	}
	if total == 0 {
		return nil, nil, errors.New("weight matrix is all zeros")
	}

	// Scale the random init so w*h starts near the magnitude of v.
	scale := math.Sqrt(total / float64(n*m) / float64(k))
	rng := rand.New(rand.NewSource(seed))
	w = randomMatrix(rng, n, k, scale)
	h = randomMatrix(rng, k, m, scale)

	initialObj := objective(v, w, h)
	if initialObj == 0 {
		return w, h, nil
	}
	prevObj := initialObj

	var wtv, wtw, hDen, vht, hht, wDen mat.Dense
	for iter := 0; iter < maxIter; iter++ {
		// h <- h * (wT v) / (wT w h)
		wtv.Mul(w.T(), v)
		wtw.Mul(w.T(), w)
		hDen.Mul(&wtw, h)
		updateFactor(h, &wtv, &hDen)

		// w <- w * (v hT) / (w h hT)
		vht.Mul(v, h.T())
		hht.Mul(h, h.T())
		wDen.Mul(w, &hht)
		updateFactor(w, &vht, &wDen)

		if (iter+1)%10 == 0 {
			obj := objective(v, w, h)
			if math.IsNaN(obj) || math.IsInf(obj, 0) {
				return nil, nil, errors.New("factorization diverged")
			}
			if (prevObj-obj)/initialObj < nmfTolerance {
				break
			}
			prevObj = obj
		}
	}

	return w, h, nil
}

func randomMatrix(rng *rand.Rand, r, c int, scale float64) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.Float64() * scale
	}
	return mat.NewDense(r, c, data)
}

// updateFactor applies f <- f * num / (den + epsilon) elementwise. The
// epsilon keeps zero denominators from producing NaN.
func updateFactor(f, num, den *mat.Dense) {
	den.Apply(func(_, _ int, x float64) float64 { return x + nmfEpsilon }, den)
	f.MulElem(f, num)
	f.DivElem(f, den)
}

// objective is the Frobenius distance between v and w*h.
func objective(v, w, h *mat.Dense) float64 {
	var wh mat.Dense
	wh.Mul(w, h)
	wh.Sub(v, &wh)
	return mat.Norm(&wh, 2)
}
