package themes

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestFactorizeShapesAndNonNegativity(t *testing.T) {
	v := mat.NewDense(4, 6, []float64{
		1, 0, 2, 0, 1, 0,
		0, 3, 0, 1, 0, 2,
		2, 0, 1, 0, 2, 0,
		0, 1, 0, 3, 0, 1,
	})

	w, h, err := factorize(v, 2, 42, 400)
	if err != nil {
		t.Fatalf("factorize: %v", err)
	}

	if r, c := w.Dims(); r != 4 || c != 2 {
		t.Errorf("w dims = %dx%d, want 4x2", r, c)
	}
	if r, c := h.Dims(); r != 2 || c != 6 {
		t.Errorf("h dims = %dx%d, want 2x6", r, c)
	}

	for _, m := range []*mat.Dense{w, h} {
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if x := m.At(i, j); x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
					t.Fatalf("factor entry (%d,%d) = %v, want finite non-negative", i, j, x)
				}
			}
		}
	}
}

func TestFactorizeDeterministic(t *testing.T) {
	v := mat.NewDense(3, 5, []float64{
		1, 2, 0, 1, 0,
		0, 1, 3, 0, 2,
		2, 0, 1, 1, 1,
	})

	w1, h1, err := factorize(v, 2, 42, 400)
	if err != nil {
		t.Fatalf("first factorize: %v", err)
	}
	w2, h2, err := factorize(v, 2, 42, 400)
	if err != nil {
		t.Fatalf("second factorize: %v", err)
	}

	if !mat.Equal(w1, w2) || !mat.Equal(h1, h2) {
		t.Error("same input and seed produced different factors")
	}
}

func TestFactorizeApproximatesLowRank(t *testing.T) {
	// v is an exact product of two non-negative rank-2 factors, so a
	// k=2 factorization can reconstruct it closely.
	a := mat.NewDense(5, 2, []float64{
		1, 0,
		0, 2,
		2, 1,
		1, 1,
		0, 3,
	})
	b := mat.NewDense(2, 7, []float64{
		1, 0, 2, 1, 0, 1, 0,
		0, 2, 1, 0, 1, 0, 2,
	})
	var v mat.Dense
	v.Mul(a, b)

	w, h, err := factorize(&v, 2, 42, 400)
	if err != nil {
		t.Fatalf("factorize: %v", err)
	}

	rel := objective(&v, w, h) / mat.Norm(&v, 2)
	if rel > 0.15 {
		t.Errorf("relative reconstruction error = %v, want <= 0.15", rel)
	}
}

func TestFactorizeMoreThemesThanDocuments(t *testing.T) {
	// A corpus smaller than the theme count still factorizes; the
	// extra themes are simply weak.
	v := mat.NewDense(2, 3, []float64{
		1, 2, 1,
		2, 1, 3,
	})

	w, h, err := factorize(v, 5, 42, 400)
	if err != nil {
		t.Fatalf("factorize: %v", err)
	}
	if r, c := w.Dims(); r != 2 || c != 5 {
		t.Errorf("w dims = %dx%d, want 2x5", r, c)
	}
	if r, c := h.Dims(); r != 5 || c != 3 {
		t.Errorf("h dims = %dx%d, want 5x3", r, c)
	}
}

func TestFactorizeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		v    *mat.Dense
		k    int
	}{
		{"empty matrix", new(mat.Dense), 2},
		{"zero theme count", mat.NewDense(2, 2, []float64{1, 0, 0, 1}), 0},
		{"all-zero matrix", mat.NewDense(2, 2, nil), 2},
		{"negative entry", mat.NewDense(2, 2, []float64{1, -1, 0, 1}), 2},
		{"NaN entry", mat.NewDense(2, 2, []float64{1, math.NaN(), 0, 1}), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := factorize(tt.v, tt.k, 42, 400)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if w != nil || h != nil {
				t.Error("factors should be nil on error")
			}
		})
	}
}
