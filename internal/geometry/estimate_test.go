package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitTriangle is the canonical query set used by the literal fit cases.
var unitTriangle = PointSet{{0, 0}, {1, 0}, {0, 1}}

func TestEstimateAffineLiteralCases(t *testing.T) {
	tests := []struct {
		name        string
		query       PointSet
		reference   PointSet
		wantLinear  [2][2]float64
		wantTx      float64
		wantTy      float64
	}{
		{
			name:       "scale",
			query:      unitTriangle,
			reference:  PointSet{{0, 0}, {2, 0}, {0, 2}},
			wantLinear: [2][2]float64{{2, 0}, {0, 2}},
		},
		{
			name:       "translation",
			query:      unitTriangle,
			reference:  PointSet{{1, 1}, {2, 1}, {1, 2}},
			wantLinear: [2][2]float64{{1, 0}, {0, 1}},
			wantTx:     1,
			wantTy:     1,
		},
		{
			name:       "rotation",
			query:      unitTriangle,
			reference:  PointSet{{0, 0}, {0, -1}, {1, 0}},
			wantLinear: [2][2]float64{{0, -1}, {1, 0}},
		},
		{
			name:       "rotate scale translate",
			query:      unitTriangle,
			reference:  PointSet{{1, 1}, {1, 3}, {-1, 1}},
			wantLinear: [2][2]float64{{0, 2}, {-2, 0}},
			wantTx:     1,
			wantTy:     1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Estimate(tc.query, tc.reference, KindAffine, 3)
			require.NoError(t, err)

			lin := m.Linear()
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					assert.InDelta(t, tc.wantLinear[i][j], lin[i][j], 1e-3,
						"linear[%d][%d]", i, j)
				}
			}
			tx, ty := m.TranslationPart()
			assert.InDelta(t, tc.wantTx, tx, 1e-3)
			assert.InDelta(t, tc.wantTy, ty, 1e-3)

			// Homogeneous form invariant: last column is (0, 0, 1).
			assert.Equal(t, 0.0, m[0][2])
			assert.Equal(t, 0.0, m[1][2])
			assert.Equal(t, 1.0, m[2][2])
		})
	}
}

func TestEstimateZeroResidualForExactSystem(t *testing.T) {
	// Three non-collinear pairs are an exactly-determined affine system:
	// estimate followed by apply must reproduce the reference points.
	query := PointSet{{12.5, -3}, {40, 7.25}, {-9, 31}}
	reference := PointSet{{103, 55}, {-20.5, 80}, {71, -14.75}}

	m, err := Estimate(query, reference, KindAffine, NoRounding)
	require.NoError(t, err)

	got := m.ApplyPointSet(query)
	for i := range reference {
		assert.InDelta(t, reference[i].X, got[i].X, 1e-9)
		assert.InDelta(t, reference[i].Y, got[i].Y, 1e-9)
	}

	rms, err := Residual(m, query, reference)
	require.NoError(t, err)
	assert.Less(t, rms, 1e-9)
}

func TestEstimateOverdeterminedBestFit(t *testing.T) {
	// Five pairs related by an exact transform plus one outlier-free noise
	// pattern: the least-squares solution recovers the generating matrix.
	gen := Translation(4, -2).Then(Scaling(1.5, 1.5))
	query := PointSet{{0, 0}, {10, 0}, {0, 10}, {10, 10}, {5, 5}}
	reference := gen.ApplyPointSet(query)

	m, err := Estimate(query, reference, KindAffine, NoRounding)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, gen[i][j], m[i][j], 1e-9)
		}
	}
}

func TestEstimateSimilarity(t *testing.T) {
	t.Run("rotation and scale recovered", func(t *testing.T) {
		theta := math.Pi / 6
		s := 2.5
		gen := Affine{
			{s * math.Cos(theta), s * math.Sin(theta), 0},
			{-s * math.Sin(theta), s * math.Cos(theta), 0},
			{7, -3, 1},
		}
		query := PointSet{{0, 0}, {4, 1}, {-2, 3}, {1, -5}}
		reference := gen.ApplyPointSet(query)

		m, err := Estimate(query, reference, KindSimilarity, NoRounding)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				assert.InDelta(t, gen[i][j], m[i][j], 1e-9)
			}
		}
	})

	t.Run("no shear leaks into the fit", func(t *testing.T) {
		// Reference generated with anisotropic scale; the similarity fit
		// must still return an orthogonal-times-scale linear block.
		query := PointSet{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
		reference := Scaling(3, 1).ApplyPointSet(query)

		m, err := Estimate(query, reference, KindSimilarity, NoRounding)
		require.NoError(t, err)
		lin := m.Linear()
		assert.InDelta(t, lin[0][0], lin[1][1], 1e-12)
		assert.InDelta(t, lin[0][1], -lin[1][0], 1e-12)
	})

	t.Run("coincident points rejected", func(t *testing.T) {
		query := PointSet{{2, 2}, {2, 2}, {2, 2}}
		reference := PointSet{{0, 0}, {1, 0}, {0, 1}}
		_, err := Estimate(query, reference, KindSimilarity, NoRounding)
		assert.ErrorIs(t, err, ErrDegeneratePoints)
	})
}

func TestEstimatePreconditions(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		_, err := Estimate(unitTriangle, PointSet{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, KindAffine, NoRounding)
		assert.ErrorIs(t, err, ErrPointCountMismatch)
	})

	t.Run("two points insufficient", func(t *testing.T) {
		_, err := Estimate(PointSet{{0, 0}, {1, 0}}, PointSet{{0, 0}, {2, 0}}, KindAffine, NoRounding)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})

	t.Run("three points succeed", func(t *testing.T) {
		_, err := Estimate(unitTriangle, PointSet{{0, 0}, {2, 0}, {0, 2}}, KindAffine, NoRounding)
		assert.NoError(t, err)
	})

	t.Run("similarity has the same floor", func(t *testing.T) {
		_, err := Estimate(PointSet{{0, 0}, {1, 0}}, PointSet{{0, 0}, {2, 0}}, KindSimilarity, NoRounding)
		assert.ErrorIs(t, err, ErrInsufficientPoints)
	})
}

func TestEstimatePrecisionRounding(t *testing.T) {
	query := PointSet{{0, 0}, {3, 0}, {0, 3}}
	reference := PointSet{{0, 0}, {1, 0}, {0, 1}}

	m, err := Estimate(query, reference, KindAffine, 2)
	require.NoError(t, err)
	// 1/3 rounds to 0.33 at two digits.
	assert.Equal(t, 0.33, m[0][0])
	assert.Equal(t, 0.33, m[1][1])

	raw, err := Estimate(query, reference, KindAffine, NoRounding)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, raw[0][0], 1e-12)
}

func TestPointSetFromRows(t *testing.T) {
	ps, err := PointSetFromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, PointSet{{1, 2}, {3, 4}}, ps)

	_, err = PointSetFromRows([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrNotTwoDimensional)

	_, err = PointSetFromRows([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotTwoDimensional)
}
