package geometry

import (
	"gonum.org/v1/gonum/mat"
)

// denominatorEpsilon guards the homogeneous divide against near-zero
// denominators, as required by spec §3 ("transform_point computes
// homogeneous division with a tiny denominator guard").
const denominatorEpsilon = 1e-9

// HomographyMatrix is an immutable 3x3 projective transform from pixel-space
// keypoints to canonical pitch coordinates.
type HomographyMatrix struct {
	m *mat.Dense // 3x3, never mutated after construction
}

// NewHomography builds a HomographyMatrix from 9 row-major entries.
func NewHomography(entries [9]float64) HomographyMatrix {
	d := mat.NewDense(3, 3, entries[:])
	return HomographyMatrix{m: d}
}

// EstimateHomography solves for the homography mapping pixel keypoints to
// pitch keypoints using the direct linear transform (DLT) method. Requires
// at least 4 non-degenerate correspondences, matching spec §6's calibration
// payload ("≥4 keypoints required").
func EstimateHomography(pixel, pitch []Point) (HomographyMatrix, error) {
	n := len(pixel)
	if n != len(pitch) {
		return HomographyMatrix{}, errMismatchedPoints
	}
	if n < 4 {
		return HomographyMatrix{}, errNotEnoughPoints
	}

	// Build the 2n x 8 design matrix for the DLT homogeneous system,
	// solving h33 = 1 by convention (standard for non-degenerate point sets).
	a := mat.NewDense(2*n, 8, nil)
	b := mat.NewVecDense(2*n, nil)
	for i := 0; i < n; i++ {
		px, py := pixel[i].X, pixel[i].Y
		wx, wy := pitch[i].X, pitch[i].Y

		a.SetRow(2*i, []float64{px, py, 1, 0, 0, 0, -px * wx, -py * wx})
		b.SetVec(2*i, wx)

		a.SetRow(2*i+1, []float64{0, 0, 0, px, py, 1, -px * wy, -py * wy})
		b.SetVec(2*i+1, wy)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return HomographyMatrix{}, errDegenerateSystem
	}

	entries := [9]float64{
		h.AtVec(0), h.AtVec(1), h.AtVec(2),
		h.AtVec(3), h.AtVec(4), h.AtVec(5),
		h.AtVec(6), h.AtVec(7), 1,
	}
	return NewHomography(entries), nil
}

// TransformPoint applies the homography to a pixel-space point, returning
// the corresponding canonical pitch point via homogeneous division.
func (h HomographyMatrix) TransformPoint(px, py float64) Point {
	v := mat.NewVecDense(3, []float64{px, py, 1})
	var out mat.VecDense
	out.MulVec(h.m, v)

	w := out.AtVec(2)
	if w >= 0 && w < denominatorEpsilon {
		w = denominatorEpsilon
	} else if w < 0 && w > -denominatorEpsilon {
		w = -denominatorEpsilon
	}
	return Point{X: out.AtVec(0) / w, Y: out.AtVec(1) / w}
}

// Entries returns the 9 row-major entries of the matrix.
func (h HomographyMatrix) Entries() [9]float64 {
	var out [9]float64
	for i := 0; i < 9; i++ {
		out[i] = h.m.At(i/3, i%3)
	}
	return out
}

var (
	errMismatchedPoints = newGeomErr("pixel and pitch point slices must be the same length")
	errNotEnoughPoints  = newGeomErr("at least 4 point correspondences are required")
	errDegenerateSystem = newGeomErr("homography system is degenerate (collinear or duplicate points)")
)

type geomErr string

func (e geomErr) Error() string { return string(e) }

func newGeomErr(msg string) error { return geomErr(msg) }
