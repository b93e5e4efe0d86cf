package curvefit

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData is returned when there are not enough samples
// to fit a cubic polynomial (4 coefficients need at least 4 points).
var ErrInsufficientData = errors.New("insufficient data for regression fit")

// MinSamples is the minimum number of (x, y) pairs Fit accepts.
const MinSamples = 4

// Cubic is a least-squares cubic fit y = A*x^3 + B*x^2 + C*x + D,
// together with the coefficient of determination of the fit.
//
// The fit is computed over a normalized x axis and kept in that form
// internally, so Eval stays numerically stable for the x ranges we see
// in practice (pace in km/h, power in watts). A, B, C, D are the
// coefficients expanded back into the original x domain.
type Cubic struct {
	A, B, C, D float64
	R2         float64

	// normalized-domain coefficients, u = (x - xMean) / xScale
	a, b, c, d   float64
	xMean, xScale float64
}

// Fit computes the least-squares cubic polynomial over the given sample
// pairs. It returns ErrInsufficientData when fewer than MinSamples pairs
// are given and errors out on mismatched slice lengths or a degenerate
// (constant) x axis.
func Fit(xs, ys []float64) (*Cubic, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("mismatched sample lengths: %d x values, %d y values", len(xs), len(ys))
	}
	if len(xs) < MinSamples {
		return nil, fmt.Errorf("%w: need at least %d samples, got %d", ErrInsufficientData, MinSamples, len(xs))
	}

	n := len(xs)

	// condition the design matrix: center and scale x
	var xMean float64
	for _, x := range xs {
		xMean += x
	}
	xMean /= float64(n)

	var xScale float64
	for _, x := range xs {
		if d := math.Abs(x - xMean); d > xScale {
			xScale = d
		}
	}
	if xScale == 0 {
		return nil, errors.New("degenerate fit: all x values are equal")
	}

	us := make([]float64, n)
	for i, x := range xs {
		us[i] = (x - xMean) / xScale
	}

	// normal equations for cubic in u: M * coef = v,
	// M[i][j] = sum(u^(i+j)), v[i] = sum(y * u^i)
	var pow [7]float64
	var v [4]float64
	for i := 0; i < n; i++ {
		up := 1.0
		for p := 0; p <= 6; p++ {
			pow[p] += up
			if p <= 3 {
				v[p] += ys[i] * up
			}
			up *= us[i]
		}
	}

	var m [4][5]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r][c] = pow[r+c]
		}
		m[r][4] = v[r]
	}

	coef, err := solve(m)
	if err != nil {
		return nil, err
	}

	// coef holds [d, c, b, a] for y = a*u^3 + b*u^2 + c*u + d
	fit := &Cubic{
		d:      coef[0],
		c:      coef[1],
		b:      coef[2],
		a:      coef[3],
		xMean:  xMean,
		xScale: xScale,
	}
	fit.expand()
	fit.R2 = rSquared(fit, xs, ys)

	return fit, nil
}

// Eval evaluates the fitted polynomial at x, using the normalized form.
func (f *Cubic) Eval(x float64) float64 {
	u := (x - f.xMean) / f.xScale
	return ((f.a*u+f.b)*u+f.c)*u + f.d
}

// expand converts the normalized-domain coefficients into the original
// x domain, substituting u = (x - m) / s and collecting powers of x.
func (f *Cubic) expand() {
	m, s := f.xMean, f.xScale
	p := f.a / (s * s * s)
	q := f.b / (s * s)
	r := f.c / s

	f.A = p
	f.B = -3*p*m + q
	f.C = 3*p*m*m - 2*q*m + r
	f.D = -p*m*m*m + q*m*m - r*m + f.d
}

func rSquared(f *Cubic, xs, ys []float64) float64 {
	var yMean float64
	for _, y := range ys {
		yMean += y
	}
	yMean /= float64(len(ys))

	var ssRes, ssTot float64
	for i, x := range xs {
		res := ys[i] - f.Eval(x)
		ssRes += res * res
		tot := ys[i] - yMean
		ssTot += tot * tot
	}

	if ssTot == 0 {
		// flat series fitted exactly by the intercept
		return 1
	}

	r2 := 1 - ssRes/ssTot
	// guard against floating point noise pushing the value out of [0, 1]
	if r2 < 0 {
		return 0
	}
	if r2 > 1 {
		return 1
	}
	return r2
}

// solve runs Gaussian elimination with partial pivoting on a 4x5
// augmented matrix and returns the 4 solution values.
func solve(m [4][5]float64) ([4]float64, error) {
	var out [4]float64

	for col := 0; col < 4; col++ {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return out, errors.New("degenerate fit: singular normal equations")
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < 4; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c <= 4; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	for r := 3; r >= 0; r-- {
		sum := m[r][4]
		for c := r + 1; c < 4; c++ {
			sum -= m[r][c] * out[c]
		}
		out[r] = sum / m[r][r]
	}

	return out, nil
}
