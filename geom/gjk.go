package geom

import (
	"math"

	"github.com/spatialq/spatialq/vect"
)

// SupportContext evaluates world space support points of two placed shape
// cores.
type SupportContext struct {
	shape1, shape2 Shape
	pos1, pos2     vect.Isometry
}

func NewSupportContext(pos1 vect.Isometry, shape1 Shape, pos2 vect.Isometry, shape2 Shape) *SupportContext {
	return &SupportContext{shape1, shape2, pos1, pos2}
}

func supportPoint(shape Shape, pos vect.Isometry, n vect.Vector) vect.Vector {
	return pos.Point(shape.LocalSupportPoint(pos.InverseVect(n)))
}

// Support calculates the maximal point on the minkowski difference of the
// two cores along n.
func (ctx *SupportContext) Support(n vect.Vector) MinkowskiPoint {
	a := supportPoint(ctx.shape1, ctx.pos1, n.Neg())
	b := supportPoint(ctx.shape2, ctx.pos2, n)
	return MinkowskiPoint{a, b, b.Sub(a)}
}

// MinkowskiPoint is a point on the surface of the two cores' minkowski
// difference.
type MinkowskiPoint struct {
	// Cache the two original support points.
	a, b vect.Vector
	// b - a
	ab vect.Vector
}

// CoreDistance is the result of GJK between two shape cores.
type CoreDistance struct {
	// Closest points on the cores, world space.
	A, B vect.Vector
	// Unit direction from A to B; zero when the cores overlap.
	N vect.Vector
	// Distance between the cores.
	D float64

	Iterations int
}

// GJK computes the distance between the cores of the two shapes of ctx.
func GJK(ctx *SupportContext, tol Tolerances) CoreDistance {
	tol = tol.orDefault()

	dir := ctx.pos2.Translation.Sub(ctx.pos1.Translation)
	if dir.IsZero() {
		dir = vect.Axis(0)
	}
	simplex := []MinkowskiPoint{ctx.Support(dir.Neg())}
	lambdas := []float64{1}
	v := simplex[0].ab

	var iter int
	for iter = 0; iter < tol.MaxIterations; iter++ {
		vv := v.LengthSq()
		if vv <= tol.Epsilon*tol.Epsilon {
			break
		}

		p := ctx.Support(v.Neg())
		if vv-v.Dot(p.ab) <= gjkRelativeTolerance*vv {
			break
		}
		if simplexContains(simplex, p) {
			break
		}

		simplex = append(simplex, p)
		var next vect.Vector
		next, simplex, lambdas = closestOnSimplex(simplex)
		if len(simplex) == vect.Dim+1 || next.LengthSq() >= vv {
			v = next
			break
		}
		v = next
	}

	var a, b vect.Vector
	for i, s := range simplex {
		a = a.Add(s.a.Mult(lambdas[i]))
		b = b.Add(s.b.Mult(lambdas[i]))
	}

	d := v.Length()
	if d <= tol.Epsilon || len(simplex) == vect.Dim+1 {
		return CoreDistance{A: a, B: b, D: 0, Iterations: iter}
	}
	return CoreDistance{A: a, B: b, N: v.Mult(1 / d), D: d, Iterations: iter}
}

const gjkRelativeTolerance = 1e-12

func simplexContains(simplex []MinkowskiPoint, p MinkowskiPoint) bool {
	for _, s := range simplex {
		if s.ab.DistanceSq(p.ab) <= 1e-24 {
			return true
		}
	}
	return false
}

// closestOnSimplex returns the point of the simplex's convex hull closest
// to the origin, the smallest sub-simplex containing it, and its
// barycentric coordinates on that sub-simplex.
//
// Every face is tried: the closest point lies in the relative interior of
// exactly one face, where the affine minimizer has positive coordinates.
func closestOnSimplex(simplex []MinkowskiPoint) (vect.Vector, []MinkowskiPoint, []float64) {
	n := len(simplex)
	best := vect.Infinity
	var bestPoint vect.Vector
	var bestIdx []int
	var bestLambdas []float64

	for mask := 1; mask < 1<<n; mask++ {
		idx := make([]int, 0, n)
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				idx = append(idx, i)
			}
		}

		lambdas, ok := affineMinimizer(simplex, idx)
		if !ok {
			continue
		}
		var p vect.Vector
		for j, i := range idx {
			p = p.Add(simplex[i].ab.Mult(lambdas[j]))
		}
		if d := p.LengthSq(); d < best {
			best, bestPoint, bestIdx, bestLambdas = d, p, idx, lambdas
		}
	}

	reduced := make([]MinkowskiPoint, 0, len(bestIdx))
	weights := make([]float64, 0, len(bestIdx))
	for j, i := range bestIdx {
		if bestLambdas[j] > 0 || len(bestIdx) == 1 {
			reduced = append(reduced, simplex[i])
			weights = append(weights, bestLambdas[j])
		}
	}
	return bestPoint, reduced, weights
}

// affineMinimizer solves for the barycentric coordinates of the point of
// the affine hull of simplex[idx] closest to the origin. It fails when the
// face is degenerate or the point falls outside the face.
func affineMinimizer(simplex []MinkowskiPoint, idx []int) ([]float64, bool) {
	k := len(idx)
	if k == 1 {
		return []float64{1}, true
	}

	w0 := simplex[idx[0]].ab
	m := k - 1
	var g [vect.Dim][vect.Dim + 1]float64
	var scale float64
	for r := 0; r < m; r++ {
		er := simplex[idx[r+1]].ab.Sub(w0)
		for c := 0; c < m; c++ {
			g[r][c] = er.Dot(simplex[idx[c+1]].ab.Sub(w0))
		}
		g[r][m] = -w0.Dot(er)
		scale = math.Max(scale, g[r][r])
	}
	if scale == 0 {
		return nil, false
	}

	mu, ok := solve(&g, m, scale)
	if !ok {
		return nil, false
	}

	lambdas := make([]float64, k)
	lambdas[0] = 1
	for j := 0; j < m; j++ {
		lambdas[j+1] = mu[j]
		lambdas[0] -= mu[j]
	}
	for _, l := range lambdas {
		if l < 0 {
			return nil, false
		}
	}
	return lambdas, true
}

// solve runs gaussian elimination with partial pivoting on the m x (m+1)
// augmented matrix g.
func solve(g *[vect.Dim][vect.Dim + 1]float64, m int, scale float64) ([]float64, bool) {
	for col := 0; col < m; col++ {
		pivot := col
		for r := col + 1; r < m; r++ {
			if math.Abs(g[r][col]) > math.Abs(g[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(g[pivot][col]) <= 1e-12*scale {
			return nil, false
		}
		g[col], g[pivot] = g[pivot], g[col]

		for r := col + 1; r < m; r++ {
			f := g[r][col] / g[col][col]
			for c := col; c <= m; c++ {
				g[r][c] -= f * g[col][c]
			}
		}
	}

	x := make([]float64, m)
	for r := m - 1; r >= 0; r-- {
		sum := g[r][m]
		for c := r + 1; c < m; c++ {
			sum -= g[r][c] * x[c]
		}
		x[r] = sum / g[r][r]
	}
	return x, true
}

// Proximity is the distance information between two placed shapes,
// margins included.
type Proximity struct {
	// Closest points on the shape surfaces. When the shapes overlap these
	// are the closest points of their cores.
	Point1, Point2 vect.Vector
	// Unit direction from shape 1 toward shape 2; zero when the cores overlap.
	Normal vect.Vector
	// Separation distance; zero or negative when the shapes overlap.
	Distance float64
}

// ClosestPoints computes the separation between two placed shapes.
func ClosestPoints(pos1 vect.Isometry, shape1 Shape, pos2 vect.Isometry, shape2 Shape, tol Tolerances) Proximity {
	cd := GJK(NewSupportContext(pos1, shape1, pos2, shape2), tol)
	m1, m2 := shape1.Margin(), shape2.Margin()
	prox := Proximity{
		Point1:   cd.A,
		Point2:   cd.B,
		Normal:   cd.N,
		Distance: cd.D - m1 - m2,
	}
	if !cd.N.IsZero() {
		prox.Point1 = cd.A.Add(cd.N.Mult(m1))
		prox.Point2 = cd.B.Sub(cd.N.Mult(m2))
	}
	return prox
}
