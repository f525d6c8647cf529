// Package board defines the native object model of a KiCad board as seen
// through the board collaborator: integer nanometre coordinates, structured
// angles, layer identifiers and the closed set of shape kinds.
//
// Nothing in this package converts units for presentation; that is the job
// of the ibom engine.
package board

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Coordinate conversion constants
// KiCad stores coordinates internally in nanometers
const (
	NanometersToMM       = 1e-6 // Convert nm to mm (multiply by this)
	MMToNanometers       = 1e6  // Convert mm to nm (multiply by this)
	DecidegreesToDegrees = 0.1  // Legacy angles are in decidegrees (tenths of a degree)
)

// Vector2 is a point or displacement in nanometres.
type Vector2 struct {
	X int64
	Y int64
}

// FromMM converts a length in millimetres to nanometres.
func FromMM(mm float64) int64 {
	return int64(math.Round(mm * MMToNanometers))
}

// VectorFromMM builds a Vector2 from millimetre coordinates.
func VectorFromMM(x, y float64) Vector2 {
	return Vector2{X: FromMM(x), Y: FromMM(y)}
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Neg returns -v.
func (v Vector2) Neg() Vector2 {
	return Vector2{X: -v.X, Y: -v.Y}
}

// Length returns the euclidean length of v in nanometres.
func (v Vector2) Length() float64 {
	return math.Hypot(float64(v.X), float64(v.Y))
}

// Rotated rotates v around the origin by angle using KiCad's convention:
// positive angles turn counter-clockwise on screen (Y axis points down).
func (v Vector2) Rotated(angle Angle) Vector2 {
	if angle.degrees == 0 {
		return v
	}
	rad := angle.Radians()
	cos, sin := math.Cos(rad), math.Sin(rad)
	x, y := float64(v.X), float64(v.Y)
	return Vector2{
		X: int64(math.Round(x*cos + y*sin)),
		Y: int64(math.Round(-x*sin + y*cos)),
	}
}

// Angle is a structured rotation value.
type Angle struct {
	degrees float64
}

// AngleFromDegrees creates an Angle from decimal degrees.
func AngleFromDegrees(deg float64) Angle {
	return Angle{degrees: deg}
}

// Degrees returns the angle in decimal degrees.
func (a Angle) Degrees() float64 {
	return a.degrees
}

// Radians returns the angle in radians.
func (a Angle) Radians() float64 {
	return a.degrees * math.Pi / 180.0
}

// Add returns a + b.
func (a Angle) Add(b Angle) Angle {
	return Angle{degrees: a.degrees + b.degrees}
}

// Neg returns -a.
func (a Angle) Neg() Angle {
	return Angle{degrees: -a.degrees}
}

// Box2 is an axis aligned box given by its origin and size.
// A normalized box has non-negative size.
type Box2 struct {
	Pos  Vector2
	Size Vector2
}

// BoxFromPoints returns the smallest normalized box containing all points.
func BoxFromPoints(pts ...Vector2) Box2 {
	if len(pts) == 0 {
		return Box2{}
	}
	minP, maxP := pts[0], pts[0]
	for _, p := range pts[1:] {
		minP.X = min(minP.X, p.X)
		minP.Y = min(minP.Y, p.Y)
		maxP.X = max(maxP.X, p.X)
		maxP.Y = max(maxP.Y, p.Y)
	}
	return Box2{Pos: minP, Size: maxP.Sub(minP)}
}

// End returns the corner opposite to Pos.
func (b Box2) End() Vector2 {
	return b.Pos.Add(b.Size)
}

// Merge returns the union of b and o.
func (b Box2) Merge(o Box2) Box2 {
	return BoxFromPoints(b.Pos, b.End(), o.Pos, o.End())
}

// Moved returns a copy of b translated by delta.
func (b Box2) Moved(delta Vector2) Box2 {
	return Box2{Pos: b.Pos.Add(delta), Size: b.Size}
}

// Inflated grows the box by d on every side.
func (b Box2) Inflated(d int64) Box2 {
	return Box2{
		Pos:  Vector2{X: b.Pos.X - d, Y: b.Pos.Y - d},
		Size: Vector2{X: b.Size.X + 2*d, Y: b.Size.Y + 2*d},
	}
}

// ArcCenter returns the centre of the circle through start, mid and end.
// It reports false when the three points are collinear or coincident.
func ArcCenter(start, mid, end Vector2) (Vector2, bool) {
	// Work relative to start to keep the squared terms small.
	a := mid.Sub(start)
	b := end.Sub(start)
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)

	lhs := mat.NewDense(2, 2, []float64{
		2 * ax, 2 * ay,
		2 * bx, 2 * by,
	})
	if math.Abs(mat.Det(lhs)) < 1e-9 {
		return Vector2{}, false
	}
	rhs := mat.NewVecDense(2, []float64{ax*ax + ay*ay, bx*bx + by*by})

	var c mat.VecDense
	if err := c.SolveVec(lhs, rhs); err != nil {
		return Vector2{}, false
	}
	return Vector2{
		X: start.X + int64(math.Round(c.AtVec(0))),
		Y: start.Y + int64(math.Round(c.AtVec(1))),
	}, true
}

// arcAngles returns the start and end angles (radians, atan2 in board
// coordinates) of the arc through start, mid and end, ordered so that the
// sweep from the first to the second angle in increasing direction passes
// through mid.
func arcAngles(start, mid, end Vector2) (a1, a2 float64, ok bool) {
	center, ok := ArcCenter(start, mid, end)
	if !ok {
		return 0, 0, false
	}
	angleOf := func(p Vector2) float64 {
		d := p.Sub(center)
		return math.Atan2(float64(d.Y), float64(d.X))
	}
	a1, am, a2 := angleOf(start), angleOf(mid), angleOf(end)
	if !sweepContains(a1, a2, am) {
		a1, a2 = a2, a1
	}
	return a1, a2, true
}

// sweepContains reports whether angle a lies on the increasing sweep from
// from to to (all in radians).
func sweepContains(from, to, a float64) bool {
	span := normalizeRadians(to - from)
	return normalizeRadians(a-from) <= span
}

func normalizeRadians(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// arcBoundingBox computes the exact bounding box of a circular arc.
func arcBoundingBox(start, mid, end Vector2) Box2 {
	pts := []Vector2{start, mid, end}
	center, ok := ArcCenter(start, mid, end)
	if !ok {
		return BoxFromPoints(pts...)
	}
	a1, a2, _ := arcAngles(start, mid, end)
	r := int64(math.Round(start.Sub(center).Length()))
	cardinals := []struct {
		angle float64
		p     Vector2
	}{
		{0, Vector2{X: center.X + r, Y: center.Y}},
		{math.Pi / 2, Vector2{X: center.X, Y: center.Y + r}},
		{math.Pi, Vector2{X: center.X - r, Y: center.Y}},
		{3 * math.Pi / 2, Vector2{X: center.X, Y: center.Y - r}},
	}
	for _, c := range cardinals {
		if sweepContains(a1, a2, c.angle) {
			pts = append(pts, c.p)
		}
	}
	return BoxFromPoints(pts...)
}
