package font

import (
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// curveSteps is the number of line segments per quadratic or cubic piece.
const curveSteps = 8

// flatten converts sfnt segments into closed polylines scaled by scale.
func flatten(segments sfnt.Segments, scale float64) [][]point {
	var contours [][]point
	var cur []point

	pt := func(p fixed.Point26_6) point {
		return point{X: float64(p.X) / 64 * scale, Y: float64(p.Y) / 64 * scale}
	}
	flush := func() {
		if len(cur) > 1 {
			contours = append(contours, cur)
		}
		cur = nil
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			flush()
			cur = append(cur, pt(seg.Args[0]))

		case sfnt.SegmentOpLineTo:
			cur = append(cur, pt(seg.Args[0]))

		case sfnt.SegmentOpQuadTo:
			if len(cur) == 0 {
				continue
			}
			p0, c, p1 := cur[len(cur)-1], pt(seg.Args[0]), pt(seg.Args[1])
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				cur = append(cur, point{
					X: u*u*p0.X + 2*u*t*c.X + t*t*p1.X,
					Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p1.Y,
				})
			}

		case sfnt.SegmentOpCubeTo:
			if len(cur) == 0 {
				continue
			}
			p0, c1, c2, p1 := cur[len(cur)-1], pt(seg.Args[0]), pt(seg.Args[1]), pt(seg.Args[2])
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				cur = append(cur, point{
					X: u*u*u*p0.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*p1.X,
					Y: u*u*u*p0.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*p1.Y,
				})
			}
		}
	}
	flush()

	// Drop the explicit closing vertex, contours are implicitly closed.
	for i, c := range contours {
		if len(c) > 2 && c[0] == c[len(c)-1] {
			contours[i] = c[:len(c)-1]
		}
	}
	return contours
}
