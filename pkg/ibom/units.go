package ibom

import "github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/board"

// Point is a 2-D coordinate in millimetres.
type Point [2]float64

// Normalize converts a board vector to millimetres.
func Normalize(v board.Vector2) Point {
	return Point{float64(v.X) * board.NanometersToMM, float64(v.Y) * board.NanometersToMM}
}

// NormalizeLength converts a scalar length in nanometres to millimetres.
func NormalizeLength(v float64) float64 {
	return v * board.NanometersToMM
}

// NormalizeAngle converts a raw angle in tenths of a degree to degrees.
func NormalizeAngle(tenths float64) float64 {
	return tenths * board.DecidegreesToDegrees
}

// AngleDegrees converts a structured angle to degrees.
func AngleDegrees(a board.Angle) float64 {
	return a.Degrees()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
