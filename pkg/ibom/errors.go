package ibom

import "errors"

// ErrMissingOutline is returned when the board has no Edge.Cuts drawing.
var ErrMissingOutline = errors.New("ibom: board outline missing")

// missingOutlineHint is shown to the user when the outline is missing.
const missingOutlineHint = "Please draw pcb outline on the edges layer on sheet or any footprint before generating BOM"

// ParseError is a fatal conversion failure carrying a user facing hint.
type ParseError struct {
	Err  error
	Hint string
}

func (e *ParseError) Error() string {
	return e.Hint
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
