package htmltable

import (
	"errors"
	"fmt"
)

var ErrNoTable = errors.New("no <table> element found")
var ErrCellOverlap = errors.New("two cells claim the same grid position")
var ErrNoHeader = errors.New("table has no header rows")
var ErrAmbiguousHeader = errors.New("single column header has a blank header beneath it")
var ErrInvalidArgument = errors.New("invalid argument")
var ErrHeightMismatch = errors.New("columns hold different numbers of values")
var ErrRowOverflow = errors.New("row has more cells than the header has columns")

// HeightMismatchError reports the number of values held by each column,
// in column order.
type HeightMismatchError struct {
	Heights []int
}

func (e *HeightMismatchError) Error() string {
	return fmt.Sprintf("%s: %v", ErrHeightMismatch.Error(), e.Heights)
}

func (e *HeightMismatchError) Is(target error) bool {
	return target == ErrHeightMismatch
}
