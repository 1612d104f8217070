package column

import "errors"

var (
	// ErrLengthMismatch is returned when parallel buffers disagree in length.
	ErrLengthMismatch = errors.New("column: length mismatch")

	// ErrIndexOutOfRange is returned when a sparse index is not below its row dimension.
	ErrIndexOutOfRange = errors.New("column: sparse index out of range")

	// ErrDuplicateIndex is returned when a sparse row repeats an index.
	ErrDuplicateIndex = errors.New("column: duplicate sparse index")

	// ErrInvalidOffsets is returned when row offsets are not monotonic or do not cover the buffer.
	ErrInvalidOffsets = errors.New("column: invalid offsets")
)
