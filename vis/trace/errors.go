package trace

import "errors"

// Error taxonomy for loading a trace record. Record and file failures from
// Load or Decode wrap one of these; classify with errors.Is.
var (
	// ErrFileAccess means the path could not be opened or its contents could
	// not be parsed as structured data.
	ErrFileAccess = errors.New("file access error")
	// ErrMalformedRecord means a required field is missing or has the wrong type.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrChannelLengthMismatch means a channel series disagrees with the resolved horizon.
	ErrChannelLengthMismatch = errors.New("channel length mismatch")
	// ErrInvalidConstraint means a bound pair has lower > upper.
	ErrInvalidConstraint = errors.New("invalid constraint")
)
