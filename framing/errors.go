package framing

import "errors"

var (
	// ErrNilReader reports a nil source passed to a transfer helper.
	ErrNilReader = errors.New("framing: nil reader")

	// ErrNilWriter reports a nil destination passed to a transfer helper.
	ErrNilWriter = errors.New("framing: nil writer")
)
