package clock

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks text that is not a HH:MM:SS[,mmm] timestamp.
	ErrParse = errors.New("malformed timestamp")
	// ErrRange marks a millisecond value outside [0, MaxMilliseconds].
	ErrRange = errors.New("timestamp out of range")
)

type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q into a timestamp: expected HH:MM:SS[,mmm]", e.Input)
}

func (e *ParseError) Unwrap() error { return ErrParse }

type RangeError struct {
	Milliseconds int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf(
		"%dms is outside 00:00:00,000 and 59:59:59,999",
		e.Milliseconds,
	)
}

func (e *RangeError) Unwrap() error { return ErrRange }
