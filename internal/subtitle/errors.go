package subtitle

import (
	"errors"
	"fmt"

	"github.com/mgpai22/subtitlegen/internal/clock"
	"github.com/mgpai22/subtitlegen/internal/series"
	"github.com/mgpai22/subtitlegen/internal/timerange"
)

// fields a row pair can fail on
const (
	FieldCurrentRow   = "current.row"
	FieldNextRow      = "next.row"
	FieldCurrentTime  = "current.time"
	FieldNextTime     = "next.time"
	FieldCurrentValue = "current.value"
	FieldNextValue    = "next.value"
	FieldInterval     = "interval"
)

type ErrorKind string

const (
	KindParse           ErrorKind = "parse"
	KindRange           ErrorKind = "range"
	KindInvalidArgument ErrorKind = "invalid-argument"
	KindUnknown         ErrorKind = "unknown"
)

// PairError reports a row pair that produced no entries.
type PairError struct {
	Pair    int // position of Current in the row series
	Field   string
	Current series.Row
	Next    series.Row
	Err     error
}

func (e *PairError) Error() string {
	return fmt.Sprintf(
		"%s error: %v: row=%d, line=%d, field=%s, current=%s, next=%s",
		e.Kind(),
		e.Err,
		e.Pair,
		e.Current.Line,
		e.Field,
		e.Current,
		e.Next,
	)
}

func (e *PairError) Unwrap() error { return e.Err }

func (e *PairError) Kind() ErrorKind {
	switch {
	case errors.Is(e.Err, clock.ErrParse),
		errors.Is(e.Err, ErrMalformedValue),
		errors.Is(e.Err, series.ErrMalformedRecord):
		return KindParse
	case errors.Is(e.Err, clock.ErrRange):
		return KindRange
	case errors.Is(e.Err, timerange.ErrInvalidArgument):
		return KindInvalidArgument
	default:
		return KindUnknown
	}
}
