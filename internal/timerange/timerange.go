// Package timerange splits an interval between two clock values into evenly
// spaced, non-touching sub-intervals.
//
// Every slice ends one GuardUnit before the next one begins, the same way one
// subtitle entry has to end before the following entry starts.
package timerange

import (
	"errors"
	"fmt"

	"github.com/mgpai22/subtitlegen/internal/clock"
)

// GuardUnit is the gap in milliseconds left between a slice's end and the
// next slice's begin.
const GuardUnit int64 = 1

// ErrInvalidArgument marks a partition request that cannot produce valid
// slices: a non-positive count, a reversed interval or an interval too short
// for the requested count.
var ErrInvalidArgument = errors.New("invalid argument")

// Range is an interval between two clock values, Begin <= End.
type Range struct {
	Begin clock.Clock
	End   clock.Clock
}

// New builds a Range. A reversed interval is an error, never swapped.
func New(begin, end clock.Clock) (Range, error) {
	if begin.After(end) {
		return Range{}, fmt.Errorf(
			"%w: interval ends at %s before it begins at %s",
			ErrInvalidArgument, end, begin,
		)
	}
	return Range{Begin: begin, End: end}, nil
}

// Length in milliseconds.
func (r Range) Length() int64 {
	return r.End.Milliseconds() - r.Begin.Milliseconds()
}

// Seconds is Length as fractional seconds.
func (r Range) Seconds() float64 {
	return float64(r.Length()) / 1000
}

func (r Range) String() string {
	return fmt.Sprintf("<Range %s -- %s [%.3fs]>", r.Begin, r.End, r.Seconds())
}

// Values is the numeric label progression paired with a Range. Start belongs
// to Begin, Finish to End.
type Values struct {
	Start  float64
	Finish float64
}

var DefaultValues = Values{Start: 0, Finish: 1}

// Slice is one sub-interval with its interpolated label.
type Slice struct {
	Value float64
	Begin clock.Clock
	End   clock.Clock
}

// Span is the time the slice owns, guard gap included.
func (s Slice) Span() int64 {
	return s.End.Milliseconds() - s.Begin.Milliseconds() + GuardUnit
}

// Seconds is Span as fractional seconds.
func (s Slice) Seconds() float64 {
	return float64(s.Span()) / 1000
}

// Partition cuts r into n slices of Length()/n milliseconds each. The
// division floors, so up to n-1 trailing milliseconds of r are not covered by
// any slice; output produced by earlier tooling depends on that.
//
// Slice i starts at Begin + i*step, ends GuardUnit before Begin + (i+1)*step
// and carries Start + i*(Finish-Start)/n.
func (r Range) Partition(n int, v Values) ([]Slice, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: partition count %d, need at least 1", ErrInvalidArgument, n)
	}
	if r.Begin.After(r.End) {
		return nil, fmt.Errorf(
			"%w: interval ends at %s before it begins at %s",
			ErrInvalidArgument, r.End, r.Begin,
		)
	}

	step := r.Length() / int64(n)
	if step <= GuardUnit {
		return nil, fmt.Errorf(
			"%w: %dms interval is too short for %d slice(s)",
			ErrInvalidArgument, r.Length(), n,
		)
	}
	valueStep := (v.Finish - v.Start) / float64(n)

	origin := r.Begin.Milliseconds()
	slices := make([]Slice, 0, n)
	for i := 0; i < n; i++ {
		begin, err := clock.FromMilliseconds(origin + int64(i)*step)
		if err != nil {
			return nil, err
		}
		end, err := clock.FromMilliseconds(origin + int64(i+1)*step - GuardUnit)
		if err != nil {
			return nil, err
		}
		slices = append(slices, Slice{
			Value: v.Start + float64(i)*valueStep,
			Begin: begin,
			End:   end,
		})
	}

	return slices, nil
}

// Trim is the undivided case: one slice from Begin to End - GuardUnit,
// labelled with v.Start.
func (r Range) Trim(v Values) (Slice, error) {
	slices, err := r.Partition(1, v)
	if err != nil {
		return Slice{}, err
	}
	return slices[0], nil
}
