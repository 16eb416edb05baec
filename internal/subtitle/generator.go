package subtitle

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/mgpai22/subtitlegen/internal/clock"
	"github.com/mgpai22/subtitlegen/internal/series"
	"github.com/mgpai22/subtitlegen/internal/timerange"
)

// ErrMalformedValue marks a value field that is not a finite decimal number.
var ErrMalformedValue = errors.New("malformed value")

// generation settings
type Config struct {
	PartitionCount int // slices per row pair; 0 means 1
	Style          Style
	Strict         bool // abort on the first bad row pair instead of skipping it
	Messages       Messages
}

// Generator turns an ordered row series into subtitle entries, one entry per
// slice of every adjacent row pair.
type Generator struct {
	partitions int
	style      Style
	strict     bool
	messages   Messages
}

func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.PartitionCount < 0 {
		return nil, fmt.Errorf(
			"%w: partition count must not be negative, got %d",
			timerange.ErrInvalidArgument,
			cfg.PartitionCount,
		)
	}

	g := &Generator{
		partitions: cfg.PartitionCount,
		style:      cfg.Style,
		strict:     cfg.Strict,
		messages:   cfg.Messages,
	}
	if g.partitions == 0 {
		g.partitions = 1
	}
	if g.style == "" {
		g.style = StyleLong
	}

	defaults := DefaultMessages()
	if g.messages.Long == "" {
		g.messages.Long = defaults.Long
	}
	if g.messages.Short == "" {
		g.messages.Short = defaults.Short
	}

	return g, nil
}

// cursor is the state carried from one row pair to the next.
type cursor struct {
	next int // index of the next emitted entry
}

// Generate folds over rows left to right. A pair that fails to parse or
// partition emits nothing, and so do both pairs touching a malformed record.
// Each such pair is returned in skipped and the fold goes on, unless the
// generator is strict, in which case the first failure is returned as err.
func (g *Generator) Generate(
	rows []series.Row,
) (sub *Subtitle, skipped []*PairError, err error) {
	sub = &Subtitle{
		Entries: []Entry{},
		Format:  string(FormatSRT),
	}

	var acc cursor
	for i := 0; i+1 < len(rows); i++ {
		entries, next, pairErr := g.step(acc, i, rows[i], rows[i+1])
		if pairErr != nil {
			if g.strict {
				return nil, nil, pairErr
			}
			skipped = append(skipped, pairErr)
			continue
		}
		acc = next
		sub.Entries = append(sub.Entries, entries...)
	}

	return sub, skipped, nil
}

func (g *Generator) step(
	acc cursor,
	pair int,
	current, next series.Row,
) ([]Entry, cursor, *PairError) {
	fail := func(field string, err error) ([]Entry, cursor, *PairError) {
		return nil, acc, &PairError{
			Pair:    pair,
			Field:   field,
			Current: current,
			Next:    next,
			Err:     err,
		}
	}

	if current.Err != nil {
		return fail(FieldCurrentRow, current.Err)
	}
	if next.Err != nil {
		return fail(FieldNextRow, next.Err)
	}

	begin, err := clock.Parse(current.Time)
	if err != nil {
		return fail(FieldCurrentTime, err)
	}
	end, err := clock.Parse(next.Time)
	if err != nil {
		return fail(FieldNextTime, err)
	}

	values, field, err := pairValues(pair, current, next)
	if err != nil {
		return fail(field, err)
	}

	rng, err := timerange.New(begin, end)
	if err != nil {
		return fail(FieldInterval, err)
	}
	slices, err := rng.Partition(g.partitions, values)
	if err != nil {
		return fail(FieldInterval, err)
	}

	entries := make([]Entry, 0, len(slices))
	for _, s := range slices {
		entries = append(entries, Entry{
			Index: acc.next,
			Begin: s.Begin,
			End:   s.End,
			Text:  g.messages.Render(g.style, s),
		})
		acc.next++
	}

	return entries, acc, nil
}

// pairValues reads the value range of a row pair. When either row leaves the
// value blank the pair's row positions stand in for it.
func pairValues(
	pair int,
	current, next series.Row,
) (timerange.Values, string, error) {
	if current.Value == "" || next.Value == "" {
		return timerange.Values{
			Start:  float64(pair),
			Finish: float64(pair + 1),
		}, "", nil
	}

	start, err := parseValue(current.Value)
	if err != nil {
		return timerange.Values{}, FieldCurrentValue, err
	}
	finish, err := parseValue(next.Value)
	if err != nil {
		return timerange.Values{}, FieldNextValue, err
	}

	return timerange.Values{Start: start, Finish: finish}, "", nil
}

func parseValue(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w %q: expected a decimal number", ErrMalformedValue, raw)
	}
	return v, nil
}
