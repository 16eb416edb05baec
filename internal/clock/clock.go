// Package clock implements the subtitle timestamp used throughout subtitlegen.
//
// A Clock is an exact point on a wall-clock-like axis with millisecond
// resolution, from 00:00:00,000 up to 59:59:59,999. Hours deliberately run
// past 23; the upper bound is the largest value the two-digit hour field of
// the canonical text form can carry.
//
// Values are immutable. Arithmetic happens in the millisecond domain and is
// normalized back through FromMilliseconds, so every result is range-checked.
package clock

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute

	// MaxMilliseconds is 59:59:59,999.
	MaxMilliseconds int64 = 59*msPerHour + 59*msPerMinute + 59*msPerSecond + 999
)

// HH:MM:SS with an optional ,mmm suffix; each of H/M/S in [00,59]
var clockPattern = regexp.MustCompile(
	`^([0-5][0-9]):([0-5][0-9]):([0-5][0-9])(?:,([0-9]{3}))?$`,
)

// Clock is a millisecond timestamp. The zero value is 00:00:00,000.
type Clock struct {
	ms int64
}

// Zero is 00:00:00,000.
var Zero = Clock{}

// Parse reads the canonical HH:MM:SS[,mmm] form. A missing millisecond group
// means ,000.
func Parse(text string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return Clock{}, &ParseError{Input: text}
	}

	// the pattern guarantees digits, so Atoi cannot fail here
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	millis := 0
	if m[4] != "" {
		millis, _ = strconv.Atoi(m[4])
	}

	return FromMilliseconds(int64(hours)*msPerHour +
		int64(minutes)*msPerMinute +
		int64(seconds)*msPerSecond +
		int64(millis))
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(text string) Clock {
	c, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return c
}

// FromMilliseconds builds a Clock from a millisecond count in
// [0, MaxMilliseconds].
func FromMilliseconds(n int64) (Clock, error) {
	if n < 0 || n > MaxMilliseconds {
		return Clock{}, &RangeError{Milliseconds: n}
	}
	return Clock{ms: n}, nil
}

// Milliseconds is the exact inverse of FromMilliseconds.
func (c Clock) Milliseconds() int64 { return c.ms }

func (c Clock) Hours() int   { return int(c.ms / msPerHour) }
func (c Clock) Minutes() int { return int(c.ms % msPerHour / msPerMinute) }
func (c Clock) Seconds() int { return int(c.ms % msPerMinute / msPerSecond) }
func (c Clock) Millis() int  { return int(c.ms % msPerSecond) }

// AddDuration moves the clock forward by a duration in milliseconds.
func (c Clock) AddDuration(ms int64) (Clock, error) {
	return FromMilliseconds(c.ms + ms)
}

// SubtractDuration moves the clock back by a duration in milliseconds.
func (c Clock) SubtractDuration(ms int64) (Clock, error) {
	return FromMilliseconds(c.ms - ms)
}

// AddTimestamp treats other as an offset from 00:00:00,000 and adds it.
func (c Clock) AddTimestamp(other Clock) (Clock, error) {
	return FromMilliseconds(c.ms + other.ms)
}

// SubtractTimestamp returns the distance from other to c as a Clock. It fails
// when other is after c.
func (c Clock) SubtractTimestamp(other Clock) (Clock, error) {
	return FromMilliseconds(c.ms - other.ms)
}

// Compare returns -1, 0 or +1.
func (c Clock) Compare(other Clock) int {
	switch {
	case c.ms < other.ms:
		return -1
	case c.ms > other.ms:
		return 1
	default:
		return 0
	}
}

func (c Clock) Before(other Clock) bool { return c.ms < other.ms }
func (c Clock) After(other Clock) bool  { return c.ms > other.ms }
func (c Clock) Equal(other Clock) bool  { return c.ms == other.ms }

// String renders HH:MM:SS,mmm. Parse(c.String()) == c for every Clock.
func (c Clock) String() string {
	return c.FormatSep(',')
}

// FormatSep renders HH:MM:SS<sep>mmm, e.g. '.' for WebVTT cues.
func (c Clock) FormatSep(sep byte) string {
	return fmt.Sprintf("%02d:%02d:%02d%c%03d",
		c.Hours(), c.Minutes(), c.Seconds(), sep, c.Millis())
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
