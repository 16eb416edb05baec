package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mgpai22/subtitlegen/internal/timerange"
)

// message style
type Style string

const (
	StyleLong  Style = "long"
	StyleShort Style = "short"
)

func ParseStyle(name string) (Style, bool) {
	switch Style(name) {
	case StyleLong, StyleShort:
		return Style(name), true
	default:
		return "", false
	}
}

// message templates, one per style. Placeholders: {value}, {begin}, {end},
// {duration}.
type Messages struct {
	Long  string `yaml:"long"`
	Short string `yaml:"short"`
}

func DefaultMessages() Messages {
	return Messages{
		Long:  "~ {value} m [{begin} | {duration}]",
		Short: "~ {value} m",
	}
}

func (m Messages) template(style Style) string {
	if style == StyleShort {
		return m.Short
	}
	return m.Long
}

// Render fills the style's template for one slice.
func (m Messages) Render(style Style, s timerange.Slice) string {
	r := strings.NewReplacer(
		"{value}", FormatValue(s.Value),
		"{begin}", s.Begin.String(),
		"{end}", s.End.String(),
		"{duration}", FormatDuration(s.Seconds()),
	)
	return r.Replace(m.template(style))
}

// valueDigits bounds the significant digits of a rendered value, so that
// interpolation noise such as 0.30000000000000004 reads 0.3.
const valueDigits = 12

// plain decimal at valueDigits significant digits: 0, 2, 0.5, 0.3
func FormatValue(v float64) string {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', valueDigits, 64), 64)
	if err != nil {
		rounded = v
	}
	if rounded == 0 {
		rounded = 0 // no "-0"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// whole seconds, half away from zero, shown with one decimal: 13.0
func FormatDuration(seconds float64) string {
	return fmt.Sprintf("%.1f", math.Round(seconds))
}
