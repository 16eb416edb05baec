package subtitle

import (
	"io"

	"github.com/mgpai22/subtitlegen/internal/clock"
)

// represents single subtitle entry
type Entry struct {
	Index int
	Begin clock.Clock
	End   clock.Clock
	Text  string
}

// represents complete subtitle track
type Subtitle struct {
	Entries []Entry
	Format  string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatASS  Format = "ass"
	FormatJSON Format = "json"
)

// ParseFormat maps a user supplied name onto a Format.
func ParseFormat(name string) (Format, bool) {
	switch Format(name) {
	case FormatSRT, FormatVTT, FormatASS, FormatJSON:
		return Format(name), true
	default:
		return "", false
	}
}

// interface for rendering subtitles
type Writer interface {
	Write(sub *Subtitle, w io.Writer) error
}
