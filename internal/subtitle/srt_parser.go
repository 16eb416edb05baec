package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mgpai22/subtitlegen/internal/clock"
)

var srtTimingRegex = regexp.MustCompile(`^(\S+)\s*-->\s*(\S+)$`)

// ParseSRT reads a SubRip track. Timestamps must be in the canonical
// HH:MM:SS,mmm clock form.
func ParseSRT(r io.Reader) (*Subtitle, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)

	var currentEntry *Entry
	timed := false
	var textLines []string
	lineNum := 0

	flush := func() {
		if currentEntry != nil && timed && len(textLines) > 0 {
			currentEntry.Text = strings.Join(textLines, "\n")
			entries = append(entries, *currentEntry)
		}
		currentEntry = nil
		timed = false
		textLines = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if currentEntry == nil {
			index, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				return nil, fmt.Errorf(
					"expected entry index at line %d, got %q",
					lineNum,
					line,
				)
			}
			currentEntry = &Entry{Index: index}
			continue
		}

		if !timed {
			matches := srtTimingRegex.FindStringSubmatch(strings.TrimSpace(line))
			if matches == nil {
				return nil, fmt.Errorf(
					"expected timing line at line %d, got %q",
					lineNum,
					line,
				)
			}
			begin, err := clock.Parse(matches[1])
			if err != nil {
				return nil, fmt.Errorf(
					"invalid start timestamp at line %d: %w",
					lineNum,
					err,
				)
			}
			end, err := clock.Parse(matches[2])
			if err != nil {
				return nil, fmt.Errorf(
					"invalid end timestamp at line %d: %w",
					lineNum,
					err,
				)
			}
			currentEntry.Begin = begin
			currentEntry.End = end
			timed = true
			continue
		}

		textLines = append(textLines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}

	return &Subtitle{Entries: entries, Format: string(FormatSRT)}, nil
}

func ParseSRTFile(path string) (*Subtitle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return ParseSRT(file)
}
