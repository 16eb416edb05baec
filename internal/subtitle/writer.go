package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/renameio/v2"

	"github.com/mgpai22/subtitlegen/internal/clock"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// Advanced SubStation Alpha format
type ASSWriter struct {
	Title    string
	FontName string
	FontSize int
}

// JSON array of entries
type JSONWriter struct {
	Indent string
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatASS:
		return &ASSWriter{
			Title:    "subtitlegen",
			FontName: "Arial",
			FontSize: 20,
		}, nil
	case FormatJSON:
		return &JSONWriter{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes SubRip blocks; indices are written as stored in the entries
func (w *SRTWriter) Write(sub *Subtitle, out io.Writer) error {
	bw := bufio.NewWriter(out)
	for _, entry := range sub.Entries {
		fmt.Fprintf(bw, "%d\n", entry.Index)

		// timestamps: 00:00:00,000 --> 00:00:00,000
		fmt.Fprintf(bw, "%s --> %s\n", entry.Begin, entry.End)

		bw.WriteString(entry.Text)
		bw.WriteString("\n\n")
	}
	return bw.Flush()
}

func (w *VTTWriter) Write(sub *Subtitle, out io.Writer) error {
	bw := bufio.NewWriter(out)

	// VTT header
	bw.WriteString("WEBVTT\n\n")

	for _, entry := range sub.Entries {
		// optional cue identifier
		fmt.Fprintf(bw, "%d\n", entry.Index)

		// timestamps: 00:00:00.000 --> 00:00:00.000
		fmt.Fprintf(bw, "%s --> %s\n",
			entry.Begin.FormatSep('.'),
			entry.End.FormatSep('.'))

		bw.WriteString(entry.Text)
		bw.WriteString("\n\n")
	}
	return bw.Flush()
}

func (w *ASSWriter) Write(sub *Subtitle, out io.Writer) error {
	bw := bufio.NewWriter(out)

	// script info section
	bw.WriteString("[Script Info]\n")
	fmt.Fprintf(bw, "Title: %s\n", w.Title)
	bw.WriteString("ScriptType: v4.00+\n")
	bw.WriteString("Collisions: Normal\n")
	bw.WriteString("PlayDepth: 0\n\n")

	// v4+ styles section
	bw.WriteString("[V4+ Styles]\n")
	bw.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(bw, "Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n",
		w.FontName, w.FontSize)

	// events section
	bw.WriteString("[Events]\n")
	bw.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, entry := range sub.Entries {
		fmt.Fprintf(bw, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatASSTime(entry.Begin),
			formatASSTime(entry.End),
			escapeASSText(entry.Text))
	}

	return bw.Flush()
}

// begin and end encode through clock.Clock's MarshalText
type jsonEntry struct {
	Index   int         `json:"index"`
	Begin   clock.Clock `json:"begin"`
	End     clock.Clock `json:"end"`
	BeginMs int64       `json:"begin_ms"`
	EndMs   int64       `json:"end_ms"`
	Text    string      `json:"text"`
}

func (w *JSONWriter) Write(sub *Subtitle, out io.Writer) error {
	entries := make([]jsonEntry, len(sub.Entries))
	for i, e := range sub.Entries {
		entries[i] = jsonEntry{
			Index:   e.Index,
			Begin:   e.Begin,
			End:     e.End,
			BeginMs: e.Begin.Milliseconds(),
			EndMs:   e.End.Milliseconds(),
			Text:    e.Text,
		}
	}

	data, err := sonic.ConfigStd.MarshalIndent(entries, "", w.Indent)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}
	data = append(data, '\n')
	_, err = out.Write(data)
	return err
}

// H:MM:SS.cc, centiseconds truncated
func formatASSTime(c clock.Clock) string {
	return fmt.Sprintf("%d:%02d:%02d.%02d",
		c.Hours(), c.Minutes(), c.Seconds(), c.Millis()/10)
}

func escapeASSText(text string) string {
	text = strings.ReplaceAll(text, "\n", "\\N")
	return text
}

// WriteFile renders sub into path. The file is replaced atomically, so a
// reader never sees a partially written track.
func WriteFile(w Writer, sub *Subtitle, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("create pending subtitle file: %w", err)
	}
	defer func() {
		_ = pendingFile.Cleanup()
	}()

	if err := w.Write(sub, pendingFile); err != nil {
		return fmt.Errorf("write subtitle data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace subtitle file: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// FormatFromExtension maps a file extension onto the format written for it.
// ok is false for extensions no writer handles.
func FormatFromExtension(path string) (format Format, ok bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".srt":
		return FormatSRT, true
	case ".vtt":
		return FormatVTT, true
	case ".ass", ".ssa":
		return FormatASS, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}
