// Package media probes video files and muxes generated subtitle tracks into
// them as soft subtitle streams.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/subtitlegen/internal/ffmpeg"
)

// holds options for subtitle embedding
type EmbedOptions struct {
	Language string // ISO 639-2 code written as stream metadata, e.g. eng
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		Index     int    `json:"index"`
		CodecType string `json:"codec_type"`
	} `json:"streams"`
}

// Duration probes the container duration of a media file.
func Duration(ctx context.Context, filePath string) (time.Duration, error) {
	data, err := probe(ctx, filePath, "-show_format")
	if err != nil {
		return 0, err
	}
	return parseProbeDuration(data)
}

// SubtitleStreamCount probes how many subtitle streams a media file carries.
func SubtitleStreamCount(ctx context.Context, filePath string) (int, error) {
	data, err := probe(ctx, filePath, "-show_streams", "-select_streams", "s")
	if err != nil {
		return 0, err
	}
	return parseSubtitleStreamCount(data)
}

func probe(ctx context.Context, filePath string, args ...string) ([]byte, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmdArgs := append([]string{"-v", "quiet", "-print_format", "json"}, args...)
	cmdArgs = append(cmdArgs, filePath)
	cmd := exec.CommandContext(ctx, ffprobePath, cmdArgs...)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return out.Bytes(), nil
}

func parseProbeDuration(data []byte) (time.Duration, error) {
	var probed ffprobeOutput
	if err := sonic.Unmarshal(data, &probed); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	seconds, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", probed.Format.Duration, err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

func parseSubtitleStreamCount(data []byte) (int, error) {
	var probed ffprobeOutput
	if err := sonic.Unmarshal(data, &probed); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	count := 0
	for _, stream := range probed.Streams {
		if stream.CodecType == "subtitle" {
			count++
		}
	}
	return count, nil
}

// Embed copies every stream of videoPath into outputPath and adds the
// subtitle file as an extra subtitle stream after any the video already has.
// Nothing is re-encoded except the subtitle track, which is converted to what
// the output container accepts.
func Embed(
	ctx context.Context,
	videoPath, subtitlePath, outputPath string,
	opts EmbedOptions,
) error {
	for _, p := range []string{videoPath, subtitlePath} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", p)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	existing := 0
	if opts.Language != "" {
		existing, err = SubtitleStreamCount(ctx, videoPath)
		if err != nil {
			return fmt.Errorf("failed to probe subtitle streams: %w", err)
		}
	}

	args := embedStream(videoPath, subtitlePath, outputPath, opts, existing).GetArgs()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf(
			"ffmpeg mux failed: %w: %s",
			err,
			strings.TrimSpace(lastLine(stderr.String())),
		)
	}

	return nil
}

// embedStream maps the video's streams first, so the new track is output
// subtitle stream number existingSubs.
func embedStream(
	videoPath, subtitlePath, outputPath string,
	opts EmbedOptions,
	existingSubs int,
) *ffmpeg.Stream {
	kwargs := ffmpeg.KwArgs{
		"c":   "copy",
		"c:s": SubtitleCodec(outputPath),
	}
	if opts.Language != "" {
		kwargs[fmt.Sprintf("metadata:s:s:%d", existingSubs)] = "language=" + opts.Language
	}

	video := ffmpeg.Input(videoPath)
	subs := ffmpeg.Input(subtitlePath)

	return ffmpeg.Output(
		[]*ffmpeg.Stream{video, subs},
		outputPath,
		kwargs,
	).OverWriteOutput()
}

// SubtitleCodec picks the subtitle codec the output container can hold.
func SubtitleCodec(outputPath string) string {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".mp4", ".m4v", ".mov":
		return "mov_text"
	case ".webm":
		return "webvtt"
	default:
		return "srt"
	}
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	videoExts := map[string]bool{
		".mp4":  true,
		".mkv":  true,
		".avi":  true,
		".mov":  true,
		".wmv":  true,
		".flv":  true,
		".webm": true,
		".m4v":  true,
		".mpeg": true,
		".mpg":  true,
		".3gp":  true,
	}
	return videoExts[ext]
}

func lastLine(s string) string {
	s = strings.TrimRight(s, "\n")
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
