package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subtitlegen/internal/media"
	"github.com/mgpai22/subtitlegen/internal/subtitle"
)

func newEmbedCmd() *cobra.Command {
	embedCmd := &cobra.Command{
		Use:   "embed [video_file] [subtitle_file]",
		Short: "Embed a generated SRT track into a video as a soft subtitle stream",
		Long: `Embed an SRT subtitle track into a copy of a video file.

Audio and video streams are copied as is. The track is converted to what the
output container supports (mov_text for mp4/mov, srt for mkv).
Requires ffmpeg and ffprobe on PATH, or SUBTITLEGEN_FFMPEG_PATH and
SUBTITLEGEN_FFPROBE_PATH.

Examples:
  subtitlegen embed dive.mp4 dive.srt
  subtitlegen embed dive.mp4 dive.srt -o dive.subtitled.mkv --language eng`,
		Args: cobra.ExactArgs(2),
		RunE: runEmbed,
	}

	embedCmd.Flags().
		StringP("output", "o", "", "Output video path (default <video>.subtitled<ext>)")
	embedCmd.Flags().
		StringP("language", "l", "", "Subtitle stream language code (e.g., eng, deu)")

	return embedCmd
}

func runEmbed(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	subtitlePath := args[1]
	ctx := cmd.Context()

	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", videoPath)
	}
	if !media.IsVideoFile(videoPath) {
		return fmt.Errorf("unsupported file type: %s (expected video file)", filepath.Ext(videoPath))
	}

	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")
	if outputPath == "" {
		outputPath = defaultEmbedOutput(videoPath)
	}

	subs, err := subtitle.ParseSRTFile(subtitlePath)
	if err != nil {
		return fmt.Errorf("invalid subtitle track: %w", err)
	}
	if len(subs.Entries) == 0 {
		return fmt.Errorf("subtitle track %s has no entries", subtitlePath)
	}

	duration, err := media.Duration(ctx, videoPath)
	if err != nil {
		logger.Warnw("Could not probe video duration", "error", err)
	} else if end := trackEnd(subs); end > duration {
		logger.Warnw("Subtitle track runs past the end of the video",
			"track_end", end.String(),
			"video_duration", duration.String(),
		)
	}

	logger.Infow("Embedding subtitles",
		"video", videoPath,
		"subtitles", subtitlePath,
		"entries", len(subs.Entries),
		"output", outputPath,
		"codec", media.SubtitleCodec(outputPath),
	)

	if err := media.Embed(ctx, videoPath, subtitlePath, outputPath, media.EmbedOptions{
		Language: language,
	}); err != nil {
		return fmt.Errorf("failed to embed subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	logger.Infow("Subtitles embedded", "output", absOutput)
	return nil
}

func defaultEmbedOutput(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + ".subtitled" + ext
}

// latest end time of any entry
func trackEnd(subs *subtitle.Subtitle) time.Duration {
	var end int64
	for _, e := range subs.Entries {
		end = max(end, e.End.Milliseconds())
	}
	return time.Duration(end) * time.Millisecond
}
