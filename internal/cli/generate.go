package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subtitlegen/internal/config"
	"github.com/mgpai22/subtitlegen/internal/series"
	"github.com/mgpai22/subtitlegen/internal/subtitle"
)

func newGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate [csv_file]",
		Short: "Generate a subtitle track from a value/timestamp series",
		Long: `Generate a subtitle track from a CSV file of "value,timestamp" rows.

Timestamps use HH:MM:SS or HH:MM:SS,mmm. A row with an empty value takes its
position in the series as the value. Row pairs that fail to parse are skipped
and reported on stderr unless --strict is set.

Settings are read from subtitlegen.yaml when present; flags win over it.

Examples:
  subtitlegen generate dive.csv
  subtitlegen generate dive.csv -p 5 -o dive.srt
  subtitlegen generate run.csv --style short -f vtt -o run.vtt
  subtitlegen generate dive.csv -o dive.srt --watch`,
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}

	generateCmd.Flags().
		IntP("partition", "p", 0, "Split every row interval into N cues (0 or 1 keeps one cue per interval)")
	generateCmd.Flags().
		StringP("style", "s", "long", "Cue text style (long, short)")
	generateCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt, ass, json)")
	generateCmd.Flags().
		StringP("output", "o", "", "Output file path (default stdout)")
	generateCmd.Flags().
		Bool("strict", false, "Abort on the first row pair that cannot be converted")
	generateCmd.Flags().
		BoolP("watch", "w", false, "Regenerate whenever the CSV file changes (requires --output)")

	return generateCmd
}

// generateSettings is the config file merged with the flags the user set.
type generateSettings struct {
	gen    subtitle.Config
	format subtitle.Format
	output string
}

func resolveGenerateSettings(
	cmd *cobra.Command,
	cfg *config.Config,
) (*generateSettings, error) {
	flags := cmd.Flags()
	outputPath, _ := flags.GetString("output")

	if flags.Changed("partition") {
		cfg.Partition, _ = flags.GetInt("partition")
	}
	if flags.Changed("style") {
		cfg.Style, _ = flags.GetString("style")
	}
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	switch {
	case flags.Changed("format"):
		format, _ := flags.GetString("format")
		cfg.Format = strings.ToLower(format)
	case outputPath != "":
		if format, ok := subtitle.FormatFromExtension(outputPath); ok {
			cfg.Format = string(format)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	format, _ := subtitle.ParseFormat(cfg.Format)
	return &generateSettings{
		gen:    cfg.Generator(),
		format: format,
		output: outputPath,
	}, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	csvPath := args[0]

	if _, err := os.Stat(csvPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", csvPath)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := resolveGenerateSettings(cmd, cfg)
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if watch && settings.output == "" {
		return fmt.Errorf("--watch requires --output")
	}

	logger.Infow("Starting subtitle generation",
		"input", csvPath,
		"output", outputName(settings.output),
		"format", settings.format,
		"partition", settings.gen.PartitionCount,
		"style", settings.gen.Style,
		"strict", settings.gen.Strict,
	)

	if !watch {
		return generateOnce(csvPath, settings, cmd.OutOrStdout())
	}

	if err := generateOnce(csvPath, settings, cmd.OutOrStdout()); err != nil {
		logger.Errorw("Generation failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infow("Watching for changes", "input", csvPath)
	return watchFile(ctx, csvPath, func() {
		logger.Infow("Input changed, regenerating", "input", csvPath)
		if err := generateOnce(csvPath, settings, cmd.OutOrStdout()); err != nil {
			logger.Errorw("Generation failed", "error", err)
		}
	})
}

// generateOnce runs the whole pipeline once. Track data goes to stdout only
// when no output path is set; diagnostics always go to the logger.
func generateOnce(csvPath string, settings *generateSettings, stdout io.Writer) error {
	rows, err := series.ReadFile(csvPath)
	if err != nil {
		return err
	}
	logger.Debugw("Read series", "rows", len(rows))

	generator, err := subtitle.NewGenerator(settings.gen)
	if err != nil {
		return err
	}

	subs, skipped, err := generator.Generate(rows)
	if err != nil {
		return fmt.Errorf("generation aborted: %w", err)
	}
	for _, pairErr := range skipped {
		logger.Warnw("Skipped row pair",
			"kind", pairErr.Kind(),
			"row", pairErr.Pair,
			"line", pairErr.Current.Line,
			"field", pairErr.Field,
			"current", pairErr.Current.String(),
			"next", pairErr.Next.String(),
			"error", pairErr.Err,
		)
	}

	subs.Format = string(settings.format)

	writer, err := subtitle.NewWriter(settings.format)
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}

	if settings.output == "" {
		if err := writer.Write(subs, stdout); err != nil {
			return fmt.Errorf("failed to write subtitles: %w", err)
		}
	} else {
		if err := subtitle.WriteFile(writer, subs, settings.output); err != nil {
			return fmt.Errorf("failed to write subtitles: %w", err)
		}
	}

	logger.Infow("Subtitles generated",
		"output", outputName(settings.output),
		"entries", len(subs.Entries),
		"skipped", len(skipped),
	)
	return nil
}

func outputName(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}
