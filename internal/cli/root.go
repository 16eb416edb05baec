package cli

import (
	"github.com/spf13/cobra"

	"github.com/mgpai22/subtitlegen/internal/config"
	"github.com/mgpai22/subtitlegen/internal/logging"
)

var logger = logging.Nop()

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:   "subtitlegen",
		Short: "Subtitle tracks from timestamped measurement series",
		Long: `Subtitlegen turns a CSV series of "value,timestamp" rows into a subtitle
track that shows the measured value while the video plays, e.g. the depth
of a dive or the distance covered on a run.

Each pair of adjacent rows becomes one cue, or several when the interval is
partitioned, and the value is interpolated across the pieces.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLoggerTo(cmd.ErrOrStderr(), verbose)
		},
	}

	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", config.DefaultPath, "Config file path")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newEmbedCmd())

	return rootCmd
}

func Execute() error {
	return newRootCmd().Execute()
}

// loadConfig reads --config. The default path may be absent; a path given
// explicitly must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	required := cmd.Flags().Changed("config")

	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}
	logger.Debugw("Loaded configuration",
		"path", path,
		"partition", cfg.Partition,
		"style", cfg.Style,
		"format", cfg.Format,
		"strict", cfg.Strict,
	)
	return cfg, nil
}
