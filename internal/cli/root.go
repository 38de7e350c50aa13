package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgpai22/dualsub/internal/config"
	"github.com/mgpai22/dualsub/internal/logging"
)

var (
	verbose       bool
	configPath    string
	primaryLang   string
	secondaryLang string

	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dualsub",
	Short: "Dual-language subtitle overlay for videos",
	Long: `Dualsub shows two subtitle tracks at once: a primary language and a
secondary language underneath it.

Tracks are read from a web page's <video> element, from subtitle streams
embedded in a media file, or from WebVTT files. When the secondary
language has no track it is translated from the primary one.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "license" {
			logger = logging.NewLogger(verbose)
			return nil
		}

		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		if primaryLang != "" {
			cfg.Languages.Primary = primaryLang
		}
		if secondaryLang != "" {
			cfg.Languages.Secondary = secondaryLang
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.NewLoggerWithLevel(level)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		logger.Debugw("Configuration loaded",
			"path", path,
			"exists", exists,
			"primary", cfg.Languages.Primary,
			"secondary", cfg.Languages.Secondary,
		)
		return nil
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	if logger != nil {
		logger.Errorw("Command failed", "error", err)
		_ = logger.Sync()
	} else {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.config/dualsub/config.toml)")
	rootCmd.PersistentFlags().
		StringVarP(&primaryLang, "primary-lang", "p", "", "Primary language code (e.g., en)")
	rootCmd.PersistentFlags().
		StringVarP(&secondaryLang, "secondary-lang", "s", "", "Secondary language code (e.g., vi)")
	rootCmd.PersistentFlags().
		String("secondary-track", "", "Explicit secondary WebVTT file or URL when the source is a .vtt")
}
