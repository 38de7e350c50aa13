package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/dualsub/internal/subtitle"
)

var exportCmd = &cobra.Command{
	Use:   "export [source]",
	Short: "Write a bilingual subtitle file",
	Long: `Write both lanes into one subtitle file.

SRT and VTT output stack the primary and secondary text in each cue. ASS
output keeps each lane as its own style, colored and sized like the overlay.

Examples:
  dualsub export movie.mkv -o movie.dual.ass
  dualsub export https://example.com/watch/42 -o dual.vtt
  dualsub export movie.en.vtt -s ja -o movie.en-ja.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		StringP("output", "o", "", "Output file path (.srt, .vtt or .ass)")
}

func runExport(cmd *cobra.Command, args []string) error {
	source := args[0]
	outputPath, _ := cmd.Flags().GetString("output")

	if outputPath == "" {
		base := filepath.Base(source)
		if strings.Contains(source, "://") {
			base = "dualsub"
		}
		base = strings.TrimSuffix(base, filepath.Ext(base))
		outputPath = fmt.Sprintf(
			"%s.%s-%s.vtt",
			base,
			cfg.Languages.Primary,
			cfg.Languages.Secondary,
		)
	}

	format := subtitle.GetFormatFromExtension(outputPath)
	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return err
	}

	session, cleanup, err := startSession(context.Background(), cmd, source)
	if err != nil {
		return err
	}
	defer cleanup()

	bilingual, err := session.Synchronizer().Bilingual(
		cfg.Styles.Primary.LaneStyle(),
		cfg.Styles.Secondary.LaneStyle(),
	)
	if err != nil {
		return err
	}

	logger.Infow("Writing output file",
		"output", outputPath,
		"format", format,
		"cues", len(bilingual.Merged),
	)
	if err := writer.Write(bilingual, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Bilingual subtitles written: %s\n", absOutput)
	fmt.Printf("  Languages: %s + %s\n", cfg.Languages.Primary, cfg.Languages.Secondary)
	fmt.Printf("  Cues: %d\n", len(bilingual.Merged))
	if session.Translated() {
		fmt.Printf("  Secondary: translated with %s\n", cfg.Translation.Provider)
	}
	return nil
}
