package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/dualsub/internal/dualsub"
	"github.com/mgpai22/dualsub/internal/subtitle"
	"github.com/mgpai22/dualsub/internal/track"
)

var cuesCmd = &cobra.Command{
	Use:   "cues [vtt_file_or_url]",
	Short: "Parse a WebVTT track and list its cues",
	Long: `Parse a WebVTT track and print its cues as a table.

With --at, only the cue active at that position is printed.

Examples:
  dualsub cues movie.en.vtt
  dualsub cues https://example.com/subs/en.vtt --at 1m02.5s`,
	Args: cobra.ExactArgs(1),
	RunE: runCues,
}

func init() {
	rootCmd.AddCommand(cuesCmd)

	cuesCmd.Flags().
		Duration("at", -1, "Show only the cue active at this position")
	cuesCmd.Flags().
		Int("width", 60, "Truncate cue text to this many characters (0 = no limit)")
}

func runCues(cmd *cobra.Command, args []string) error {
	at, _ := cmd.Flags().GetDuration("at")
	width, _ := cmd.Flags().GetInt("width")

	ctx := context.Background()
	raw, err := track.NewRouter(cfg.FetchTimeout()).Fetch(ctx, args[0])
	if err != nil {
		return err
	}

	cues, err := subtitle.Parse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	logger.Debugw("Parsed track",
		"source", args[0],
		"cues", len(cues),
		"monotonic", cues.Monotonic(),
	)

	if at >= 0 {
		cue, ok := dualsub.ActiveCue(cues, at)
		if !ok {
			fmt.Printf("No cue active at %s\n", formatTimestamp(at))
			return nil
		}
		fmt.Println(cue.Text)
		return nil
	}

	fmt.Println(cueTable(cues, width))
	fmt.Printf("%d cues, %s\n", len(cues), formatTimestamp(cues.Duration()))
	return nil
}

func cueTable(cues subtitle.Sequence, width int) string {
	rows := make([][]string, 0, len(cues))
	for i, cue := range cues {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatTimestamp(cue.Start),
			formatTimestamp(cue.End),
			truncate(strings.ReplaceAll(cue.Text, "\n", " / "), width),
		})
	}
	return renderTable(
		[]string{"#", "Start", "End", "Text"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
	)
}

func formatTimestamp(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
