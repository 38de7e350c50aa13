package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/dualsub/internal/dualsub"
	"github.com/mgpai22/dualsub/internal/render"
)

var playCmd = &cobra.Command{
	Use:   "play [source]",
	Short: "Play both subtitle lanes in the terminal",
	Long: `Play both subtitle lanes in the terminal on a simulated clock.

The source can be a web page with a <video> element, a media file with
embedded subtitle streams, or a WebVTT file.

Examples:
  dualsub play https://example.com/watch/42
  dualsub play movie.mkv -p en -s vi
  dualsub play movie.en.vtt --secondary-track movie.vi.vtt --rate 2
  dualsub play movie.en.vtt --from 1m30s --to 2m`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().
		Float64("rate", 0, "Playback rate (default from config)")
	playCmd.Flags().
		Duration("from", 0, "Start position (e.g., 90s, 1m30s)")
	playCmd.Flags().
		Duration("to", 0, "Stop position (default end of the last cue)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	rate, _ := cmd.Flags().GetFloat64("rate")
	from, _ := cmd.Flags().GetDuration("from")
	to, _ := cmd.Flags().GetDuration("to")

	if rate < 0 {
		return fmt.Errorf("rate must be positive, got %v", rate)
	}
	if rate == 0 {
		rate = cfg.Playback.Rate
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, cleanup, err := startSession(ctx, cmd, args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	end := to
	if end == 0 {
		end = session.Synchronizer().Duration()
	}
	if from > end {
		return fmt.Errorf("start position %v is past the end %v", from, end)
	}

	player := &dualsub.TickerPlayer{
		Interval: cfg.TickInterval(),
		Rate:     rate,
		Start:    from,
		End:      end,
	}
	terminal := render.NewTerminal(
		os.Stdout,
		cfg.Styles.Primary.LaneStyle(),
		cfg.Styles.Secondary.LaneStyle(),
	)
	if err := session.Attach(player, terminal); err != nil {
		return err
	}

	logger.Infow("Playing",
		"from", from,
		"to", end,
		"rate", rate,
	)

	started := time.Now()
	if err := player.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Debugw("Playback finished", "elapsed", time.Since(started).Round(time.Millisecond))
	return nil
}
