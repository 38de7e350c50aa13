package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/dualsub/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve [source]",
	Short: "Serve the overlay over HTTP",
	Long: `Build a session and serve it over HTTP for a browser overlay.

Endpoints:
  GET /api/health           session info
  GET /api/frame?t=SECONDS  active text of both lanes
  GET /api/cues/{lane}      cues of the primary or secondary lane
  GET /api/timeline         spans where the displayed pair is constant
  GET /api/merged.vtt       both lanes stacked in one WebVTT track

Examples:
  dualsub serve https://example.com/watch/42
  dualsub serve movie.mkv --bind 0.0.0.0:7878`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().
		String("bind", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	bind, _ := cmd.Flags().GetString("bind")
	if bind == "" {
		bind = cfg.Server.Bind
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, cleanup, err := startSession(ctx, cmd, args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	router := api.NewRouter(session.Synchronizer(), api.Info{
		SessionID:         session.ID,
		PrimaryLanguage:   cfg.Languages.Primary,
		SecondaryLanguage: cfg.Languages.Secondary,
		Translated:        session.Translated(),
	}, cfg.Server.AllowedOrigins, logger)

	server := &http.Server{
		Addr:              bind,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Serving overlay", "addr", bind, "session", session.ID)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Infow("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
