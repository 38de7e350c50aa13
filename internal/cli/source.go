package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/dualsub/internal/dualsub"
	"github.com/mgpai22/dualsub/internal/track"
	"github.com/mgpai22/dualsub/internal/translate"
)

type sourceKind string

const (
	sourceVTT   sourceKind = "vtt"
	sourcePage  sourceKind = "page"
	sourceMedia sourceKind = "media"
)

// classifies a play/export/serve argument
func detectSource(source string) sourceKind {
	lower := strings.ToLower(source)
	isURL := strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")

	path := lower
	if i := strings.IndexAny(path, "?#"); i >= 0 && isURL {
		path = path[:i]
	}
	switch filepath.Ext(path) {
	case ".vtt":
		return sourceVTT
	case ".html", ".htm":
		return sourcePage
	}
	if isURL {
		return sourcePage
	}
	return sourceMedia
}

func newResolver(source, secondaryTrack string, fetcher track.Fetcher) track.Resolver {
	switch detectSource(source) {
	case sourceVTT:
		tracks := []track.Descriptor{{
			Language: cfg.Languages.Primary,
			Kind:     "subtitles",
			Source:   source,
		}}
		if secondaryTrack != "" {
			tracks = append(tracks, track.Descriptor{
				Language: cfg.Languages.Secondary,
				Kind:     "subtitles",
				Source:   secondaryTrack,
			})
		}
		return &track.StaticResolver{Tracks: tracks}
	case sourcePage:
		return &track.HTMLResolver{Page: source, Fetcher: fetcher}
	default:
		return &track.MediaResolver{Path: source}
	}
}

// builds the fallback translator; nil when translation is off or the
// provider is missing credentials
func newTranslator(ctx context.Context) (dualsub.Translator, func(), error) {
	noop := func() {}
	if !cfg.Translation.Enabled {
		return nil, noop, nil
	}

	provider := translate.Provider(cfg.Translation.Provider)
	opts := translate.Options{
		InputLanguage:  cfg.Languages.Primary,
		TargetLanguage: cfg.Languages.Secondary,
		Model:          cfg.Translation.Model,
		Prompt:         cfg.Translation.Prompt,
		BaseURL:        cfg.Translation.BaseURL,
		Timeout:        cfg.TranslationTimeout(),
	}

	translator, err := translate.NewTextTranslator(ctx, provider, cfg.Translation.APIKey, opts)
	if err != nil {
		logger.Warnw("Translation fallback unavailable",
			"provider", provider,
			"error", err,
		)
		return nil, noop, nil
	}

	if !cfg.Translation.Cache {
		return translator, noop, nil
	}

	cache, err := translate.OpenCache(
		cfg.Translation.CachePath,
		translate.CacheNamespace(provider, opts),
		translator,
	)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open translation cache: %w", err)
	}
	return cache, func() {
		if err := cache.Close(); err != nil {
			logger.Warnw("Failed to close translation cache", "error", err)
		}
	}, nil
}

// resolves, fetches and builds a session for source
func startSession(ctx context.Context, cmd *cobra.Command, source string) (*dualsub.Session, func(), error) {
	secondaryTrack, _ := cmd.Flags().GetString("secondary-track")

	if detectSource(source) != sourcePage && !strings.Contains(source, "://") {
		if _, err := os.Stat(source); err != nil {
			return nil, nil, fmt.Errorf("source not found: %s", source)
		}
	}

	translator, closeTranslator, err := newTranslator(ctx)
	if err != nil {
		return nil, nil, err
	}

	fetcher := track.NewRouter(cfg.FetchTimeout())
	session := dualsub.NewSession(dualsub.SessionOptions{
		Resolver:          newResolver(source, secondaryTrack, fetcher),
		Fetcher:           fetcher,
		PrimaryLanguage:   cfg.Languages.Primary,
		SecondaryLanguage: cfg.Languages.Secondary,
		Translator:        translator,
		Concurrency:       cfg.Translation.Concurrency,
		Logger:            logger,
	})

	logger.Infow("Starting session",
		"source", source,
		"kind", detectSource(source),
		"session", session.ID,
	)

	if err := session.Start(ctx); err != nil {
		closeTranslator()
		return nil, nil, err
	}

	logger.Infow("Session ready",
		"tracks", session.Tracks().Languages(),
		"translated", session.Translated(),
	)
	return session, closeTranslator, nil
}
