package dualsub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mgpai22/dualsub/internal/logging"
	"github.com/mgpai22/dualsub/internal/subtitle"
	"github.com/mgpai22/dualsub/internal/track"
)

type SessionOptions struct {
	Resolver          track.Resolver
	Fetcher           track.Fetcher
	PrimaryLanguage   string
	SecondaryLanguage string
	// used only when the secondary language has no track
	Translator  Translator
	Concurrency int
	Logger      *logging.Logger
}

// Session wires a video's tracks into a Synchronizer: resolve the tracks,
// fetch both concurrently, parse them and build.
type Session struct {
	ID string

	opts SessionOptions
	log  *logging.Logger

	tracks    track.Set
	primary   track.Descriptor
	secondary *track.Descriptor
	sync      *Synchronizer
}

func NewSession(opts SessionOptions) *Session {
	id := uuid.NewString()
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Session{
		ID:   id,
		opts: opts,
		log:  log.With("session", id[:8]),
	}
}

// Start resolves, fetches, parses and builds. Any failure leaves the session
// without a synchronizer.
func (s *Session) Start(ctx context.Context) error {
	if s.opts.Resolver == nil || s.opts.Fetcher == nil {
		return fmt.Errorf("session needs a resolver and a fetcher")
	}

	set, err := s.opts.Resolver.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve tracks: %w", err)
	}
	s.tracks = set

	primary, err := set.Lookup(s.opts.PrimaryLanguage)
	if err != nil {
		return err
	}
	s.primary = primary

	if s.opts.SecondaryLanguage != "" &&
		track.NormalizeLanguage(s.opts.SecondaryLanguage) !=
			track.NormalizeLanguage(s.opts.PrimaryLanguage) {
		if d, err := set.Lookup(s.opts.SecondaryLanguage); err == nil {
			s.secondary = &d
		}
	}

	if s.secondary == nil && s.opts.Translator == nil {
		return &track.MissingElementError{
			Element:  "track",
			Language: s.opts.SecondaryLanguage,
		}
	}

	s.log.Infow("tracks resolved",
		"primary", s.primary.Source,
		"secondary", s.secondarySource(),
		"available", set.Languages(),
	)

	primaryCues, secondaryCues, err := s.load(ctx)
	if err != nil {
		return err
	}

	synchronizer, err := NewSynchronizer(primaryCues, Options{
		Secondary:   secondaryCues,
		Translator:  s.opts.Translator,
		Concurrency: s.opts.Concurrency,
		Logger:      s.log,
	})
	if err != nil {
		return err
	}
	if err := synchronizer.Build(ctx); err != nil {
		return err
	}

	s.sync = synchronizer
	return nil
}

func (s *Session) secondarySource() string {
	if s.secondary == nil {
		return "translated"
	}
	return s.secondary.Source
}

// fetches both tracks concurrently, then parses them
func (s *Session) load(ctx context.Context) (subtitle.Sequence, subtitle.Sequence, error) {
	var (
		wg                    sync.WaitGroup
		primaryRaw, secondRaw string
		primaryErr, secondErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		primaryRaw, primaryErr = s.opts.Fetcher.Fetch(ctx, s.primary.Source)
	}()

	if s.secondary != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			secondRaw, secondErr = s.opts.Fetcher.Fetch(ctx, s.secondary.Source)
		}()
	}

	wg.Wait()

	if err := errors.Join(primaryErr, secondErr); err != nil {
		return nil, nil, err
	}

	primary, err := subtitle.Parse(primaryRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s track: %w", LanePrimary, err)
	}

	var secondary subtitle.Sequence
	if s.secondary != nil {
		secondary, err = subtitle.Parse(secondRaw)
		if err != nil {
			return nil, nil, fmt.Errorf("%s track: %w", LaneSecondary, err)
		}
	}

	s.log.Debugw("tracks parsed",
		"primary_cues", len(primary),
		"secondary_cues", len(secondary),
	)
	return primary, secondary, nil
}

// Synchronizer is nil until Start succeeds.
func (s *Session) Synchronizer() *Synchronizer {
	return s.sync
}

func (s *Session) Tracks() track.Set {
	return s.tracks
}

// Translated reports whether the secondary lane was derived by translation.
func (s *Session) Translated() bool {
	return s.sync != nil && s.secondary == nil
}

// Attach renders a frame on every time update from p. Render failures are
// logged and never stop playback.
func (s *Session) Attach(p Player, r Renderer) error {
	if s.sync == nil {
		return ErrNotReady
	}

	p.RegisterTimeUpdateHandler(func(t time.Duration) {
		frame, err := s.sync.OnTimeUpdate(t)
		if err != nil {
			s.log.Warnw("time update failed", "time", t, "error", err)
			return
		}
		if err := r.Render(frame); err != nil {
			s.log.Warnw("render failed", "time", t, "error", err)
		}
	})
	return nil
}
