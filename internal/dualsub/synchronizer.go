package dualsub

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mgpai22/dualsub/internal/logging"
	"github.com/mgpai22/dualsub/internal/subtitle"
)

const DefaultConcurrency = 4

// Translator maps one cue text to the secondary language.
type Translator interface {
	TranslateText(ctx context.Context, text string) (string, error)
}

type State int32

const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

type Options struct {
	// Secondary is used as-is when non-nil. Otherwise it is derived from the
	// primary track with Translator.
	Secondary   subtitle.Sequence
	Translator  Translator
	Concurrency int // parallel translation requests (default 4)
	Logger      *logging.Logger
}

// Synchronizer holds both lanes and resolves the active cue pair for a
// playback position. It is immutable and safe for concurrent readers once
// Build has succeeded.
type Synchronizer struct {
	primary subtitle.Sequence
	opts    Options
	log     *logging.Logger

	buildMu sync.Mutex
	state   atomic.Int32
	lanes   map[Lane]*cueIndex
}

func NewSynchronizer(primary subtitle.Sequence, opts Options) (*Synchronizer, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary track is required")
	}
	if opts.Secondary == nil && opts.Translator == nil {
		return nil, fmt.Errorf("secondary track or translator is required")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &Synchronizer{
		primary: primary.Clone(),
		opts:    opts,
		log:     log,
	}, nil
}

// Build prepares both lanes. When no secondary track was supplied, every
// primary cue is translated and the results are placed back in cue order.
// The first failed translation cancels the rest and Build returns a
// *TranslationError, leaving the synchronizer uninitialized.
func (s *Synchronizer) Build(ctx context.Context) error {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if s.State() == StateReady {
		return nil
	}

	secondary := s.opts.Secondary.Clone()
	if secondary == nil {
		derived, err := s.derive(ctx)
		if err != nil {
			return err
		}
		secondary = derived
	}

	s.lanes = map[Lane]*cueIndex{
		LanePrimary:   newCueIndex(s.primary),
		LaneSecondary: newCueIndex(secondary),
	}
	s.state.Store(int32(StateReady))

	s.log.Debugw("synchronizer ready",
		"primary_cues", len(s.primary),
		"secondary_cues", len(secondary),
	)
	return nil
}

func (s *Synchronizer) derive(ctx context.Context) (subtitle.Sequence, error) {
	out := make(subtitle.Sequence, len(s.primary))
	if len(s.primary) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := s.opts.Concurrency
	if workers > len(s.primary) {
		workers = len(s.primary)
	}

	s.log.Infow("translating primary track",
		"cues", len(s.primary),
		"workers", workers,
	)
	start := time.Now()

	var (
		mu       sync.Mutex
		firstErr *TranslationError
		wg       sync.WaitGroup
	)

	workChan := make(chan int)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workChan {
				if ctx.Err() != nil {
					continue
				}

				cue := s.primary[idx]
				text, err := s.opts.Translator.TranslateText(ctx, cue.Text)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = &TranslationError{
							Index: idx,
							Text:  cue.Text,
							Err:   err,
						}
					}
					mu.Unlock()
					cancel()
					continue
				}

				// each index is written by exactly one worker
				out[idx] = subtitle.Cue{
					Start: cue.Start,
					End:   cue.End,
					Text:  text,
				}
			}
		}()
	}

	go func() {
		defer close(workChan)
		for i := range s.primary {
			select {
			case <-ctx.Done():
				return
			case workChan <- i:
			}
		}
	}()

	wg.Wait()

	if firstErr != nil {
		s.log.Warnw("translation failed",
			"cue", firstErr.Index,
			"error", firstErr,
		)
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("translation interrupted: %w", err)
	}

	s.log.Infow("translation complete",
		"cues", len(out),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return out, nil
}

func (s *Synchronizer) State() State {
	return State(s.state.Load())
}

// ActiveCue returns the cue shown on lane at t.
func (s *Synchronizer) ActiveCue(lane Lane, t time.Duration) (subtitle.Cue, bool, error) {
	if s.State() != StateReady {
		return subtitle.Cue{}, false, ErrNotReady
	}
	idx, ok := s.lanes[lane]
	if !ok {
		return subtitle.Cue{}, false, fmt.Errorf("unknown lane %q", lane)
	}
	cue, found := idx.active(t)
	return cue, found, nil
}

// OnTimeUpdate returns the text of both lanes at t. It has no side effects
// and cannot fail once the synchronizer is ready.
func (s *Synchronizer) OnTimeUpdate(t time.Duration) (Frame, error) {
	if s.State() != StateReady {
		return Frame{}, ErrNotReady
	}

	frame := Frame{Time: t}
	if cue, ok := s.lanes[LanePrimary].active(t); ok {
		frame.Primary = cue.Text
	}
	if cue, ok := s.lanes[LaneSecondary].active(t); ok {
		frame.Secondary = cue.Text
	}
	return frame, nil
}

// Sequence returns a copy of one lane's cues.
func (s *Synchronizer) Sequence(lane Lane) (subtitle.Sequence, error) {
	if s.State() != StateReady {
		return nil, ErrNotReady
	}
	idx, ok := s.lanes[lane]
	if !ok {
		return nil, fmt.Errorf("unknown lane %q", lane)
	}
	return idx.cues.Clone(), nil
}

// Duration is the end of the last cue on either lane.
func (s *Synchronizer) Duration() time.Duration {
	if s.State() != StateReady {
		return s.primary.Duration()
	}
	d := s.lanes[LanePrimary].cues.Duration()
	if sd := s.lanes[LaneSecondary].cues.Duration(); sd > d {
		d = sd
	}
	return d
}

// ActiveCue returns the first cue in seq whose window contains t, both
// bounds inclusive.
func ActiveCue(seq subtitle.Sequence, t time.Duration) (subtitle.Cue, bool) {
	return seq.Active(t)
}
