package dualsub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mgpai22/dualsub/internal/subtitle"
)

// translates from a fixed dictionary; texts listed in block wait until the
// channel closes
type mapTranslator struct {
	dict  map[string]string
	fail  map[string]error
	block map[string]chan struct{}

	mu    sync.Mutex
	order []string
	calls atomic.Int32
}

func (m *mapTranslator) TranslateText(ctx context.Context, text string) (string, error) {
	m.calls.Add(1)
	if ch, ok := m.block[text]; ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err, ok := m.fail[text]; ok {
		return "", err
	}
	out, ok := m.dict[text]
	if !ok {
		return "", fmt.Errorf("no translation for %q", text)
	}
	m.mu.Lock()
	m.order = append(m.order, text)
	m.mu.Unlock()
	return out, nil
}

func sec(s float64) time.Duration {
	return subtitle.SecondsToDuration(s)
}

func helloWorld() subtitle.Sequence {
	return subtitle.Sequence{
		{Start: 0, End: sec(2), Text: "Hello"},
		{Start: sec(2), End: sec(4), Text: "World"},
	}
}

func TestBuildDerivesSecondaryInOrder(t *testing.T) {
	release := make(chan struct{})
	tr := &mapTranslator{
		dict:  map[string]string{"Hello": "Xin chào", "World": "Thế giới"},
		block: map[string]chan struct{}{"Hello": release},
	}

	// let "World" finish first, then release "Hello"
	go func() {
		for {
			tr.mu.Lock()
			done := len(tr.order) == 1
			tr.mu.Unlock()
			if done {
				close(release)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	s, err := NewSynchronizer(helloWorld(), Options{Translator: tr, Concurrency: 2})
	if err != nil {
		t.Fatalf("NewSynchronizer: %v", err)
	}
	if err := s.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if tr.order[0] != "World" {
		t.Fatalf("expected World to complete first, got %v", tr.order)
	}

	got, err := s.Sequence(LaneSecondary)
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	want := subtitle.Sequence{
		{Start: 0, End: sec(2), Text: "Xin chào"},
		{Start: sec(2), End: sec(4), Text: "Thế giới"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d cues, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cue %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if s.State() != StateReady {
		t.Errorf("expected ready, got %v", s.State())
	}
}

func TestBuildTranslationFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	tr := &mapTranslator{
		dict: map[string]string{"Hello": "Xin chào"},
		fail: map[string]error{"World": cause},
	}

	s, err := NewSynchronizer(helloWorld(), Options{Translator: tr})
	if err != nil {
		t.Fatalf("NewSynchronizer: %v", err)
	}

	err = s.Build(context.Background())
	var trErr *TranslationError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected *TranslationError, got %v", err)
	}
	if trErr.Index != 1 || trErr.Text != "World" {
		t.Errorf("unexpected error fields %+v", trErr)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}

	if s.State() != StateUninitialized {
		t.Errorf("expected uninitialized, got %v", s.State())
	}
	if _, err := s.OnTimeUpdate(sec(1)); !errors.Is(err, ErrNotReady) {
		t.Errorf("OnTimeUpdate: expected ErrNotReady, got %v", err)
	}
	if _, err := s.Sequence(LaneSecondary); !errors.Is(err, ErrNotReady) {
		t.Errorf("Sequence: expected ErrNotReady, got %v", err)
	}
}

func TestBuildFailureCancelsSiblings(t *testing.T) {
	cues := make(subtitle.Sequence, 40)
	never := make(chan struct{})
	tr := &mapTranslator{
		dict:  map[string]string{},
		fail:  map[string]error{"cue 0": errors.New("boom")},
		block: map[string]chan struct{}{},
	}
	for i := range cues {
		text := fmt.Sprintf("cue %d", i)
		cues[i] = subtitle.Cue{Start: sec(float64(i)), End: sec(float64(i) + 0.5), Text: text}
		if i > 0 {
			tr.block[text] = never
		}
	}

	s, err := NewSynchronizer(cues, Options{Translator: tr, Concurrency: 3})
	if err != nil {
		t.Fatalf("NewSynchronizer: %v", err)
	}

	err = s.Build(context.Background())
	var trErr *TranslationError
	if !errors.As(err, &trErr) || trErr.Index != 0 {
		t.Fatalf("expected TranslationError for cue 0, got %v", err)
	}
	if calls := tr.calls.Load(); calls >= int32(len(cues)) {
		t.Errorf("expected remaining cues to be skipped, got %d calls", calls)
	}
}

func TestBuildUsesSuppliedSecondary(t *testing.T) {
	secondary := subtitle.Sequence{{Start: 0, End: sec(3), Text: "Bonjour"}}
	s, err := NewSynchronizer(helloWorld(), Options{Secondary: secondary})
	if err != nil {
		t.Fatalf("NewSynchronizer: %v", err)
	}
	if err := s.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	frame, err := s.OnTimeUpdate(sec(2.5))
	if err != nil {
		t.Fatalf("OnTimeUpdate: %v", err)
	}
	if frame.Primary != "World" || frame.Secondary != "Bonjour" {
		t.Errorf("unexpected frame %+v", frame)
	}

	// building again is a no-op
	if err := s.Build(context.Background()); err != nil {
		t.Errorf("second Build: %v", err)
	}
}

func TestBuildEmptyPrimary(t *testing.T) {
	tr := &mapTranslator{}
	s, err := NewSynchronizer(subtitle.Sequence{}, Options{Translator: tr})
	if err != nil {
		t.Fatalf("NewSynchronizer: %v", err)
	}
	if err := s.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tr.calls.Load() != 0 {
		t.Error("translator should not be called for an empty track")
	}
	frame, _ := s.OnTimeUpdate(0)
	if !frame.Empty() {
		t.Errorf("expected empty frame, got %+v", frame)
	}
}

func TestNewSynchronizerValidation(t *testing.T) {
	if _, err := NewSynchronizer(nil, Options{Secondary: subtitle.Sequence{}}); err == nil {
		t.Error("expected error for missing primary")
	}
	if _, err := NewSynchronizer(subtitle.Sequence{}, Options{}); err == nil {
		t.Error("expected error without secondary or translator")
	}
}

func TestOnTimeUpdate(t *testing.T) {
	primary := subtitle.Sequence{
		{Start: 0, End: sec(5), Text: "first"},
		{Start: sec(3), End: sec(8), Text: "second"},
		{Start: sec(10), End: sec(12), Text: "third"},
	}
	secondary := subtitle.Sequence{
		{Start: sec(1), End: sec(2), Text: "một"},
		{Start: sec(2), End: sec(9), Text: "hai"},
	}

	s, err := NewSynchronizer(primary, Options{Secondary: secondary})
	if err != nil {
		t.Fatalf("NewSynchronizer: %v", err)
	}
	if err := s.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	tests := []struct {
		at        time.Duration
		primary   string
		secondary string
	}{
		{0, "first", ""},
		{sec(1), "first", "một"},
		{sec(2), "first", "một"},
		{sec(4), "first", "hai"},
		{sec(5), "first", "hai"},
		{sec(6), "second", "hai"},
		{sec(9.5), "", ""},
		{sec(10), "third", ""},
		{sec(12), "third", ""},
		{sec(12.001), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.at.String(), func(t *testing.T) {
			frame, err := s.OnTimeUpdate(tt.at)
			if err != nil {
				t.Fatalf("OnTimeUpdate: %v", err)
			}
			if frame.Primary != tt.primary || frame.Secondary != tt.secondary {
				t.Errorf("OnTimeUpdate(%v) = %q/%q, want %q/%q",
					tt.at, frame.Primary, frame.Secondary, tt.primary, tt.secondary)
			}
			if frame.Time != tt.at {
				t.Errorf("frame time = %v, want %v", frame.Time, tt.at)
			}

			again, _ := s.OnTimeUpdate(tt.at)
			if again != frame {
				t.Errorf("repeated call differs: %+v vs %+v", again, frame)
			}
		})
	}
}

func TestActiveCueBoundaries(t *testing.T) {
	seq := subtitle.Sequence{{Start: sec(1), End: sec(2), Text: "x"}}

	for _, at := range []time.Duration{sec(1), sec(1.5), sec(2)} {
		if _, ok := ActiveCue(seq, at); !ok {
			t.Errorf("expected cue active at %v", at)
		}
	}
	for _, at := range []time.Duration{sec(0.999), sec(2.001)} {
		if _, ok := ActiveCue(seq, at); ok {
			t.Errorf("expected no cue at %v", at)
		}
	}
}

func TestActiveCueOverlapPicksFirst(t *testing.T) {
	seq := subtitle.Sequence{
		{Start: 0, End: sec(5), Text: "A"},
		{Start: sec(3), End: sec(8), Text: "B"},
	}
	cue, ok := ActiveCue(seq, sec(4))
	if !ok || cue.Text != "A" {
		t.Errorf("expected A, got %+v (%v)", cue, ok)
	}

	s, _ := NewSynchronizer(seq, Options{Secondary: subtitle.Sequence{}})
	if err := s.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	cue, ok, err := s.ActiveCue(LanePrimary, sec(4))
	if err != nil || !ok || cue.Text != "A" {
		t.Errorf("synchronizer ActiveCue = %+v %v %v", cue, ok, err)
	}
	if _, _, err := s.ActiveCue(Lane("tertiary"), 0); err == nil {
		t.Error("expected error for unknown lane")
	}
}

// the indexed lookup must agree with the ordered scan everywhere
func TestCueIndexMatchesLinearScan(t *testing.T) {
	sequences := map[string]subtitle.Sequence{
		"sorted": {
			{Start: 0, End: sec(1), Text: "a"},
			{Start: sec(1), End: sec(2), Text: "b"},
			{Start: sec(3), End: sec(3), Text: "c"},
			{Start: sec(4), End: sec(6), Text: "d"},
		},
		"overlapping": {
			{Start: 0, End: sec(5), Text: "a"},
			{Start: sec(3), End: sec(8), Text: "b"},
			{Start: sec(1), End: sec(2), Text: "c"},
		},
		"unsorted": {
			{Start: sec(5), End: sec(6), Text: "a"},
			{Start: 0, End: sec(1), Text: "b"},
		},
		"inverted": {
			{Start: 0, End: sec(2), Text: "a"},
			{Start: sec(3), End: sec(1), Text: "b"},
			{Start: sec(4), End: sec(6), Text: "c"},
		},
		"empty": {},
	}

	for name, seq := range sequences {
		t.Run(name, func(t *testing.T) {
			idx := newCueIndex(seq)
			for at := time.Duration(0); at <= sec(9); at += 250 * time.Millisecond {
				want, wantOK := seq.Active(at)
				got, gotOK := idx.active(at)
				if got != want || gotOK != wantOK {
					t.Errorf("at %v: index %+v/%v, scan %+v/%v", at, got, gotOK, want, wantOK)
				}
			}
		})
	}
}

func TestConcurrentReaders(t *testing.T) {
	s, _ := NewSynchronizer(helloWorld(), Options{Secondary: helloWorld()})
	if err := s.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ms := 0; ms < 4000; ms += 100 {
				if _, err := s.OnTimeUpdate(time.Duration(ms) * time.Millisecond); err != nil {
					t.Errorf("OnTimeUpdate: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
