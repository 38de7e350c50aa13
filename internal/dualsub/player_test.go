package dualsub

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTickerPlayerRunsToEnd(t *testing.T) {
	p := &TickerPlayer{
		Interval: time.Millisecond,
		Rate:     100,
		End:      time.Second,
	}

	var positions []time.Duration
	p.RegisterTimeUpdateHandler(func(at time.Duration) {
		positions = append(positions, at)
	})

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(positions) != 11 {
		t.Fatalf("expected 11 updates, got %d: %v", len(positions), positions)
	}
	for i, at := range positions {
		if want := time.Duration(i) * 100 * time.Millisecond; at != want {
			t.Errorf("update %d = %v, want %v", i, at, want)
		}
	}
}

func TestTickerPlayerClampsToEnd(t *testing.T) {
	p := &TickerPlayer{Interval: time.Millisecond, Rate: 300, End: time.Second}

	var last time.Duration
	p.RegisterTimeUpdateHandler(func(at time.Duration) { last = at })

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if last != time.Second {
		t.Errorf("expected final update at end, got %v", last)
	}
}

func TestTickerPlayerCancel(t *testing.T) {
	p := &TickerPlayer{Interval: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	p.RegisterTimeUpdateHandler(func(time.Duration) {
		count++
		if count == 3 {
			cancel()
		}
	})

	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
