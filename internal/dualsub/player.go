package dualsub

import (
	"context"
	"sync"
	"time"
)

// Renderer displays a frame. It must not keep the frame past the call.
type Renderer interface {
	Render(frame Frame) error
}

// Player reports playback position changes to registered handlers.
type Player interface {
	RegisterTimeUpdateHandler(handler func(t time.Duration))
}

// TickerPlayer simulates playback by advancing a position on a fixed tick.
// Positions advance by Interval*Rate per tick, independent of wall-clock
// drift.
type TickerPlayer struct {
	Interval time.Duration
	Rate     float64
	Start    time.Duration
	End      time.Duration // playback stops after reaching End; zero runs until cancelled

	mu       sync.Mutex
	handlers []func(time.Duration)
}

func NewTickerPlayer(end time.Duration) *TickerPlayer {
	return &TickerPlayer{
		Interval: 250 * time.Millisecond,
		Rate:     1,
		End:      end,
	}
}

func (p *TickerPlayer) RegisterTimeUpdateHandler(handler func(t time.Duration)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, handler)
}

// Run emits the start position, then one update per tick until End or ctx
// is done.
func (p *TickerPlayer) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	rate := p.Rate
	if rate <= 0 {
		rate = 1
	}
	step := time.Duration(float64(interval) * rate)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	position := p.Start
	p.emit(position)

	for {
		if p.End > 0 && position >= p.End {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			position += step
			if p.End > 0 && position > p.End {
				position = p.End
			}
			p.emit(position)
		}
	}
}

func (p *TickerPlayer) emit(t time.Duration) {
	p.mu.Lock()
	handlers := make([]func(time.Duration), len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.Unlock()

	for _, h := range handlers {
		h(t)
	}
}
