package dualsub

import (
	"sort"
	"strings"
	"time"

	"github.com/mgpai22/dualsub/internal/subtitle"
)

// Span is a stretch of playback during which neither lane changes.
type Span struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Frame Frame         `json:"frame"`
}

// Timeline sweeps every cue boundary of both lanes and labels each interval
// with what OnTimeUpdate shows at its midpoint. Intervals with nothing on
// screen are dropped and touching intervals with the same text are merged.
func (s *Synchronizer) Timeline() ([]Span, error) {
	if s.State() != StateReady {
		return nil, ErrNotReady
	}

	var bounds []time.Duration
	for _, lane := range []Lane{LanePrimary, LaneSecondary} {
		for _, cue := range s.lanes[lane].cues {
			bounds = append(bounds, cue.Start, cue.End)
		}
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i] < bounds[j] })

	var spans []Span
	for i := 1; i < len(bounds); i++ {
		start, end := bounds[i-1], bounds[i]
		if start == end {
			continue
		}

		frame, err := s.OnTimeUpdate(start + (end-start)/2)
		if err != nil {
			return nil, err
		}
		if frame.Empty() {
			continue
		}

		if n := len(spans); n > 0 &&
			spans[n-1].End == start &&
			spans[n-1].Frame.SameText(frame) {
			spans[n-1].End = end
			continue
		}
		frame.Time = start
		spans = append(spans, Span{Start: start, End: end, Frame: frame})
	}

	return spans, nil
}

// Bilingual assembles both lanes and the merged timeline for export.
func (s *Synchronizer) Bilingual(primary, secondary subtitle.LaneStyle) (*subtitle.Bilingual, error) {
	spans, err := s.Timeline()
	if err != nil {
		return nil, err
	}

	merged := make(subtitle.Sequence, 0, len(spans))
	for _, span := range spans {
		merged = append(merged, subtitle.Cue{
			Start: span.Start,
			End:   span.End,
			Text:  stack(span.Frame.Primary, span.Frame.Secondary),
		})
	}

	return &subtitle.Bilingual{
		Primary:        s.lanes[LanePrimary].cues.Clone(),
		Secondary:      s.lanes[LaneSecondary].cues.Clone(),
		Merged:         merged,
		PrimaryStyle:   primary,
		SecondaryStyle: secondary,
	}, nil
}

func stack(lines ...string) string {
	var parts []string
	for _, l := range lines {
		if l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, "\n")
}
