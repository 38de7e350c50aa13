package subtitle

import (
	"time"
)

// represents single timed caption
type Cue struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Text  string        `json:"text"`
}

// reports whether t falls inside the cue window, both bounds inclusive
func (c Cue) Contains(t time.Duration) bool {
	return t >= c.Start && t <= c.End
}

// ordered cues for one language lane, in input order
type Sequence []Cue

// Active returns the first cue in sequence order whose window contains t.
// Overlapping cues resolve to the earlier one.
func (s Sequence) Active(t time.Duration) (Cue, bool) {
	for _, cue := range s {
		if cue.Contains(t) {
			return cue, true
		}
	}
	return Cue{}, false
}

// End of the last cue to finish, zero for an empty sequence
func (s Sequence) Duration() time.Duration {
	var last time.Duration
	for _, cue := range s {
		if cue.End > last {
			last = cue.End
		}
	}
	return last
}

// Monotonic reports whether cues are ordered by start, never overlap and
// never end before they start, which allows lookups by binary search.
func (s Sequence) Monotonic() bool {
	for i, cue := range s {
		if cue.End < cue.Start {
			return false
		}
		if i > 0 && cue.Start < s[i-1].End {
			return false
		}
	}
	return true
}

func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
	FormatASS Format = "ass"
)

// interface for writing subtitles to files
type Writer interface {
	Write(track *Bilingual, path string) error
}
