package dualsub

import (
	"sort"
	"time"

	"github.com/mgpai22/dualsub/internal/subtitle"
)

// cueIndex answers active-cue lookups for one lane. Sorted, non-overlapping
// lanes use binary search; anything else falls back to the ordered scan so
// the earlier of two overlapping cues still wins.
type cueIndex struct {
	cues   subtitle.Sequence
	sorted bool
}

func newCueIndex(cues subtitle.Sequence) *cueIndex {
	return &cueIndex{
		cues:   cues,
		sorted: cues.Monotonic(),
	}
}

func (x *cueIndex) active(t time.Duration) (subtitle.Cue, bool) {
	if !x.sorted {
		return x.cues.Active(t)
	}

	// ends never decrease in a sorted lane, so the first cue ending at or
	// after t is the only candidate
	i := sort.Search(len(x.cues), func(i int) bool {
		return x.cues[i].End >= t
	})
	if i < len(x.cues) && x.cues[i].Contains(t) {
		return x.cues[i], true
	}
	return subtitle.Cue{}, false
}
