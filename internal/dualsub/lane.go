// Package dualsub pairs a primary and a secondary subtitle track and answers,
// for any playback position, which cue text each lane should show.
package dualsub

import (
	"fmt"
	"time"
)

type Lane string

const (
	LanePrimary   Lane = "primary"
	LaneSecondary Lane = "secondary"
)

func ParseLane(s string) (Lane, error) {
	switch Lane(s) {
	case LanePrimary, LaneSecondary:
		return Lane(s), nil
	default:
		return "", fmt.Errorf("unknown lane %q", s)
	}
}

// Frame is the text each lane displays at one playback position. An empty
// string means no cue is active on that lane.
type Frame struct {
	Time      time.Duration `json:"time"`
	Primary   string        `json:"primary"`
	Secondary string        `json:"secondary"`
}

func (f Frame) Empty() bool {
	return f.Primary == "" && f.Secondary == ""
}

// SameText reports whether both frames show the same cues, ignoring time.
func (f Frame) SameText(other Frame) bool {
	return f.Primary == other.Primary && f.Secondary == other.Secondary
}
