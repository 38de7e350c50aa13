package subtitle

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	vttHeader       = "WEBVTT"
	timingDelimiter = " --> "
)

// ParseReader reads the whole document and parses it with Parse.
func ParseReader(r io.Reader) (Sequence, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read captions: %w", err)
	}
	return Parse(string(data))
}

// Parse converts a WebVTT document into cues in order of appearance.
//
// The first line must carry the WEBVTT header and is otherwise ignored. A
// timing line opens a cue, following text lines are joined with newlines and
// a blank line commits it. A cue interrupted by another timing line before
// its blank line is dropped. An open cue at end of input is committed.
func Parse(raw string) (Sequence, error) {
	raw = strings.TrimPrefix(raw, "\ufeff")
	if !strings.HasPrefix(raw, vttHeader) {
		return nil, &FormatError{Line: 1, Err: ErrMissingHeader}
	}

	lines := strings.Split(raw, "\n")
	cues := Sequence{}
	var current *Cue

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		lineNum := i + 1

		switch {
		case strings.Contains(line, timingDelimiter):
			start, end, err := parseTimingLine(line)
			if err != nil {
				return nil, &FormatError{Line: lineNum, Text: line, Err: err}
			}
			current = &Cue{Start: start, End: end}
		case line != "" && current != nil:
			if current.Text != "" {
				current.Text += "\n"
			}
			current.Text += line
		case line == "" && current != nil:
			cues = append(cues, *current)
			current = nil
		}
	}

	if current != nil {
		cues = append(cues, *current)
	}

	return cues, nil
}

func parseTimingLine(line string) (time.Duration, time.Duration, error) {
	parts := strings.SplitN(line, timingDelimiter, 2)
	startText := strings.TrimSpace(parts[0])

	// cue settings may follow the end timestamp
	endFields := strings.Fields(parts[1])
	if len(endFields) == 0 {
		return 0, 0, errors.New("missing end timestamp")
	}

	start, err := parseVTTTimestamp(startText)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start timestamp: %w", err)
	}
	end, err := parseVTTTimestamp(endFields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end timestamp: %w", err)
	}
	if end < start {
		return 0, 0, fmt.Errorf(
			"end timestamp %s is before start timestamp %s",
			endFields[0],
			startText,
		)
	}

	return start, end, nil
}

// largest value that still fits a time.Duration
const maxTimestampSeconds = float64(math.MaxInt64) / float64(time.Second)

// accepts HH:MM:SS.mmm and the short MM:SS.mmm form
func parseVTTTimestamp(ts string) (time.Duration, error) {
	fields := strings.Split(ts, ":")

	var hours, minutes string
	var seconds string
	switch len(fields) {
	case 3:
		hours, minutes, seconds = fields[0], fields[1], fields[2]
	case 2:
		hours, minutes, seconds = "0", fields[0], fields[1]
	default:
		return 0, fmt.Errorf("malformed timestamp %q", ts)
	}

	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", ts, err)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", ts, err)
	}
	s, err := strconv.ParseFloat(seconds, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", ts, err)
	}
	if h < 0 || m < 0 || s < 0 || math.IsInf(s, 0) || math.IsNaN(s) {
		return 0, fmt.Errorf("negative or non-finite timestamp %q", ts)
	}

	total := float64(h)*3600 + float64(m)*60 + s
	if total >= maxTimestampSeconds {
		return 0, fmt.Errorf("timestamp %q out of range", ts)
	}
	return SecondsToDuration(total), nil
}

// SecondsToDuration converts real-valued seconds, rounding to the nearest
// nanosecond.
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
