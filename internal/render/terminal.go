// Package render draws dual subtitle frames to a terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mgpai22/dualsub/internal/dualsub"
	"github.com/mgpai22/dualsub/internal/subtitle"
)

const (
	ansiCursorUp  = "\x1b[%dA"
	ansiClearDown = "\x1b[J"
)

var laneColors = map[string]color.Attribute{
	"white":   color.FgHiWhite,
	"yellow":  color.FgYellow,
	"cyan":    color.FgCyan,
	"green":   color.FgGreen,
	"magenta": color.FgMagenta,
	"red":     color.FgRed,
	"blue":    color.FgBlue,
}

// Terminal renders each lane in its own color and redraws only when the
// visible text changes. On a TTY the previous frame is overwritten in place;
// otherwise every change is printed as a timestamped block.
type Terminal struct {
	w         io.Writer
	tty       bool
	primary   *color.Color
	secondary *color.Color

	mu    sync.Mutex
	last  dualsub.Frame
	drawn bool
	lines int
}

func NewTerminal(w io.Writer, primary, secondary subtitle.LaneStyle) *Terminal {
	tty := IsTerminal(w)
	return &Terminal{
		w:         w,
		tty:       tty,
		primary:   laneColor(primary, secondary, tty),
		secondary: laneColor(secondary, primary, tty),
	}
}

// the larger of the two lanes is drawn bold
func laneColor(style, other subtitle.LaneStyle, enabled bool) *color.Color {
	attr, ok := laneColors[strings.ToLower(style.Color)]
	if !ok {
		attr = color.FgHiWhite
	}
	c := color.New(attr)
	if style.FontSize > other.FontSize {
		c.Add(color.Bold)
	}
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func (t *Terminal) Render(frame dualsub.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.drawn && frame.SameText(t.last) {
		return nil
	}
	t.last = frame
	t.drawn = true

	var sb strings.Builder
	if t.tty && t.lines > 0 {
		sb.WriteString(fmt.Sprintf(ansiCursorUp, t.lines))
		sb.WriteString(ansiClearDown)
	}

	lines := 0
	if !t.tty {
		if frame.Empty() {
			return nil
		}
		sb.WriteString(fmt.Sprintf("[%s]\n", formatClock(frame.Time)))
	}
	for _, lane := range []struct {
		text string
		c    *color.Color
	}{
		{frame.Primary, t.primary},
		{frame.Secondary, t.secondary},
	} {
		if lane.text == "" {
			continue
		}
		for _, line := range strings.Split(lane.text, "\n") {
			sb.WriteString(lane.c.Sprint(line))
			sb.WriteString("\n")
			lines++
		}
	}
	t.lines = lines

	if _, err := io.WriteString(t.w, sb.String()); err != nil {
		return fmt.Errorf("failed to draw frame: %w", err)
	}
	return nil
}

func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// formats as MM:SS.mmm, or HH:MM:SS.mmm past the first hour
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
	}
	return fmt.Sprintf("%02d:%02d.%03d", m, s, ms)
}
