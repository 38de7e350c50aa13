package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/mgpai22/dualsub/internal/dualsub"
	"github.com/mgpai22/dualsub/internal/subtitle"
)

func newTestTerminal(buf *bytes.Buffer) *Terminal {
	return NewTerminal(
		buf,
		subtitle.LaneStyle{Color: "white", FontSize: 20},
		subtitle.LaneStyle{Color: "yellow", FontSize: 18},
	)
}

func TestTerminalRedrawsOnlyOnChange(t *testing.T) {
	var buf bytes.Buffer
	term := newTestTerminal(&buf)

	frames := []dualsub.Frame{
		{Time: 0, Primary: "Hello", Secondary: "Xin chào"},
		{Time: 250 * time.Millisecond, Primary: "Hello", Secondary: "Xin chào"},
		{Time: 2 * time.Second, Primary: "World\nagain"},
		{Time: 5 * time.Second},
	}
	for _, f := range frames {
		if err := term.Render(f); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}

	want := "[00:00.000]\nHello\nXin chào\n" +
		"[00:02.000]\nWorld\nagain\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestTerminalNoColorOffTTY(t *testing.T) {
	var buf bytes.Buffer
	if IsTerminal(&buf) {
		t.Fatal("buffer is not a terminal")
	}
	term := newTestTerminal(&buf)
	if err := term.Render(dualsub.Frame{Primary: "x"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("unexpected escape codes in %q", buf.String())
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00.000"},
		{61*time.Second + 5*time.Millisecond, "01:01.005"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03.000"},
		{-time.Second, "00:00.000"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.in); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
