package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// display settings for one lane
type LaneStyle struct {
	Color    string
	FontSize int
}

// both lanes of a bilingual track ready for export
type Bilingual struct {
	Primary        Sequence
	Secondary      Sequence
	Merged         Sequence // spans with primary and secondary text stacked
	PrimaryStyle   LaneStyle
	SecondaryStyle LaneStyle
}

// SubRip format, merged lanes
type SRTWriter struct{}

// WebVTT format, merged lanes
type VTTWriter struct{}

// Advanced SubStation Alpha format, one style per lane
type ASSWriter struct {
	Title    string
	FontName string
}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatASS:
		return &ASSWriter{
			Title:    "Dual Subtitles",
			FontName: "Arial",
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes the merged lanes to an SRT file
func (w *SRTWriter) Write(track *Bilingual, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder
	for i, cue := range track.Merged {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(cue.Start),
			formatSRTTime(cue.End)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

// writes the merged lanes to a VTT file
func (w *VTTWriter) Write(track *Bilingual, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(EncodeVTT(track.Merged)), 0644)
}

// EncodeVTT renders cues as a WebVTT document that Parse reads back.
func EncodeVTT(cues Sequence) string {
	var sb strings.Builder
	sb.WriteString(vttHeader + "\n\n")

	for i, cue := range cues {
		// optional cue identifier
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatVTTTime(cue.Start),
			formatVTTTime(cue.End)))
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}

	return sb.String()
}

// writes each lane as its own ASS style, secondary stacked below primary
func (w *ASSWriter) Write(track *Bilingual, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", w.Title))
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("Collisions: Normal\n")
	sb.WriteString("PlayDepth: 0\n\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(w.styleLine("Primary", track.PrimaryStyle, 10+laneHeight(track.SecondaryStyle)))
	sb.WriteString(w.styleLine("Secondary", track.SecondaryStyle, 10))
	sb.WriteString("\n")

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, cue := range track.Primary {
		sb.WriteString(dialogueLine("Primary", cue))
	}
	for _, cue := range track.Secondary {
		sb.WriteString(dialogueLine("Secondary", cue))
	}

	return os.WriteFile(path, []byte(sb.String()), 0644)
}

func (w *ASSWriter) styleLine(name string, style LaneStyle, marginV int) string {
	fontSize := style.FontSize
	if fontSize <= 0 {
		fontSize = 20
	}
	// opaque box background mirrors the overlay's dark backing
	return fmt.Sprintf("Style: %s,%s,%d,%s,&H000000FF,&H00000000,&H4D000000,0,0,0,0,100,100,0,0,3,2,0,2,10,10,%d,1\n",
		name, w.FontName, fontSize, assColour(style.Color), marginV)
}

func dialogueLine(style string, cue Cue) string {
	return fmt.Sprintf("Dialogue: 0,%s,%s,%s,,0,0,0,,%s\n",
		formatASSTime(cue.Start),
		formatASSTime(cue.End),
		style,
		escapeASSText(cue.Text))
}

// room for two lines of a lane's text plus padding
func laneHeight(style LaneStyle) int {
	fontSize := style.FontSize
	if fontSize <= 0 {
		fontSize = 20
	}
	return fontSize*2 + 10
}

// ASS colours are &HAABBGGRR
var assColours = map[string]string{
	"white":  "&H00FFFFFF",
	"yellow": "&H0000FFFF",
	"cyan":   "&H00FFFF00",
	"green":  "&H0000FF00",
	"red":    "&H000000FF",
	"blue":   "&H00FF0000",
}

func assColour(name string) string {
	if c, ok := assColours[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return assColours["white"]
}

func formatSRTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func formatVTTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

func formatASSTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	centis := (int(d.Milliseconds()) % 1000) / 10

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

func escapeASSText(text string) string {
	return strings.ReplaceAll(text, "\n", "\\N")
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".ass", ".ssa":
		return FormatASS
	default:
		return FormatVTT
	}
}
