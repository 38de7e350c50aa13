package track

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/dualsub/internal/ffmpeg"
)

// media sources look like media:<subtitle stream index>:<file path>
const mediaScheme = "media:"

// image-based subtitle codecs carry no text to overlay
var bitmapCodecs = map[string]bool{
	"hdmv_pgs_subtitle": true,
	"dvd_subtitle":      true,
	"dvb_subtitle":      true,
	"xsub":              true,
}

// MediaResolver lists the text subtitle streams embedded in a media file.
type MediaResolver struct {
	Path string
}

func (r *MediaResolver) Resolve(ctx context.Context) (Set, error) {
	if _, err := os.Stat(r.Path); err != nil {
		return nil, &FetchError{Source: r.Path, Err: err}
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "s",
		r.Path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	set := parseProbeStreams(out.Bytes(), r.Path)
	if len(set) == 0 {
		return nil, &MissingElementError{Element: "subtitle stream"}
	}
	return set, nil
}

// parseProbeStreams builds a Set from ffprobe's -show_streams JSON. The
// position among subtitle streams becomes the stream selector.
func parseProbeStreams(data []byte, path string) Set {
	set := Set{}
	position := 0
	gjson.GetBytes(data, "streams").ForEach(func(_, stream gjson.Result) bool {
		index := position
		position++

		if bitmapCodecs[stream.Get("codec_name").String()] {
			return true
		}

		lang := stream.Get("tags.language").String()
		if lang == "" || lang == "und" {
			return true
		}

		set.Add(Descriptor{
			Language: lang,
			Label:    stream.Get("tags.title").String(),
			Kind:     "subtitles",
			Source:   MediaSource(index, path),
		})
		return true
	})
	return set
}

func MediaSource(stream int, path string) string {
	return fmt.Sprintf("%s%d:%s", mediaScheme, stream, path)
}

func parseMediaSource(source string) (int, string, error) {
	rest := strings.TrimPrefix(source, mediaScheme)
	idx, path, ok := strings.Cut(rest, ":")
	if !ok || path == "" {
		return 0, "", fmt.Errorf("invalid media source %q", source)
	}
	stream, err := strconv.Atoi(idx)
	if err != nil || stream < 0 {
		return 0, "", fmt.Errorf("invalid stream index in %q", source)
	}
	return stream, path, nil
}

// MediaFetcher extracts one embedded subtitle stream as WebVTT. The ffmpeg
// process is killed when ctx is cancelled.
type MediaFetcher struct{}

func (f *MediaFetcher) Fetch(ctx context.Context, source string) (string, error) {
	stream, path, err := parseMediaSource(source)
	if err != nil {
		return "", &FetchError{Source: source, Err: err}
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return "", &FetchError{Source: source, Err: err}
	}

	var out, stderr bytes.Buffer
	cmd := extractCommand(ctx, ffmpegPath, stream, path)
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", &FetchError{Source: source, Err: err}
	}

	return out.String(), nil
}

// ffmpeg invocation writing subtitle stream N of path to stdout as WebVTT
func extractCommand(ctx context.Context, ffmpegPath string, stream int, path string) *exec.Cmd {
	args := ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"map": fmt.Sprintf("0:s:%d", stream),
			"f":   "webvtt",
		}).
		GetArgs()
	return exec.CommandContext(ctx, ffmpegPath, args...)
}
