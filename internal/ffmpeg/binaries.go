package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// environment overrides for the tool locations
const (
	ffmpegPathEnv  = "DUALSUB_FFMPEG_PATH"
	ffprobePathEnv = "DUALSUB_FFPROBE_PATH"
)

// ErrNotFound is returned when neither the override nor PATH has the tool.
var ErrNotFound = errors.New("executable not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensurePath BinaryPaths
	ensureErr  error
)

// Ensure resolves both binaries once per process.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = locate(os.Getenv, exec.LookPath)
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func locate(
	getenv func(string) string,
	lookPath func(string) (string, error),
) (BinaryPaths, error) {
	ffmpegPath, err := find("ffmpeg", getenv(ffmpegPathEnv), lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobePath, err := find("ffprobe", getenv(ffprobePathEnv), lookPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func find(
	name string,
	override string,
	lookPath func(string) (string, error),
) (string, error) {
	if override != "" {
		return override, nil
	}
	found, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w (install it or set %s)",
			name,
			ErrNotFound,
			envFor(name),
		)
	}
	return found, nil
}

func envFor(name string) string {
	if name == "ffprobe" {
		return ffprobePathEnv
	}
	return ffmpegPathEnv
}
