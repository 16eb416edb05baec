package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
)

const (
	ffmpegPathEnv  = "SUBTITLEGEN_FFMPEG_PATH"
	ffprobePathEnv = "SUBTITLEGEN_FFPROBE_PATH"
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure locates ffmpeg and ffprobe once per process.
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

// environment overrides win over PATH
func locate(
	getenv func(string) string,
	lookPath func(string) (string, error),
) (BinaryPaths, error) {
	paths := BinaryPaths{
		FFmpeg:  getenv(ffmpegPathEnv),
		FFprobe: getenv(ffprobePathEnv),
	}

	if paths.FFmpeg == "" {
		found, err := lookPath("ffmpeg")
		if err != nil {
			return BinaryPaths{}, fmt.Errorf(
				"ffmpeg not found: install it or set %s: %w",
				ffmpegPathEnv,
				err,
			)
		}
		paths.FFmpeg = found
	}
	if paths.FFprobe == "" {
		found, err := lookPath("ffprobe")
		if err != nil {
			return BinaryPaths{}, fmt.Errorf(
				"ffprobe not found: install it or set %s: %w",
				ffprobePathEnv,
				err,
			)
		}
		paths.FFprobe = found
	}

	return paths, nil
}
