package transcode

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"vodserver/internal/utils"
)

// FFmpegProber shells out to ffprobe for the duration and to ffmpeg for a
// single 1280x720 frame grab one second in.
type FFmpegProber struct {
	FfmpegPath  string
	FfprobePath string
}

func NewFFmpegProber() FFmpegProber {
	prober := FFmpegProber{
		FfmpegPath:  "ffmpeg",
		FfprobePath: "ffprobe",
	}

	if path := os.Getenv(utils.FFMPEG_PATH); path != "" {
		prober.FfmpegPath = path
	}
	if path := os.Getenv(utils.FFPROBE_PATH); path != "" {
		prober.FfprobePath = path
	}

	return prober
}

func (f FFmpegProber) Probe(video []byte) (Result, error) {
	var result Result

	videoPath := filepath.Join(os.TempDir(), uuid.NewString()+".mp4")
	err := os.WriteFile(videoPath, video, 0644)
	if err != nil {
		return result, fmt.Errorf("os.WriteFile(videoPath, video, 0644). %w", err)
	}
	defer os.Remove(videoPath)

	out, err := exec.Command(f.FfprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	).Output()
	if err != nil {
		return result, fmt.Errorf("exec.Command(ffprobe).Output(). %w", err)
	}

	duration, err := ParseProbedDuration(string(out))
	if err != nil {
		return result, fmt.Errorf("ParseProbedDuration(out). %w", err)
	}
	result.DurationSeconds = duration

	thumbnailPath := filepath.Join(os.TempDir(), uuid.NewString()+".png")
	defer os.Remove(thumbnailPath)

	err = exec.Command(f.FfmpegPath,
		"-i", videoPath,
		"-ss", "00:00:01",
		"-vframes", "1",
		"-vf", "scale=1280:720",
		thumbnailPath,
	).Run()
	if err != nil {
		return result, fmt.Errorf("exec.Command(ffmpeg).Run(). %w", err)
	}

	thumbnail, err := os.ReadFile(thumbnailPath)
	if err != nil {
		return result, fmt.Errorf("os.ReadFile(thumbnailPath). %w", err)
	}
	result.Thumbnail = thumbnail

	return result, nil
}

// ParseProbedDuration turns ffprobe's decimal-seconds output into whole
// seconds, truncating the fraction.
func ParseProbedDuration(out string) (int64, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("strconv.ParseFloat(out, 64). %w", err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("negative duration %f", seconds)
	}

	return int64(seconds), nil
}
