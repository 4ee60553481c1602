package playback

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/quickplay-cli/quickplay/key"
	"github.com/quickplay-cli/quickplay/log"
	"github.com/spf13/viper"
)

// FFmpegSource decodes a media stream through an external ffmpeg pipeline.
// ffprobe resolves the frame rate and frame count up front; frames then
// arrive as a concatenated MJPEG stream on ffmpeg's stdout. Seeking restarts
// the pipeline at the target timestamp.
type FFmpegSource struct {
	locator string
	rate    float64
	total   int

	mu     sync.Mutex
	cmd    *exec.Cmd
	reader *bufio.Reader
	index  int
}

// OpenFFmpeg probes the stream at locator and starts a decoding pipeline
// positioned at the first frame.
func OpenFFmpeg(locator string) (Source, error) {
	for _, tool := range []string{"ffprobe", "ffmpeg"} {
		if _, err := exec.LookPath(tool); err != nil {
			return nil, fmt.Errorf("%s not found in PATH", tool)
		}
	}

	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate,nb_frames:format=duration",
		"-of", "json",
		locator,
	).Output()
	if err != nil {
		return nil, fmt.Errorf("probe stream: %w", err)
	}

	rate, total, err := parseProbe(out)
	if err != nil {
		return nil, err
	}
	log.Debugf("ffmpeg: opened %s rate=%.3f total=%d", locator, rate, total)

	s := &FFmpegSource{locator: locator, rate: rate, total: total}
	if err = s.startPipe(0); err != nil {
		return nil, err
	}
	return s, nil
}

// parseProbe extracts the frame rate and frame count from ffprobe's json
// output. A stream that reports no usable rate falls back to the configured
// rate; a missing frame count is derived from the container duration.
func parseProbe(data []byte) (rate float64, total int, err error) {
	var probe struct {
		Streams []struct {
			RFrameRate string `json:"r_frame_rate"`
			NbFrames   string `json:"nb_frames"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err = json.Unmarshal(data, &probe); err != nil {
		return 0, 0, fmt.Errorf("decode probe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return 0, 0, errors.New("no video stream in media")
	}

	rate = parseRate(probe.Streams[0].RFrameRate)
	if rate <= 0 {
		rate = viper.GetFloat64(key.FallbackRate)
	}
	if rate <= 0 {
		rate = 30
	}

	if total, err = strconv.Atoi(probe.Streams[0].NbFrames); err != nil {
		total = 0
		if duration, derr := strconv.ParseFloat(probe.Format.Duration, 64); derr == nil {
			total = int(duration*rate + 0.5)
		}
	}
	return rate, total, nil
}

// parseRate parses ffprobe's rational rate notation, e.g. "30000/1001".
func parseRate(raw string) float64 {
	num, den, found := strings.Cut(raw, "/")
	if !found {
		f, _ := strconv.ParseFloat(raw, 64)
		return f
	}

	n, nerr := strconv.ParseFloat(num, 64)
	d, derr := strconv.ParseFloat(den, 64)
	if nerr != nil || derr != nil || d == 0 {
		return 0
	}
	return n / d
}

func (s *FFmpegSource) startPipe(unit int) error {
	args := []string{"-loglevel", "error"}
	if unit > 0 {
		args = append(args, "-ss", strconv.FormatFloat(float64(unit)/s.rate, 'f', 3, 64))
	}
	args = append(args, "-i", s.locator, "-f", "image2pipe", "-vcodec", "mjpeg", "-")

	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err = cmd.Start(); err != nil {
		return fmt.Errorf("start decoder: %w", err)
	}

	s.cmd = cmd
	s.reader = bufio.NewReaderSize(stdout, 1<<20)
	s.index = unit
	return nil
}

func (s *FFmpegSource) stopPipe() {
	if s.cmd == nil {
		return
	}
	_ = s.cmd.Process.Kill()
	_ = s.cmd.Wait()
	s.cmd = nil
	s.reader = nil
}

// ReadUnit decodes the next frame from the pipeline.
func (s *FFmpegSource) ReadUnit() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reader == nil {
		return nil, io.EOF
	}

	img, err := jpeg.Decode(s.reader)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	frame := &Frame{Index: s.index, Image: img}
	s.index++
	return frame, nil
}

// Seek restarts the pipeline at the given frame ordinal, clamped to the
// stream bounds.
func (s *FFmpegSource) Seek(unit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if unit < 0 {
		unit = 0
	}
	if s.total > 0 && unit >= s.total {
		unit = s.total - 1
	}

	s.stopPipe()
	return s.startPipe(unit)
}

func (s *FFmpegSource) Total() int {
	return s.total
}

func (s *FFmpegSource) Rate() float64 {
	return s.rate
}

// Close tears the pipeline down.
func (s *FFmpegSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopPipe()
	return nil
}
