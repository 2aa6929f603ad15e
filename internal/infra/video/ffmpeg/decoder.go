package ffmpeg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/bryanwahyu/inspection-ai/internal/domain/video"
)

// Decoder implements the video.Decoder port by shelling out to ffprobe
// and ffmpeg. Probing happens once on Open; each ReadFrame decodes
// exactly one frame at the seeked position as JPEG on stdout.
type Decoder struct {
	FFmpegBin  string
	FFprobeBin string
}

func NewDecoder() *Decoder {
	return &Decoder{FFmpegBin: "ffmpeg", FFprobeBin: "ffprobe"}
}

func (d *Decoder) Open(path string) (video.Stream, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &video.DecodeError{Path: path, Op: "open", Err: err}
	}

	out, err := exec.Command(d.FFprobeBin,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=avg_frame_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	).Output()
	if err != nil {
		return nil, &video.DecodeError{Path: path, Op: "probe", Err: err}
	}

	var probe struct {
		Streams []struct {
			AvgFrameRate string `json:"avg_frame_rate"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, &video.DecodeError{Path: path, Op: "probe", Err: err}
	}

	duration, _ := strconv.ParseFloat(probe.Format.Duration, 64)
	var fps float64
	if len(probe.Streams) > 0 {
		fps = parseRate(probe.Streams[0].AvgFrameRate)
	}

	return &stream{dec: d, path: path, duration: duration, fps: fps}, nil
}

type stream struct {
	dec      *Decoder
	path     string
	duration float64
	fps      float64
	posMS    int64
}

func (s *stream) Duration() float64 { return s.duration }
func (s *stream) FPS() float64      { return s.fps }

func (s *stream) Seek(offsetMS int64) error {
	if offsetMS < 0 {
		return &video.DecodeError{Path: s.path, Op: "seek", Err: fmt.Errorf("negative offset %d", offsetMS)}
	}
	s.posMS = offsetMS
	return nil
}

// ReadFrame decodes one frame at the current position. End of stream and
// decode trouble both come back as DecodeError; the sampler skips either.
func (s *stream) ReadFrame() ([]byte, error) {
	offset := fmt.Sprintf("%.3f", float64(s.posMS)/1000.0)
	cmd := exec.Command(s.dec.FFmpegBin,
		"-v", "error",
		"-ss", offset,
		"-i", s.path,
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &video.DecodeError{Path: s.path, Op: "decode", Err: fmt.Errorf("%v: %s", err, strings.TrimSpace(stderr.String()))}
	}
	if stdout.Len() == 0 {
		return nil, &video.DecodeError{Path: s.path, Op: "decode", Err: fmt.Errorf("no frame at %ss", offset)}
	}
	return stdout.Bytes(), nil
}

func (s *stream) Close() error { return nil }

// parseRate turns ffprobe's "30000/1001" into a float fps.
func parseRate(r string) float64 {
	num, den, ok := strings.Cut(r, "/")
	if !ok {
		v, _ := strconv.ParseFloat(r, 64)
		return v
	}
	n, _ := strconv.ParseFloat(num, 64)
	d, _ := strconv.ParseFloat(den, 64)
	if d == 0 {
		return 0
	}
	return n / d
}
