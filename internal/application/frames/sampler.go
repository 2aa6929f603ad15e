package frames

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/bryanwahyu/inspection-ai/internal/domain/media"
	"github.com/bryanwahyu/inspection-ai/internal/domain/video"
)

// Sampler extracts still frames from a walkthrough video at fixed time
// intervals through the external decoder and persists them under Dir as
// frame_<offsetSeconds>.jpg.
type Sampler struct {
	Decoder video.Decoder
	Dir     string
	Clock   Clock
	Log     zerolog.Logger
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

// Sample walks offsets 0, interval, 2*interval, ... up to but not
// including total duration. A failed seek/decode at one offset is logged
// and skipped; it never aborts the remaining offsets. The caller must
// treat an empty result as its own error path.
func (s *Sampler) Sample(ctx context.Context, videoPath string, interval time.Duration) (map[string]*media.Asset, error) {
	// frame ids carry whole-second offsets, a finer interval would
	// collide consecutive offsets on the same id
	if interval < time.Second {
		return nil, fmt.Errorf("sample interval must be at least 1s, got %s", interval)
	}

	stream, err := s.Decoder.Open(videoPath)
	if err != nil {
		return nil, &video.DecodeError{Path: videoPath, Op: "open", Err: err}
	}
	defer stream.Close()

	duration := stream.Duration()
	if duration <= 0 {
		return nil, &video.DecodeError{Path: videoPath, Op: "probe", Err: fmt.Errorf("zero duration")}
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure frames directory: %w", err)
	}

	out := make(map[string]*media.Asset)
	step := interval.Seconds()
	for offset := 0.0; offset < duration; offset += step {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		offsetSec := int64(offset)
		id := fmt.Sprintf("frame_%d", offsetSec)

		frame, err := s.readFrameAt(stream, offsetSec*1000)
		if err != nil {
			s.Log.Warn().Err(err).Str("video", videoPath).Int64("offset_s", offsetSec).
				Msg("frame decode failed, skipping offset")
			continue
		}

		path := filepath.Join(s.Dir, id+".jpg")
		if err := os.WriteFile(path, frame, 0o644); err != nil {
			s.Log.Warn().Err(err).Str("path", path).Msg("frame write failed, skipping offset")
			continue
		}

		out[id] = media.NewAsset(id, media.KindFrame, path, s.Clock.Now())
	}

	s.Log.Info().Str("video", videoPath).Int("frames", len(out)).Msg("frame sampling done")
	return out, nil
}

func (s *Sampler) readFrameAt(stream video.Stream, offsetMS int64) ([]byte, error) {
	if err := stream.Seek(offsetMS); err != nil {
		return nil, err
	}
	return stream.ReadFrame()
}
