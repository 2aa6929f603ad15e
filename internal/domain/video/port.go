package video

import "fmt"

// Decoder port (interface ke external video-decoding collaborator)
type Decoder interface {
	Open(path string) (Stream, error)
}

// Stream is one opened video. Seek positions the stream, ReadFrame decodes
// exactly one frame at the current position as an encoded image.
type Stream interface {
	Duration() float64 // seconds
	FPS() float64
	Seek(offsetMS int64) error
	ReadFrame() ([]byte, error)
	Close() error
}

// DecodeError covers both an unopenable container and a failed decode at
// one offset; the sampler skips the offset, the caller aborts on open.
type DecodeError struct {
	Path string
	Op   string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s (%s): %v", e.Op, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
