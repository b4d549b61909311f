package filter

import (
	"errors"
	"io"

	"github.com/suryansh-23/ttycodes/internal/ansi"
	"github.com/suryansh-23/ttycodes/internal/config"
	"github.com/suryansh-23/ttycodes/internal/debug"
	"github.com/suryansh-23/ttycodes/internal/stream"
)

// Stream applies a filter mode to a byte stream and writes to an output.
type Stream struct {
	input  *stream.Through
	parser *ansi.Parser
	stats  *Stats
	endErr error
	closed bool
}

// NewStream returns a filtering writer for cfg.Mode.
func NewStream(out io.Writer, cfg config.Config, logger *debug.Logger, opts ...Option) (*Stream, error) {
	s := &Stream{input: stream.NewThrough()}
	s.parser = ansi.NewParser(s.input, ansi.WithLogger(logger))
	s.parser.OnError(func(err error) {
		if s.endErr == nil {
			s.endErr = err
		}
	})
	stats, err := Attach(s.parser, out, cfg, append(opts, WithLogger(logger))...)
	if err != nil {
		return nil, err
	}
	s.stats = stats
	return s, nil
}

// Write processes input bytes and writes filtered output. Incomplete
// sequences are held until a later Write completes them.
func (s *Stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	if err := s.stats.Err(); err != nil {
		return 0, err
	}
	s.input.Write(p)
	if err := s.stats.Err(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close ends the input. It reports ansi.ErrIncompleteSequence if the input
// stopped inside a control code sequence, joined with any write error.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.input.End()
	return errors.Join(s.endErr, s.stats.Err())
}

// Stats returns the running segment counts.
func (s *Stream) Stats() *Stats {
	return s.stats
}
