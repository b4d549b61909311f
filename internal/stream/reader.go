package stream

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/suryansh-23/ttycodes/internal/ansi"
)

// DefaultChunkSize is the read size used when none is configured.
const DefaultChunkSize = 4096

// ReaderSource turns an io.Reader into an ansi.Source. Run reads the
// reader on the calling goroutine and dispatches every chunk synchronously,
// so the observer never runs concurrently with itself.
//
// Pause and Resume may be called from any goroutine. Close must be called
// from the goroutine running Run (typically from inside a callback) or
// after Run has returned.
type ReaderSource struct {
	r         io.Reader
	chunkSize int

	mu       sync.Mutex
	observer ansi.Observer
	paused   bool
	closed   bool
	wake     chan struct{}
}

// NewReaderSource wraps r. A chunkSize <= 0 selects DefaultChunkSize.
func NewReaderSource(r io.Reader, chunkSize int) *ReaderSource {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &ReaderSource{
		r:         r,
		chunkSize: chunkSize,
		wake:      make(chan struct{}, 1),
	}
}

// Observe sets the observer that receives data and lifecycle events.
func (s *ReaderSource) Observe(o ansi.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = o
}

// IsReadable reports whether the source is still open.
func (s *ReaderSource) IsReadable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Pause stops Run before its next read.
func (s *ReaderSource) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
}

// Resume lets a paused Run continue.
func (s *ReaderSource) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	s.signal()
}

// Close closes the underlying reader when it is an io.Closer and notifies
// the observer. Only the first call has any effect.
func (s *ReaderSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	o := s.observer
	s.observer = nil
	s.mu.Unlock()
	s.signal()

	var err error
	if closer, ok := s.r.(io.Closer); ok {
		err = closer.Close()
	}
	if o != nil {
		o.HandleClose()
	}
	return err
}

// Run reads until EOF, a read error, Close or ctx cancellation. EOF is
// delivered as end and read errors as error events; Run itself only
// returns ctx.Err() when the context stops it, after closing the source.
//
// When the reader is an io.Closer, cancelling ctx closes it so a Read
// blocked on a terminal or pipe returns. Other readers are only checked
// for cancellation between reads.
func (s *ReaderSource) Run(ctx context.Context) error {
	if closer, ok := s.r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = closer.Close() })
		defer stop()
	}
	buf := make([]byte, s.chunkSize)
	for {
		if err := s.waitReady(ctx); err != nil {
			_ = s.Close()
			return err
		}
		if !s.IsReadable() {
			return nil
		}
		n, err := s.r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if o := s.current(); o != nil {
				o.HandleData(chunk)
			}
		}
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			// the read failed because cancellation closed the reader
			_ = s.Close()
			return ctx.Err()
		}
		if !s.IsReadable() {
			return nil
		}
		o := s.current()
		if errors.Is(err, io.EOF) {
			if o != nil {
				o.HandleEnd()
			}
		} else if o != nil {
			o.HandleError(err)
		}
		_ = s.Close()
		return nil
	}
}

func (s *ReaderSource) waitReady(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.mu.Lock()
		ready := !s.paused || s.closed
		s.mu.Unlock()
		if ready {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
	}
}

func (s *ReaderSource) current() ansi.Observer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observer
}

func (s *ReaderSource) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
