package stream

import (
	"fmt"
	"io"
	"sync"
)

// DefaultHighWater is the queue size at which WriterSink reports backpressure.
const DefaultHighWater = 64 * 1024

// WriterSink is an ansi.Sink backed by an io.Writer. Writes are queued and
// flushed by a single goroutine; Write returns false once the queue holds
// HighWater bytes, and drain listeners run (on the flushing goroutine) when
// the queue empties again.
type WriterSink struct {
	w         io.Writer
	highWater int

	mu        sync.Mutex
	cond      *sync.Cond
	queue     [][]byte
	queued    int
	needDrain bool
	ended     bool
	err       error
	lastDrain int
	drains    map[int]func()

	done chan struct{}
}

// NewWriterSink starts flushing to w. A highWater <= 0 selects
// DefaultHighWater.
func NewWriterSink(w io.Writer, highWater int) *WriterSink {
	if highWater <= 0 {
		highWater = DefaultHighWater
	}
	s := &WriterSink{
		w:         w,
		highWater: highWater,
		drains:    make(map[int]func()),
		done:      make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.flush()
	return s
}

// Write queues a copy of p. It returns false when the sink is full or no
// longer writable; bytes written while full are still queued.
func (s *WriterSink) Write(p []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || s.err != nil {
		return false
	}
	if len(p) > 0 {
		s.queue = append(s.queue, append([]byte(nil), p...))
		s.queued += len(p)
		s.cond.Signal()
	}
	if s.queued >= s.highWater {
		s.needDrain = true
		return false
	}
	return true
}

// End flushes what is queued and stops the sink.
func (s *WriterSink) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	s.cond.Signal()
}

// IsWritable reports whether Write still accepts bytes.
func (s *WriterSink) IsWritable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.ended && s.err == nil
}

// OnDrain registers fn to run when the queue empties after backpressure.
func (s *WriterSink) OnDrain(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastDrain++
	id := s.lastDrain
	s.drains[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.drains, id)
	}
}

// Wait blocks until the sink has ended and flushed, and returns the first
// write error.
func (s *WriterSink) Wait() error {
	<-s.done
	return s.Err()
}

// Err returns the first write error.
func (s *WriterSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *WriterSink) flush() {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.ended {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		chunk := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		_, err := s.w.Write(chunk)

		s.mu.Lock()
		s.queued -= len(chunk)
		if err != nil {
			s.err = fmt.Errorf("write sink: %w", err)
			s.queue = nil
			s.queued = 0
		}
		var fire []func()
		// drain also fires on failure; writers then see IsWritable() == false
		if s.needDrain && (s.queued == 0 || s.err != nil) {
			s.needDrain = false
			for _, fn := range s.drains {
				fire = append(fire, fn)
			}
		}
		stop := s.err != nil
		s.mu.Unlock()

		for _, fn := range fire {
			fn()
		}
		if stop {
			return
		}
	}
}
