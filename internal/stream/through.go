package stream

import (
	"maps"
	"slices"

	"github.com/suryansh-23/ttycodes/internal/ansi"
)

// Through is an in-memory duplex stream. Bytes written to it are delivered
// synchronously to its observer, which makes it the glue between push-style
// producers (io.Writer callers, tests) and an ansi.Parser.
//
// Through is not safe for concurrent use.
type Through struct {
	observer ansi.Observer
	paused   bool
	ended    bool
	closed   bool

	lastDrain int
	drains    map[int]func()
}

// NewThrough returns an open Through.
func NewThrough() *Through {
	return &Through{drains: make(map[int]func())}
}

// Observe sets the observer that receives data and lifecycle events.
func (t *Through) Observe(o ansi.Observer) {
	t.observer = o
}

// IsReadable reports whether the stream is still open.
func (t *Through) IsReadable() bool {
	return !t.closed
}

// IsWritable reports whether Write still accepts bytes.
func (t *Through) IsWritable() bool {
	return !t.closed && !t.ended
}

// Paused reports whether a consumer asked the stream to hold off.
func (t *Through) Paused() bool {
	return t.paused
}

// Pause records backpressure. Writes are still delivered; Write reports
// false until Resume.
func (t *Through) Pause() {
	t.paused = true
}

// Resume clears backpressure and notifies drain listeners.
func (t *Through) Resume() {
	if !t.paused {
		return
	}
	t.paused = false
	for _, id := range slices.Sorted(maps.Keys(t.drains)) {
		if fn, ok := t.drains[id]; ok {
			fn()
		}
	}
}

// OnDrain registers fn to run on Resume.
func (t *Through) OnDrain(fn func()) func() {
	t.lastDrain++
	id := t.lastDrain
	t.drains[id] = fn
	return func() { delete(t.drains, id) }
}

// Write delivers p to the observer. It returns false when the stream is not
// writable or has been paused.
func (t *Through) Write(p []byte) bool {
	if !t.IsWritable() {
		return false
	}
	if t.observer != nil {
		t.observer.HandleData(p)
	}
	return !t.paused && !t.closed
}

// End signals the end of the stream and closes it.
func (t *Through) End() {
	if !t.IsWritable() {
		return
	}
	t.ended = true
	if t.observer != nil {
		t.observer.HandleEnd()
	}
	_ = t.Close()
}

// Fail reports err to the observer.
func (t *Through) Fail(err error) {
	if t.closed {
		return
	}
	if t.observer != nil {
		t.observer.HandleError(err)
	}
}

// Close closes the stream and notifies the observer once.
func (t *Through) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	o := t.observer
	t.observer = nil
	clear(t.drains)
	if o != nil {
		o.HandleClose()
	}
	return nil
}
