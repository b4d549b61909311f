package ansi

import (
	"errors"
	"fmt"

	"github.com/suryansh-23/ttycodes/internal/debug"
)

// ErrIncompleteSequence is reported when the source ends while the parser
// still buffers the start of a control code sequence.
var ErrIncompleteSequence = errors.New("stream ended with incomplete control code sequence in buffer")

// Observer receives the notifications of a Source.
type Observer interface {
	HandleData(p []byte)
	HandleEnd()
	HandleError(err error)
	HandleClose()
}

// Source is a readable byte stream with flow control. It delivers its
// events to at most one Observer; Observe(nil) detaches it.
type Source interface {
	IsReadable() bool
	Pause()
	Resume()
	Close() error
	Observe(o Observer)
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger enables lifecycle diagnostics.
func WithLogger(logger *debug.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// Parser splits the bytes of a Source into plain data and control code
// segments (C0, unknown C1, CSI, OSC, APC, DPS and PM) and dispatches them
// to listeners in stream order.
//
// Sequences may be split across any number of chunks; incomplete ones stay
// buffered until their terminator arrives. Listeners run synchronously and
// may feed the source or close the parser from inside a callback.
//
// A Parser is not safe for concurrent use. Listeners must not modify the
// payload they receive.
type Parser struct {
	src    Source
	buf    []byte
	closed bool
	logger *debug.Logger

	// scanning is set while HandleData dispatches segments. Chunks fed
	// from a listener are only appended; the running loop picks them up.
	scanning   bool
	endPending bool

	lastID   ListenerID
	kinds    [len(kindNames)]listeners[[]byte]
	segments listeners[Segment]
	ends     listeners[struct{}]
	errs     listeners[error]
	closes   listeners[struct{}]
}

// NewParser attaches a parser to src. A source that is no longer readable
// yields a parser that is already closed and never observes src.
func NewParser(src Source, opts ...Option) *Parser {
	p := &Parser{src: src}
	for _, opt := range opts {
		opt(p)
	}
	if !src.IsReadable() {
		p.logger.Infof("parser: source not readable, closing")
		_ = p.Close()
		return p
	}
	src.Observe(p)
	return p
}

// IsReadable reports whether more segments may still be emitted.
func (p *Parser) IsReadable() bool {
	return !p.closed && p.src.IsReadable()
}

// Pause forwards flow control to the source.
func (p *Parser) Pause() {
	p.src.Pause()
}

// Resume forwards flow control to the source.
func (p *Parser) Resume() {
	p.src.Resume()
}

// Buffered returns the number of bytes held back waiting for the end of a
// sequence.
func (p *Parser) Buffered() int {
	return len(p.buf)
}

// HandleData appends chunk to the buffer and emits every complete segment.
func (p *Parser) HandleData(chunk []byte) {
	if p.closed {
		return
	}
	p.buf = append(p.buf, chunk...)
	if p.scanning {
		return
	}
	p.scan()
}

// scan emits segments from the head of the buffer until it is empty or
// holds an incomplete sequence. The buffer is re-read on every pass:
// listeners may append to it or close the parser.
func (p *Parser) scan() {
	p.scanning = true
	for !p.closed {
		kind, n, ok := next(p.buf)
		if !ok {
			break
		}
		seg := make([]byte, n)
		copy(seg, p.buf[:n])
		p.buf = p.buf[n:]
		if len(p.buf) == 0 {
			p.buf = nil
		}
		p.emit(kind, seg)
	}
	p.scanning = false

	if p.endPending && !p.closed {
		p.endPending = false
		p.finish()
	}
}

// HandleEnd emits end when the buffer is drained and an error wrapping
// ErrIncompleteSequence otherwise. The parser is closed either way. An end
// arriving from inside a listener waits until the buffered segments have
// been emitted.
func (p *Parser) HandleEnd() {
	if p.closed {
		return
	}
	if p.scanning {
		p.endPending = true
		return
	}
	p.finish()
}

func (p *Parser) finish() {
	if len(p.buf) == 0 {
		p.ends.emit(struct{}{})
	} else {
		p.logger.Infof("parser: source ended with %d buffered bytes", len(p.buf))
		p.errs.emit(fmt.Errorf("%w (%d bytes)", ErrIncompleteSequence, len(p.buf)))
	}
	_ = p.Close()
}

// HandleError forwards err unchanged and closes the parser.
func (p *Parser) HandleError(err error) {
	if p.closed {
		return
	}
	p.logger.Infof("parser: source error: %v", err)
	p.errs.emit(err)
	_ = p.Close()
}

// HandleClose closes the parser when the source closes. The close that
// follows a pending end is left to finish.
func (p *Parser) HandleClose() {
	if p.endPending {
		return
	}
	_ = p.Close()
}

// Close discards buffered bytes, closes the source, emits close and drops
// every listener. Only the first call has any effect; it returns the
// error from closing the source.
func (p *Parser) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.buf = nil

	p.src.Observe(nil)
	err := p.src.Close()

	p.closes.emit(struct{}{})
	p.RemoveAllListeners()
	return err
}

func (p *Parser) emit(kind Kind, seg []byte) {
	p.kinds[kind].emit(seg)
	if p.closed {
		return
	}
	p.segments.emit(Segment{Kind: kind, Bytes: seg})
}

func (p *Parser) id() ListenerID {
	p.lastID++
	return p.lastID
}

// On registers fn for every segment of the given kind.
func (p *Parser) On(kind Kind, fn func([]byte)) ListenerID {
	id := p.id()
	p.kinds[kind].add(id, fn, false)
	return id
}

// Once registers fn for the next segment of the given kind only.
func (p *Parser) Once(kind Kind, fn func([]byte)) ListenerID {
	id := p.id()
	p.kinds[kind].add(id, fn, true)
	return id
}

// OnSegment registers fn for every segment regardless of kind. It runs
// after the listeners registered for that kind.
func (p *Parser) OnSegment(fn func(Segment)) ListenerID {
	id := p.id()
	p.segments.add(id, fn, false)
	return id
}

// OnEnd registers fn for a clean end of stream.
func (p *Parser) OnEnd(fn func()) ListenerID {
	id := p.id()
	p.ends.add(id, func(struct{}) { fn() }, false)
	return id
}

// OnError registers fn for source errors and incomplete sequences.
func (p *Parser) OnError(fn func(error)) ListenerID {
	id := p.id()
	p.errs.add(id, fn, false)
	return id
}

// OnClose registers fn for the final close notification.
func (p *Parser) OnClose(fn func()) ListenerID {
	id := p.id()
	p.closes.add(id, func(struct{}) { fn() }, false)
	return id
}

// Off removes a listener. It reports whether the listener was registered.
func (p *Parser) Off(id ListenerID) bool {
	for i := range p.kinds {
		if p.kinds[i].remove(id) {
			return true
		}
	}
	return p.segments.remove(id) ||
		p.ends.remove(id) ||
		p.errs.remove(id) ||
		p.closes.remove(id)
}

// RemoveAllListeners drops every registered listener.
func (p *Parser) RemoveAllListeners() {
	for i := range p.kinds {
		p.kinds[i].clear()
	}
	p.segments.clear()
	p.ends.clear()
	p.errs.clear()
	p.closes.clear()
}

// ListenerCount returns the number of listeners registered for kind.
func (p *Parser) ListenerCount(kind Kind) int {
	return p.kinds[kind].len()
}
