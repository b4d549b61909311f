package ansi

import "sync"

// Sink is a writable byte stream with backpressure. Write returns false
// once the sink wants the writer to hold off until the next drain.
type Sink interface {
	Write(p []byte) bool
	End()
	IsWritable() bool
	// OnDrain registers fn to run whenever the sink can accept writes
	// again. The returned func unregisters it.
	OnDrain(fn func()) (remove func())
}

// PipeOptions controls PipeTo.
type PipeOptions struct {
	// Kinds selects the segments written to the sink. Empty means data only.
	Kinds []Kind
	// KeepOpen leaves the sink open when the parser ends.
	KeepOpen bool
	// Transform, when set, rewrites each selected segment before it is
	// written. An empty result drops the segment.
	Transform func(kind Kind, b []byte) []byte
}

// PipeTo writes the selected segments to sink, pausing the parser while the
// sink reports backpressure and resuming it on drain. A sink that is not
// writable to begin with only pauses the parser; one that stops being
// writable on a rejected write closes the parser and its source, so a
// reader does not stay paused on output that is gone. It returns sink.
func (p *Parser) PipeTo(sink Sink, opts PipeOptions) Sink {
	if !sink.IsWritable() {
		p.Pause()
		return sink
	}
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = []Kind{KindData}
	}

	// A sink may drain on another goroutine, possibly before the pause
	// that follows a rejected write. mu pairs every pause with one drain.
	var (
		mu      sync.Mutex
		waiting bool
		drained bool
	)
	removeDrain := sink.OnDrain(func() {
		mu.Lock()
		defer mu.Unlock()
		if !waiting {
			drained = true
			return
		}
		waiting = false
		p.Resume()
	})
	write := func(b []byte) {
		if sink.Write(b) {
			return
		}
		if !sink.IsWritable() {
			p.logger.Infof("parser: sink no longer writable, closing")
			_ = p.Close()
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if drained {
			drained = false
			return
		}
		waiting = true
		p.Pause()
	}
	for _, kind := range kinds {
		if opts.Transform == nil {
			p.On(kind, write)
			continue
		}
		p.On(kind, func(b []byte) {
			if out := opts.Transform(kind, b); len(out) > 0 {
				write(out)
			}
		})
	}
	if !opts.KeepOpen {
		p.OnEnd(sink.End)
	}
	p.OnClose(removeDrain)
	return sink
}
