package filter

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/suryansh-23/ttycodes/internal/ansi"
	"github.com/suryansh-23/ttycodes/internal/config"
	"github.com/suryansh-23/ttycodes/internal/debug"
	"github.com/suryansh-23/ttycodes/internal/types"
	"github.com/suryansh-23/ttycodes/internal/ui"
)

// ResetSGR restores default colors.
var ResetSGR = []byte("\x1b[m")

// Stats counts the segments a filter has seen.
type Stats struct {
	Counts map[ansi.Kind]int
	Bytes  int
	// AltScreen is true while the stream has the alternate screen enabled.
	AltScreen bool

	sinkErr func() error
}

// Err returns the first error writing filtered output, if any.
func (s *Stats) Err() error {
	if s.sinkErr == nil {
		return nil
	}
	return s.sinkErr()
}

// Summary renders the counts as a status line.
func (s *Stats) Summary() string {
	return ui.Summary(s.Counts)
}

func (s *Stats) observe(seg ansi.Segment) {
	s.Counts[seg.Kind]++
	s.Bytes += len(seg.Bytes)
	if seg.Kind == ansi.KindCSI {
		s.updateAltScreen(seg.Bytes)
	}
}

func (s *Stats) updateAltScreen(code []byte) {
	if len(code) < 4 || code[2] != '?' {
		return
	}
	params, final := code[3:len(code)-1], code[len(code)-1]
	if final != 'h' && final != 'l' {
		return
	}
	for _, p := range bytes.Split(params, []byte{';'}) {
		switch string(p) {
		case "1049", "1047", "47":
			s.AltScreen = final == 'h'
		}
	}
}

// Option configures Attach.
type Option func(*options)

type options struct {
	color  bool
	crlf   bool
	logger *debug.Logger
}

// WithColor styles inspect labels.
func WithColor(enabled bool) Option {
	return func(o *options) { o.color = enabled }
}

// WithCRLF ends inspect lines with "\r\n".
func WithCRLF(enabled bool) Option {
	return func(o *options) { o.crlf = enabled }
}

// WithLogger logs filter decisions.
func WithLogger(logger *debug.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Attach wires p to write its segments to out according to cfg.Mode. Writes
// happen synchronously; a write error closes the parser and is reported by
// Stats.Err.
func Attach(p *ansi.Parser, out io.Writer, cfg config.Config, opts ...Option) (*Stats, error) {
	sink := &writerSink{w: out}
	stats, err := AttachSink(p, sink, cfg, opts...)
	if err != nil {
		return nil, err
	}
	stats.sinkErr = func() error { return sink.err }
	return stats, nil
}

// writerSink adapts an io.Writer to ansi.Sink. It never applies
// backpressure; a failed write makes it unwritable.
type writerSink struct {
	w     io.Writer
	err   error
	ended bool
}

func (s *writerSink) Write(p []byte) bool {
	if !s.IsWritable() {
		return false
	}
	if _, err := s.w.Write(p); err != nil {
		s.err = fmt.Errorf("write output: %w", err)
		return false
	}
	return true
}

func (s *writerSink) End() { s.ended = true }

func (s *writerSink) IsWritable() bool { return !s.ended && s.err == nil }

func (s *writerSink) OnDrain(func()) func() { return func() {} }

// AttachSink wires p to sink according to cfg.Mode. Segments flow through
// PipeTo, so a sink reporting backpressure pauses the parser's source.
// The sink is ended once the parser closes.
func AttachSink(p *ansi.Parser, sink ansi.Sink, cfg config.Config, opts ...Option) (*Stats, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	transform, err := transformFor(cfg, o)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Counts: make(map[ansi.Kind]int, len(ansi.Kinds))}
	var trailer []byte
	if cfg.Mode == types.ModeRecolor {
		trailer = ResetSGR
	}
	finish := func() {
		if len(trailer) > 0 && sink.IsWritable() {
			sink.Write(trailer)
		}
		sink.End()
		o.logger.Infof("filter: mode=%s done bytes=%d", cfg.Mode, stats.Bytes)
	}
	if !p.IsReadable() {
		finish()
		return stats, nil
	}

	if cfg.Mode == types.ModeRecolor {
		// Start with a random color, as if the input began with a reset.
		if out := transform(ansi.KindCSI, ResetSGR); len(out) > 0 {
			sink.Write(out)
		}
	}
	p.OnSegment(stats.observe)
	p.PipeTo(sink, ansi.PipeOptions{
		Kinds:     ansi.Kinds,
		KeepOpen:  true,
		Transform: transform,
	})
	p.OnClose(finish)
	return stats, nil
}

type transformFunc = func(kind ansi.Kind, b []byte) []byte

func transformFor(cfg config.Config, o options) (transformFunc, error) {
	switch cfg.Mode {
	case types.ModePassthrough:
		return func(_ ansi.Kind, b []byte) []byte { return b }, nil
	case types.ModeStrip:
		return stripTransform(cfg.KeepBytes()), nil
	case types.ModeInspect:
		return inspectTransform(cfg, o), nil
	case types.ModeRecolor:
		seed := cfg.Recolor.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return recolorTransform(rand.New(rand.NewSource(seed))), nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", config.ErrInvalidConfig, cfg.Mode)
	}
}

// stripTransform keeps data and the listed C0 codes.
func stripTransform(keep map[byte]bool) transformFunc {
	return func(kind ansi.Kind, b []byte) []byte {
		switch kind {
		case ansi.KindData:
			return b
		case ansi.KindC0:
			if keep[b[0]] {
				return b
			}
		}
		return nil
	}
}

func inspectTransform(cfg config.Config, o options) transformFunc {
	in := ui.Inspector{MaxWidth: cfg.Inspect.MaxWidth, Color: o.color, CRLF: o.crlf}
	enabled := make(map[ansi.Kind]bool)
	for _, kind := range cfg.InspectKinds() {
		enabled[kind] = true
	}
	return func(kind ansi.Kind, b []byte) []byte {
		if kind == ansi.KindData {
			if !cfg.Inspect.ShowData {
				return nil
			}
			return []byte(in.DataLine(b))
		}
		if !enabled[kind] {
			return nil
		}
		return []byte(in.CodeLine(kind, b))
	}
}

// recolorTransform replaces every SGR sequence with a random foreground and
// background color. Everything else is written unchanged.
func recolorTransform(rng *rand.Rand) transformFunc {
	return func(kind ansi.Kind, b []byte) []byte {
		if kind != ansi.KindCSI || b[len(b)-1] != 'm' {
			return b
		}
		return fmt.Appendf(nil, "\x1b[%d;%dm", 30+rng.Intn(8), 40+rng.Intn(8))
	}
}
