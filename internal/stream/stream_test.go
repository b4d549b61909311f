package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryansh-23/ttycodes/internal/ansi"
)

type observed struct {
	data   []string
	ends   int
	errs   []error
	closes int
	onData func([]byte)
}

func (o *observed) HandleData(p []byte) {
	o.data = append(o.data, string(p))
	if o.onData != nil {
		o.onData(p)
	}
}
func (o *observed) HandleEnd()            { o.ends++ }
func (o *observed) HandleError(err error) { o.errs = append(o.errs, err) }
func (o *observed) HandleClose()          { o.closes++ }

func TestThroughDeliversSynchronously(t *testing.T) {
	th := NewThrough()
	o := &observed{}
	th.Observe(o)

	assert.True(t, th.Write([]byte("a")))
	th.Pause()
	assert.False(t, th.Write([]byte("b")))
	th.End()

	assert.Equal(t, []string{"a", "b"}, o.data)
	assert.Equal(t, 1, o.ends)
	assert.Equal(t, 1, o.closes)
	assert.False(t, th.IsReadable())
	assert.False(t, th.Write([]byte("c")))
}

func TestThroughCloseIsIdempotent(t *testing.T) {
	th := NewThrough()
	o := &observed{}
	th.Observe(o)

	require.NoError(t, th.Close())
	require.NoError(t, th.Close())

	assert.Equal(t, 1, o.closes)
}

func TestThroughDrainOnResume(t *testing.T) {
	th := NewThrough()
	drains := 0
	remove := th.OnDrain(func() { drains++ })

	th.Resume()
	assert.Zero(t, drains, "resume without pause does not drain")

	th.Pause()
	th.Resume()
	assert.Equal(t, 1, drains)

	remove()
	th.Pause()
	th.Resume()
	assert.Equal(t, 1, drains)
}

func TestReaderSourceEndsOnEOF(t *testing.T) {
	src := NewReaderSource(strings.NewReader("hello world"), 4)
	o := &observed{}
	src.Observe(o)

	require.NoError(t, src.Run(context.Background()))

	assert.Equal(t, "hello world", strings.Join(o.data, ""))
	assert.Equal(t, []string{"hell", "o wo", "rld"}, o.data)
	assert.Equal(t, 1, o.ends)
	assert.Equal(t, 1, o.closes)
	assert.False(t, src.IsReadable())
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestReaderSourceForwardsReadErrors(t *testing.T) {
	cause := errors.New("read failed")
	src := NewReaderSource(failingReader{cause}, 0)
	o := &observed{}
	src.Observe(o)

	require.NoError(t, src.Run(context.Background()))

	require.Len(t, o.errs, 1)
	assert.Same(t, cause, o.errs[0])
	assert.Zero(t, o.ends)
	assert.Equal(t, 1, o.closes)
}

type closeTracker struct {
	io.Reader
	closed int
}

func (c *closeTracker) Close() error {
	c.closed++
	return nil
}

func TestReaderSourceCloseFromCallbackStopsRun(t *testing.T) {
	r := &closeTracker{Reader: strings.NewReader("abcdef")}
	src := NewReaderSource(r, 2)
	o := &observed{}
	o.onData = func([]byte) { _ = src.Close() }
	src.Observe(o)

	require.NoError(t, src.Run(context.Background()))

	assert.Equal(t, []string{"ab"}, o.data)
	assert.Equal(t, 1, r.closed)
	assert.Equal(t, 1, o.closes)
	assert.Zero(t, o.ends)
}

func TestReaderSourcePauseBlocksUntilResume(t *testing.T) {
	src := NewReaderSource(strings.NewReader("abcd"), 2)
	o := &observed{}
	resumed := make(chan struct{})
	o.onData = func(p []byte) {
		if string(p) == "ab" {
			src.Pause()
			go func() {
				time.Sleep(10 * time.Millisecond)
				close(resumed)
				src.Resume()
			}()
		}
	}
	src.Observe(o)

	require.NoError(t, src.Run(context.Background()))

	select {
	case <-resumed:
	default:
		t.Fatal("run continued before resume")
	}
	assert.Equal(t, []string{"ab", "cd"}, o.data)
}

func TestReaderSourceStopsOnContextCancel(t *testing.T) {
	src := NewReaderSource(strings.NewReader("abcd"), 2)
	o := &observed{}
	ctx, cancel := context.WithCancel(context.Background())
	o.onData = func([]byte) {
		src.Pause()
		cancel()
	}
	src.Observe(o)

	err := src.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"ab"}, o.data)
	assert.Equal(t, 1, o.closes)
}

func TestReaderSourceCancelUnblocksPendingRead(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	src := NewReaderSource(pr, 0)
	o := &observed{}
	src.Observe(o)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- src.Run(ctx) }()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run still blocked in read after cancel")
	}
	assert.Empty(t, o.errs)
	assert.Equal(t, 1, o.closes)
	assert.False(t, src.IsReadable())
}

// lockedBuffer is a bytes.Buffer safe for the sink goroutine and the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWriterSinkFlushesInOrder(t *testing.T) {
	out := &lockedBuffer{}
	sink := NewWriterSink(out, 0)

	assert.True(t, sink.Write([]byte("hello ")))
	assert.True(t, sink.Write([]byte("world")))
	sink.End()

	require.NoError(t, sink.Wait())
	assert.Equal(t, "hello world", out.String())
	assert.False(t, sink.IsWritable())
	assert.False(t, sink.Write([]byte("late")))
}

// gateWriter blocks every write until the test releases it.
type gateWriter struct {
	release chan struct{}
	out     lockedBuffer
}

func (g *gateWriter) Write(p []byte) (int, error) {
	<-g.release
	return g.out.Write(p)
}

func TestWriterSinkBackpressureAndDrain(t *testing.T) {
	gate := &gateWriter{release: make(chan struct{})}
	sink := NewWriterSink(gate, 4)
	drained := make(chan struct{}, 1)
	sink.OnDrain(func() { drained <- struct{}{} })

	assert.False(t, sink.Write([]byte("12345")), "queue at high water")
	assert.True(t, sink.IsWritable())

	close(gate.release)
	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("drain not fired")
	}
	sink.End()
	require.NoError(t, sink.Wait())
	assert.Equal(t, "12345", gate.out.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriterSinkReportsWriteErrors(t *testing.T) {
	sink := NewWriterSink(brokenWriter{}, 0)
	sink.Write([]byte("x"))

	err := sink.Wait()

	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.False(t, sink.IsWritable())
}

func TestParserPipedFromReaderToWriter(t *testing.T) {
	src := NewReaderSource(strings.NewReader("one\x1b[31m\ntwo\x1b]0;t\x07"), 3)
	p := ansi.NewParser(src)
	out := &lockedBuffer{}
	sink := NewWriterSink(out, 2)
	p.PipeTo(sink, ansi.PipeOptions{})
	ended := false
	p.OnEnd(func() { ended = true })

	require.NoError(t, src.Run(context.Background()))
	require.NoError(t, sink.Wait())

	assert.True(t, ended)
	assert.Equal(t, "onetwo", out.String())
}
