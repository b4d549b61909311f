package ansi_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryansh-23/ttycodes/internal/ansi"
	"github.com/suryansh-23/ttycodes/internal/stream"
)

var corpus = [][]byte{
	[]byte("hello world"),
	[]byte("\x1b[2A"),
	[]byte("pre\x1b]0;title\x07post"),
	[]byte("\x1b]8;;https://example.com\x1b\\link\x1b]8;;\x1b\\"),
	[]byte("\x1bPq#0;2;0;0;0\x1b\\tail"),
	[]byte("\x1b_Gi=1;AAAA\x1b\\\x1b^pm\x1b\\"),
	[]byte("a\tb\r\nc\x7f\x1b=\x1b>\x1b[?1049h\x1b[H\x1b[2J"),
	[]byte("\x1b[38;2;255;0;0mred\x1b[0m \x1b[1;4mbold\x1b[m\n"),
	{0x1b, 0x5b, 0xff, 0x41, 0x00, 0x1b},
}

// segments feeds chunks into a fresh parser and returns what it emitted.
// Data is flushed per chunk, so adjacent data segments are merged.
func segments(chunks [][]byte) []ansi.Segment {
	input := stream.NewThrough()
	p := ansi.NewParser(input)
	var out []ansi.Segment
	p.OnSegment(func(s ansi.Segment) {
		if n := len(out); n > 0 && s.Kind == ansi.KindData && out[n-1].Kind == ansi.KindData {
			out[n-1].Bytes = append(out[n-1].Bytes, s.Bytes...)
			return
		}
		out = append(out, s)
	})
	for _, chunk := range chunks {
		input.Write(chunk)
	}
	return out
}

func split(data []byte, rng *rand.Rand) [][]byte {
	var chunks [][]byte
	for len(data) > 0 {
		n := 1 + rng.Intn(len(data))
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}

func TestChunkBoundaryIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, input := range corpus {
		whole := segments([][]byte{input})
		for i := 0; i < 50; i++ {
			chunks := split(input, rng)
			assert.Equal(t, whole, segments(chunks), "chunks %q", chunks)
		}
		var bytewise [][]byte
		for i := range input {
			bytewise = append(bytewise, input[i:i+1])
		}
		assert.Equal(t, whole, segments(bytewise), "input %q byte by byte", input)
	}
}

func TestReconstruction(t *testing.T) {
	all := bytes.Join(corpus, nil)
	rng := rand.New(rand.NewSource(2))

	input := stream.NewThrough()
	p := ansi.NewParser(input)
	var out bytes.Buffer
	p.OnSegment(func(s ansi.Segment) {
		out.Write(s.Bytes)
	})
	for _, chunk := range split(all, rng) {
		input.Write(chunk)
	}

	// the corpus ends on a lone ESC
	require.Equal(t, 1, p.Buffered())
	assert.Equal(t, all[:len(all)-1], out.Bytes())
}

func FuzzReconstruction(f *testing.F) {
	for _, seed := range corpus {
		f.Add(seed, uint8(3))
	}
	f.Fuzz(func(t *testing.T, raw []byte, step uint8) {
		size := int(step%16) + 1
		var chunks [][]byte
		for i := 0; i < len(raw); i += size {
			chunks = append(chunks, raw[i:min(i+size, len(raw))])
		}

		input := stream.NewThrough()
		p := ansi.NewParser(input)
		var out bytes.Buffer
		p.OnSegment(func(s ansi.Segment) {
			if len(s.Bytes) == 0 {
				t.Fatalf("empty %s segment", s.Kind)
			}
			out.Write(s.Bytes)
		})
		for _, chunk := range chunks {
			input.Write(chunk)
		}

		emitted := out.Bytes()
		if !bytes.HasPrefix(raw, emitted) {
			t.Fatalf("emitted bytes are not a prefix of the input")
		}
		if len(raw)-len(emitted) != p.Buffered() {
			t.Fatalf("buffered %d, want %d", p.Buffered(), len(raw)-len(emitted))
		}
	})
}
