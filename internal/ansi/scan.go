package ansi

import "bytes"

var stringTerminator = []byte{esc, '\\'}

// next classifies the segment at the head of buf. It returns ok=false when
// buf is empty or starts with a sequence whose end has not arrived yet; the
// caller keeps the bytes and waits for more input.
func next(buf []byte) (kind Kind, n int, ok bool) {
	if len(buf) == 0 {
		return 0, 0, false
	}
	i := indexControl(buf)
	switch {
	case i < 0:
		return KindData, len(buf), true
	case i > 0:
		return KindData, i, true
	}

	if buf[0] != esc {
		return KindC0, 1, true
	}
	if len(buf) < 2 {
		// type byte not here yet
		return 0, 0, false
	}
	kind, known := introducers[buf[1]]
	if !known {
		return KindC1, 2, true
	}
	if kind == KindCSI {
		n = csiEnd(buf)
	} else {
		n = stringEnd(buf, kind == KindOSC)
	}
	if n < 0 {
		return 0, 0, false
	}
	return kind, n, true
}

func indexControl(buf []byte) int {
	for i, b := range buf {
		if isControl(b) {
			return i
		}
	}
	return -1
}

// csiEnd returns the length of the CSI sequence through its final byte
// (0x40-0x7E), or -1 if the final byte has not arrived.
func csiEnd(buf []byte) int {
	for i := 2; i < len(buf); i++ {
		if buf[i] >= 0x40 && buf[i] <= 0x7e {
			return i + 1
		}
	}
	return -1
}

// stringEnd returns the length of a string-type sequence through its
// terminator, or -1 if none is buffered. ST always terminates; BEL only
// when allowBEL is set (OSC). The earliest terminator wins.
func stringEnd(buf []byte, allowBEL bool) int {
	st := bytes.Index(buf, stringTerminator)
	bl := -1
	if allowBEL {
		bl = bytes.IndexByte(buf, bel)
	}
	if st >= 0 && (bl < 0 || st < bl) {
		return st + len(stringTerminator)
	}
	if bl >= 0 {
		return bl + 1
	}
	return -1
}
