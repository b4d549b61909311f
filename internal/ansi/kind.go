package ansi

import "fmt"

// Kind identifies the class of a classified segment.
type Kind int

const (
	KindData Kind = iota
	KindC0
	KindC1
	KindCSI
	KindOSC
	KindAPC
	KindDPS
	KindPM
)

const (
	esc = 0x1b
	bel = 0x07
	del = 0x7f
)

var kindNames = [...]string{
	KindData: "data",
	KindC0:   "c0",
	KindC1:   "c1",
	KindCSI:  "csi",
	KindOSC:  "osc",
	KindAPC:  "apc",
	KindDPS:  "dps",
	KindPM:   "pm",
}

// Kinds lists every segment kind in declaration order.
var Kinds = []Kind{KindData, KindC0, KindC1, KindCSI, KindOSC, KindAPC, KindDPS, KindPM}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps an event name such as "csi" back to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown segment kind %q", name)
}

// introducers maps the byte following ESC to the sequence it opens.
// Only 7-bit forms are recognized. Anything missing here is emitted as a
// two byte C1 code without further scanning.
var introducers = map[byte]Kind{
	'[': KindCSI,
	']': KindOSC,
	'_': KindAPC,
	'P': KindDPS,
	'^': KindPM,
}

// Segment holds a classified byte sequence exactly as it appeared in the stream.
type Segment struct {
	Kind  Kind
	Bytes []byte
}

func isControl(b byte) bool {
	return b < 0x20 || b == del
}
