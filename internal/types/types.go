package types

// Mode selects what the filter does with classified segments.
type Mode string

const (
	ModePassthrough Mode = "passthrough"
	ModeStrip       Mode = "strip"
	ModeInspect     Mode = "inspect"
	ModeRecolor     Mode = "recolor"
)

// Modes lists every supported mode.
var Modes = []Mode{ModePassthrough, ModeStrip, ModeInspect, ModeRecolor}

// C0Name is the mnemonic of a single-byte control code, e.g. "lf".
type C0Name string

// c0Names follows the ECMA-48 mnemonics, lower-cased.
var c0Names = [0x20]C0Name{
	"nul", "soh", "stx", "etx", "eot", "enq", "ack", "bel",
	"bs", "ht", "lf", "vt", "ff", "cr", "so", "si",
	"dle", "dc1", "dc2", "dc3", "dc4", "nak", "syn", "etb",
	"can", "em", "sub", "esc", "fs", "gs", "rs", "us",
}

// C0NameOf returns the mnemonic for b, or "" if b is not a C0 code or DEL.
func C0NameOf(b byte) C0Name {
	if b == 0x7f {
		return "del"
	}
	if b < 0x20 {
		return c0Names[b]
	}
	return ""
}

// C0Byte returns the byte for a mnemonic.
func C0Byte(name C0Name) (byte, bool) {
	if name == "del" {
		return 0x7f, true
	}
	for i, n := range c0Names {
		if n == name {
			return byte(i), true
		}
	}
	return 0, false
}
