package ptywrap

import (
	"fmt"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// MakeCbreak turns off line buffering and echo on fd so every keypress is
// readable at once. Signal keys and output processing keep working. The
// returned restore func is never nil.
func MakeCbreak(fd int) (func(), error) {
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	old, err := getTermios(fd)
	if err != nil {
		return func() {}, fmt.Errorf("read termios: %w", err)
	}
	if old == nil {
		return func() {}, nil
	}
	cbreak := *old
	cbreak.Lflag &^= unix.ICANON | unix.ECHO
	cbreak.Cc[unix.VMIN] = 1
	cbreak.Cc[unix.VTIME] = 0
	if err := setTermios(fd, &cbreak); err != nil {
		return func() {}, fmt.Errorf("set cbreak mode: %w", err)
	}
	return func() { _ = setTermios(fd, old) }, nil
}
