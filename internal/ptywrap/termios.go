//go:build linux || darwin

package ptywrap

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// getTermios returns a copy of fd's terminal attributes, or nil when fd is
// not a terminal that supports them.
func getTermios(fd int) (*unix.Termios, error) {
	t, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	switch {
	case errors.Is(err, unix.ENOTTY), errors.Is(err, syscall.EOPNOTSUPP):
		return nil, nil
	case err != nil:
		return nil, err
	}
	attrs := *t
	return &attrs, nil
}

func setTermios(fd int, t *unix.Termios) error {
	if t == nil {
		return nil
	}
	return unix.IoctlSetTermios(fd, ioctlSetTermios, t)
}
