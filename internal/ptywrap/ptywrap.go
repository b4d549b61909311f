package ptywrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/suryansh-23/ttycodes/internal/debug"
)

// Options controls PTY execution behavior.
type Options struct {
	RawMode bool
	// Output receives the child's terminal output. It is closed, when it
	// implements io.Closer, after the child exits.
	Output io.Writer
	// Input defaults to os.Stdin.
	Input  io.Reader
	Logger *debug.Logger
}

// RunCommand starts cmd under a PTY and proxies IO. The returned code is
// the child's exit status, or 128+signal when it was killed.
func RunCommand(ctx context.Context, cmd *exec.Cmd, opts Options) (int, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return 1, fmt.Errorf("start pty: %w", err)
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	in := opts.Input
	if in == nil {
		in = os.Stdin
	}

	restore := func() {}
	if opts.RawMode {
		restore, err = MaybeMakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			_ = ptmx.Close()
			return 1, err
		}
	}
	defer restore()

	if err := pty.InheritSize(os.Stdin, ptmx); err != nil && opts.Logger.Enabled() {
		opts.Logger.Infof("ptywrap: inherit size: %v", err)
	}
	stopSignals := forwardSignals(cmd.Process, ptmx)
	defer stopSignals()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		// Fails harmlessly once the child has been reaped.
		_ = cmd.Process.Signal(syscall.SIGHUP)
	}()

	errCh := make(chan error, 1)
	go func() { _, _ = io.Copy(ptmx, in) }()
	go copyWithContext(ctx, out, ptmx, errCh)

	waitErr := cmd.Wait()
	// The child's output may still be in the PTY buffer; let the copier
	// finish before closing the master.
	copyErr := <-errCh
	cancel()
	_ = ptmx.Close()
	closeErr := closeOutput(out)
	if opts.Logger.Enabled() {
		opts.Logger.Infof("ptywrap: exit=%v copy=%v close=%v", waitErr, copyErr, closeErr)
	}

	if waitErr == nil {
		return 0, closeErr
	}
	return exitCode(waitErr), closeErr
}

func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader, errCh chan<- error) {
	_, err := io.Copy(dst, src)
	// Linux reports EIO once the slave side is gone.
	if errors.Is(err, syscall.EIO) {
		err = nil
	}
	select {
	case errCh <- err:
	case <-ctx.Done():
	}
}

func closeOutput(out io.Writer) error {
	if closer, ok := out.(io.Closer); ok && out != io.Writer(os.Stdout) {
		return closer.Close()
	}
	return nil
}

// MaybeMakeRaw puts fd into raw mode when it is a terminal. The returned
// restore func is never nil.
func MaybeMakeRaw(fd int) (func(), error) {
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}, fmt.Errorf("set raw mode: %w", err)
	}
	return func() { _ = term.Restore(fd, state) }, nil
}

// TerminalWidth returns the width of fd, or 0 when it is not a terminal.
func TerminalWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

func forwardSignals(proc *os.Process, ptmx *os.File) func() {
	if proc == nil {
		return func() {}
	}
	ch := make(chan os.Signal, 8)
	signal.Notify(ch, syscall.SIGWINCH, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for sig := range ch {
			switch sig {
			case syscall.SIGWINCH:
				_ = pty.InheritSize(os.Stdin, ptmx)
			default:
				_ = proc.Signal(sig)
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(ch)
		<-done
	}
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
	}
	return 1
}
