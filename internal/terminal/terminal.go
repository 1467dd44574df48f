// Package terminal owns the controlling terminal used for editing.
//
// Keys are read from and frames written to the terminal device directly, so
// standard input and output stay free for the text being edited. Raw mode here
// means non-canonical input without echo: signal generation and CR-to-NL
// translation are left on, so Enter arrives as '\n' and Ctrl+C still
// interrupts.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/zjrosen/sled/internal/log"
)

// DevicePath is the controlling terminal.
const DevicePath = "/dev/tty"

var (
	// ErrNotTerminal indicates the file is not a terminal.
	ErrNotTerminal = errors.New("not a terminal")

	// ErrOpen indicates the terminal device could not be opened.
	ErrOpen = errors.New("cannot open terminal")
)

// TTY is an open terminal device.
type TTY struct {
	f     *os.File
	fd    int
	saved *unix.Termios
}

// Open opens the terminal device at path for reading and writing.
func Open(path string) (*TTY, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	t, err := New(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return t, nil
}

// New wraps an already open terminal file.
func New(f *os.File) (*TTY, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s: %w", f.Name(), ErrNotTerminal)
	}
	return &TTY{f: f, fd: fd}, nil
}

// Fd returns the terminal's file descriptor.
func (t *TTY) Fd() uintptr {
	return uintptr(t.fd)
}

// Read reads raw input bytes.
func (t *TTY) Read(p []byte) (int, error) {
	return t.f.Read(p)
}

// Write writes to the terminal.
func (t *TTY) Write(p []byte) (int, error) {
	return t.f.Write(p)
}

// Poll waits up to timeout for input to become readable.
func (t *TTY) Poll(timeout time.Duration) (bool, error) {
	return poll(t.fd, timeout)
}

// EnableRaw switches the terminal to non-canonical no-echo mode and keeps
// the previous settings for Restore. Calling it twice is a no-op.
func (t *TTY) EnableRaw() error {
	if t.saved != nil {
		return nil
	}
	original, err := unix.IoctlGetTermios(t.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("reading terminal settings: %w", err)
	}
	raw := cbreak(*original)
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &raw); err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	t.saved = original
	log.Debug(log.CatTerm, "Raw mode enabled", "fd", t.fd)
	return nil
}

// Restore reapplies the settings saved by EnableRaw.
// It is safe to call on every exit path, including when raw mode was never
// enabled.
func (t *TTY) Restore() error {
	if t.saved == nil {
		return nil
	}
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, t.saved); err != nil {
		log.ErrorErr(log.CatTerm, "Restore failed", err, "fd", t.fd)
		return fmt.Errorf("restoring terminal settings: %w", err)
	}
	t.saved = nil
	log.Debug(log.CatTerm, "Terminal restored", "fd", t.fd)
	return nil
}

// Close restores the terminal and closes the device.
func (t *TTY) Close() error {
	restoreErr := t.Restore()
	closeErr := t.f.Close()
	return errors.Join(restoreErr, closeErr)
}

// cbreak returns settings with line buffering and echo turned off.
// Reads block until at least one byte is available.
func cbreak(t unix.Termios) unix.Termios {
	t.Lflag &^= unix.ICANON | unix.ECHO
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	return t
}

// poll reports whether fd becomes readable within timeout.
// A hang-up counts as readable so the following read observes end of file.
func poll(fd int, timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	deadline := time.Now().Add(timeout)
	for {
		ms := int(time.Until(deadline).Milliseconds())
		if ms < 0 {
			ms = 0
		}
		n, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("polling terminal: %w", err)
		}
		return n > 0 && fds[0].Revents&(unix.POLLIN|unix.POLLHUP) != 0, nil
	}
}
