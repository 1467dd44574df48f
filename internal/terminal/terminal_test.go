package terminal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestCbreak(t *testing.T) {
	var original unix.Termios
	original.Lflag = unix.ICANON | unix.ECHO | unix.ISIG
	original.Iflag = unix.ICRNL
	original.Cc[unix.VMIN] = 4
	original.Cc[unix.VTIME] = 7

	raw := cbreak(original)

	require.Zero(t, raw.Lflag&unix.ICANON, "canonical mode cleared")
	require.Zero(t, raw.Lflag&unix.ECHO, "echo cleared")
	require.NotZero(t, raw.Lflag&unix.ISIG, "signals kept")
	require.NotZero(t, raw.Iflag&unix.ICRNL, "CR to NL translation kept")
	require.EqualValues(t, 1, raw.Cc[unix.VMIN])
	require.EqualValues(t, 0, raw.Cc[unix.VTIME])
	require.NotZero(t, original.Lflag&unix.ICANON, "input settings untouched")
}

func TestPoll(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})

	ready, err := poll(int(r.Fd()), 10*time.Millisecond)
	require.NoError(t, err)
	require.False(t, ready, "empty pipe times out")

	_, err = w.Write([]byte("x"))
	require.NoError(t, err)

	ready, err = poll(int(r.Fd()), time.Second)
	require.NoError(t, err)
	require.True(t, ready)
}

func TestPoll_HangUpIsReadable(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	require.NoError(t, w.Close())

	ready, err := poll(int(r.Fd()), time.Second)
	require.NoError(t, err)
	require.True(t, ready)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, ErrOpen)
}

func TestOpen_NotATerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))

	_, err := Open(path)
	require.ErrorIs(t, err, ErrNotTerminal)
}

func TestRestore_WithoutRaw(t *testing.T) {
	tty := &TTY{fd: -1}
	require.NoError(t, tty.Restore())
}
