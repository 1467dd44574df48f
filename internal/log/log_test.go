package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// useBuffer swaps the global logger for one writing to a buffer.
func useBuffer(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := defaultLogger
	defaultLogger = &Logger{writer: &buf, enabled: true, minLevel: LevelDebug}
	t.Cleanup(func() { defaultLogger = prev })
	return &buf
}

func TestLog_Format(t *testing.T) {
	buf := useBuffer(t)

	Info(CatEdit, "Mode changed", "from", "N", "to", "E")

	require.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2} \[INFO\] \[edit\] Mode changed from=N to=E\n$`, buf.String())
}

func TestLog_OddFields(t *testing.T) {
	buf := useBuffer(t)

	Debug(CatKey, "Decoded", "event")

	require.Contains(t, buf.String(), "event=<missing>")
}

func TestLog_MinLevel(t *testing.T) {
	buf := useBuffer(t)
	SetMinLevel(LevelWarn)

	Debug(CatRender, "dropped")
	Info(CatRender, "dropped")
	Warn(CatRender, "kept")

	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "[WARN] [render] kept")
}

func TestLog_Disabled(t *testing.T) {
	buf := useBuffer(t)
	SetEnabled(false)

	ErrorErr(CatTerm, "not written", nil)

	require.Empty(t, buf.String())
}

func TestLog_ErrorErr(t *testing.T) {
	buf := useBuffer(t)

	ErrorErr(CatOutput, "Write failed", errors.New("disk full"), "path", "/tmp/x")
	ErrorErr(CatOutput, "No error", nil)

	require.Contains(t, buf.String(), "Write failed path=/tmp/x error=disk full")
	require.Contains(t, buf.String(), "No error error=<nil>")
}

func TestLog_NilLoggerIsSafe(t *testing.T) {
	prev := defaultLogger
	defaultLogger = nil
	t.Cleanup(func() { defaultLogger = prev })

	require.NotPanics(t, func() {
		Info(CatSession, "nothing happens")
		SetEnabled(true)
		SetMinLevel(LevelDebug)
	})
}

func TestInitWithTeaLog(t *testing.T) {
	prev := defaultLogger
	t.Cleanup(func() { defaultLogger = prev })

	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := InitWithTeaLog(path, "sled")
	require.NoError(t, err)

	Info(CatSession, "Session started", "id", "abc")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [session] Session started id=abc")
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(9).String())
}
