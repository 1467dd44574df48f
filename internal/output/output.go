// Package output delivers the final line to standard output and the
// destination file.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zjrosen/sled/internal/log"
)

// ErrOpenDestination indicates the destination file could not be opened.
var ErrOpenDestination = errors.New("cannot open destination file")

// Options selects where the final line goes. It is fixed before editing
// starts.
type Options struct {
	Print         bool   // write to stdout
	NoNewline     bool   // no trailing newline on stdout
	NoFileNewline bool   // no trailing newline in the file
	Append        bool   // append to File instead of truncating it
	File          string // destination file, empty for none
}

// Line is the session result handed to Write.
type Line struct {
	Text      string
	Cancelled bool
	Append    bool // the input was exhausted by navigation
}

// Write emits line to stdout and the destination file as configured.
// A cancelled line is never written.
//
// The file is appended to when either the Append option or the line's own
// append signal is set.
func Write(stdout io.Writer, line Line, opts Options) error {
	if line.Cancelled {
		log.Debug(log.CatOutput, "Session cancelled, nothing written")
		return nil
	}

	if opts.Print {
		if err := writeLine(stdout, line.Text, !opts.NoNewline); err != nil {
			return fmt.Errorf("writing stdout: %w", err)
		}
		log.Debug(log.CatOutput, "Wrote stdout", "bytes", len(line.Text), "newline", !opts.NoNewline)
	}

	if opts.File != "" {
		appendMode := opts.Append || line.Append
		if err := writeFile(opts.File, line.Text, appendMode, !opts.NoFileNewline); err != nil {
			return err
		}
		log.Debug(log.CatOutput, "Wrote destination file", "path", opts.File, "append", appendMode)
	}
	return nil
}

func writeFile(path, text string, appendMode, newline bool) error {
	flag := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flag |= os.O_APPEND
	} else {
		flag |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		log.ErrorErr(log.CatOutput, "Failed to open destination", err, "path", path)
		return fmt.Errorf("%w %s: %w", ErrOpenDestination, path, err)
	}

	writeErr := writeLine(f, text, newline)
	closeErr := f.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeLine(w io.Writer, text string, newline bool) error {
	if newline {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}
