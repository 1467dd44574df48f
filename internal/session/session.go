// Package session runs one sled editing session: it loads the first input
// line, runs the interactive loop on the terminal unless bypassed, and
// returns the final line for output.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/sled/internal/editor"
	"github.com/zjrosen/sled/internal/flags"
	"github.com/zjrosen/sled/internal/key"
	"github.com/zjrosen/sled/internal/linebuf"
	"github.com/zjrosen/sled/internal/log"
	"github.com/zjrosen/sled/internal/output"
	"github.com/zjrosen/sled/internal/render"
	"github.com/zjrosen/sled/internal/terminal"
)

// ErrEmptyInput indicates the input had no line to edit.
var ErrEmptyInput = errors.New("empty input")

// pollInterval bounds how long a key wait blocks before checking the context.
const pollInterval = 100 * time.Millisecond

// Terminal is the device the session edits on.
type Terminal interface {
	io.ReadWriter
	Poll(timeout time.Duration) (bool, error)
	EnableRaw() error
	Restore() error
	Close() error
}

// OpenControllingTerminal opens the process's controlling terminal.
func OpenControllingTerminal() (Terminal, error) {
	tty, err := terminal.Open(terminal.DevicePath)
	if err != nil {
		return nil, err
	}
	return tty, nil
}

// Options configures a session.
type Options struct {
	Input io.Reader
	// OpenTerminal defaults to OpenControllingTerminal.
	OpenTerminal  func() (Terminal, error)
	Capacity      int
	TabWidth      int
	EscapeTimeout time.Duration
	Color         bool
	Bypass        bool
	Flags         *flags.Registry
}

// Result is the outcome of a session.
type Result struct {
	Text      string
	Cancelled bool // Escape was pressed
	Append    bool // navigation ran past the last input line
	Edited    bool
}

// Line converts the result for the output stage.
func (r Result) Line() output.Line {
	return output.Line{Text: r.Text, Cancelled: r.Cancelled, Append: r.Append}
}

// Run executes a session. The terminal is only opened when the session is
// interactive, and its settings are restored before Run returns.
func Run(ctx context.Context, opts Options) (Result, error) {
	buf := linebuf.New(opts.Capacity)
	src := linebuf.NewSource(opts.Input)

	ok, err := src.Next(buf)
	if err != nil {
		return Result{}, fmt.Errorf("reading input: %w", err)
	}
	if !ok {
		return Result{}, ErrEmptyInput
	}

	if opts.Bypass {
		log.Debug(log.CatSession, "Bypass enabled, skipping editor", "bytes", buf.Len())
		return Result{Text: buf.String()}, nil
	}
	return interactive(ctx, opts, buf, src)
}

func interactive(ctx context.Context, opts Options, buf *linebuf.Buffer, src *linebuf.Source) (res Result, err error) {
	id := uuid.NewString()
	initial := buf.String()

	open := opts.OpenTerminal
	if open == nil {
		open = OpenControllingTerminal
	}
	tty, err := open()
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if closeErr := tty.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if err := tty.EnableRaw(); err != nil {
		return Result{}, err
	}
	log.Info(log.CatSession, "Session started", "session", id, "capacity", buf.Cap())

	renderer := render.New(opts.TabWidth, render.WithColor(opts.Color), render.WithOutput(tty))
	defer finish(tty, renderer, opts.Flags.Enabled(flags.FlagClearOnExit))

	m := editor.New(buf, editor.WithSource(src), editor.WithDrawer(renderer, tty))
	if err := m.Redraw(); err != nil {
		return Result{}, err
	}

	dec := key.NewDecoder(
		&contextSource{ctx: ctx, src: tty},
		opts.EscapeTimeout,
		key.WithDelete(opts.Flags.Enabled(flags.FlagForwardDelete)),
	)

	for {
		ev, err := dec.Next()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				log.Info(log.CatSession, "Session interrupted", "session", id)
				return Result{Cancelled: true}, fmt.Errorf("session interrupted: %w", ctxErr)
			}
			return Result{}, fmt.Errorf("reading key: %w", err)
		}

		outcome, err := m.Handle(ev)
		if err != nil {
			return Result{}, err
		}
		if outcome == editor.Continue {
			continue
		}

		res = Result{
			Text:      m.Text(),
			Cancelled: outcome == editor.Cancel,
			Append:    m.Appending(),
			Edited:    m.Edited(),
		}
		logSummary(id, outcome, initial, res.Text, m.LinesSkipped())
		return res, nil
	}
}

// finish leaves the terminal ready for the shell prompt: the edit line is
// either erased or ended with a newline.
func finish(w io.Writer, r *render.Renderer, erase bool) {
	var err error
	if erase {
		err = r.Clear(w)
	} else {
		_, err = io.WriteString(w, "\r\n")
	}
	if err != nil {
		log.ErrorErr(log.CatSession, "Failed to finish edit line", err)
	}
}

func logSummary(id string, outcome editor.Outcome, initial, final string, skipped int) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(initial, final, false)
	log.Info(log.CatSession, "Session finished",
		"session", id,
		"outcome", outcome,
		"lines_skipped", skipped,
		"distance", dmp.DiffLevenshtein(diffs),
		"delta", dmp.DiffToDelta(diffs))
}

// contextSource makes key waits observe context cancellation. Reads wait in
// poll intervals so a signal can end the session while no key is pressed.
type contextSource struct {
	ctx context.Context
	src key.Source
}

func (s *contextSource) Read(p []byte) (int, error) {
	for {
		if err := s.ctx.Err(); err != nil {
			return 0, err
		}
		ready, err := s.src.Poll(pollInterval)
		if err != nil {
			return 0, err
		}
		if ready {
			return s.src.Read(p)
		}
	}
}

func (s *contextSource) Poll(timeout time.Duration) (bool, error) {
	if err := s.ctx.Err(); err != nil {
		return false, err
	}
	return s.src.Poll(timeout)
}
