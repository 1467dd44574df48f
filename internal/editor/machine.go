package editor

import (
	"io"

	"github.com/zjrosen/sled/internal/key"
	"github.com/zjrosen/sled/internal/linebuf"
	"github.com/zjrosen/sled/internal/log"
)

// LineSource supplies further input lines for ArrowDown navigation.
// Next loads the next line into buf and reports false at end of input,
// leaving buf untouched.
type LineSource interface {
	Next(buf *linebuf.Buffer) (bool, error)
}

// Drawer redraws the line after each event.
type Drawer interface {
	Draw(w io.Writer, mode Mode, line []byte, cursor int) error
}

// Option configures a Machine.
type Option func(*Machine)

// WithSource sets where ArrowDown fetches further lines from.
func WithSource(src LineSource) Option {
	return func(m *Machine) {
		m.source = src
	}
}

// WithDrawer redraws the line on w after every non-terminating event.
func WithDrawer(d Drawer, w io.Writer) Option {
	return func(m *Machine) {
		m.drawer = d
		m.out = w
	}
}

// WithRegistry replaces the default key bindings.
func WithRegistry(r *Registry) Option {
	return func(m *Machine) {
		m.registry = r
	}
}

// Machine holds the editing state for one line.
//
// The mode is never stored. It is derived from two facts: whether the user
// has edited the line and whether the input has been exhausted by navigation.
type Machine struct {
	buf    *linebuf.Buffer
	cursor int

	edited    bool
	appending bool
	lines     int // input lines loaded by navigation

	source   LineSource
	registry *Registry
	drawer   Drawer
	out      io.Writer
}

// New creates a machine editing buf, starting in Navigation mode at column 0.
func New(buf *linebuf.Buffer, opts ...Option) *Machine {
	m := &Machine{
		buf:      buf,
		registry: DefaultRegistry,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mode returns the effective editing mode.
func (m *Machine) Mode() Mode {
	switch {
	case m.appending:
		return ModeAppend
	case m.edited:
		return ModeEdit
	default:
		return ModeNavigation
	}
}

// Cursor returns the cursor index, always within [0, Len()].
func (m *Machine) Cursor() int {
	return m.cursor
}

// Line returns a copy of the current line.
func (m *Machine) Line() []byte {
	return m.buf.Bytes()
}

// Text returns the current line as a string.
func (m *Machine) Text() string {
	return m.buf.String()
}

// Edited reports whether the line was edited.
func (m *Machine) Edited() bool {
	return m.edited
}

// Appending reports whether navigation ran past the last input line, which
// turns on append semantics for the destination file.
func (m *Machine) Appending() bool {
	return m.appending
}

// LinesSkipped returns how many lines ArrowDown has moved past.
func (m *Machine) LinesSkipped() int {
	return m.lines
}

func (m *Machine) markEdited() {
	m.edited = true
}

// Handle applies one key event and redraws the line unless the event ends
// the loop. Unrecognized and unbound keys are no-ops.
func (m *Machine) Handle(ev key.Event) (Outcome, error) {
	previous := m.Mode()

	var cmd Command
	if ev.IsChar() {
		cmd = &InsertCharCommand{char: ev.Char}
	} else if bound, ok := m.registry.Get(ev.Key); ok {
		cmd = bound
	}

	if cmd != nil {
		result, err := cmd.Execute(m)
		if err != nil {
			log.ErrorErr(log.CatEdit, "Command failed", err, "command", cmd.ID())
			return Continue, err
		}
		log.Debug(log.CatEdit, "Command executed", "command", cmd.ID(), "result", result, "cursor", m.cursor)

		if t, ok := cmd.(Terminator); ok {
			return t.Outcome(), nil
		}
	}

	if mode := m.Mode(); mode != previous {
		log.Debug(log.CatEdit, "Mode changed", "from", previous, "to", mode)
	}

	return Continue, m.Redraw()
}

// Redraw draws the current state if a drawer is configured.
func (m *Machine) Redraw() error {
	if m.drawer == nil {
		return nil
	}
	return m.drawer.Draw(m.out, m.Mode(), m.buf.Bytes(), m.cursor)
}
