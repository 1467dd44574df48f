package editor

import (
	"errors"
	"fmt"

	"github.com/zjrosen/sled/internal/key"
	"github.com/zjrosen/sled/internal/linebuf"
)

// ============================================================================
// Motion Commands
// ============================================================================

// MoveLeftCommand moves the cursor one byte left, stopping at column 0.
type MoveLeftCommand struct{}

func (c *MoveLeftCommand) Execute(m *Machine) (Result, error) {
	m.markEdited()
	if m.cursor == 0 {
		return Skipped, nil
	}
	m.cursor--
	return Executed, nil
}

func (c *MoveLeftCommand) Keys() []key.Key { return []key.Key{key.KeyLeft} }
func (c *MoveLeftCommand) ID() string      { return "move.left" }

// MoveRightCommand moves the cursor one byte right, stopping at end of line.
type MoveRightCommand struct{}

func (c *MoveRightCommand) Execute(m *Machine) (Result, error) {
	m.markEdited()
	if m.cursor == m.buf.Len() {
		return Skipped, nil
	}
	m.cursor++
	return Executed, nil
}

func (c *MoveRightCommand) Keys() []key.Key { return []key.Key{key.KeyRight} }
func (c *MoveRightCommand) ID() string      { return "move.right" }

// NextLineCommand replaces the line with the next input line. It only acts in
// Navigation mode; once the input is exhausted the machine switches to Append.
type NextLineCommand struct{}

func (c *NextLineCommand) Execute(m *Machine) (Result, error) {
	if m.Mode() != ModeNavigation || m.source == nil {
		return Skipped, nil
	}

	ok, err := m.source.Next(m.buf)
	if err != nil {
		return Skipped, fmt.Errorf("fetching next line: %w", err)
	}
	if !ok {
		m.appending = true
		return Executed, nil
	}
	m.cursor = 0
	m.lines++
	return Executed, nil
}

func (c *NextLineCommand) Keys() []key.Key { return []key.Key{key.KeyDown} }
func (c *NextLineCommand) ID() string      { return "navigate.down" }

// ============================================================================
// Delete Commands
// ============================================================================

// BackspaceCommand removes the byte before the cursor.
type BackspaceCommand struct{}

func (c *BackspaceCommand) Execute(m *Machine) (Result, error) {
	m.markEdited()
	if m.cursor == 0 {
		return Skipped, nil
	}
	m.cursor--
	if err := m.buf.Remove(m.cursor); err != nil {
		return Skipped, err
	}
	return Executed, nil
}

func (c *BackspaceCommand) Keys() []key.Key { return []key.Key{key.KeyBackspace} }
func (c *BackspaceCommand) ID() string      { return "delete.backward" }

// DeleteCommand removes the byte under the cursor. The cursor stays put.
type DeleteCommand struct{}

func (c *DeleteCommand) Execute(m *Machine) (Result, error) {
	m.markEdited()
	if m.cursor == m.buf.Len() {
		return Skipped, nil
	}
	if err := m.buf.Remove(m.cursor); err != nil {
		return Skipped, err
	}
	return Executed, nil
}

func (c *DeleteCommand) Keys() []key.Key { return []key.Key{key.KeyDelete} }
func (c *DeleteCommand) ID() string      { return "delete.forward" }

// ============================================================================
// Insert Commands
// ============================================================================

// InsertCharCommand inserts one byte at the cursor and advances it.
// It is built per key press rather than looked up in the registry.
type InsertCharCommand struct {
	char byte
}

func (c *InsertCharCommand) Execute(m *Machine) (Result, error) {
	err := m.buf.Insert(c.char, m.cursor)
	// A refused insert is not an edit: the mode stays where it was.
	if errors.Is(err, linebuf.ErrCapacityExceeded) {
		return Skipped, nil
	}
	if err != nil {
		return Skipped, err
	}
	m.markEdited()
	m.cursor++
	return Executed, nil
}

func (c *InsertCharCommand) Keys() []key.Key { return []key.Key{key.KeyChar} }
func (c *InsertCharCommand) ID() string      { return "insert.char" }

// ============================================================================
// Loop Control Commands
// ============================================================================

// SubmitCommand accepts the line as final.
type SubmitCommand struct{}

func (c *SubmitCommand) Execute(*Machine) (Result, error) { return Executed, nil }
func (c *SubmitCommand) Keys() []key.Key                  { return []key.Key{key.KeyEnter} }
func (c *SubmitCommand) ID() string                       { return "session.submit" }
func (c *SubmitCommand) Outcome() Outcome                 { return Submit }

// CancelCommand abandons the session without output.
type CancelCommand struct{}

func (c *CancelCommand) Execute(*Machine) (Result, error) { return Executed, nil }
func (c *CancelCommand) Keys() []key.Key                  { return []key.Key{key.KeyEscape} }
func (c *CancelCommand) ID() string                       { return "session.cancel" }
func (c *CancelCommand) Outcome() Outcome                 { return Cancel }
