// Package key turns the raw byte stream of a terminal into logical key events.
//
// The decoder understands exactly the keys the line editor reacts to:
// printable ASCII and tab, Enter, Backspace, Escape, the Left/Right/Down arrow
// sequences and the forward Delete sequence. Everything else decodes to
// KeyUnrecognized, which callers treat as a no-op.
package key

import "fmt"

// Key identifies a logical key.
type Key uint8

const (
	// KeyUnrecognized is any input the editor does not react to.
	KeyUnrecognized Key = iota

	// KeyChar is a printable character or tab; the byte is in Event.Char.
	KeyChar

	KeyEnter
	KeyBackspace
	KeyDelete
	KeyEscape

	// Arrow keys
	KeyLeft
	KeyRight
	KeyDown
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyUnrecognized:
		return "Unrecognized"
	case KeyChar:
		return "Char"
	case KeyEnter:
		return "Enter"
	case KeyBackspace:
		return "Backspace"
	case KeyDelete:
		return "Delete"
	case KeyEscape:
		return "Escape"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyDown:
		return "Down"
	default:
		return fmt.Sprintf("Key(%d)", k)
	}
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyLeft && k <= KeyDown
}

// Event is a single decoded key press.
type Event struct {
	Key Key

	// Char is the byte for KeyChar events.
	Char byte
}

// Char returns the event for a printable byte or tab.
func Char(c byte) Event {
	return Event{Key: KeyChar, Char: c}
}

// Special returns the event for a non-character key.
func Special(k Key) Event {
	return Event{Key: k}
}

// Unrecognized is the event for input the editor ignores.
var Unrecognized = Event{Key: KeyUnrecognized}

// IsChar returns true if this event carries a character.
func (e Event) IsChar() bool {
	return e.Key == KeyChar
}

// String returns a canonical string representation.
// Examples: "a", "Tab", "Space", "Enter", "Left".
func (e Event) String() string {
	if e.Key != KeyChar {
		return e.Key.String()
	}
	switch e.Char {
	case '\t':
		return "Tab"
	case ' ':
		return "Space"
	default:
		return string(rune(e.Char))
	}
}
